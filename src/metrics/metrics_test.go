// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package metrics_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/pkcs12-transport/src/metrics"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue next
				}
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return 0
}

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := metrics.NewPrometheus(reg)
	require.NoError(t, err)

	notAfter := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	p.BuildFinished("CN=client", notAfter, nil)
	p.BuildFinished("", time.Time{}, errors.New("expired"))
	p.PoolCreated("default")
	p.PoolCreated("off")
	p.PoolCreated("off")
	p.RequestFinished("off", nil)
	p.RequestFinished("default", errors.New("x509: unknown authority"))

	tests := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{"pkcs12_transport_builds_total", map[string]string{"result": metrics.ResultSuccess}, 1},
		{"pkcs12_transport_builds_total", map[string]string{"result": metrics.ResultFailure}, 1},
		{"pkcs12_transport_cert_expiry_timestamp_seconds", map[string]string{"subject": "CN=client"}, float64(notAfter.Unix())},
		{"pkcs12_transport_pools_total", map[string]string{"verification": "off"}, 2},
		{"pkcs12_transport_requests_total", map[string]string{"verification": "off", "result": metrics.ResultSuccess}, 1},
		{"pkcs12_transport_requests_total", map[string]string{"verification": "default", "result": metrics.ResultFailure}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, counterValue(t, reg, tt.name, tt.labels))
		})
	}

	var out strings.Builder
	require.NoError(t, p.WriteText(&out))
	assert.Contains(t, out.String(), "# TYPE pkcs12_transport_requests_total counter")
}

func TestPrometheusDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.NewPrometheus(reg)
	require.NoError(t, err)

	_, err = metrics.NewPrometheus(reg)
	assert.Error(t, err)
}

func TestPrometheusOwnRegistry(t *testing.T) {
	p, err := metrics.NewPrometheus(nil)
	require.NoError(t, err)

	p.RequestFinished("default", nil)
	var out strings.Builder
	require.NoError(t, p.WriteText(&out))
	assert.Contains(t, out.String(), `pkcs12_transport_requests_total{result="success",verification="default"} 1`)
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.Nop.BuildFinished("", time.Time{}, nil)
		metrics.Nop.PoolCreated("default")
		metrics.Nop.RequestFinished("default", nil)
	})
}
