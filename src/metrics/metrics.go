// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package metrics reports transport activity.
//
// [Recorder] is what the transport adapter talks to. [Nop] drops everything;
// [Prometheus] exports counters and an expiry gauge through a
// [prometheus.Registerer] chosen by the caller.
package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "pkcs12_transport"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Recorder receives transport events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// BuildFinished is called once per adapter construction attempt that
	// reached the credential. notAfter is zero when err is not nil.
	BuildFinished(subject string, notAfter time.Time, err error)
	// PoolCreated is called when a new connection pool is built.
	PoolCreated(verification string)
	// RequestFinished is called after every round trip.
	RequestFinished(verification string, err error)
}

// Nop is a [Recorder] that records nothing.
var Nop Recorder = nop{}

type nop struct{}

func (nop) BuildFinished(string, time.Time, error) {}
func (nop) PoolCreated(string)                     {}
func (nop) RequestFinished(string, error)          {}

// Prometheus is a [Recorder] backed by Prometheus collectors.
type Prometheus struct {
	builds   *prometheus.CounterVec
	expiry   *prometheus.GaugeVec
	pools    *prometheus.CounterVec
	requests *prometheus.CounterVec
	gatherer prometheus.Gatherer
}

// NewPrometheus registers the transport collectors with reg. A nil reg gets
// a fresh [prometheus.Registry], available through [Prometheus.WriteText].
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	p := &Prometheus{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Total number of client credential builds",
		}, []string{"result"}),
		expiry: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cert_expiry_timestamp_seconds",
			Help:      "Unix timestamp when the loaded client certificate expires",
		}, []string{"subject"}),
		pools: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pools_total",
			Help:      "Total number of connection pools created",
		}, []string{"verification"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of round trips",
		}, []string{"verification", "result"}),
	}

	for _, c := range []prometheus.Collector{p.builds, p.expiry, p.pools, p.requests} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	if g, ok := reg.(prometheus.Gatherer); ok {
		p.gatherer = g
	}
	return p, nil
}

// BuildFinished implements [Recorder].
func (p *Prometheus) BuildFinished(subject string, notAfter time.Time, err error) {
	p.builds.WithLabelValues(result(err)).Inc()
	if err == nil {
		p.expiry.WithLabelValues(subject).Set(float64(notAfter.Unix()))
	}
}

// PoolCreated implements [Recorder].
func (p *Prometheus) PoolCreated(verification string) {
	p.pools.WithLabelValues(verification).Inc()
}

// RequestFinished implements [Recorder].
func (p *Prometheus) RequestFinished(verification string, err error) {
	p.requests.WithLabelValues(verification, result(err)).Inc()
}

// WriteText writes every gathered metric family in the Prometheus text
// format. It writes nothing when the registerer is not also a gatherer.
func (p *Prometheus) WriteText(w io.Writer) error {
	if p.gatherer == nil {
		return nil
	}

	families, err := p.gatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
