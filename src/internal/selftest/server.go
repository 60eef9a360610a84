// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package selftest

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
)

// Server is a local HTTPS server that only accepts clients presenting a
// certificate from its trusted set. Every successful request is answered
// with 200 and the client's common name.
type Server struct {
	*httptest.Server

	// Identity is the server's own certificate, valid for 127.0.0.1 and localhost.
	Identity *Identity
}

// StartServer starts a [Server] trusting the given client certificates.
// The caller must call Close.
func StartServer(trusted ...*x509.Certificate) (*Server, error) {
	id, err := NewIdentity(Options{
		CommonName:  "localhost",
		ECDSA:       true,
		IsCA:        true,
		DNSNames:    []string{"localhost"},
		IPAddresses: []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
	})
	if err != nil {
		return nil, err
	}

	clients := x509.NewCertPool()
	for _, cert := range trusted {
		clients.AddCert(cert)
	}

	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cn := ""
		if r.TLS != nil && len(r.TLS.PeerCertificates) > 0 {
			cn = r.TLS.PeerCertificates[0].Subject.CommonName
		}
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "hello %s", cn)
	}))
	srv.TLS = &tls.Config{
		MinVersion: tls.VersionTLS12,
		Certificates: []tls.Certificate{{
			Certificate: [][]byte{id.Cert.Raw},
			PrivateKey:  id.Key,
			Leaf:        id.Cert,
		}},
		ClientAuth: tls.RequireAndVerifyClientCert,
		ClientCAs:  clients,
	}
	srv.StartTLS()

	return &Server{Server: srv, Identity: id}, nil
}
