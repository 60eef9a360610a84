// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509pkcs12

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// Role names used by [Credential.RenderTable] and [Credential.Summary].
const (
	RoleLeaf         = "Leaf"
	RoleIntermediate = "Intermediate"
	RoleRoot         = "Root"
)

// CertificateSummary describes one certificate of a credential.
type CertificateSummary struct {
	Index     int       `json:"index"`
	Role      string    `json:"role"`
	Subject   string    `json:"subject"`
	Issuer    string    `json:"issuer"`
	Serial    string    `json:"serialNumber"`
	KeyType   string    `json:"keyType"`
	NotBefore time.Time `json:"notBefore"`
	NotAfter  time.Time `json:"notAfter"`
	Expired   bool      `json:"expired"`
}

// Summary is the JSON shape of an inspected credential.
type Summary struct {
	PrivateKey   string               `json:"privateKey"`
	ChainLength  int                  `json:"chainLength"`
	Certificates []CertificateSummary `json:"certificates"`
}

// Summary describes the credential as seen at now.
func (c *Credential) Summary(now time.Time) Summary {
	certs := c.Certificates()
	s := Summary{
		PrivateKey:   privateKeyType(c.PrivateKey),
		ChainLength:  len(c.Chain),
		Certificates: make([]CertificateSummary, 0, len(certs)),
	}

	for i, cert := range certs {
		s.Certificates = append(s.Certificates, CertificateSummary{
			Index:     i + 1,
			Role:      role(i, cert),
			Subject:   cert.Subject.CommonName,
			Issuer:    cert.Issuer.CommonName,
			Serial:    cert.SerialNumber.String(),
			KeyType:   publicKeyType(cert.PublicKey),
			NotBefore: cert.NotBefore,
			NotAfter:  cert.NotAfter,
			Expired:   cert.NotAfter.Before(now.UTC()),
		})
	}
	return s
}

// JSON returns the indented JSON form of [Credential.Summary].
func (c *Credential) JSON(now time.Time) ([]byte, error) {
	return json.MarshalIndent(c.Summary(now), "", "  ")
}

// RenderTable renders the leaf and chain as a markdown table.
func (c *Credential) RenderTable(now time.Time) string {
	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	table.Header([]string{"#", "Role", "Subject", "Issuer", "Valid Until", "Key", "Status"})

	summary := c.Summary(now)
	rows := make([][]string, 0, len(summary.Certificates))
	for _, cs := range summary.Certificates {
		status := "valid"
		if cs.Expired {
			status = "expired"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", cs.Index),
			cs.Role,
			cs.Subject,
			cs.Issuer,
			cs.NotAfter.UTC().Format("2006-01-02"),
			cs.KeyType,
			status,
		})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}

func role(i int, cert *x509.Certificate) string {
	switch {
	case i == 0:
		return RoleLeaf
	case cert.Subject.String() == cert.Issuer.String():
		return RoleRoot
	default:
		return RoleIntermediate
	}
}

func publicKeyType(pub any) string {
	switch k := pub.(type) {
	case *rsa.PublicKey:
		return fmt.Sprintf("%d-bit RSA", k.Size()*8)
	case *ecdsa.PublicKey:
		return fmt.Sprintf("%d-bit ECDSA", k.Curve.Params().BitSize)
	case ed25519.PublicKey:
		return "Ed25519"
	default:
		return "unknown"
	}
}

func privateKeyType(key any) string {
	switch k := key.(type) {
	case *rsa.PrivateKey:
		return publicKeyType(&k.PublicKey)
	case *ecdsa.PrivateKey:
		return publicKeyType(&k.PublicKey)
	case ed25519.PrivateKey:
		return "Ed25519"
	default:
		return "unknown"
	}
}
