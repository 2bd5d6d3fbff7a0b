// Package sslcert выпускает самоподписанные TLS сертификаты и проверяет PEM пары.
package sslcert

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"slices"
	"time"
)

const (
	// Organization организация в сертификатах, выпущенных этим пакетом.
	Organization = "linkshort"

	defaultValidity = 365 * 24 * time.Hour
	keyBits         = 2048
	serialBits      = 128
)

// Request параметры выпуска сертификата. Loopback адреса и localhost добавляются всегда.
type Request struct {
	Hosts        []string      // DNS имена и IP адреса сервиса.
	NotBefore    time.Time     // Нулевое значение - текущее время.
	Validity     time.Duration // 0 - один год.
	Organization string        // Пустое значение - Organization.
}

// Pair разобранная пара сертификат/ключ.
type Pair struct {
	Cert *x509.Certificate
	TLS  tls.Certificate
}

// Generate выпускает самоподписанный сертификат и приватный ключ к нему.
//
// Параметры:
//   - req: хосты и срок действия
//
// Возвращает:
//   - []byte: сертификат в PEM
//   - []byte: приватный ключ в PEM
//   - error: ошибка генерации ключа или подписи
func Generate(req Request) ([]byte, []byte, error) {
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), serialBits))
	if err != nil {
		return nil, nil, fmt.Errorf("generate serial number: %w", err)
	}
	notBefore := req.NotBefore
	if notBefore.IsZero() {
		notBefore = time.Now()
	}
	validity := req.Validity
	if validity == 0 {
		validity = defaultValidity
	}
	org := req.Organization
	if org == "" {
		org = Organization
	}

	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{Organization: []string{org}, CommonName: firstHost(req.Hosts)},
		NotBefore:             notBefore,
		NotAfter:              notBefore.Add(validity),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	addHosts(tmpl, append([]string{"localhost", "127.0.0.1", "::1"}, req.Hosts...))

	key, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return nil, nil, fmt.Errorf("generate private key: %w", err)
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, nil, fmt.Errorf("create certificate: %w", err)
	}

	var certPEM, keyPEM bytes.Buffer
	if err = pem.Encode(&certPEM, &pem.Block{Type: "CERTIFICATE", Bytes: der}); err != nil {
		return nil, nil, fmt.Errorf("pem encode certificate: %w", err)
	}
	if err = pem.Encode(&keyPEM, &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}); err != nil {
		return nil, nil, fmt.Errorf("pem encode private key: %w", err)
	}
	return certPEM.Bytes(), keyPEM.Bytes(), nil
}

// Parse разбирает PEM пару и проверяет срок действия сертификата на момент now.
//
// Возможные ошибки: ErrBlankPEM, ErrCertExpired, ErrCertNotValidYet,
// ошибка разбора или несовпадение ключа с сертификатом.
func Parse(certPEM, keyPEM []byte, now time.Time) (*Pair, error) {
	if len(bytes.TrimSpace(certPEM)) == 0 || len(bytes.TrimSpace(keyPEM)) == 0 {
		return nil, ErrBlankPEM
	}
	pair, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse key pair: %w", err)
	}
	cert, err := x509.ParseCertificate(pair.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("parse certificate: %w", err)
	}
	pair.Leaf = cert

	if cert.NotBefore.After(now) {
		return nil, ErrCertNotValidYet
	}
	if cert.NotAfter.Before(now) {
		return nil, ErrCertExpired
	}
	return &Pair{Cert: cert, TLS: pair}, nil
}

// Covers действителен ли сертификат для каждого из hosts.
func (p *Pair) Covers(hosts []string) bool {
	for _, h := range hosts {
		if p.Cert.VerifyHostname(h) != nil {
			return false
		}
	}
	return true
}

// SelfIssued выпущен ли сертификат этим пакетом.
func (p *Pair) SelfIssued() bool {
	return slices.Contains(p.Cert.Subject.Organization, Organization) &&
		bytes.Equal(p.Cert.RawIssuer, p.Cert.RawSubject)
}

func addHosts(cert *x509.Certificate, hosts []string) {
	for _, h := range hosts {
		if h == "" {
			continue
		}
		if ip := net.ParseIP(h); ip != nil {
			if !slices.ContainsFunc(cert.IPAddresses, ip.Equal) {
				cert.IPAddresses = append(cert.IPAddresses, ip)
			}
			continue
		}
		if !slices.Contains(cert.DNSNames, h) {
			cert.DNSNames = append(cert.DNSNames, h)
		}
	}
}

func firstHost(hosts []string) string {
	for _, h := range hosts {
		if h != "" {
			return h
		}
	}
	return "localhost"
}
