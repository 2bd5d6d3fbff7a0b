// Package svccert готовит TLS конфигурацию HTTPS сервера из файлов сертификата и ключа.
package svccert

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsdevblog/linkshort/internal/sslcert"
)

const (
	defaultCertFilePath = "cert.pem"
	defaultKeyFilePath  = "key.pem"
	keyFileMode         = 0o600
	certFileMode        = 0o644
)

// Options опции Cert.
type Options struct {
	CertFilePath string
	KeyFilePath  string
	// Hosts хосты, которые должен покрывать самоподписанный сертификат.
	Hosts []string
	// Now источник времени для проверки срока действия.
	Now func() time.Time
}

// Cert управляет парой сертификат/ключ на диске.
type Cert struct {
	opts Options
}

// New создает Cert. Без опций используются cert.pem и key.pem в текущей директории.
func New(opts ...func(*Options)) *Cert {
	o := Options{
		CertFilePath: defaultCertFilePath,
		KeyFilePath:  defaultKeyFilePath,
		Now:          time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cert{opts: o}
}

// HostsFromConfig хосты сервиса из адреса сервера и базового URL коротких ссылок.
// Пустые и unspecified адреса (0.0.0.0, ::) пропускаются.
func HostsFromConfig(serverAddress, baseURL string) []string {
	var hosts []string
	add := func(h string) {
		if h == "" || slices.Contains(hosts, h) {
			return
		}
		if ip := net.ParseIP(h); ip != nil && ip.IsUnspecified() {
			return
		}
		hosts = append(hosts, h)
	}

	if u, err := url.Parse(baseURL); err == nil {
		add(u.Hostname())
	}
	if host, _, err := net.SplitHostPort(serverAddress); err == nil {
		add(host)
	}
	return hosts
}

// TLSConfig загружает пару с диска и возвращает конфигурацию сервера.
//
// Пара выпускается заново и перезаписывается, если файлов нет, они пусты, сертификат
// просрочен, или самоподписанный сертификат не покрывает Options.Hosts.
// Сертификат, выпущенный не этим сервисом, не перезаписывается.
//
// Возвращает:
//   - *tls.Config: конфигурация с единственным сертификатом
//   - error: ошибка чтения, разбора или записи пары
func (c *Cert) TLSConfig() (*tls.Config, error) {
	pair, err := c.load()
	switch {
	case err == nil && (pair.Covers(c.opts.Hosts) || !pair.SelfIssued()):
	case err == nil,
		errors.Is(err, os.ErrNotExist),
		errors.Is(err, sslcert.ErrBlankPEM),
		errors.Is(err, sslcert.ErrCertExpired):
		if pair, err = c.renew(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("load certificate: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{pair.TLS},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

func (c *Cert) load() (*sslcert.Pair, error) {
	certPEM, err := os.ReadFile(c.opts.CertFilePath)
	if err != nil {
		return nil, fmt.Errorf("read certificate: %w", err)
	}
	keyPEM, err := os.ReadFile(c.opts.KeyFilePath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	return sslcert.Parse(certPEM, keyPEM, c.opts.Now())
}

func (c *Cert) renew() (*sslcert.Pair, error) {
	certPEM, keyPEM, err := sslcert.Generate(sslcert.Request{
		Hosts:     c.opts.Hosts,
		NotBefore: c.opts.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("generate certificate: %w", err)
	}
	if err = writeFile(c.opts.KeyFilePath, keyPEM, keyFileMode); err != nil {
		return nil, err
	}
	if err = writeFile(c.opts.CertFilePath, certPEM, certFileMode); err != nil {
		return nil, err
	}
	return sslcert.Parse(certPEM, keyPEM, c.opts.Now())
}

// writeFile заменяет файл целиком через временный файл в той же директории.
func writeFile(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
