package sslcert

import (
	"net"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type CertSuite struct {
	suite.Suite
}

func TestCertSuite(t *testing.T) {
	suite.Run(t, new(CertSuite))
}

func (s *CertSuite) TestGenerate() {
	certPEM, keyPEM, err := Generate(Request{Hosts: []string{"sho.rt", "10.0.0.5", "", "sho.rt"}})
	s.Require().NoError(err)

	pair, err := Parse(certPEM, keyPEM, time.Now())
	s.Require().NoError(err)

	s.Equal([]string{"localhost", "sho.rt"}, pair.Cert.DNSNames)
	s.True(slices.ContainsFunc(pair.Cert.IPAddresses, net.ParseIP("10.0.0.5").Equal))
	s.True(slices.ContainsFunc(pair.Cert.IPAddresses, net.IPv6loopback.Equal))
	s.Equal("sho.rt", pair.Cert.Subject.CommonName)
	s.True(pair.Covers([]string{"sho.rt", "10.0.0.5", "localhost", "127.0.0.1"}))
	s.False(pair.Covers([]string{"other.example"}))
	s.True(pair.SelfIssued())
}

func (s *CertSuite) TestGenerate_Independent() {
	// хосты одного выпуска не попадают в следующий
	_, _, err := Generate(Request{Hosts: []string{"first.example"}})
	s.Require().NoError(err)

	certPEM, keyPEM, err := Generate(Request{Hosts: []string{"second.example"}})
	s.Require().NoError(err)
	pair, err := Parse(certPEM, keyPEM, time.Now())
	s.Require().NoError(err)
	s.NotContains(pair.Cert.DNSNames, "first.example")
}

func (s *CertSuite) TestParse() {
	s.Run("blank pem", func() {
		_, err := Parse(nil, []byte("  \n"), time.Now())
		s.Require().ErrorIs(err, ErrBlankPEM)
	})

	s.Run("expired", func() {
		certPEM, keyPEM, err := Generate(Request{NotBefore: time.Now().AddDate(-2, 0, 0), Validity: 24 * time.Hour})
		s.Require().NoError(err)
		_, err = Parse(certPEM, keyPEM, time.Now())
		s.Require().ErrorIs(err, ErrCertExpired)
	})

	s.Run("not valid yet", func() {
		certPEM, keyPEM, err := Generate(Request{NotBefore: time.Now().AddDate(1, 0, 0)})
		s.Require().NoError(err)
		_, err = Parse(certPEM, keyPEM, time.Now())
		s.Require().ErrorIs(err, ErrCertNotValidYet)
	})

	s.Run("key of another certificate", func() {
		certPEM, _, err := Generate(Request{})
		s.Require().NoError(err)
		_, otherKey, err := Generate(Request{})
		s.Require().NoError(err)
		_, err = Parse(certPEM, otherKey, time.Now())
		s.Require().Error(err)
	})

	s.Run("foreign organization", func() {
		certPEM, keyPEM, err := Generate(Request{Organization: "Example CA"})
		s.Require().NoError(err)
		pair, err := Parse(certPEM, keyPEM, time.Now())
		s.Require().NoError(err)
		s.False(pair.SelfIssued())
	})
}
