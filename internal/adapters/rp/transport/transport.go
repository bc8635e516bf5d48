// Package transport builds the mutual-TLS HTTP client both protocol adapters talk through
package transport

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"os"
	"time"

	perr "eidclient/internal/platform/errors"
)

// Config is the transport material supplied at construction
// All paths are optional; CertFile may hold both certificate and key when KeyFile is empty
type Config struct {
	CAFile   string
	CertFile string
	KeyFile  string
	// Timeout bounds a whole round trip; 0 means none
	Timeout time.Duration
}

var readFile = os.ReadFile

// TLSConfig loads the trust and client material named by cfg
// Missing or unusable files are configuration errors
func TLSConfig(cfg Config) (*tls.Config, error) {
	tc := &tls.Config{MinVersion: tls.VersionTLS12}

	if cfg.CAFile != "" {
		pem, err := readFile(cfg.CAFile)
		if err != nil {
			return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeConfiguration, "read CA file"), "ca_file")
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, perr.WithField(perr.Configf("CA file %s holds no PEM certificates", cfg.CAFile), "ca_file")
		}
		tc.RootCAs = pool
	}

	switch {
	case cfg.CertFile == "" && cfg.KeyFile != "":
		return nil, perr.WithField(perr.Configf("key file given without a certificate file"), "cert_file")
	case cfg.CertFile != "":
		cert, err := loadKeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, err
		}
		tc.Certificates = []tls.Certificate{cert}
	}
	return tc, nil
}

func loadKeyPair(certFile, keyFile string) (tls.Certificate, error) {
	certPEM, err := readFile(certFile)
	if err != nil {
		return tls.Certificate{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeConfiguration, "read certificate file"), "cert_file")
	}
	keyPEM := certPEM
	if keyFile != "" {
		if keyPEM, err = readFile(keyFile); err != nil {
			return tls.Certificate{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeConfiguration, "read key file"), "key_file")
		}
	}
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeConfiguration, "load client key pair"), "cert_file")
	}
	return cert, nil
}

// NewHTTPClient returns an *http.Client using cfg's TLS material and timeout
func NewHTTPClient(cfg Config) (*http.Client, error) {
	tc, err := TLSConfig(cfg)
	if err != nil {
		return nil, err
	}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = tc
	tr.TLSHandshakeTimeout = 10 * time.Second
	return &http.Client{Transport: tr, Timeout: cfg.Timeout}, nil
}
