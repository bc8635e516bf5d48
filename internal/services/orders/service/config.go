package service

import (
	"eidclient/internal/adapters/rp/transport"
	"eidclient/internal/platform/config"
)

// FromConfig reads the client settings under c (EID_ in the binaries)
// A missing endpoint is left for New to reject as a configuration error
func FromConfig(c config.Conf) Config {
	return Config{
		Endpoint:  c.MayString("ENDPOINT", ""),
		EndUserIP: c.MayString("END_USER_IP", ""),
		Transport: transport.Config{
			CAFile:   c.MayString("CA_FILE", ""),
			CertFile: c.MayString("CERT_FILE", ""),
			KeyFile:  c.MayString("KEY_FILE", ""),
			Timeout:  c.MayDuration("TIMEOUT", 0),
		},
	}
}
