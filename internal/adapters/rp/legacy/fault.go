package legacy

import (
	"errors"
	"fmt"

	perr "eidclient/internal/platform/errors"
)

// faultError is a decoded SOAP fault not yet classified
type faultError struct {
	method string
	f      fault
}

func (e *faultError) Error() string {
	if e.f.Description != "" {
		return fmt.Sprintf("%s fault %s: %s", e.method, e.f.Status, e.f.Description)
	}
	return fmt.Sprintf("%s fault %s: %s", e.method, e.f.Status, e.f.String)
}

// rejectFault turns an unclassified fault into a remote rejection carrying faultStatus
// Other errors pass through unchanged
func rejectFault(err error) error {
	var fe *faultError
	if !errors.As(err, &fe) {
		return err
	}
	code := fe.f.Status
	if code == "" {
		code = fe.f.Code
	}
	return perr.WithRemote(perr.Wrap(fe, perr.ErrorCodeRemoteRejection, "remote rejected "+fe.method), code)
}
