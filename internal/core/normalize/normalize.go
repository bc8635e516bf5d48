// Package normalize maps each protocol generation's raw collect answer onto the canonical outcome
//
// Both mappings are pure. Raw codes are matched on their folded key, so OUTSTANDING_TRANSACTION,
// outstandingTransaction and outstanding-transaction are the same code
package normalize

import (
	"strings"
	"sync"

	"eidclient/internal/core/order"
	perr "eidclient/internal/platform/errors"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// LegacyCollect is the raw v4 collect answer
// On COMPLETE the completion fields sit inline next to ProgressStatus
type LegacyCollect struct {
	OrderRef       string
	ProgressStatus string
	User           *order.UserInfo
	Signature      string
	OCSPResponse   string
}

// RestCollect is the raw v5 collect answer as sent on the wire
type RestCollect struct {
	OrderRef       string          `json:"orderRef"`
	Status         string          `json:"status"`
	HintCode       string          `json:"hintCode,omitempty"`
	CompletionData *RestCompletion `json:"completionData,omitempty"`
}

// RestCompletion is the nested v5 completion object
type RestCompletion struct {
	User         *RestUser   `json:"user,omitempty"`
	Device       *RestDevice `json:"device,omitempty"`
	Cert         *RestCert   `json:"cert,omitempty"`
	Signature    string      `json:"signature"`
	OCSPResponse string      `json:"ocspResponse"`
}

// RestUser is the v5 user object
type RestUser struct {
	PersonalNumber string `json:"personalNumber"`
	Name           string `json:"name"`
	GivenName      string `json:"givenName"`
	Surname        string `json:"surname"`
}

// RestDevice is the v5 device object
type RestDevice struct {
	IPAddress string `json:"ipAddress"`
}

// RestCert is the v5 certificate validity window
type RestCert struct {
	NotBefore string `json:"notBefore"`
	NotAfter  string `json:"notAfter"`
}

// Legacy normalizes a v4 collect answer
func Legacy(raw LegacyCollect) (order.Outcome, error) {
	if strings.TrimSpace(raw.ProgressStatus) == "" {
		return order.Outcome{}, perr.Rejectedf("collect response has no progressStatus")
	}
	m, ok := legacyCodes[Key(raw.ProgressStatus)]
	if !ok {
		return order.Outcome{}, perr.WithRemote(
			perr.Rejectedf("unknown progressStatus %q", raw.ProgressStatus), raw.ProgressStatus)
	}

	out := order.Outcome{OrderRef: raw.OrderRef, Status: m.status, Hint: m.hint}
	if m.status != order.StatusComplete {
		out.RawHint = raw.ProgressStatus
		return out, out.Validate()
	}

	c := &order.CompletionData{Signature: raw.Signature, OCSPResponse: raw.OCSPResponse}
	if raw.User != nil {
		c.User = *raw.User
	}
	out.Completion = c
	if err := out.Validate(); err != nil {
		return order.Outcome{}, err
	}
	return out, nil
}

// REST normalizes a v5 collect answer
// A hint code outside the canonical vocabulary, or not valid for the status, becomes unspecified
func REST(raw RestCollect) (order.Outcome, error) {
	if strings.TrimSpace(raw.Status) == "" {
		return order.Outcome{}, perr.Rejectedf("collect response has no status")
	}
	status, ok := restStatuses[Key(raw.Status)]
	if !ok {
		return order.Outcome{}, perr.WithRemote(perr.Rejectedf("unknown status %q", raw.Status), raw.Status)
	}

	out := order.Outcome{OrderRef: raw.OrderRef, Status: status}
	if status != order.StatusComplete {
		out.RawHint = raw.HintCode
		out.Hint = order.HintUnspecified
		if h, ok := restHints[Key(raw.HintCode)]; ok && h.ValidFor(status) {
			out.Hint = h
		}
		return out, out.Validate()
	}

	if raw.CompletionData == nil {
		return order.Outcome{}, perr.Malformedf("complete outcome without completionData")
	}
	out.Completion = restCompletion(raw.CompletionData)
	if err := out.Validate(); err != nil {
		return order.Outcome{}, err
	}
	return out, nil
}

func restCompletion(rc *RestCompletion) *order.CompletionData {
	c := &order.CompletionData{Signature: rc.Signature, OCSPResponse: rc.OCSPResponse}
	if rc.User != nil {
		c.User = order.UserInfo{
			PersonalNumber: rc.User.PersonalNumber,
			Name:           rc.User.Name,
			GivenName:      rc.User.GivenName,
			Surname:        rc.User.Surname,
		}
	}
	if rc.Device != nil {
		c.User.IPAddress = rc.Device.IPAddress
	}
	if rc.Cert != nil {
		c.User.NotBefore = rc.Cert.NotBefore
		c.User.NotAfter = rc.Cert.NotAfter
	}
	return c
}

// fresh transformer chains; a chain holds state and is not safe to share
var foldPool = sync.Pool{
	New: func() any { return transform.Chain(width.Fold, cases.Fold()) },
}

// Key folds a raw code to its lookup form: width and case folded, separators dropped
func Key(code string) string {
	tr := foldPool.Get().(transform.Transformer)
	folded, _, err := transform.String(tr, strings.TrimSpace(code))
	tr.Reset()
	foldPool.Put(tr)
	if err != nil {
		folded = strings.ToLower(code)
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ', '.':
			return -1
		}
		return r
	}, folded)
}

// Raw is a protocol-specific collect answer that knows its own mapping
type Raw interface {
	Normalize() (order.Outcome, error)
}

// Normalize maps a v4 answer
func (raw LegacyCollect) Normalize() (order.Outcome, error) { return Legacy(raw) }

// Normalize maps a v5 answer
func (raw RestCollect) Normalize() (order.Outcome, error) { return REST(raw) }
