// Package order holds the canonical order model shared by both protocol generations
//
// An Order is issued by a start call and is immutable. Each collect yields a fresh Outcome
// whose Status is one of pending, failed or complete. Hints qualify pending and failed
// outcomes; completion data is present exactly when the status is complete
package order

import perr "eidclient/internal/platform/errors"

// Status is the canonical progress state of an order
type Status string

const (
	StatusPending  Status = "pending"
	StatusFailed   Status = "failed"
	StatusComplete Status = "complete"
)

// Terminal reports whether polling should stop
func (s Status) Terminal() bool { return s == StatusFailed || s == StatusComplete }

// Valid reports whether s is one of the three canonical values
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusFailed, StatusComplete:
		return true
	}
	return false
}

// Hint is the canonical sub-reason of a pending or failed outcome
type Hint string

// Pending hints
const (
	HintOutstandingTransaction Hint = "outstandingTransaction"
	HintNoClient               Hint = "noClient"
	HintStarted                Hint = "started"
	HintUserSign               Hint = "userSign"
)

// Failed hints
const (
	HintExpiredTransaction Hint = "expiredTransaction"
	HintCertificateErr     Hint = "certificateErr"
	HintUserCancel         Hint = "userCancel"
	HintCancelled          Hint = "cancelled"
	HintStartFailed        Hint = "startFailed"
	HintAlreadyInProgress  Hint = "alreadyInProgress"
)

// HintUnspecified is the bucket for remote codes with no finer canonical slot
// It is valid under both pending and failed
const HintUnspecified Hint = "unspecified"

var (
	pendingHints = []Hint{HintOutstandingTransaction, HintNoClient, HintStarted, HintUserSign, HintUnspecified}
	failedHints  = []Hint{
		HintExpiredTransaction, HintCertificateErr, HintUserCancel,
		HintCancelled, HintStartFailed, HintAlreadyInProgress, HintUnspecified,
	}
)

// Hints returns the hints allowed under s; complete allows none
func Hints(s Status) []Hint {
	switch s {
	case StatusPending:
		return append([]Hint(nil), pendingHints...)
	case StatusFailed:
		return append([]Hint(nil), failedHints...)
	}
	return nil
}

// ValidFor reports whether h may qualify an outcome with status s
func (h Hint) ValidFor(s Status) bool {
	if s == StatusComplete {
		return h == ""
	}
	for _, x := range Hints(s) {
		if x == h {
			return true
		}
	}
	return false
}

// Order is the handle returned by a start call
// AutoStartToken and the QR fields are passed through verbatim
type Order struct {
	OrderRef       string `json:"orderRef"`
	AutoStartToken string `json:"autoStartToken,omitempty"`
	QRStartToken   string `json:"qrStartToken,omitempty"`
	QRStartSecret  string `json:"qrStartSecret,omitempty"`
}

// UserInfo is what the remote service releases about the identified user
type UserInfo struct {
	PersonalNumber string `json:"personalNumber"`
	Name           string `json:"name"`
	GivenName      string `json:"givenName"`
	Surname        string `json:"surname"`
	NotBefore      string `json:"notBefore,omitempty"`
	NotAfter       string `json:"notAfter,omitempty"`
	IPAddress      string `json:"ipAddress,omitempty"`
}

// Empty reports whether no identifying attribute is set
func (u UserInfo) Empty() bool {
	return u.PersonalNumber == "" && u.Name == "" && u.GivenName == "" && u.Surname == ""
}

// CompletionData is released only on a complete outcome
// Signature and OCSPResponse are base64 as sent by the remote service
type CompletionData struct {
	User         UserInfo `json:"user"`
	Signature    string   `json:"signature"`
	OCSPResponse string   `json:"ocspResponse"`
}

// Outcome is one snapshot of an order's progress
type Outcome struct {
	OrderRef   string          `json:"orderRef"`
	Status     Status          `json:"status"`
	Hint       Hint            `json:"hint,omitempty"`
	RawHint    string          `json:"rawHint,omitempty"`
	Completion *CompletionData `json:"completionData,omitempty"`
}

// Terminal reports whether the outcome ends the polling loop
func (o Outcome) Terminal() bool { return o.Status.Terminal() }

// Validate checks the outcome against the canonical model
// Completion data must be all-present on complete and absent otherwise
func (o Outcome) Validate() error {
	if !o.Status.Valid() {
		return perr.Rejectedf("unknown status %q", o.Status)
	}
	if !o.Hint.ValidFor(o.Status) {
		return perr.Malformedf("hint %q not valid for status %s", o.Hint, o.Status)
	}
	if o.Status != StatusComplete {
		if o.Completion != nil {
			return perr.Malformedf("completion data present on %s outcome", o.Status)
		}
		return nil
	}
	c := o.Completion
	switch {
	case c == nil:
		return perr.Malformedf("complete outcome without completion data")
	case c.User.Empty():
		return perr.WithField(perr.Malformedf("complete outcome missing user"), "user")
	case c.Signature == "":
		return perr.WithField(perr.Malformedf("complete outcome missing signature"), "signature")
	case c.OCSPResponse == "":
		return perr.WithField(perr.Malformedf("complete outcome missing ocspResponse"), "ocspResponse")
	}
	return nil
}
