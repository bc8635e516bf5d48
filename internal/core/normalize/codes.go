package normalize

import (
	"slices"

	"eidclient/internal/core/order"
)

type mapping struct {
	status order.Status
	hint   order.Hint
}

// Legacy progress and error vocabulary
// RETRY, INTERNAL_ERROR and CLIENT_ERR have no finer canonical slot
var legacyVocabulary = map[string]mapping{
	"OUTSTANDING_TRANSACTION": {order.StatusPending, order.HintOutstandingTransaction},
	"NO_CLIENT":               {order.StatusPending, order.HintNoClient},
	"STARTED":                 {order.StatusPending, order.HintStarted},
	"USER_SIGN":               {order.StatusPending, order.HintUserSign},
	"USER_REQ":                {order.StatusPending, order.HintUnspecified},
	"COMPLETE":                {order.StatusComplete, ""},

	"ALREADY_IN_PROGRESS": {order.StatusFailed, order.HintAlreadyInProgress},
	"INTERNAL_ERROR":      {order.StatusFailed, order.HintUnspecified},
	"RETRY":               {order.StatusFailed, order.HintUnspecified},
	"CLIENT_ERR":          {order.StatusFailed, order.HintUnspecified},
	"EXPIRED_TRANSACTION": {order.StatusFailed, order.HintExpiredTransaction},
	"CERTIFICATE_ERR":     {order.StatusFailed, order.HintCertificateErr},
	"USER_CANCEL":         {order.StatusFailed, order.HintUserCancel},
	"CANCELLED":           {order.StatusFailed, order.HintCancelled},
	"START_FAILED":        {order.StatusFailed, order.HintStartFailed},
}

var (
	legacyCodes  = map[string]mapping{}
	restStatuses = map[string]order.Status{}
	restHints    = map[string]order.Hint{}
)

func init() {
	for code, m := range legacyVocabulary {
		legacyCodes[Key(code)] = m
	}
	for _, s := range []order.Status{order.StatusPending, order.StatusFailed, order.StatusComplete} {
		restStatuses[Key(string(s))] = s
		for _, h := range order.Hints(s) {
			if h != order.HintUnspecified {
				restHints[Key(string(h))] = h
			}
		}
	}
}

// LegacyCodes lists every raw v4 code the normalizer understands, sorted
func LegacyCodes() []string {
	out := make([]string, 0, len(legacyVocabulary))
	for code := range legacyVocabulary {
		out = append(out, code)
	}
	slices.Sort(out)
	return out
}

// IsLegacyCode reports whether code belongs to the v4 collect vocabulary
// A SOAP fault on collect carrying such a code is an outcome, not an error
func IsLegacyCode(code string) bool {
	_, ok := legacyCodes[Key(code)]
	return ok
}
