package normalize

import (
	"reflect"
	"strings"
	"testing"

	"eidclient/internal/core/order"
	perr "eidclient/internal/platform/errors"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func restHintCodes() []any {
	out := []any{"", "userMrtd", "userCallConfirm"}
	for _, s := range []order.Status{order.StatusPending, order.StatusFailed} {
		for _, h := range order.Hints(s) {
			out = append(out, string(h))
		}
	}
	return out
}

func legacyCodeArgs() []any {
	codes := LegacyCodes()
	out := make([]any, len(codes))
	for i, c := range codes {
		out[i] = c
	}
	return out
}

// respell changes case and separators without changing the folded key
func respell(code string, lower bool, sep string) string {
	if lower {
		code = strings.ToLower(code)
	}
	return strings.ReplaceAll(code, "_", sep)
}

func TestNormalize_Properties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 500
	properties := gopter.NewProperties(params)

	properties.Property("every legacy code maps to exactly one valid canonical pair", prop.ForAll(
		func(code string, lower bool, sep string) bool {
			a, errA := Legacy(LegacyCollect{ProgressStatus: code, User: user, Signature: "s", OCSPResponse: "o"})
			b, errB := Legacy(LegacyCollect{ProgressStatus: respell(code, lower, sep), User: user, Signature: "s", OCSPResponse: "o"})
			if errA != nil || errB != nil {
				return false
			}
			return a.Status == b.Status && a.Hint == b.Hint && a.Hint.ValidFor(a.Status)
		},
		gen.OneConstOf(legacyCodeArgs()...), gen.Bool(), gen.OneConstOf("_", "-", ""),
	))

	properties.Property("completion data is all-present iff complete", prop.ForAll(
		func(legacy bool, code string, status string, hasUser, hasSig, hasOCSP bool) bool {
			var (
				out order.Outcome
				err error
			)
			if legacy {
				raw := LegacyCollect{ProgressStatus: code}
				if hasUser {
					raw.User = user
				}
				if hasSig {
					raw.Signature = "c2ln"
				}
				if hasOCSP {
					raw.OCSPResponse = "b2Nz"
				}
				out, err = Legacy(raw)
			} else {
				rc := &RestCompletion{}
				if hasUser {
					rc.User = &RestUser{PersonalNumber: user.PersonalNumber}
				}
				if hasSig {
					rc.Signature = "c2ln"
				}
				if hasOCSP {
					rc.OCSPResponse = "b2Nz"
				}
				out, err = REST(RestCollect{Status: status, HintCode: "started", CompletionData: rc})
			}
			if err != nil {
				return perr.IsCode(err, perr.ErrorCodeMalformedResponse) && !(hasUser && hasSig && hasOCSP)
			}
			if out.Status == order.StatusComplete {
				c := out.Completion
				return c != nil && !c.User.Empty() && c.Signature != "" && c.OCSPResponse != "" && out.Hint == ""
			}
			return out.Completion == nil && out.Hint != ""
		},
		gen.Bool(),
		gen.OneConstOf(legacyCodeArgs()...),
		gen.OneConstOf("pending", "failed", "complete"),
		gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.Property("rest status and hint always land in the canonical vocabulary", prop.ForAll(
		func(status, hint string) bool {
			out, err := REST(RestCollect{Status: status, HintCode: hint})
			return err == nil && out.Status.Valid() && out.Hint.ValidFor(out.Status) && out.RawHint == hint
		},
		gen.OneConstOf("pending", "failed", "Pending", "FAILED"),
		gen.OneConstOf(restHintCodes()...),
	))

	properties.Property("normalizing the same answer twice gives the same outcome", prop.ForAll(
		func(status, hint string) bool {
			raw := RestCollect{OrderRef: "r", Status: status, HintCode: hint}
			a, errA := REST(raw)
			b, errB := REST(raw)
			return reflect.DeepEqual(a, b) && perr.CodeOf(errA) == perr.CodeOf(errB)
		},
		gen.OneConstOf("pending", "failed", "complete", "", "bogus"),
		gen.OneConstOf(restHintCodes()...),
	))

	properties.TestingRun(t)
}
