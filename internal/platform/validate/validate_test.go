package validate

import (
	"testing"

	perr "eidclient/internal/platform/errors"
)

type input struct {
	EndUserIP string `json:"endUserIp" validate:"omitempty,ip"`
	Text      string `json:"userVisibleData" validate:"required,max=8"`
}

func TestStruct(t *testing.T) {
	cases := []struct {
		name      string
		in        input
		wantField string
		wantMsg   string
	}{
		{name: "ok", in: input{EndUserIP: "192.0.2.10", Text: "hi"}},
		{name: "ok empty optionals", in: input{Text: "hi"}},
		{name: "bad ip", in: input{EndUserIP: "not-an-ip", Text: "hi"}, wantField: "endUserIp"},
		{name: "missing text", in: input{}, wantField: "userVisibleData"},
		{name: "long text", in: input{Text: "123456789"}, wantField: "userVisibleData",
			wantMsg: "userVisibleData must be at most 8"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(tc.in)
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !perr.IsCode(err, perr.ErrorCodeValidation) {
				t.Fatalf("code = %v, want validation (%v)", perr.CodeOf(err), err)
			}
			e, _ := perr.As(err)
			if e.Field() != tc.wantField {
				t.Fatalf("field = %q, want %q", e.Field(), tc.wantField)
			}
			if tc.wantMsg != "" && err.Error() != tc.wantMsg {
				t.Fatalf("message = %q, want %q", err.Error(), tc.wantMsg)
			}
		})
	}
}

func TestStruct_NonStruct(t *testing.T) {
	err := Struct(42)
	if err == nil || perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("expected internal error for non-struct, got %v", err)
	}
}

func TestFieldAndMessage_Nil(t *testing.T) {
	if f, m := FieldAndMessage(nil); f != "" || m != "" {
		t.Fatalf("expected empty pair, got %q %q", f, m)
	}
}
