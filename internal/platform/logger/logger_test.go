package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	kit "eidclient/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel_AllBranches(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"trace", "trace"},
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"fatal", "fatal"},
		{"off", "disabled"},
		{"", "info"},
		{"   nonsense   ", "info"},
	}
	for _, c := range cases {
		lvl := parseLevel(c.in)
		if strings.ToLower(lvl.String()) != c.want {
			t.Fatalf("parseLevel(%q) = %q, want %q", c.in, lvl, c.want)
		}
	}
}

func TestInit_Get_Named_C_WithRequest(t *testing.T) {
	var buf bytes.Buffer

	Init(Options{
		Level:        "debug",
		Format:       "console",
		Service:      "eid-test",
		Writer:       &buf,
		WithCaller:   true,
		StaticFields: map[string]string{"build": "test"},
	})

	Get().Info().Str("k", "v").Msg("root-msg")
	Named("rp-rest").Info().Msg("named-msg")

	ctx := WithRequest(context.Background(), "req-123", "ref-abc")
	C(ctx).Info().Msg("ctx-msg")
	C(context.Background()).Info().Msg("ctx-empty")

	out := buf.String()

	kit.MustContain(t, out, "root-msg")
	kit.MustContain(t, out, "named-msg")
	kit.MustContain(t, out, "ctx-msg")
	kit.MustContain(t, out, "component=")
	kit.MustContain(t, out, "rp-rest")
	kit.MustContain(t, out, "request_id=")
	kit.MustContain(t, out, "req-123")
	kit.MustContain(t, out, "order_ref=")
	kit.MustContain(t, out, "ref-abc")
	kit.MustContain(t, out, "build=")
	kit.MustContain(t, out, "service=")
	kit.MustContain(t, out, "eid-test")
}

func TestFromEnv_Independently(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_SERVICE", "eid-api")
	t.Setenv("LOG_CALLER", "true")

	opt := FromEnv()
	if opt.Level != "warn" {
		t.Fatalf("FromEnv Level = %q, want warn", opt.Level)
	}
	if opt.Format != "json" || opt.Service != "eid-api" || !opt.WithCaller {
		t.Fatalf("FromEnv fields mismatch: %+v", opt)
	}
}

func TestNamed_EmptyReturnsRoot(t *testing.T) {
	if Named("") != Get() {
		t.Fatalf("Named(\"\") should return the root logger")
	}
}

func TestUse_ReplacesRoot(t *testing.T) {
	prev := *Get()
	t.Cleanup(func() { Use(prev) })

	var buf bytes.Buffer
	Use(zerolog.New(&buf))
	Named("journal").Warn().Msg("swapped")

	kit.MustContain(t, buf.String(), `"component":"journal"`)
	kit.MustContain(t, buf.String(), "swapped")
}
