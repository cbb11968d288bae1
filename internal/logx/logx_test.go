package logx

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLevelFromString(t *testing.T) {
	t.Cleanup(func() { SetLevelFromString("info") })
	cases := map[string]string{
		"debug":   "debug",
		" WARN ":  "warn",
		"warning": "warn",
		"err":     "error",
		"":        "info",
		"bogus":   "info",
	}
	for in, want := range cases {
		SetLevelFromString(in)
		require.Equal(t, want, Level(), "input %q", in)
	}
}

func TestWarnwCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	Warnw("provider fetch failed", "provider", "github", "error", "boom")
	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "provider fetch failed", entries[0].Message)
	require.Equal(t, "github", entries[0].ContextMap()["provider"])
}
