package cli

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestShouldHandle(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{name: "history", args: []string{"history"}, want: true},
		{name: "version", args: []string{"version"}, want: true},
		{name: "history with flags first", args: []string{"--debug", "history"}, want: true},
		{name: "free-text theme", args: []string{"80s", "synthwave"}, want: false},
		{name: "flag only", args: []string{"--json"}, want: false},
		{name: "empty", args: nil, want: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := ShouldHandle(test.args); got != test.want {
				t.Fatalf("ShouldHandle(%v) = %v, want %v", test.args, got, test.want)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	root := newRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(buf.String()) != Version {
		t.Fatalf("expected version %q, got %q", Version, buf.String())
	}
}

func TestDebugLoggingWritesToSink(t *testing.T) {
	var buf bytes.Buffer
	enableDebugLoggingTo(&buf)
	slog.Debug("probe")
	if !strings.Contains(buf.String(), "probe") {
		t.Fatalf("expected debug output, got %q", buf.String())
	}
}
