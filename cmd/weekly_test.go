package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/otherjamesbrown/guestpulse/pkg/agent"
)

func TestWeeklyCommand(t *testing.T) {
	cmd := NewWeeklyCommand(nil)

	if cmd.Use != "weekly" {
		t.Errorf("Use = %q, want %q", cmd.Use, "weekly")
	}
	for _, name := range []string{"as-of", "lexicon", "send", "force", "min-mentions", "html"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("Missing flag --%s", name)
		}
	}

	mm := cmd.Flags().Lookup("min-mentions")
	if mm.DefValue != strconv.Itoa(agent.DefaultMinMentions) {
		t.Errorf("min-mentions default = %s, want %d", mm.DefValue, agent.DefaultMinMentions)
	}
}

func TestWeeklyAlreadySent(t *testing.T) {
	var out bytes.Buffer
	deps := &WeeklyCommandDeps{
		RunFn: func(ctx context.Context, opts agent.WeeklyOptions) (*agent.WeeklyResult, error) {
			return &agent.WeeklyResult{WeekKey: "2025-W14", AlreadySent: true}, nil
		},
		Out: &out,
	}

	cmd := NewWeeklyCommand(deps)
	cmd.SetArgs([]string{"--send"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "already delivered") {
		t.Errorf("missing already-delivered notice in: %q", out.String())
	}
	if !strings.Contains(out.String(), "--force") {
		t.Errorf("notice should point at --force: %q", out.String())
	}
}

func TestWeeklyDeliveredAndHTMLFile(t *testing.T) {
	htmlPath := filepath.Join(t.TempDir(), "report.html")
	var gotOpts agent.WeeklyOptions

	var out bytes.Buffer
	deps := &WeeklyCommandDeps{
		RunFn: func(ctx context.Context, opts agent.WeeklyOptions) (*agent.WeeklyResult, error) {
			gotOpts = opts
			return &agent.WeeklyResult{
				WeekKey:   "2025-W14",
				Reviews:   37,
				HTML:      []byte("<html><body>week 14</body></html>"),
				Delivered: true,
			}, nil
		},
		Out: &out,
	}

	cmd := NewWeeklyCommand(deps)
	cmd.SetArgs([]string{"--send", "--force", "--as-of", "2025-04-09", "--html", htmlPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !gotOpts.Send || !gotOpts.Force {
		t.Errorf("opts = %+v, want Send and Force set", gotOpts)
	}
	if gotOpts.AsOf.IsZero() {
		t.Error("opts.AsOf should be set from --as-of")
	}

	got := out.String()
	if !strings.Contains(got, "2025-W14: 37 reviews") {
		t.Errorf("missing run summary in: %q", got)
	}
	if !strings.Contains(got, "Delivered by email.") {
		t.Errorf("missing delivery notice in: %q", got)
	}

	html, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("reading %s: %v", htmlPath, err)
	}
	if !strings.Contains(string(html), "week 14") {
		t.Errorf("unexpected HTML file contents: %q", html)
	}
}
