package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/otherjamesbrown/guestpulse/config"
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
)

func lexiconDeps(out *bytes.Buffer) *LexiconCommandDeps {
	return &LexiconCommandDeps{
		LoadConfig: func() (*config.CLIConfig, error) { return config.DefaultConfig(), nil },
		Out:        out,
	}
}

func TestLexiconCommand(t *testing.T) {
	cmd := NewLexiconCommand(nil)

	for _, name := range []string{"show", "validate"} {
		if findSubcommand(cmd, name) == nil {
			t.Errorf("Missing subcommand %q", name)
		}
	}
}

func TestLexiconShowBuiltin(t *testing.T) {
	var out bytes.Buffer
	cmd := NewLexiconCommand(lexiconDeps(&out))
	cmd.SetArgs([]string{"show"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "version:") {
		t.Error("show output missing version field")
	}
	if !strings.Contains(got, "aspects:") {
		t.Error("show output missing aspects section")
	}

	// The output must round-trip: what show prints is a loadable lexicon.
	if _, err := lexicon.Load(strings.NewReader(got)); err != nil {
		t.Errorf("show output does not load back: %v", err)
	}
}

func TestLexiconShowFileNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := lexicon.WriteSpec(f, lexicon.BuiltinSpec()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	var out bytes.Buffer
	cmd := NewLexiconCommand(lexiconDeps(&out))
	cmd.SetArgs([]string{"show", path})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "version:") {
		t.Error("show <file> output missing version field")
	}
}

func TestLexiconShowBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("version: x\nsentiment:\n  positive:\n    en: [\"(unclosed\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := NewLexiconCommand(lexiconDeps(&bytes.Buffer{}))
	cmd.SetArgs([]string{"show", path})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for a lexicon with a broken pattern")
	}
}

func TestLexiconValidateBuiltin(t *testing.T) {
	var out bytes.Buffer
	cmd := NewLexiconCommand(lexiconDeps(&out))
	cmd.SetArgs([]string{"validate"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Lexicon OK: built-in") {
		t.Errorf("missing OK banner in: %q", got)
	}
	if !strings.Contains(got, "Aspects:") {
		t.Errorf("missing aspect count in: %q", got)
	}
}

func TestLexiconValidateMissingFile(t *testing.T) {
	cmd := NewLexiconCommand(lexiconDeps(&bytes.Buffer{}))
	cmd.SetArgs([]string{"validate", filepath.Join(t.TempDir(), "nope.yaml")})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for a missing lexicon file")
	}
}
