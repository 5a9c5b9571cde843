// Package cmd provides the CLI commands for the guestpulse tool.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/guestpulse/pkg/buildinfo"
)

// Persistent flags shared by every command.
var (
	cfgFile  string
	logLevel string
	logJSON  bool
)

// usageError marks an error as bad usage so Execute can exit 2 instead of 1.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, a ...interface{}) error {
	return &usageError{err: fmt.Errorf(format, a...)}
}

// isUsageError reports whether err should map to exit code 2. Cobra reports
// its own argument and flag problems as plain errors, so the message is
// probed as a fallback.
func isUsageError(err error) bool {
	var ue *usageError
	if errors.As(err, &ue) {
		return true
	}
	msg := err.Error()
	for _, marker := range []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"required flag",
		"invalid argument",
		"accepts ",
		"requires ",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// NewRootCommand builds the guestpulse root command with all subcommands.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "guestpulse",
		Short: "Guest review analytics: sentiment, topics, aspect impact",
		Long: `guestpulse analyzes hotel guest reviews from CSV exports.

It classifies each review's sentiment and topics against a bilingual
lexicon, scores aspect impact per period, keeps a local or Postgres
history, and renders the weekly email report.

COMMON WORKFLOWS:
  One-shot analysis:  guestpulse analyze --input reviews.csv --output json
  Load history:       guestpulse backfill --input export.csv
  Weekly report:      guestpulse weekly --send
  Aspect ranking:     guestpulse impact --period 2025-W14
  Render a week:      guestpulse report --period 2025-W14 --html report.html

DISCOVERY:
  guestpulse <command> --help   Subcommands, flags, and examples
  guestpulse lexicon show       The active rule set as editable YAML
  guestpulse config show        Current configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.guestpulse/config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON instead of console format")

	root.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.AddCommand(NewAnalyzeCommand(nil))
	root.AddCommand(NewBackfillCommand(nil))
	root.AddCommand(NewWeeklyCommand(nil))
	root.AddCommand(NewImpactCommand(nil))
	root.AddCommand(NewReportCommand(nil))
	root.AddCommand(NewLexiconCommand(nil))
	root.AddCommand(NewBenchCommand(nil))
	root.AddCommand(NewConfigCommand(nil))
	root.AddCommand(newVersionCommand())
	root.AddCommand(newCompletionCommand(root))

	return root
}

// newVersionCommand prints version information.
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := buildinfo.Get("guestpulse")
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "guestpulse version %s\n", info.Version)
			fmt.Fprintf(out, "  commit:     %s\n", info.Commit)
			fmt.Fprintf(out, "  built:      %s\n", info.BuildTime)
			fmt.Fprintf(out, "  go version: %s\n", info.GoVersion)
			return nil
		},
	}
}

// newCompletionCommand generates shell completion scripts.
func newCompletionCommand(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for guestpulse.

Bash:
  $ source <(guestpulse completion bash)

Zsh:
  $ guestpulse completion zsh > "${fpath[1]}/_guestpulse"

Fish:
  $ guestpulse completion fish | source`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(os.Stdout)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

// Execute runs the root command and returns the process exit code:
// 0 success, 1 operational error, 2 bad usage.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if isUsageError(err) {
			return 2
		}
		return 1
	}
	return 0
}
