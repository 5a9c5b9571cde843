package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/otherjamesbrown/guestpulse/config"
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
)

// LexiconCommandDeps holds the dependencies for the lexicon commands.
type LexiconCommandDeps struct {
	LoadConfig func() (*config.CLIConfig, error)

	Out io.Writer
}

// DefaultLexiconDeps returns the default dependencies for production use.
func DefaultLexiconDeps() *LexiconCommandDeps {
	return &LexiconCommandDeps{
		LoadConfig: loadCLIConfig,
		Out:        os.Stdout,
	}
}

// NewLexiconCommand creates the root lexicon command with its subcommands.
func NewLexiconCommand(deps *LexiconCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultLexiconDeps()
	}

	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Inspect and validate the classification rule set",
		Long: `Inspect the rule set the engine classifies against.

'show' prints the active lexicon as YAML. Redirect it to a file, edit,
and pass the file back via --lexicon to any analysis command. 'validate'
compiles a file and reports every broken rule.`,
	}

	cmd.AddCommand(newLexiconShowCommand(deps))
	cmd.AddCommand(newLexiconValidateCommand(deps))
	return cmd
}

func newLexiconShowCommand(deps *LexiconCommandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "show [file.yaml]",
		Short: "Print the active lexicon as editable YAML",
		Long: `Print the lexicon as YAML: the built-in rules by default, or a file's
rules (normalized) when a path is given.

Examples:
  # Start a custom rule set from the built-in one
  guestpulse lexicon show > rules.yaml

  # Normalize an edited file
  guestpulse lexicon show rules.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := lexicon.BuiltinSpec()
			if len(args) == 1 {
				loaded, err := readSpecFile(args[0])
				if err != nil {
					return err
				}
				spec = loaded
			}
			return lexicon.WriteSpec(deps.Out, spec)
		},
	}
}

func newLexiconValidateCommand(deps *LexiconCommandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file.yaml]",
		Short: "Compile a lexicon file and report problems",
		Long: `Compile a lexicon file and report problems.

With no argument, the configured lexicon (or the built-in rules) is
checked instead.

Examples:
  guestpulse lexicon validate rules.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var lex *lexicon.Lexicon
			var source string

			if len(args) == 1 {
				source = args[0]
				var err error
				lex, err = lexicon.LoadFile(source)
				if err != nil {
					return err
				}
			} else {
				cfg, err := deps.LoadConfig()
				if err != nil {
					return fmt.Errorf("loading configuration: %w", err)
				}
				source = cfg.LexiconPath
				if source == "" {
					source = "built-in"
				}
				lex, err = loadLexicon(cfg, "")
				if err != nil {
					return err
				}
			}

			fmt.Fprintf(deps.Out, "Lexicon OK: %s\n", source)
			fmt.Fprintf(deps.Out, "  Version: %s\n", lex.Version())
			fmt.Fprintf(deps.Out, "  Topics:  %d\n", len(lex.Topics()))
			fmt.Fprintf(deps.Out, "  Aspects: %d\n", len(lex.Aspects()))
			return nil
		},
	}
}

// readSpecFile parses a lexicon spec and compiles it to catch broken rules
// before echoing the spec back.
func readSpecFile(path string) (lexicon.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return lexicon.Spec{}, fmt.Errorf("reading lexicon file: %w", err)
	}
	var spec lexicon.Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return lexicon.Spec{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if _, err := lexicon.Compile(spec); err != nil {
		return lexicon.Spec{}, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}
