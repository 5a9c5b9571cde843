package lexicon

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a declarative lexicon spec from r and compiles it. Validation
// errors name the offending rule and language so a broken file is fixable
// without reading code.
func Load(r io.Reader) (*Lexicon, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon: %w", err)
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing lexicon: %w", err)
	}

	lex, err := Compile(spec)
	if err != nil {
		return nil, fmt.Errorf("compiling lexicon: %w", err)
	}
	return lex, nil
}

// LoadFile compiles the lexicon file at path.
func LoadFile(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening lexicon file: %w", err)
	}
	defer f.Close()

	lex, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lex, nil
}

// WriteSpec marshals a spec as YAML, used by `lexicon show` to emit a
// starter file users can edit and pass back via --lexicon.
func WriteSpec(w io.Writer, spec Spec) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(spec); err != nil {
		return fmt.Errorf("encoding lexicon spec: %w", err)
	}
	return enc.Close()
}
