package lexicon

import (
	"bytes"
	_ "embed"
	"errors"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	perr "attractor/internal/platform/errors"
)

//go:embed profile.json
var embedded []byte

var (
	defaultOnce sync.Once
	defaultProf *Profile
	defaultErr  error
)

// Default returns a copy of the embedded profile
func Default() (*Profile, error) {
	defaultOnce.Do(func() {
		var p Profile
		if err := decode(embedded, &p); err != nil {
			defaultErr = perr.Wrap(err, perr.ErrorCodeConfiguration, "lexicon: parse embedded profile")
			return
		}
		defaultProf = &p
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	return defaultProf.Clone(), nil
}

// MustDefault is Default for tests and init paths
func MustDefault() *Profile {
	p, err := Default()
	if err != nil {
		panic(err)
	}
	return p
}

// Parse reads a YAML or JSON profile. Keys the document omits keep their
// default values, so a file only needs to state what it changes. Unknown keys
// are rejected
func Parse(data []byte) (*Profile, error) {
	p, err := Default()
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, perr.Configf("lexicon: profile is empty")
	}
	// named lists replace the default wholesale rather than merging element-wise
	def := p.Clone()
	p.Categories, p.CouplingPairs, p.Markers, p.EscapeKinds = nil, nil, nil, nil
	if err := decode(data, p); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfiguration, "lexicon: parse profile")
	}
	restoreUnset(p, def)
	return p, nil
}

// LoadFile parses and validates the profile at path; an empty path yields the default
func LoadFile(path string) (*Profile, error) {
	if path == "" {
		p, err := Default()
		if err != nil {
			return nil, err
		}
		return p, p.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfiguration, "lexicon: read profile %s", path)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func decode(data []byte, into *Profile) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(into); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// restoreUnset puts back the default lists a document did not mention
func restoreUnset(p, def *Profile) {
	if p.Categories == nil {
		p.Categories = def.Categories
	}
	if p.CouplingPairs == nil {
		p.CouplingPairs = def.CouplingPairs
	}
	if p.Markers == nil {
		p.Markers = def.Markers
	}
	if p.EscapeKinds == nil {
		p.EscapeKinds = def.EscapeKinds
	}
}
