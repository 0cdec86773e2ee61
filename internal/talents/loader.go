package talents

import (
	"bytes"
	_ "embed"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

//go:embed defaults.yaml
var defaultDefinitions []byte

// file is the on-disk layout of a definitions table
type file struct {
	Classes map[string]struct {
		Growth Growth `yaml:"growth"`
	} `yaml:"classes"`
	Groups []*Group `yaml:"groups"`
}

// Load decodes a YAML definitions table and builds a Registry from it
func Load(r io.Reader) (*Registry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, errors.InvalidArgument("talent definitions are empty")
		}
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode talent definitions")
	}

	growth := make(map[string]Growth, len(f.Classes))
	for class, c := range f.Classes {
		growth[class] = c.Growth
	}

	return NewRegistry(f.Groups, growth)
}

// LoadFile reads a definitions table from disk
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("talent definitions %s not found", path)
		}
		return nil, errors.Wrapf(err, "failed to read talent definitions %s", path)
	}
	return Load(bytes.NewReader(data))
}

// Default returns the registry built from the embedded definitions table
func Default() (*Registry, error) {
	return Load(bytes.NewReader(defaultDefinitions))
}
