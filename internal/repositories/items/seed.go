package items

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Items []*entities.Item `yaml:"items"`
}

// LoadCatalog decodes a YAML item catalog
func LoadCatalog(r io.Reader) ([]*entities.Item, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f catalogFile
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode item catalog")
	}

	seen := make(map[string]bool, len(f.Items))
	for _, item := range f.Items {
		if err := validateItem(item); err != nil {
			return nil, err
		}
		if seen[item.ID] {
			return nil, errors.InvalidArgumentf("duplicate item id %s", item.ID)
		}
		seen[item.ID] = true
	}
	return f.Items, nil
}

// LoadCatalogFile reads a YAML item catalog from disk
func LoadCatalogFile(path string) ([]*entities.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("item catalog %s not found", path)
		}
		return nil, errors.Wrapf(err, "failed to read item catalog %s", path)
	}
	return LoadCatalog(bytes.NewReader(data))
}

// DefaultCatalog returns the embedded starter catalog
func DefaultCatalog() ([]*entities.Item, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalog))
}

// Seed stores every catalog item in the repository
func Seed(ctx context.Context, repo Repository, catalog []*entities.Item) error {
	if len(catalog) == 0 {
		return nil
	}
	out, err := repo.Put(ctx, PutInput{Items: catalog})
	if err != nil {
		return errors.Wrap(err, "failed to seed item catalog")
	}
	slog.InfoContext(ctx, "seeded item catalog", "count", out.Count)
	return nil
}
