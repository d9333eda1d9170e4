package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"

	"weblarek/internal/model"

	"sigs.k8s.io/yaml"
)

// Loader loads the products of one catalogue seed file.
type Loader interface {
	// Load reads a seed document and returns its products in file order.
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// document is the object form of a seed file, mirroring the listing endpoint.
type document struct {
	Items []model.Product `json:"items"`
}

// Decode parses a seed document read from r. Names ending in .gz are
// gunzipped first. The document may be YAML or JSON, either a plain list of
// products or an object with an items list.
func Decode(r io.Reader, name string) ([]model.Product, error) {
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gz.Close()
		r = gz
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue file %s: %w", name, err)
	}

	data, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalogue file %s: %w", name, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []model.Product{}, nil
	}

	if data[0] == '[' {
		var items []model.Product
		if err := yaml.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("failed to decode catalogue file %s: %w", name, err)
		}
		return items, nil
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalogue file %s: %w", name, err)
	}
	if doc.Items == nil {
		doc.Items = []model.Product{}
	}
	return doc.Items, nil
}
