package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"go.yaml.in/yaml/v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Model struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	PriceMonthly decimal.Decimal `json:"priceMonthly"`
}

// Catalog is the fixed list of phone models offered in the storefront.
// It is read-only after construction.
type Catalog struct {
	models []Model
	byID   map[string]Model
}

type fileModel struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	PriceMonthly string `yaml:"priceMonthly"`
}

type file struct {
	Models []fileModel `yaml:"models"`
}

func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return Parse(data)
}

// Load reads the catalog at path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(f.Models) == 0 {
		return nil, fmt.Errorf("catalog has no models")
	}

	c := &Catalog{
		models: make([]Model, 0, len(f.Models)),
		byID:   make(map[string]Model, len(f.Models)),
	}
	for _, m := range f.Models {
		if m.ID == "" {
			return nil, fmt.Errorf("catalog model without id")
		}
		if _, dup := c.byID[m.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog model %q", m.ID)
		}
		price, err := decimal.NewFromString(m.PriceMonthly)
		if err != nil {
			return nil, fmt.Errorf("parsing price of model %q: %w", m.ID, err)
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("model %q must have a positive price", m.ID)
		}
		model := Model{
			ID:           m.ID,
			Name:         m.Name,
			Description:  m.Description,
			PriceMonthly: price,
		}
		c.models = append(c.models, model)
		c.byID[m.ID] = model
	}

	return c, nil
}

func (c *Catalog) Lookup(id string) (Model, bool) {
	m, ok := c.byID[id]
	return m, ok
}

func (c *Catalog) Models() []Model {
	out := make([]Model, len(c.models))
	copy(out, c.models)
	return out
}
