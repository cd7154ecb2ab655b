// Package catalog holds the authoritative menu reference data. Item names
// and prices always come from here, never from client input.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chartak/orderbot/internal/logger"
	"log/slog"
)

// Item is a single menu position.
type Item struct {
	ID    int64  `yaml:"id"`
	Name  string `yaml:"name"`
	Price int64  `yaml:"price"`
}

// Catalog is the static id -> item mapping loaded at process start.
type Catalog struct {
	items map[int64]Item
}

type catalogFile struct {
	Items []Item `yaml:"items"`
}

// Load reads the catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	cat, err := FromItems(file.Items)
	if err != nil {
		return nil, err
	}
	logger.SVCCatalog.Info("catalog loaded",
		slog.String("event", "catalog.load"),
		slog.String("path", path),
		slog.Int("items", cat.Len()),
	)
	return cat, nil
}

// FromItems builds a catalog from a slice of items.
func FromItems(items []Item) (*Catalog, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	m := make(map[int64]Item, len(items))
	for _, it := range items {
		if it.Name == "" || it.Price <= 0 {
			return nil, fmt.Errorf("invalid catalog item %d: name=%q price=%d", it.ID, it.Name, it.Price)
		}
		if _, dup := m[it.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog item id %d", it.ID)
		}
		m[it.ID] = it
	}
	return &Catalog{items: m}, nil
}

// Lookup returns the item for id if it exists.
func (c *Catalog) Lookup(id int64) (Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

// Len reports the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}
