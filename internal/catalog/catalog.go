package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"sync"

	"galli2globe/internal/models"

	"github.com/rs/zerolog"
)

// Catalog holds the read-only destination list, loaded once at startup. A
// failed load leaves the catalog empty; every accessor works on copies so the
// underlying list is never mutated.
type Catalog struct {
	mu           sync.RWMutex
	destinations []models.Destination
	byID         map[string]models.Destination
	logger       *zerolog.Logger
}

func New(destinations []models.Destination, logger *zerolog.Logger) *Catalog {
	byID := make(map[string]models.Destination, len(destinations))
	for _, d := range destinations {
		byID[d.ID] = d
	}

	return &Catalog{
		destinations: destinations,
		byID:         byID,
		logger:       logger,
	}
}

// LoadFile reads a destination list from a local JSON file.
func LoadFile(path string) ([]models.Destination, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var destinations []models.Destination
	if err := json.Unmarshal(data, &destinations); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return destinations, nil
}

// FetchURL retrieves a destination list over HTTP. No retries: a failed fetch
// simply means an empty catalog for the session.
func FetchURL(ctx context.Context, url string) ([]models.Destination, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
	}

	var destinations []models.Destination
	if err := json.NewDecoder(resp.Body).Decode(&destinations); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return destinations, nil
}

// All returns a copy of the full list in catalog order.
func (c *Catalog) All() []models.Destination {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Destination(nil), c.destinations...)
}

// Get resolves a destination by id.
func (c *Catalog) Get(id string) (models.Destination, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.byID[id]
	return d, ok
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.destinations)
}

// FilterByTag keeps destinations whose tag set contains the theme. The "all"
// pseudo-tag matches everything.
func FilterByTag(destinations []models.Destination, tag string) []models.Destination {
	if tag == "" || tag == "all" {
		return append([]models.Destination(nil), destinations...)
	}

	filtered := make([]models.Destination, 0, len(destinations))
	for _, d := range destinations {
		if d.HasTag(tag) {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// FilterByMaxPrice keeps destinations at or under the canonical price cap.
func FilterByMaxPrice(destinations []models.Destination, maxPrice int64) []models.Destination {
	filtered := make([]models.Destination, 0, len(destinations))
	for _, d := range destinations {
		if d.Price <= maxPrice {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// Sort orders are the ones the destination grid exposes.
const (
	SortDefault   = "default"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortName      = "name"
)

// SortBy returns a sorted copy; unknown orders keep catalog order.
func SortBy(destinations []models.Destination, order string) []models.Destination {
	sorted := append([]models.Destination(nil), destinations...)
	switch order {
	case SortPriceLow:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price < sorted[j].Price })
	case SortPriceHigh:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price > sorted[j].Price })
	case SortName:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	}
	return sorted
}
