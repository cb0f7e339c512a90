package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/brainbolt/backend/internal/models"
)

var ErrInvalidItem = errors.New("invalid catalog item")

// Provider is the read-only view the engine consumes.
type Provider interface {
	AllItems() []models.Item
	ItemByID(id string) (models.Item, bool)
}

// Catalog is an immutable item set indexed by id and difficulty.
type Catalog struct {
	items        []models.Item
	byID         map[string]int
	byDifficulty map[int][]int
}

// New validates items and builds the catalog. Every item must have the
// same number of choices. Items are copied.
func New(items []models.Item) (*Catalog, error) {
	c := &Catalog{
		items:        make([]models.Item, 0, len(items)),
		byID:         make(map[string]int, len(items)),
		byDifficulty: make(map[int][]int),
	}
	for _, it := range items {
		if err := validate(it); err != nil {
			return nil, err
		}
		if len(c.items) > 0 && len(it.Choices) != len(c.items[0].Choices) {
			return nil, fmt.Errorf("%w: item %q has %d choices, catalog uses %d", ErrInvalidItem, it.ID, len(it.Choices), len(c.items[0].Choices))
		}
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidItem, it.ID)
		}
		it.Choices = append([]string(nil), it.Choices...)
		idx := len(c.items)
		c.items = append(c.items, it)
		c.byID[it.ID] = idx
		c.byDifficulty[it.Difficulty] = append(c.byDifficulty[it.Difficulty], idx)
	}
	return c, nil
}

func validate(it models.Item) error {
	switch {
	case it.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidItem)
	case it.Difficulty < models.MinDifficulty || it.Difficulty > models.MaxDifficulty:
		return fmt.Errorf("%w: item %q difficulty %d out of range", ErrInvalidItem, it.ID, it.Difficulty)
	case len(it.Choices) < 2:
		return fmt.Errorf("%w: item %q needs at least two choices", ErrInvalidItem, it.ID)
	case !it.ValidChoice(it.CorrectIndex):
		return fmt.Errorf("%w: item %q correct index %d out of range", ErrInvalidItem, it.ID, it.CorrectIndex)
	}
	return nil
}

// AllItems returns a copy of every item in load order.
func (c *Catalog) AllItems() []models.Item {
	out := make([]models.Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) ItemByID(id string) (models.Item, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return models.Item{}, false
	}
	return c.items[idx], true
}

func (c *Catalog) Len() int { return len(c.items) }

// TierCounts reports how many items exist per difficulty, for startup logging.
func (c *Catalog) TierCounts() map[int]int {
	out := make(map[int]int, len(c.byDifficulty))
	for d, idxs := range c.byDifficulty {
		out[d] = len(idxs)
	}
	return out
}

// MissingTiers lists difficulty levels with no items.
func (c *Catalog) MissingTiers() []int {
	var missing []int
	for d := models.MinDifficulty; d <= models.MaxDifficulty; d++ {
		if len(c.byDifficulty[d]) == 0 {
			missing = append(missing, d)
		}
	}
	sort.Ints(missing)
	return missing
}
