package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainbolt/backend/internal/models"
)

// fixedRand returns a constant float and indexes with i modulo n.
type fixedRand struct {
	f float64
	i int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) Intn(n int) int    { return r.i % n }

func tieredItems(perTier int, tiers ...int) []models.Item {
	var items []models.Item
	for _, d := range tiers {
		for i := 0; i < perTier; i++ {
			items = append(items, models.Item{
				ID:         fmt.Sprintf("d%d-%d", d, i),
				Text:       "q",
				Choices:    []string{"a", "b", "c", "d"},
				Difficulty: d,
			})
		}
	}
	return items
}

func stateAt(d int) models.AdaptiveState {
	s := models.NewAdaptiveState()
	s.Difficulty = d
	return s
}

func TestSelectWithinOneLevel(t *testing.T) {
	items := tieredItems(2, 3, 4, 5, 6, 7)
	for i := 0; i < 20; i++ {
		sel, err := SelectItem(items, stateAt(5), fixedRand{f: 0.99, i: i})
		require.NoError(t, err)
		assert.False(t, sel.CycleReset)
		assert.InDelta(t, 5, sel.Item.Difficulty, 1)
	}
}

func TestSelectPrefersExactLevel(t *testing.T) {
	items := tieredItems(2, 4, 5, 6)
	for i := 0; i < 10; i++ {
		sel, err := SelectItem(items, stateAt(5), fixedRand{f: 0.1, i: i})
		require.NoError(t, err)
		assert.Equal(t, 5, sel.Item.Difficulty)
	}
}

func TestSelectFallsBackToNeighboursWithoutExact(t *testing.T) {
	items := tieredItems(2, 4, 6)
	sel, err := SelectItem(items, stateAt(5), fixedRand{f: 0.1, i: 0})
	require.NoError(t, err)
	assert.Contains(t, []int{4, 6}, sel.Item.Difficulty)
}

func TestSelectSkipsAnswered(t *testing.T) {
	items := tieredItems(2, 1, 2)
	s := stateAt(1)
	s.AnsweredItemIDs = []string{"d1-0", "d1-1", "d2-0"}

	for i := 0; i < 5; i++ {
		sel, err := SelectItem(items, s, fixedRand{f: 0.1, i: i})
		require.NoError(t, err)
		assert.Equal(t, "d2-1", sel.Item.ID)
	}
}

func TestSelectResetsCycleAndWidens(t *testing.T) {
	items := tieredItems(1, 3, 4, 5, 6, 7)
	s := stateAt(5)
	s.AnsweredItemIDs = []string{"d4-0", "d5-0", "d6-0"}
	s.LastItemID = "d5-0"

	seen := map[int]bool{}
	for i := 0; i < 10; i++ {
		sel, err := SelectItem(items, s, fixedRand{f: 0.99, i: i})
		require.NoError(t, err)
		assert.True(t, sel.CycleReset)
		assert.NotEqual(t, "d5-0", sel.Item.ID, "last item is avoided when alternatives exist")
		seen[sel.Item.Difficulty] = true
	}
	assert.Equal(t, map[int]bool{3: true, 4: true, 6: true, 7: true}, seen)
}

func TestSelectRepeatsLastItemWhenAlone(t *testing.T) {
	items := tieredItems(1, 5)
	s := stateAt(5)
	s.AnsweredItemIDs = []string{"d5-0"}
	s.LastItemID = "d5-0"

	sel, err := SelectItem(items, s, fixedRand{})
	require.NoError(t, err)
	assert.True(t, sel.CycleReset)
	assert.Equal(t, "d5-0", sel.Item.ID)
}

func TestSelectNoItems(t *testing.T) {
	_, err := SelectItem(tieredItems(3, 9, 10), stateAt(1), fixedRand{})
	assert.ErrorIs(t, err, ErrNoItemsAvailable)

	_, err = SelectItem(nil, stateAt(5), fixedRand{})
	assert.ErrorIs(t, err, ErrNoItemsAvailable)
}

func TestSelectExactBiasDistribution(t *testing.T) {
	items := tieredItems(1, 4, 5, 6)
	rng := NewRand(42)

	const draws = 20000
	exact := 0
	for i := 0; i < draws; i++ {
		sel, err := SelectItem(items, stateAt(5), rng)
		require.NoError(t, err)
		if sel.Item.Difficulty == 5 {
			exact++
		}
	}
	// 0.7 from the exact partition plus a third of the remaining 0.3.
	assert.InDelta(t, 0.8, float64(exact)/draws, 0.02)
}
