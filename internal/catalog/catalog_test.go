package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainbolt/backend/internal/models"
)

func TestSeedCoversEveryTier(t *testing.T) {
	c, err := New(Seed())
	require.NoError(t, err)

	assert.Equal(t, 50, c.Len())
	assert.Empty(t, c.MissingTiers())
	for d := models.MinDifficulty; d <= models.MaxDifficulty; d++ {
		assert.Equal(t, 5, c.TierCounts()[d], "difficulty %d", d)
	}
}

func TestItemByID(t *testing.T) {
	c, err := New(Seed())
	require.NoError(t, err)

	it, ok := c.ItemByID("1")
	require.True(t, ok)
	assert.Equal(t, "What is the capital of France?", it.Text)
	assert.Equal(t, "Paris", it.Choices[it.CorrectIndex])

	_, ok = c.ItemByID("nope")
	assert.False(t, ok)
}

func TestAllItemsIsACopy(t *testing.T) {
	c, err := New(Seed())
	require.NoError(t, err)

	items := c.AllItems()
	items[0].Text = "changed"
	items[0].Choices[0] = "changed"

	again, _ := c.ItemByID(items[0].ID)
	assert.NotEqual(t, "changed", again.Text)
}

func TestNewRejectsInvalidItems(t *testing.T) {
	good := models.Item{ID: "a", Text: "t", Choices: []string{"x", "y"}, CorrectIndex: 0, Difficulty: 1}

	tests := []struct {
		name  string
		items []models.Item
	}{
		{"empty id", []models.Item{{Text: "t", Choices: []string{"x", "y"}, Difficulty: 1}}},
		{"difficulty low", []models.Item{{ID: "a", Choices: []string{"x", "y"}, Difficulty: 0}}},
		{"difficulty high", []models.Item{{ID: "a", Choices: []string{"x", "y"}, Difficulty: 11}}},
		{"one choice", []models.Item{{ID: "a", Choices: []string{"x"}, Difficulty: 1}}},
		{"correct out of range", []models.Item{{ID: "a", Choices: []string{"x", "y"}, CorrectIndex: 2, Difficulty: 1}}},
		{"duplicate", []models.Item{good, good}},
		{"mixed arity", []models.Item{good, {ID: "b", Text: "t", Choices: []string{"x", "y", "z"}, Difficulty: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.items)
			assert.ErrorIs(t, err, ErrInvalidItem)
		})
	}
}

func TestLoadFile(t *testing.T) {
	c, err := LoadFile("testdata/catalog.yaml")
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	it, ok := c.ItemByID("sci-2")
	require.True(t, ok)
	assert.Equal(t, "Mars", it.Choices[it.CorrectIndex])
	assert.Equal(t, "science", it.Category)
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8, 9, 10}, c.MissingTiers())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("items: ["))
	assert.Error(t, err)

	_, err = LoadFile("testdata/missing.yaml")
	assert.Error(t, err)
}
