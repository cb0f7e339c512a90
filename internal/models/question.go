package models

const (
	MinDifficulty = 1
	MaxDifficulty = 10
)

// Item is a catalog entry. CorrectIndex never leaves the server on the
// next-item path; use Public for that.
type Item struct {
	ID           string   `json:"id" yaml:"id"`
	Text         string   `json:"text" yaml:"text"`
	Choices      []string `json:"choices" yaml:"choices"`
	CorrectIndex int      `json:"correct_index" yaml:"correct_index"`
	Difficulty   int      `json:"difficulty" yaml:"difficulty"`
	Category     string   `json:"category" yaml:"category"`
}

type PublicItem struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Choices    []string `json:"choices"`
	Difficulty int      `json:"difficulty"`
	Category   string   `json:"category"`
}

func (i Item) Public() PublicItem {
	choices := make([]string, len(i.Choices))
	copy(choices, i.Choices)
	return PublicItem{
		ID:         i.ID,
		Text:       i.Text,
		Choices:    choices,
		Difficulty: i.Difficulty,
		Category:   i.Category,
	}
}

// ValidChoice reports whether idx addresses one of the item's choices.
func (i Item) ValidChoice(idx int) bool {
	return idx >= 0 && idx < len(i.Choices)
}
