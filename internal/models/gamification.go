package models

type Board string

const (
	BoardScore  Board = "score"
	BoardStreak Board = "streak"
)

func (b Board) Valid() bool {
	return b == BoardScore || b == BoardStreak
}

type LeaderboardEntry struct {
	Rank          int     `json:"rank"`
	Identity      string  `json:"identity"`
	Value         float64 `json:"value"`
	IsCurrentUser bool    `json:"is_current_user,omitempty"`
}

type LeaderboardResponse struct {
	Board    Board              `json:"board"`
	Entries  []LeaderboardEntry `json:"entries"`
	UserRank int                `json:"user_rank"`
}

type RankResponse struct {
	Board    Board  `json:"board"`
	Identity string `json:"identity"`
	Rank     int    `json:"rank"`
}
