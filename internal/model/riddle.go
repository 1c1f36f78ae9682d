package model

import "time"

// Riddle represents one completed cloud riddle: the photo shown, the user's
// guess and when the analysis finished.
type Riddle struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"session_id"`
	PhotoName  string    `json:"photo_name"`
	CapturedAt time.Time `json:"captured_at"`
	Guess      string    `json:"guess"`
	CreatedAt  time.Time `json:"created_at"`
}

// Similarity represents one ranked answer of the captioning model for a riddle.
type Similarity struct {
	ID         int64  `json:"id"`
	RiddleID   int64  `json:"riddle_id"`
	Label      string `json:"label"`
	Confidence int    `json:"confidence"`
	Rank       int    `json:"rank"`
}

// RiddleStats contains statistics about recorded riddles.
type RiddleStats struct {
	TotalRiddles int            `json:"total_riddles"`
	LabelCounts  map[string]int `json:"label_counts"`
}
