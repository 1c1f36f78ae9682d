package dto

import (
	"time"

	"github.com/goccy/go-json"
)

// RiddleInfo represents one recorded riddle with its ranked model answers.
type RiddleInfo struct {
	ID           int64            `json:"id"`
	PhotoName    string           `json:"photoName"`
	CapturedAt   time.Time        `json:"capturedAt"`
	Guess        string           `json:"guess"`
	CreatedAt    time.Time        `json:"createdAt"`
	Similarities []SimilarityView `json:"similarities"`
}

// MarshalJSON customizes JSON output for RiddleInfo to format capture and creation times.
func (p RiddleInfo) MarshalJSON() ([]byte, error) {
	type Alias RiddleInfo
	return json.Marshal(&struct {
		CapturedAt string `json:"capturedAt"`
		CreatedAt  string `json:"createdAt"`
		Alias
	}{
		CapturedAt: p.CapturedAt.Format("2006-01-02 15:04:05"),
		CreatedAt:  p.CreatedAt.Format("2006-01-02 15:04"),
		Alias:      (Alias)(p),
	})
}
