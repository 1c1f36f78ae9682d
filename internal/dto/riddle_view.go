package dto

import "cloudriddle/internal/service/sensor"

// LandingNotice is shown on the riddle start page.
const LandingNotice = "A new cloud is available ☁️"

// PhotoView describes a decoded photo; the bytes are served from URL.
type PhotoView struct {
	Name       string `json:"name"`
	Format     string `json:"format"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	CapturedAt string `json:"capturedAt,omitempty"`
	URL        string `json:"url"`
}

// RiddleView is the state of the riddle page for one session.
type RiddleView struct {
	State            string           `json:"state"`
	Allowed          []string         `json:"allowed"`
	Notice           string           `json:"notice,omitempty"`
	Photo            *PhotoView       `json:"photo,omitempty"`
	Sensors          *sensor.Table    `json:"sensors,omitempty"`
	Guess            string           `json:"guess,omitempty"`
	Results          []SimilarityView `json:"results,omitempty"`
	AnalysisComplete bool             `json:"analysisComplete"`
}
