package session

import (
	"errors"
	"sync"
	"time"

	"cloudriddle/internal/model"
	"cloudriddle/internal/service/ai"
	"cloudriddle/internal/service/sensor"
)

var (
	// ErrNoPhoto is returned when the riddle is revealed before a photo was loaded.
	ErrNoPhoto = errors.New("no cloud photo loaded")
	// ErrAnalysisPending is returned when moving on before the analysis finished.
	ErrAnalysisPending = errors.New("analysis not complete")
)

// Session is the per-user context handed to every interaction. Callers hold
// Lock for the duration of one interaction.
type Session struct {
	ID    string
	State State

	// Riddle view
	Photo            *model.Image
	Sensors          *sensor.Table
	Guess            string
	Results          []ai.Similarity
	AnalysisComplete bool

	// Time-lapse view
	Album    []string
	Selected string

	CreatedAt time.Time
	LastSeen  time.Time

	mu sync.Mutex
}

func newSession(id string, now time.Time) *Session {
	return &Session{ID: id, State: Landing, CreatedAt: now, LastSeen: now}
}

// Lock serializes interactions of one session.
func (s *Session) Lock() {
	s.mu.Lock()
}

// Unlock releases the session.
func (s *Session) Unlock() {
	s.mu.Unlock()
}

// Fire applies an action. Guards beyond the transition table: revealing needs
// a loaded photo and moving to the next cloud needs a finished analysis.
// On error the session is left unchanged.
func (s *Session) Fire(action Action) error {
	next, err := Next(s.State, action)
	if err != nil {
		return err
	}

	switch action {
	case ActionConfirm:
		if s.Photo == nil {
			return ErrNoPhoto
		}
	case ActionNextCloud:
		if !s.AnalysisComplete {
			return ErrAnalysisPending
		}
		s.ClearRiddle()
	case ActionBackToAlbum:
		s.Selected = ""
	}

	s.State = next
	return nil
}

// ClearRiddle drops the photo, guess and answers of the current riddle.
func (s *Session) ClearRiddle() {
	s.Photo = nil
	s.Sensors = nil
	s.Guess = ""
	s.Results = nil
	s.AnalysisComplete = false
}

// CompleteAnalysis stores the model's answers for the current riddle.
func (s *Session) CompleteAnalysis(guess string, results []ai.Similarity) {
	s.Guess = guess
	s.Results = results
	s.AnalysisComplete = true
}
