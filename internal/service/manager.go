// Package service drives the riddle and time-lapse pages on top of the
// catalog, sensor and ai services.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"cloudriddle/internal/blob"
	"cloudriddle/internal/config"
	"cloudriddle/internal/dto"
	"cloudriddle/internal/logger"
	"cloudriddle/internal/model"
	"cloudriddle/internal/repository"
	"cloudriddle/internal/service/ai"
	"cloudriddle/internal/service/catalog"
	"cloudriddle/internal/service/sensor"
	"cloudriddle/internal/service/session"
)

// ErrInvalidIndex is returned when an album index is out of range.
var ErrInvalidIndex = errors.New("album index out of range")

type Manager struct {
	selector     *catalog.Selector
	materializer *catalog.Materializer
	sensors      *sensor.Builder
	analyzer     *ai.Analyzer

	riddleRepo     repository.RiddleRepository
	similarityRepo repository.SimilarityRepository

	sensorCount int
	albumSize   int
	logger      *logger.Logger
	now         func() time.Time
}

// NewManager wires the services reading store. The repositories may be nil,
// in which case riddles are not recorded.
func NewManager(store repository.ObjectStore, analyzer *ai.Analyzer, riddleRepo repository.RiddleRepository,
	similarityRepo repository.SimilarityRepository, config *config.Config, logger *logger.Logger) *Manager {
	materializer := catalog.NewMaterializer(store)
	return &Manager{
		selector:       catalog.NewSelector(store),
		materializer:   materializer,
		sensors:        sensor.NewBuilder(materializer),
		analyzer:       analyzer,
		riddleRepo:     riddleRepo,
		similarityRepo: similarityRepo,
		sensorCount:    config.SensorCount,
		albumSize:      config.AlbumSize,
		logger:         logger,
		now:            time.Now,
	}
}

// GetSelector exposes the selector so the notifier polls the same store.
func (m *Manager) GetSelector() *catalog.Selector {
	return m.selector
}

// ---- Riddle page ----

// Riddle returns the riddle page of sess, opening it when the session was elsewhere.
func (m *Manager) Riddle(ctx context.Context, sess *session.Session) (*dto.RiddleView, error) {
	sess.Lock()
	defer sess.Unlock()

	if err := sess.Fire(session.ActionOpenRiddle); err != nil {
		return nil, err
	}
	return riddleView(sess), nil
}

// CheckCloud loads the newest photo and sensor readings and shows them.
func (m *Manager) CheckCloud(ctx context.Context, sess *session.Session) (*dto.RiddleView, error) {
	sess.Lock()
	defer sess.Unlock()

	if _, err := session.Next(sess.State, session.ActionCheckCloud); err != nil {
		return nil, err
	}

	photo, table, err := m.loadCloud(ctx)
	if err != nil {
		return nil, err
	}

	if err := sess.Fire(session.ActionCheckCloud); err != nil {
		return nil, err
	}
	sess.ClearRiddle()
	sess.Photo = photo
	sess.Sensors = table

	m.logger.Info("Session %s viewing %s", sess.ID, photo.Name)
	return riddleView(sess), nil
}

// Confirm moves from the cloud view to the guess page.
func (m *Manager) Confirm(ctx context.Context, sess *session.Session) (*dto.RiddleView, error) {
	sess.Lock()
	defer sess.Unlock()

	if err := sess.Fire(session.ActionConfirm); err != nil {
		return nil, err
	}
	return riddleView(sess), nil
}

// SubmitGuess asks the model what the current cloud looks like and records
// the riddle. On inference failure the session is left unchanged.
func (m *Manager) SubmitGuess(ctx context.Context, sess *session.Session, guess string) (*dto.RiddleView, error) {
	sess.Lock()
	defer sess.Unlock()

	if _, err := session.Next(sess.State, session.ActionSubmit); err != nil {
		return nil, err
	}
	if sess.Photo == nil {
		return nil, session.ErrNoPhoto
	}

	results, err := m.analyzer.Analyze(ctx, sess.Photo)
	if err != nil {
		m.logger.Error("Analysis of %s failed: %v", sess.Photo.Name, err)
		return nil, err
	}

	sess.CompleteAnalysis(guess, results)
	if err := sess.Fire(session.ActionSubmit); err != nil {
		return nil, err
	}

	m.recordRiddle(sess)
	return riddleView(sess), nil
}

// NextCloud clears the finished riddle and loads the newest cloud again.
func (m *Manager) NextCloud(ctx context.Context, sess *session.Session) (*dto.RiddleView, error) {
	sess.Lock()
	defer sess.Unlock()

	if _, err := session.Next(sess.State, session.ActionNextCloud); err != nil {
		return nil, err
	}
	if !sess.AnalysisComplete {
		return nil, session.ErrAnalysisPending
	}

	photo, table, err := m.loadCloud(ctx)
	if err != nil {
		return nil, err
	}

	if err := sess.Fire(session.ActionNextCloud); err != nil {
		return nil, err
	}
	sess.Photo = photo
	sess.Sensors = table
	return riddleView(sess), nil
}

// loadCloud materializes the newest photo and the latest sensor readings.
func (m *Manager) loadCloud(ctx context.Context) (*model.Image, *sensor.Table, error) {
	names, err := m.selector.SelectLatest(ctx, blob.PrefixPhoto, 1)
	if err != nil {
		return nil, nil, err
	}
	if len(names) == 0 {
		return nil, nil, fmt.Errorf("%w: no cloud photo yet", blob.ErrNotFound)
	}

	photo, err := m.materializer.FetchImage(ctx, names[0])
	if err != nil {
		return nil, nil, err
	}

	sensorNames, err := m.selector.SelectLatest(ctx, blob.PrefixSensorData, m.sensorCount)
	if err != nil {
		return nil, nil, err
	}
	table, err := m.sensors.Build(ctx, sensorNames)
	if err != nil {
		return nil, nil, err
	}
	return photo, table, nil
}

// recordRiddle stores a finished riddle; failures are logged, not returned.
func (m *Manager) recordRiddle(sess *session.Session) {
	if m.riddleRepo == nil {
		return
	}

	riddle := &model.Riddle{
		SessionID: sess.ID,
		PhotoName: sess.Photo.Name,
		Guess:     sess.Guess,
		CreatedAt: m.now(),
	}
	if captured, _, err := blob.CaptureTime(sess.Photo.Name); err == nil {
		riddle.CapturedAt = captured
	}

	riddleID, err := m.riddleRepo.Insert(riddle)
	if err != nil {
		m.logger.Error("Error saving riddle to database: %v", err)
		return
	}

	if m.similarityRepo == nil || len(sess.Results) == 0 {
		return
	}
	similarities := make([]model.Similarity, 0, len(sess.Results))
	for i, r := range sess.Results {
		similarities = append(similarities, model.Similarity{
			RiddleID:   riddleID,
			Label:      r.Label,
			Confidence: r.Confidence,
			Rank:       i + 1,
		})
	}
	if err := m.similarityRepo.InsertBatch(similarities); err != nil {
		m.logger.Error("Error saving similarities to database: %v", err)
	}
}

func riddleView(sess *session.Session) *dto.RiddleView {
	view := &dto.RiddleView{
		State:            string(sess.State),
		Allowed:          allowed(sess.State),
		Sensors:          sess.Sensors,
		Guess:            sess.Guess,
		AnalysisComplete: sess.AnalysisComplete,
	}
	if sess.State == session.Landing {
		view.Notice = dto.LandingNotice
	}
	if sess.Photo != nil {
		view.Photo = &dto.PhotoView{
			Name:   sess.Photo.Name,
			Format: sess.Photo.Format,
			Width:  sess.Photo.Width,
			Height: sess.Photo.Height,
			URL:    ObjectURL(sess.Photo.Name),
		}
		if captured, err := blob.DecodeCaptureTime(sess.Photo.Name); err == nil {
			view.Photo.CapturedAt = captured
		}
	}
	if sess.AnalysisComplete {
		view.Results = similarityViews(sess.Results)
	}
	return view
}

func similarityViews(results []ai.Similarity) []dto.SimilarityView {
	views := make([]dto.SimilarityView, 0, len(results))
	for i, r := range results {
		views = append(views, dto.SimilarityView{
			Rank:       i + 1,
			Label:      r.Label,
			Confidence: r.Confidence,
			Emoji:      ai.Emoji(r.Label),
		})
	}
	return views
}

func allowed(s session.State) []string {
	actions := session.Allowed(s)
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, string(a))
	}
	return names
}

// ---- Time-lapse page ----

// Album lists the newest photos.
func (m *Manager) Album(ctx context.Context, sess *session.Session) (*dto.AlbumView, error) {
	sess.Lock()
	defer sess.Unlock()

	if _, err := session.Next(sess.State, session.ActionOpenAlbum); err != nil {
		return nil, err
	}

	names, err := m.selector.SelectLatest(ctx, blob.PrefixPhoto, m.albumSize)
	if err != nil {
		return nil, err
	}

	if err := sess.Fire(session.ActionOpenAlbum); err != nil {
		return nil, err
	}
	sess.Album = names
	sess.Selected = ""
	return albumView(sess, nil), nil
}

// ViewDetails opens the album photo at index.
func (m *Manager) ViewDetails(ctx context.Context, sess *session.Session, index int) (*dto.AlbumView, error) {
	sess.Lock()
	defer sess.Unlock()

	if _, err := session.Next(sess.State, session.ActionViewDetails); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(sess.Album) {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidIndex, index, len(sess.Album))
	}
	name := sess.Album[index]

	metadata, err := m.materializer.FetchMetadata(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := sess.Fire(session.ActionViewDetails); err != nil {
		return nil, err
	}
	sess.Selected = name

	details := &dto.PhotoDetails{
		Name:      name,
		TimeTaken: metadata.TimeTaken,
		Location:  metadata.Location,
		URL:       ObjectURL(name),
	}
	if captured, err := blob.DecodeCaptureTime(name); err == nil {
		details.CapturedAt = captured
	}
	return albumView(sess, details), nil
}

// BackToAlbum leaves the detail page.
func (m *Manager) BackToAlbum(ctx context.Context, sess *session.Session) (*dto.AlbumView, error) {
	sess.Lock()
	defer sess.Unlock()

	if err := sess.Fire(session.ActionBackToAlbum); err != nil {
		return nil, err
	}
	return albumView(sess, nil), nil
}

func albumView(sess *session.Session, selected *dto.PhotoDetails) *dto.AlbumView {
	entries := make([]dto.AlbumEntry, 0, len(sess.Album))
	for i, name := range sess.Album {
		entry := dto.AlbumEntry{Index: i, Name: name, URL: ObjectURL(name)}
		captured, err := blob.DecodeCaptureTime(name)
		if err != nil {
			entry.Error = err.Error()
		} else {
			entry.CapturedAt = captured
		}
		entries = append(entries, entry)
	}
	return &dto.AlbumView{
		State:    string(sess.State),
		Allowed:  allowed(sess.State),
		Entries:  entries,
		Selected: selected,
	}
}

// ---- Objects ----

// Object returns the raw bytes of one object and their sniffed content type.
func (m *Manager) Object(ctx context.Context, name string) ([]byte, string, error) {
	if _, ok := blob.PrefixOf(name); !ok {
		return nil, "", fmt.Errorf("%w: %q", blob.ErrUnknownPrefix, name)
	}
	data, err := m.materializer.Fetch(ctx, name)
	if err != nil {
		return nil, "", err
	}
	return data, http.DetectContentType(data), nil
}

// ObjectURL is the API path serving the bytes of name.
func ObjectURL(name string) string {
	return "/api/objects/" + url.PathEscape(name)
}
