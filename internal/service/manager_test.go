package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"cloudriddle/internal/blob"
	"cloudriddle/internal/config"
	"cloudriddle/internal/dto"
	"cloudriddle/internal/logger"
	"cloudriddle/internal/repository/filesystem"
	"cloudriddle/internal/repository/sqlite"
	"cloudriddle/internal/service/ai"
	"cloudriddle/internal/service/session"
)

type fakeInferer struct {
	text  string
	err   error
	calls int
}

func (f *fakeInferer) Infer(ctx context.Context, imageDataURL, prompt string) (string, error) {
	f.calls++
	return f.text, f.err
}

type ManagerSuite struct {
	suite.Suite
	store    *filesystem.Store
	inferer  *fakeInferer
	manager  *Manager
	sessions *session.Store
	base     time.Time
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	t := s.T()

	store, err := filesystem.New(t.TempDir())
	require.NoError(t, err)
	s.store = store

	db, err := sqlite.New(filepath.Join(t.TempDir(), "riddles.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s.inferer = &fakeInferer{text: "1. Dog - 80%\n2. Cat - 15%\n3. Owl - 5%"}
	cfg := &config.Config{SensorCount: 5, AlbumSize: 10}
	s.manager = NewManager(store, ai.NewAnalyzer(s.inferer, ""),
		sqlite.NewRiddleRepository(db), sqlite.NewSimilarityRepository(db), cfg, logger.NewNop())
	s.sessions = session.NewStore(0)
	s.base = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
}

func (s *ManagerSuite) put(name string, data []byte, age time.Duration) {
	require.NoError(s.T(), s.store.Put(name, data, nil))
	modTime := s.base.Add(-age)
	require.NoError(s.T(), os.Chtimes(filepath.Join(s.store.Dir(), name), modTime, modTime))
}

func (s *ManagerSuite) photo() []byte {
	var buf bytes.Buffer
	require.NoError(s.T(), png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	return buf.Bytes()
}

func (s *ManagerSuite) seedCloud() {
	s.put("photo_20240115100000.png", s.photo(), 2*time.Hour)
	s.put("photo_20240115110000.png", s.photo(), time.Hour)
	s.put("sensor_data_20240115100000.json", []byte(`{"temperature": 12.5, "humidity": "80"}`), 2*time.Hour)
	s.put("sensor_data_20240115110000.json", []byte(`{"temperature": 13, "pressure": 1013}`), time.Hour)
}

func (s *ManagerSuite) newSession() *session.Session {
	sess, _ := s.sessions.Get("")
	return sess
}

func (s *ManagerSuite) TestLandingShowsNotice() {
	view, err := s.manager.Riddle(context.Background(), s.newSession())
	s.Require().NoError(err)
	s.Equal("landing", view.State)
	s.Equal(dto.LandingNotice, view.Notice)
	s.Contains(view.Allowed, "check_cloud")
}

func (s *ManagerSuite) TestCheckCloudLoadsNewestPhotoAndSensors() {
	s.seedCloud()
	sess := s.newSession()

	view, err := s.manager.CheckCloud(context.Background(), sess)
	s.Require().NoError(err)

	s.Equal("viewing", view.State)
	s.Require().NotNil(view.Photo)
	s.Equal("photo_20240115110000.png", view.Photo.Name)
	s.Equal("png", view.Photo.Format)
	s.Equal(4, view.Photo.Width)
	s.Equal("2024-01-15 11:00:00", view.Photo.CapturedAt)
	s.Equal("/api/objects/photo_20240115110000.png", view.Photo.URL)

	s.Require().NotNil(view.Sensors)
	s.Equal([]string{"temperature", "pressure", "humidity"}, view.Sensors.Columns)
	s.Require().Len(view.Sensors.Rows, 2)
	s.Equal("sensor_data_20240115110000.json", view.Sensors.Rows[0].Name)
}

func (s *ManagerSuite) TestCheckCloudWithEmptyNamespace() {
	sess := s.newSession()

	_, err := s.manager.CheckCloud(context.Background(), sess)
	s.ErrorIs(err, blob.ErrNotFound)
	s.Equal(session.Landing, sess.State)
}

func (s *ManagerSuite) TestCheckCloudCorruptPhoto() {
	s.put("photo_20240115110000.jpg", []byte("not an image"), time.Hour)
	sess := s.newSession()

	_, err := s.manager.CheckCloud(context.Background(), sess)
	s.ErrorIs(err, blob.ErrDecode)
	s.Equal(session.Landing, sess.State)
}

func (s *ManagerSuite) TestFullRiddleRecordsHistory() {
	s.seedCloud()
	ctx := context.Background()
	sess := s.newSession()

	_, err := s.manager.CheckCloud(ctx, sess)
	s.Require().NoError(err)
	_, err = s.manager.Confirm(ctx, sess)
	s.Require().NoError(err)

	view, err := s.manager.SubmitGuess(ctx, sess, "a puppy")
	s.Require().NoError(err)
	s.Equal("revealing", view.State)
	s.True(view.AnalysisComplete)
	s.Equal("a puppy", view.Guess)
	s.Require().Len(view.Results, 3)
	s.Equal(dto.SimilarityView{Rank: 1, Label: "Dog", Confidence: 80, Emoji: "🐕"}, view.Results[0])

	history, err := s.manager.History(&dto.RiddleFilters{}, 1)
	s.Require().NoError(err)
	s.Require().Len(history.Riddles, 1)
	s.Equal("photo_20240115110000.png", history.Riddles[0].PhotoName)
	s.Equal("a puppy", history.Riddles[0].Guess)
	s.Len(history.Riddles[0].Similarities, 3)
	s.Equal([]string{"cat", "dog", "owl"}, history.Labels)

	stats, err := s.manager.HistoryStats()
	s.Require().NoError(err)
	s.Equal(1, stats.TotalRiddles)
	s.Equal(map[string]int{"dog": 1}, stats.LabelCounts)

	view, err = s.manager.NextCloud(ctx, sess)
	s.Require().NoError(err)
	s.Equal("viewing", view.State)
	s.False(view.AnalysisComplete)
	s.Empty(view.Guess)
	s.NotNil(view.Photo)
}

func (s *ManagerSuite) TestSubmitBeforeConfirmIsRejected() {
	s.seedCloud()
	ctx := context.Background()
	sess := s.newSession()

	_, err := s.manager.CheckCloud(ctx, sess)
	s.Require().NoError(err)

	_, err = s.manager.SubmitGuess(ctx, sess, "a dog")
	s.ErrorIs(err, session.ErrInvalidTransition)
	s.Zero(s.inferer.calls)
}

func (s *ManagerSuite) TestInferenceFailureLeavesSessionUnchanged() {
	s.seedCloud()
	s.inferer.err = assert.AnError
	ctx := context.Background()
	sess := s.newSession()

	_, err := s.manager.CheckCloud(ctx, sess)
	s.Require().NoError(err)
	_, err = s.manager.Confirm(ctx, sess)
	s.Require().NoError(err)

	_, err = s.manager.SubmitGuess(ctx, sess, "a dog")
	s.ErrorIs(err, blob.ErrInference)
	s.Equal(session.Revealing, sess.State)
	s.False(sess.AnalysisComplete)

	_, err = s.manager.NextCloud(ctx, sess)
	s.ErrorIs(err, session.ErrAnalysisPending)

	history, err := s.manager.History(&dto.RiddleFilters{}, 1)
	s.Require().NoError(err)
	s.Empty(history.Riddles)
}

func (s *ManagerSuite) TestAlbumAndDetails() {
	s.seedCloud()
	require.NoError(s.T(), s.store.Put("photo_latest.png", s.photo(), map[string]string{"location": "roof"}))
	modTime := s.base
	require.NoError(s.T(), os.Chtimes(filepath.Join(s.store.Dir(), "photo_latest.png"), modTime, modTime))
	ctx := context.Background()
	sess := s.newSession()

	album, err := s.manager.Album(ctx, sess)
	s.Require().NoError(err)
	s.Equal("album", album.State)
	s.Require().Len(album.Entries, 3)
	s.Equal("photo_latest.png", album.Entries[0].Name)
	s.NotEmpty(album.Entries[0].Error)
	s.Equal("2024-01-15 11:00:00", album.Entries[1].CapturedAt)

	details, err := s.manager.ViewDetails(ctx, sess, 0)
	s.Require().NoError(err)
	s.Equal("details", details.State)
	s.Require().NotNil(details.Selected)
	s.Equal("roof", details.Selected.Location)
	s.Equal("Unknown time", details.Selected.TimeTaken)

	_, err = s.manager.ViewDetails(ctx, sess, 7)
	s.ErrorIs(err, ErrInvalidIndex)

	back, err := s.manager.BackToAlbum(ctx, sess)
	s.Require().NoError(err)
	s.Equal("album", back.State)
	s.Nil(back.Selected)
	s.Len(back.Entries, 3)
}

func (s *ManagerSuite) TestObject() {
	s.seedCloud()

	data, contentType, err := s.manager.Object(context.Background(), "photo_20240115110000.png")
	s.Require().NoError(err)
	s.NotEmpty(data)
	s.Equal("image/png", contentType)

	_, _, err = s.manager.Object(context.Background(), "photo_20990101.png")
	s.ErrorIs(err, blob.ErrNotFound)

	_, _, err = s.manager.Object(context.Background(), "secrets.txt")
	s.ErrorIs(err, blob.ErrUnknownPrefix)
}

func (s *ManagerSuite) TestDeleteAndClearHistory() {
	s.seedCloud()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		sess := s.newSession()
		_, err := s.manager.CheckCloud(ctx, sess)
		s.Require().NoError(err)
		_, err = s.manager.Confirm(ctx, sess)
		s.Require().NoError(err)
		_, err = s.manager.SubmitGuess(ctx, sess, "guess")
		s.Require().NoError(err)
	}

	history, err := s.manager.History(&dto.RiddleFilters{}, 1)
	s.Require().NoError(err)
	s.Require().Len(history.Riddles, 2)

	s.Require().NoError(s.manager.DeleteRiddle(history.Riddles[0].ID))
	s.ErrorIs(s.manager.DeleteRiddle(history.Riddles[0].ID), blob.ErrNotFound)

	s.Require().NoError(s.manager.ClearHistory())
	history, err = s.manager.History(&dto.RiddleFilters{}, 1)
	s.Require().NoError(err)
	s.Empty(history.Riddles)
	s.Equal(0, history.TotalPages)
}

func TestHistoryDisabledWithoutRepository(t *testing.T) {
	store, err := filesystem.New(t.TempDir())
	require.NoError(t, err)
	m := NewManager(store, ai.NewAnalyzer(nil, ""), nil, nil, &config.Config{}, logger.NewNop())

	_, err = m.History(&dto.RiddleFilters{}, 1)
	assert.ErrorIs(t, err, ErrHistoryDisabled)

	_, err = m.HistoryStats()
	assert.ErrorIs(t, err, ErrHistoryDisabled)
}
