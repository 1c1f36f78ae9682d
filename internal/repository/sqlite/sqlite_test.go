package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudriddle/internal/dto"
	"cloudriddle/internal/model"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func insertRiddle(t *testing.T, db *DB, photo string, createdAt time.Time, labels ...string) int64 {
	t.Helper()

	id, err := NewRiddleRepository(db).Insert(&model.Riddle{
		SessionID:  "session-1",
		PhotoName:  photo,
		CapturedAt: time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
		Guess:      "a dragon",
		CreatedAt:  createdAt,
	})
	require.NoError(t, err)

	var sims []model.Similarity
	for i, label := range labels {
		sims = append(sims, model.Similarity{RiddleID: id, Label: label, Confidence: 90 - i*10, Rank: i + 1})
	}
	require.NoError(t, NewSimilarityRepository(db).InsertBatch(sims))
	return id
}

func TestDatabase_Connection(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := New(dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should exist")
}

func TestRiddleRepository_InsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	id := insertRiddle(t, db, "photo_20240115103045.jpg", created, "Dog", "Cat")

	riddle, err := NewRiddleRepository(db).GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, riddle)

	assert.Equal(t, "photo_20240115103045.jpg", riddle.PhotoName)
	assert.Equal(t, "a dragon", riddle.Guess)
	assert.True(t, riddle.CreatedAt.Equal(created))
	assert.True(t, riddle.CapturedAt.Equal(time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)))

	sims, err := NewSimilarityRepository(db).GetByRiddleID(id)
	require.NoError(t, err)
	require.Len(t, sims, 2)
	assert.Equal(t, "Dog", sims[0].Label)
	assert.Equal(t, 1, sims[0].Rank)
	assert.Equal(t, "Cat", sims[1].Label)
}

func TestRiddleRepository_ZeroCaptureTime(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRiddleRepository(db)

	id, err := repo.Insert(&model.Riddle{SessionID: "s", PhotoName: "photo_latest.jpg", CreatedAt: time.Now()})
	require.NoError(t, err)

	riddle, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.True(t, riddle.CapturedAt.IsZero())
}

func TestRiddleRepository_GetByIDMissing(t *testing.T) {
	db := setupTestDB(t)

	riddle, err := NewRiddleRepository(db).GetByID(42)
	assert.NoError(t, err)
	assert.Nil(t, riddle)
}

func TestRiddleRepository_GetAllNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	insertRiddle(t, db, "photo_1.jpg", base, "Dog")
	insertRiddle(t, db, "photo_2.jpg", base.Add(time.Hour), "Cat")
	insertRiddle(t, db, "photo_3.jpg", base.Add(2*time.Hour), "Dog")

	riddles, err := NewRiddleRepository(db).GetAll(&dto.RiddleFilters{})
	require.NoError(t, err)
	require.Len(t, riddles, 3)
	assert.Equal(t, "photo_3.jpg", riddles[0].PhotoName)
	assert.Equal(t, "photo_1.jpg", riddles[2].PhotoName)
}

func TestRiddleRepository_FilterByLabel(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	insertRiddle(t, db, "photo_1.jpg", base, "Dog", "Cat")
	insertRiddle(t, db, "photo_2.jpg", base.Add(time.Hour), "Horse")
	repo := NewRiddleRepository(db)

	filter := &dto.RiddleFilters{Label: "cat"}
	riddles, err := repo.GetAll(filter)
	require.NoError(t, err)
	require.Len(t, riddles, 1)
	assert.Equal(t, "photo_1.jpg", riddles[0].PhotoName)

	count, err := repo.GetTotalCount(filter)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRiddleRepository_FilterByDateAndPaginate(t *testing.T) {
	db := setupTestDB(t)
	insertRiddle(t, db, "photo_jan.jpg", time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), "Dog")
	insertRiddle(t, db, "photo_feb.jpg", time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC), "Dog")
	insertRiddle(t, db, "photo_mar.jpg", time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), "Dog")
	repo := NewRiddleRepository(db)

	filter := &dto.RiddleFilters{
		DateAfter:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		DateBefore: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	count, err := repo.GetTotalCount(filter)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	filter.Limit = 1
	filter.Offset = 1
	riddles, err := repo.GetAll(filter)
	require.NoError(t, err)
	require.Len(t, riddles, 1)
	assert.Equal(t, "photo_feb.jpg", riddles[0].PhotoName)
}

func TestRiddleRepository_Stats(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	insertRiddle(t, db, "photo_1.jpg", base, "Dog", "Cat")
	insertRiddle(t, db, "photo_2.jpg", base, "dog")
	insertRiddle(t, db, "photo_3.jpg", base, "Cat")

	stats, err := NewRiddleRepository(db).GetStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalRiddles)
	assert.Equal(t, 2, stats.LabelCounts["dog"])
	assert.Equal(t, 1, stats.LabelCounts["cat"])
}

func TestRiddleRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	first := insertRiddle(t, db, "photo_1.jpg", base, "Dog")
	insertRiddle(t, db, "photo_2.jpg", base, "Cat")
	repo := NewRiddleRepository(db)

	require.NoError(t, repo.Delete(first))

	riddle, err := repo.GetByID(first)
	require.NoError(t, err)
	assert.Nil(t, riddle)

	sims, err := NewSimilarityRepository(db).GetByRiddleID(first)
	require.NoError(t, err)
	assert.Empty(t, sims)

	require.NoError(t, repo.DeleteAll())
	count, err := repo.GetTotalCount(nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSimilarityRepository_GetAllLabels(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	insertRiddle(t, db, "photo_1.jpg", base, "Dog", "Cat")
	insertRiddle(t, db, "photo_2.jpg", base, "dog", "Whale")

	labels, err := NewSimilarityRepository(db).GetAllLabels()
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog", "whale"}, labels)
}
