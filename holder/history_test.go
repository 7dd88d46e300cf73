package holder

import (
	"Quizzy/storage"
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStorage struct {
	storage.MemoryStorage
}

func (f *failingStorage) SaveGeneration(*storage.Generation) error {
	return errors.New("disk full")
}

func TestRecordFillsIdentity(t *testing.T) {
	store := storage.NewMemoryStorage()
	hk := NewHistoryKeeper(store, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	fixed := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	hk.now = func() time.Time { return fixed }

	hk.Record(storage.Generation{Topic: "Go", NumQuestions: 5, Success: true})

	recent, err := hk.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.NotEmpty(t, recent[0].ID)
	assert.Equal(t, fixed, recent[0].CreatedAt)
	assert.Equal(t, "Go", recent[0].Topic)
}

func TestRecordLogsStorageErrors(t *testing.T) {
	var logs bytes.Buffer
	hk := NewHistoryKeeper(&failingStorage{}, slog.New(slog.NewTextHandler(&logs, nil)))

	assert.NotPanics(t, func() {
		hk.Record(storage.Generation{ID: "abc", Topic: "Go"})
	})
	assert.Contains(t, logs.String(), "saving generation")
	assert.Contains(t, logs.String(), "disk full")
	assert.Contains(t, logs.String(), "id=abc")
}
