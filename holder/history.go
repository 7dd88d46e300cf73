package holder

import (
	"Quizzy/lib/sl"
	"Quizzy/storage"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// HistoryKeeper records generations. Storage failures are logged and never
// reach the caller: a request must not fail because its record could not be
// written.
type HistoryKeeper struct {
	storage storage.GenerationStorage
	log     *slog.Logger
	now     func() time.Time
}

func NewHistoryKeeper(store storage.GenerationStorage, log *slog.Logger) *HistoryKeeper {
	return &HistoryKeeper{
		storage: store,
		log:     log.With(sl.Module("history")),
		now:     time.Now,
	}
}

func (hk *HistoryKeeper) Record(generation storage.Generation) {
	if generation.ID == "" {
		generation.ID = uuid.NewString()
	}
	if generation.CreatedAt.IsZero() {
		generation.CreatedAt = hk.now().UTC()
	}
	if err := hk.storage.SaveGeneration(&generation); err != nil {
		hk.log.With(
			slog.String("id", generation.ID),
			sl.Topic(generation.Topic),
		).Error("saving generation", sl.Err(err))
	}
}

func (hk *HistoryKeeper) Recent(limit int) ([]storage.Generation, error) {
	return hk.storage.RecentGenerations(limit)
}

func (hk *HistoryKeeper) Close() error {
	return hk.storage.Close()
}
