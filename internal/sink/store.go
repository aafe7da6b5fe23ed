package sink

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ctrm-fit/internal/model"
	"github.com/sells-group/ctrm-fit/internal/store"
)

// StoreSink saves records to a SQLite or Postgres feedback table.
type StoreSink struct {
	store store.Store
}

// NewStore returns a StoreSink over st. The caller owns st and closes it.
func NewStore(st store.Store) *StoreSink {
	return &StoreSink{store: st}
}

func (s *StoreSink) Name() string { return KindStore }

func (s *StoreSink) Persist(ctx context.Context, r model.Record) error {
	return eris.Wrap(s.store.SaveRecord(ctx, r), "store: persist")
}
