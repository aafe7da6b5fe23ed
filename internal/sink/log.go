package sink

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/ctrm-fit/internal/model"
)

// LogSink writes each record to the structured log. It is the default when
// no other destination is configured.
type LogSink struct {
	log *zap.Logger
}

// NewLog returns a LogSink. A nil logger uses the global one at write time.
func NewLog(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Name() string { return KindLog }

func (s *LogSink) Persist(ctx context.Context, r model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log := s.log
	if log == nil {
		log = zap.L()
	}

	fields := make([]zap.Field, 0, len(model.RecordColumns))
	values := r.Values()
	for _, col := range model.RecordColumns {
		fields = append(fields, zap.Any(col, values[col]))
	}
	log.Info("feedback record", fields...)
	return nil
}
