// Package sink persists validated feedback records. Every Sink reports
// failure honestly: Persist returns nil only once the record is durably
// accepted by the destination.
package sink

import (
	"context"

	"github.com/sells-group/ctrm-fit/internal/model"
)

// Sink stores one feedback record.
type Sink interface {
	Persist(ctx context.Context, r model.Record) error
	// Name identifies the destination in logs and errors.
	Name() string
}

// Sink kinds accepted by config.
const (
	KindWebhook    = "webhook"
	KindXLSX       = "xlsx"
	KindSalesforce = "salesforce"
	KindNotion     = "notion"
	KindStore      = "store"
	KindLog        = "log"
)

// Kinds lists every sink kind.
var Kinds = []string{KindWebhook, KindXLSX, KindSalesforce, KindNotion, KindStore, KindLog}
