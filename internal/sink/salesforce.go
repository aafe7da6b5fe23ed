package sink

import (
	"context"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ctrm-fit/internal/model"
	sfpkg "github.com/sells-group/ctrm-fit/pkg/salesforce"
)

// DefaultSObject is the custom object feedback is inserted into.
const DefaultSObject = "CTRM_Feedback__c"

// SalesforceSink inserts each record into a custom SObject whose fields are
// named after the record columns (recordId becomes Record_Id__c).
type SalesforceSink struct {
	client sfpkg.Client
	object string
}

// NewSalesforce returns a SalesforceSink. An empty object uses DefaultSObject.
func NewSalesforce(client sfpkg.Client, object string) *SalesforceSink {
	if object == "" {
		object = DefaultSObject
	}
	return &SalesforceSink{client: client, object: object}
}

func (s *SalesforceSink) Name() string { return KindSalesforce }

func (s *SalesforceSink) Persist(ctx context.Context, r model.Record) error {
	idField := sfFieldName("recordId")
	existing, err := sfpkg.FindIDByField(ctx, s.client, s.object, idField, r.RecordID)
	if err != nil {
		return eris.Wrapf(err, "salesforce: look up record %s", r.RecordID)
	}
	if existing != "" {
		zap.L().Debug("salesforce: record already stored",
			zap.String("record_id", r.RecordID),
			zap.String("sf_id", existing),
		)
		return nil
	}

	id, err := s.client.InsertOne(ctx, s.object, sfFields(r))
	if err != nil {
		return eris.Wrapf(err, "salesforce: insert record %s", r.RecordID)
	}
	zap.L().Debug("salesforce: record inserted",
		zap.String("record_id", r.RecordID),
		zap.String("sf_id", id),
	)
	return nil
}

// sfFields maps the record onto custom field names, leaving out absent values.
func sfFields(r model.Record) map[string]any {
	values := r.Values()
	fields := make(map[string]any, len(values))
	for _, col := range model.RecordColumns {
		if v := values[col]; v != nil {
			fields[sfFieldName(col)] = v
		}
	}
	return fields
}

// sfFieldName turns a camelCase column into a custom field API name.
func sfFieldName(col string) string {
	var b strings.Builder
	for i, r := range col {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteByte('_')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString("__c")
	return b.String()
}
