package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

type recordRef struct {
	ID string `json:"Id" salesforce:"Id"`
}

// FindIDByField returns the Id of the first sObjectName record whose field
// equals value, or "" when none exists.
func FindIDByField(ctx context.Context, c Client, sObjectName, field, value string) (string, error) {
	soql := fmt.Sprintf(
		"SELECT Id FROM %s WHERE %s = '%s' LIMIT 1",
		sObjectName, field, escapeSoql(value),
	)

	var refs []recordRef
	if err := c.Query(ctx, soql, &refs); err != nil {
		return "", eris.Wrap(err, fmt.Sprintf("sf: find %s by %s", sObjectName, field))
	}
	if len(refs) == 0 {
		return "", nil
	}
	return refs[0].ID, nil
}

// escapeSoql escapes backslashes and single quotes in SOQL string literals.
func escapeSoql(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}
