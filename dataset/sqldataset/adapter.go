package sqldataset

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// SamplesTable is the name of the table holding the samples
const SamplesTable = "samples"

/*
Adapter is an interface providing what is specific to a database
backend for a Set.

Its DB method returns the sqlx handle to run queries on. Queries are
written with '?' placeholders and rebound to the driver's bind type.

Its ColumnName method translates a feature name into the column name
for it, or returns an error if the feature name cannot be used.

Its IDColumnDefinition returns the column definition for an
autoincremented integer primary key named id.
*/
type Adapter interface {
	DB() *sqlx.DB
	ColumnName(featureName string) (string, error)
	IDColumnDefinition() string
	Close() error
}

/*
ValidateColumnName checks a feature name can be used as a quoted
identifier on a samples table and returns it or an error. Adapters
can use it to implement their ColumnName method.
*/
func ValidateColumnName(featureName string) (string, error) {
	if featureName == "" {
		return "", fmt.Errorf("empty feature names cannot be used as column names")
	}
	if featureName == "id" {
		return "", fmt.Errorf(`'%s' is reserved and cannot be used as feature name`, featureName)
	}
	if strings.ContainsAny(featureName, `"`) {
		return "", fmt.Errorf(`feature name '%s' contains invalid character '"'`, featureName)
	}
	return featureName, nil
}

func quote(column string) string {
	return `"` + column + `"`
}
