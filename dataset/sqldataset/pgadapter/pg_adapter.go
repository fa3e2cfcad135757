/*
Package pgadapter provides an implementation of the
Adapter interface in the sqldataset package that works
over a PostgreSQL database.
*/
package pgadapter

import (
	"github.com/jmoiron/sqlx"
	"github.com/pbanos/sapling/dataset/sqldataset"

	// Import of PostgreSQL driver
	_ "github.com/lib/pq"
)

type adapter struct {
	db *sqlx.DB
}

/*
New takes a PostgreSQL database connection URL and returns
an Adapter that works on the database or an error if the URL
cannot be used. No connection is made until the first query.
*/
func New(url string) (sqldataset.Adapter, error) {
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	return &adapter{db}, nil
}

func (a *adapter) DB() *sqlx.DB {
	return a.db
}

func (a *adapter) ColumnName(featureName string) (string, error) {
	return sqldataset.ValidateColumnName(featureName)
}

func (a *adapter) IDColumnDefinition() string {
	return `"id" SERIAL PRIMARY KEY`
}

func (a *adapter) Close() error {
	return a.db.Close()
}
