/*
Package sqlite3adapter provides an implementation of the
Adapter interface in the sqldataset package that works
over an SQLite3 database file.
*/
package sqlite3adapter

import (
	"github.com/jmoiron/sqlx"
	"github.com/pbanos/sapling/dataset/sqldataset"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

type adapter struct {
	db *sqlx.DB
}

/*
New takes a path to an SQLite3 database file and returns an Adapter that works
on the file's database or an error if it fails to open as an sqlite3 database.
*/
func New(path string) (sqldataset.Adapter, error) {
	db, err := sqlx.Open("sqlite3", path)
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
	return `"id" INTEGER PRIMARY KEY AUTOINCREMENT`
}

func (a *adapter) Close() error {
	return a.db.Close()
}
