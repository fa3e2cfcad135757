/*
Package sqldataset provides an implementation of dataset.Dataset
that uses an SQL database as backend.

The dataset uses a single samples table with a TEXT column for each
feature and an id column that keeps the order in which samples were
written. Subsets are never materialized: they accumulate criteria that
are translated into the WHERE clause of every query, and value
distributions are computed by the database with GROUP BY queries.

Adapters for specific databases are provided by the pgadapter and
sqlite3adapter subpackages.
*/
package sqldataset
