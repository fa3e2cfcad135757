package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

/*
Set is a dataset.Dataset backed by an SQL database to which samples
can be written.

Its Write method takes a slice of dataset.Sample and adds them to the
database, returning the number of samples written and an error if
any occurred.
*/
type Set interface {
	dataset.Dataset
	Write(context.Context, []dataset.Sample) (int, error)
}

type columnCriterion struct {
	column string
	value  string
}

type dbSet struct {
	db                  Adapter
	features            []feature.Feature
	columnCriteria      []columnCriterion
	featureNamesColumns map[string]string
	columns             []string
	count               *int
}

type valueCount struct {
	Value sql.NullString `db:"value"`
	Count int            `db:"count"`
}

/*
Open takes an Adapter to a db backend and a slice of feature.Feature
and returns a Set backed by the given adapter or an error.

This function expects the adapter to have the samples table already
created with a column for each of the features, and returns an error
if any of them is missing.
*/
func Open(ctx context.Context, dbAdapter Adapter, features []feature.Feature) (Set, error) {
	ss := &dbSet{db: dbAdapter, features: features}
	err := ss.initFeatureColumns()
	if err != nil {
		return nil, err
	}
	err = ss.checkColumns(ctx)
	if err != nil {
		return nil, err
	}
	return ss, nil
}

// checkColumns returns an error unless the samples table has a column for
// every feature. Quoted names cannot be trusted for this: SQLite reads a
// quoted identifier that names no column as a string literal.
func (ss *dbSet) checkColumns(ctx context.Context) error {
	rows, err := ss.db.DB().QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %s WHERE 1 = 0", SamplesTable))
	if err != nil {
		return fmt.Errorf("checking samples table: %v", err)
	}
	columns, err := rows.Columns()
	if cerr := rows.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("checking samples table: %v", err)
	}
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	for _, f := range ss.features {
		column := ss.featureNamesColumns[f.Name()]
		if !present[column] {
			return fmt.Errorf("samples table has no column %s for feature %s", column, f.Name())
		}
	}
	return nil
}

/*
Create takes an Adapter and a slice of feature.Feature and returns a Set
backed by the given adapter or an error.

This function will ensure that the samples table is created on the
database.
*/
func Create(ctx context.Context, dbAdapter Adapter, features []feature.Feature) (Set, error) {
	ss := &dbSet{db: dbAdapter, features: features}
	err := ss.initFeatureColumns()
	if err != nil {
		return nil, err
	}
	var createStmtBuf bytes.Buffer
	createStmtBuf.WriteString(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s(", SamplesTable))
	for _, c := range ss.columns {
		createStmtBuf.WriteString(fmt.Sprintf("%s TEXT NULL, ", quote(c)))
	}
	createStmtBuf.WriteString(dbAdapter.IDColumnDefinition())
	createStmtBuf.WriteString(")")
	_, err = ss.db.DB().ExecContext(ctx, createStmtBuf.String())
	if err != nil {
		return nil, fmt.Errorf("ensuring samples table exists: %v", err)
	}
	return ss, nil
}

func (ss *dbSet) Count(ctx context.Context) (int, error) {
	if ss.count != nil {
		return *ss.count, nil
	}
	where, args := ss.whereClause()
	query := ss.db.DB().Rebind(fmt.Sprintf("SELECT COUNT(*) FROM %s%s", SamplesTable, where))
	var result int
	err := ss.db.DB().GetContext(ctx, &result, query, args...)
	if err != nil {
		return 0, fmt.Errorf("counting samples: %v", err)
	}
	ss.count = &result
	return result, nil
}

func (ss *dbSet) FeatureValues(ctx context.Context, f feature.Feature) ([]string, error) {
	counts, err := ss.CountFeatureValues(ctx, f)
	if err != nil {
		return nil, err
	}
	return dataset.SortedValues(counts), nil
}

func (ss *dbSet) CountFeatureValues(ctx context.Context, f feature.Feature) (map[string]int, error) {
	column, ok := ss.featureNamesColumns[f.Name()]
	if !ok {
		return nil, fmt.Errorf("unknown feature %s", f.Name())
	}
	where, args := ss.whereClause()
	query := ss.db.DB().Rebind(fmt.Sprintf(
		"SELECT %s AS value, COUNT(*) AS count FROM %s%s GROUP BY %s",
		quote(column), SamplesTable, where, quote(column)))
	var rows []valueCount
	err := ss.db.DB().SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("counting values of feature %s: %v", f.Name(), err)
	}
	result := make(map[string]int)
	for _, r := range rows {
		if r.Value.Valid {
			result[r.Value.String] = r.Count
		}
	}
	return result, nil
}

func (ss *dbSet) Samples(ctx context.Context) ([]dataset.Sample, error) {
	where, args := ss.whereClause()
	query := ss.db.DB().Rebind(fmt.Sprintf("SELECT %s FROM %s%s ORDER BY id", ss.selectColumns(), SamplesTable, where))
	rows, err := ss.db.DB().QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing samples: %v", err)
	}
	defer rows.Close()
	var samples []dataset.Sample
	for rows.Next() {
		values := make([]sql.NullString, len(ss.features))
		dest := make([]interface{}, len(values))
		for i := range values {
			dest[i] = &values[i]
		}
		err = rows.Scan(dest...)
		if err != nil {
			return nil, fmt.Errorf("scanning sample: %v", err)
		}
		featureValues := make(map[string]interface{})
		for i, f := range ss.features {
			if values[i].Valid {
				featureValues[f.Name()] = values[i].String
			}
		}
		samples = append(samples, dataset.NewSample(featureValues))
	}
	return samples, rows.Err()
}

func (ss *dbSet) SubsetWith(ctx context.Context, fc feature.Criterion) (dataset.Dataset, error) {
	column, ok := ss.featureNamesColumns[fc.Feature().Name()]
	if !ok {
		return nil, fmt.Errorf("cannot obtain column name for feature '%s'", fc.Feature().Name())
	}
	columnCriteria := make([]columnCriterion, 0, len(ss.columnCriteria)+1)
	columnCriteria = append(columnCriteria, ss.columnCriteria...)
	columnCriteria = append(columnCriteria, columnCriterion{column, fc.Value()})
	return &dbSet{
		db:                  ss.db,
		features:            ss.features,
		columnCriteria:      columnCriteria,
		featureNamesColumns: ss.featureNamesColumns,
		columns:             ss.columns,
	}, nil
}

func (ss *dbSet) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ss.columns)), ", ")
	insertStmt := ss.db.DB().Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", SamplesTable, ss.selectColumns(), placeholders))
	tx, err := ss.db.DB().BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %v", err)
	}
	stmt, err := tx.PreparexContext(ctx, insertStmt)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("preparing insert command: %v", err)
	}
	defer stmt.Close()
	for n, s := range samples {
		values, err := ss.rawValues(ctx, s)
		if err == nil {
			_, err = stmt.ExecContext(ctx, values...)
		}
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("inserting sample %d: %v", n+1, err)
		}
	}
	err = tx.Commit()
	if err != nil {
		return 0, fmt.Errorf("committing samples: %v", err)
	}
	ss.count = nil
	return len(samples), nil
}

func (ss *dbSet) rawValues(ctx context.Context, s dataset.Sample) ([]interface{}, error) {
	values := make([]interface{}, 0, len(ss.features))
	for _, f := range ss.features {
		v, err := s.ValueFor(ctx, f)
		if err != nil {
			return nil, err
		}
		if v == nil {
			values = append(values, nil)
			continue
		}
		vs, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string value for feature %s of sample, got %T", f.Name(), v)
		}
		values = append(values, vs)
	}
	return values, nil
}

func (ss *dbSet) whereClause() (string, []interface{}) {
	if len(ss.columnCriteria) == 0 {
		return "", nil
	}
	conditions := make([]string, 0, len(ss.columnCriteria))
	values := make([]interface{}, 0, len(ss.columnCriteria))
	for _, c := range ss.columnCriteria {
		conditions = append(conditions, fmt.Sprintf("%s = ?", quote(c.column)))
		values = append(values, c.value)
	}
	return " WHERE " + strings.Join(conditions, " AND "), values
}

func (ss *dbSet) selectColumns() string {
	quoted := make([]string, 0, len(ss.columns))
	for _, c := range ss.columns {
		quoted = append(quoted, quote(c))
	}
	return strings.Join(quoted, ", ")
}

func (ss *dbSet) initFeatureColumns() error {
	if len(ss.features) == 0 {
		return fmt.Errorf("no features to store")
	}
	columnFeatures := make(map[string]feature.Feature)
	ss.featureNamesColumns = make(map[string]string)
	for _, f := range ss.features {
		column, err := ss.db.ColumnName(f.Name())
		if err != nil {
			return fmt.Errorf("invalid feature %s: %v", f.Name(), err)
		}
		of, ok := columnFeatures[column]
		if ok {
			return fmt.Errorf("%s and %s feature names translate to the same column name %s", f.Name(), of.Name(), column)
		}
		columnFeatures[column] = f
		ss.featureNamesColumns[f.Name()] = column
		ss.columns = append(ss.columns, column)
	}
	return nil
}
