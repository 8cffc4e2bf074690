// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resultdb stores report aggregates in a SQL database so they
// can be queried across runs.
package resultdb

import (
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/martinmaxk/ESPP-Master-Thesis/resultfmt"
	"github.com/martinmaxk/ESPP-Master-Thesis/sweep"
)

// DB is a database of aggregates. It implements sweep.Sink.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertAggregate *sql.Stmt
	insertValue     *sql.Stmt
}

var _ sweep.Sink = (*DB)(nil)

// OpenSQL opens a DB backed by a SQL database. The parameters are the
// same as the parameters for sql.Open. Only sqlite3 is registered by
// this package.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	// An in-memory SQLite database exists per connection.
	db.SetMaxOpenConns(1)
	d := &DB{sql: db}
	if err := d.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS Aggregates (
	AggregateID INTEGER PRIMARY KEY AUTOINCREMENT,
	Report VARCHAR(255) NOT NULL,
	Normalized BOOLEAN NOT NULL,
	Family VARCHAR(255) NOT NULL,
	Label VARCHAR(255) NOT NULL,
	Included INTEGER NOT NULL,
	Expected INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS AggregateValues (
	AggregateID INTEGER NOT NULL,
	Position INTEGER NOT NULL,
	Name VARCHAR(255) NOT NULL,
	Value DOUBLE NOT NULL,
	PRIMARY KEY (AggregateID, Position),
	FOREIGN KEY (AggregateID) REFERENCES Aggregates(AggregateID) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS AggregatesReport ON Aggregates(Report, Normalized);
`

// createTables creates any missing tables.
func (db *DB) createTables() error {
	for _, q := range strings.Split(schema, ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return errors.Wrap(err, "create table")
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertAggregate, err = db.sql.Prepare("INSERT INTO Aggregates(Report, Normalized, Family, Label, Included, Expected) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return errors.WithStack(err)
	}
	db.insertValue, err = db.sql.Prepare("INSERT INTO AggregateValues(AggregateID, Position, Name, Value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// Record inserts agg, written to report in mode under family.
func (db *DB) Record(report string, mode sweep.Mode, family string, agg *resultfmt.Aggregate) (err error) {
	tx, err := db.sql.Begin()
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = errors.WithStack(tx.Commit())
		}
	}()
	res, err := tx.Stmt(db.insertAggregate).Exec(report, mode == sweep.Normalized, family, agg.Map, agg.Included, agg.Expected)
	if err != nil {
		return errors.Wrap(err, "insert aggregate")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.WithStack(err)
	}
	stmt := tx.Stmt(db.insertValue)
	for i, v := range agg.Values {
		if _, err := stmt.Exec(id, i, v.Key, v.Value); err != nil {
			return errors.Wrapf(err, "insert value %s", v.Key)
		}
	}
	return nil
}

// A Row is a stored aggregate with its report placement.
type Row struct {
	Family string
	*resultfmt.Aggregate
}

// Aggregates returns the aggregates recorded for report in mode, in
// insertion order.
func (db *DB) Aggregates(report string, mode sweep.Mode) ([]Row, error) {
	rows, err := db.sql.Query(`
SELECT a.AggregateID, a.Family, a.Label, a.Included, a.Expected, v.Name, v.Value
FROM Aggregates a LEFT JOIN AggregateValues v ON v.AggregateID = a.AggregateID
WHERE a.Report = ? AND a.Normalized = ?
ORDER BY a.AggregateID, v.Position`, report, mode == sweep.Normalized)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	var (
		out    []Row
		lastID int64 = -1
	)
	for rows.Next() {
		var (
			id    int64
			r     = Row{Aggregate: new(resultfmt.Aggregate)}
			name  sql.NullString
			value sql.NullFloat64
		)
		if err := rows.Scan(&id, &r.Family, &r.Map, &r.Included, &r.Expected, &name, &value); err != nil {
			return nil, errors.WithStack(err)
		}
		if id != lastID {
			out = append(out, r)
			lastID = id
		}
		if name.Valid {
			cur := out[len(out)-1].Aggregate
			cur.Values = append(cur.Values, resultfmt.Value{Key: name.String, Value: value.Float64})
		}
	}
	return out, errors.WithStack(rows.Err())
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertAggregate.Close(); err != nil {
		return errors.WithStack(err)
	}
	if err := db.insertValue.Close(); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(db.sql.Close())
}
