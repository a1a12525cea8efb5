// Package postgres bulk-loads the normalized organisation dataset into
// PostgreSQL for downstream consumers of the social map.
package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	pq "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/socialekaart/sokaart/org"
)

type DB struct {
	Db     *sql.DB
	Schema string
	Table  string
	Params string
}

const defaultTable = "organisations"

var columns = []struct {
	name    string
	sqlType string
}{
	{"id", "INT PRIMARY KEY"},
	{"name", "TEXT"},
	{"pc6", "TEXT"},
	{"category", "TEXT"},
	{"raw_category", "TEXT"},
	{"stadsdeel", "TEXT"},
	{"wijk", "TEXT"},
	{"buurt", "TEXT"},
	{"lat", "DOUBLE PRECISION"},
	{"lon", "DOUBLE PRECISION"},
}

// Open connects with a postgres:// URL or a plain libpq connection
// string.
func Open(connection string, schema string) (*DB, error) {
	db := &DB{Schema: schema, Table: defaultTable}
	if db.Schema == "" {
		db.Schema = "public"
	}

	params := connection
	if strings.HasPrefix(params, "postgres://") {
		var err error
		params, err = pq.ParseURL(params)
		if err != nil {
			return nil, errors.Wrap(err, "parsing connection url")
		}
	}
	db.Params = params

	var err error
	db.Db, err = sql.Open("postgres", params)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	// sql.Open is lazy, check the connection now
	if err := db.Db.Ping(); err != nil {
		db.Db.Close()
		return nil, errors.Wrap(err, "connecting to database")
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.Db.Close()
}

func (db *DB) createTableSQL() string {
	cols := make([]string, 0, len(columns))
	for _, col := range columns {
		cols = append(cols, fmt.Sprintf("\"%s\" %s", col.name, col.sqlType))
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s"."%s" (%s)`,
		db.Schema, db.Table, strings.Join(cols, ", "))
}

func (db *DB) columnNames() []string {
	names := make([]string, 0, len(columns))
	for _, col := range columns {
		names = append(names, col.name)
	}
	return names
}

// Import replaces the table content with the given dataset in a single
// transaction, using COPY FROM STDIN.
func (db *DB) Import(orgs []*org.Organisation) error {
	tx, err := db.Db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin import transaction")
	}
	defer func() {
		if tx != nil {
			tx.Rollback()
		}
	}()

	if _, err := tx.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, db.Schema)); err != nil {
		return errors.Wrapf(err, "creating schema %s", db.Schema)
	}
	if _, err := tx.Exec(db.createTableSQL()); err != nil {
		return errors.Wrapf(err, "creating table %s.%s", db.Schema, db.Table)
	}
	if _, err := tx.Exec(fmt.Sprintf(`TRUNCATE TABLE "%s"."%s"`, db.Schema, db.Table)); err != nil {
		return errors.Wrapf(err, "truncating table %s.%s", db.Schema, db.Table)
	}

	stmt, err := tx.Prepare(pq.CopyInSchema(db.Schema, db.Table, db.columnNames()...))
	if err != nil {
		return errors.Wrap(err, "preparing copy")
	}
	for _, o := range orgs {
		_, err = stmt.Exec(o.Id, o.Name, o.PC6, o.Category, o.RawCategory,
			o.Stadsdeel, o.Wijk, o.Buurt, o.Lat, o.Long)
		if err != nil {
			stmt.Close()
			return errors.Wrapf(err, "copying organisation %d", o.Id)
		}
	}
	// final Exec flushes the copy buffer
	if _, err := stmt.Exec(); err != nil {
		stmt.Close()
		return errors.Wrap(err, "finishing copy")
	}
	if err := stmt.Close(); err != nil {
		return errors.Wrap(err, "closing copy")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit import transaction")
	}
	tx = nil
	return nil
}
