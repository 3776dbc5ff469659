// Package history keeps a local log of past exchanges in a sqlite database.
// The log is display only; nothing here feeds back into requests.
package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/ncruces/go-sqlite3"
	_ "github.com/ncruces/go-sqlite3/embed"
)

type Log struct {
	db   *sqlite3.Conn
	path string
}

type Opt func(*Log)

func WithPath(p string) Opt {
	return func(l *Log) {
		l.path = p
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS
	exchanges (
		rowid INTEGER PRIMARY KEY,
		asked_at INTEGER NOT NULL,
		model TEXT NOT NULL,
		question TEXT NOT NULL,
		answer TEXT NOT NULL
	);
`

func Open(opts ...Opt) (*Log, error) {
	l := &Log{
		path: ":memory:",
	}

	for _, o := range opts {
		o(l)
	}

	db, err := sqlite3.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("sqlite3 open: %w", err)
	}

	if err := db.Exec("PRAGMA journal_mode=WAL;" + schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	l.db = db

	return l, nil
}

func (l *Log) Close() error {
	if l.db == nil {
		return nil
	}

	return l.db.Close()
}

// Exchange is one recorded question and its answer.
type Exchange struct {
	ID       int64
	AskedAt  time.Time
	Model    string
	Question string
	Answer   string
}

func (l *Log) Append(e Exchange) (retErr error) {
	stmt, _, err := l.db.Prepare(`INSERT INTO exchanges (asked_at, model, question, answer) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}

	defer func() {
		if err := stmt.Close(); err != nil {
			retErr = errors.Join(retErr, fmt.Errorf("close insert stmt: %w", err))
		}
	}()

	at := e.AskedAt
	if at.IsZero() {
		at = time.Now()
	}

	stmt.BindInt64(1, at.Unix())
	stmt.BindText(2, e.Model)
	stmt.BindText(3, e.Question)
	stmt.BindText(4, e.Answer)

	if err := stmt.Exec(); err != nil {
		return fmt.Errorf("insert exchange: %w", err)
	}

	return nil
}

// Recent returns up to n exchanges, newest first.
func (l *Log) Recent(n int) (_ []Exchange, retErr error) {
	stmt, _, err := l.db.Prepare(`
		SELECT rowid, asked_at, model, question, answer
		FROM exchanges
		ORDER BY rowid DESC
		LIMIT ?`)
	if err != nil {
		return nil, fmt.Errorf("prepare select: %w", err)
	}

	defer func() {
		if err := stmt.Close(); err != nil {
			retErr = errors.Join(retErr, fmt.Errorf("close select stmt: %w", err))
		}
	}()

	stmt.BindInt64(1, int64(n))

	var out []Exchange

	for stmt.Step() {
		out = append(out, Exchange{
			ID:       stmt.ColumnInt64(0),
			AskedAt:  time.Unix(stmt.ColumnInt64(1), 0),
			Model:    stmt.ColumnText(2),
			Question: stmt.ColumnText(3),
			Answer:   stmt.ColumnText(4),
		})
	}

	if err := stmt.Err(); err != nil {
		return nil, fmt.Errorf("select exchanges: %w", err)
	}

	return out, nil
}

func (l *Log) Clear() error {
	if err := l.db.Exec(`DELETE FROM exchanges`); err != nil {
		return fmt.Errorf("clear exchanges: %w", err)
	}

	return nil
}
