// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb indexes the events emitted by committed calls.
package eventdb

import (
	"context"
	"database/sql"
	"math/big"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/relay/relay"
)

const insertEventQuery = "INSERT OR REPLACE INTO event(seq, name, claimID, account, counterparty, sessionID, amount, code, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"

// EventDB manages all events.
type EventDB struct {
	path          string
	db            *sql.DB
	insertStmt    *sql.Stmt
	driverVersion string
}

// New create or open event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	// a single connection keeps an in-memory database alive and shared
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}
	// filters build their statements per query, only the insert is reused
	insertStmt, err := db.Prepare(insertEventQuery)
	if err != nil {
		return nil, errors.Wrap(err, "prepare insert")
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path:          path,
		db:            db,
		insertStmt:    insertStmt,
		driverVersion: driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Path returns the path of the db.
func (db *EventDB) Path() string {
	return db.path
}

// DriverVersion returns the version of the sqlite driver.
func (db *EventDB) DriverVersion() string {
	return db.driverVersion
}

// Close close the event db.
func (db *EventDB) Close() {
	db.insertStmt.Close()
	db.db.Close()
}

// Insert writes events in one transaction. Events are keyed by sequence, re-inserting replaces.
func (db *EventDB) Insert(events []*relay.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	txStmt := tx.Stmt(db.insertStmt)
	for _, ev := range events {
		if _, err := txStmt.Exec(
			ev.Seq,
			ev.Name,
			ev.ClaimID.Bytes(),
			ev.Account.Bytes(),
			ev.Counterparty.Bytes(),
			ev.SessionID.Bytes(),
			amountValue(ev.Amount),
			ev.Code,
			ev.Timestamp,
		); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "insert event %d", ev.Seq)
		}
	}
	metricInsertedEvents().Add(int64(len(events)))
	return tx.Commit()
}

// Filter returns events matching the filter.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*relay.Event, error) {
	if filter == nil {
		return db.query(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	metricsHandleFilter(filter)

	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND timestamp >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND timestamp <= ?"
		}
	}
	if filter.ClaimID != nil {
		args = append(args, filter.ClaimID.Bytes())
		stmt += " AND claimID = ?"
	}
	if filter.Account != nil {
		args = append(args, filter.Account.Bytes(), filter.Account.Bytes())
		stmt += " AND (account = ? OR counterparty = ?)"
	}
	if len(filter.Names) > 0 {
		stmt += " AND name IN (?" + strings.Repeat(", ?", len(filter.Names)-1) + ")"
		for _, name := range filter.Names {
			args = append(args, name)
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(ctx, stmt, args...)
}

// LastSeq returns the sequence of the newest event, zero if none.
func (db *EventDB) LastSeq(ctx context.Context) (uint64, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRowContext(ctx, "SELECT MAX(seq) FROM event").Scan(&seq); err != nil {
		return 0, err
	}
	return uint64(seq.Int64), nil
}

func (db *EventDB) query(ctx context.Context, stmt string, args ...any) ([]*relay.Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*relay.Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq          uint64
			name         string
			claimID      []byte
			account      []byte
			counterparty []byte
			sessionID    []byte
			amount       []byte
			code         uint32
			timestamp    uint64
		)
		if err := rows.Scan(
			&seq,
			&name,
			&claimID,
			&account,
			&counterparty,
			&sessionID,
			&amount,
			&code,
			&timestamp,
		); err != nil {
			return nil, err
		}
		ev := &relay.Event{
			Seq:          seq,
			Name:         name,
			ClaimID:      relay.BytesToBytes32(claimID),
			Account:      relay.BytesToAddress(account),
			Counterparty: relay.BytesToAddress(counterparty),
			SessionID:    relay.BytesToBytes32(sessionID),
			Code:         code,
			Timestamp:    timestamp,
		}
		if amount != nil {
			ev.Amount = new(big.Int).SetBytes(amount)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func amountValue(amount *big.Int) []byte {
	if amount == nil {
		return nil
	}
	// a zero amount must not read back as absent
	if amount.Sign() == 0 {
		return []byte{}
	}
	return amount.Bytes()
}
