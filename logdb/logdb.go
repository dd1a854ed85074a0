// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb keeps the history of transaction receipts in sqlite.
package logdb

import (
	"context"
	"database/sql"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/tx"
)

var logger = log.WithContext("pkg", "logdb")

const (
	insertReceiptQuery = "INSERT OR REPLACE INTO receipt(txID, time, reverted, failedInstruction, errorCode, error) VALUES (?, ?, ?, ?, ?, ?)"
	deleteLogsQuery    = "DELETE FROM log WHERE txID = ?"
	insertLogQuery     = "INSERT INTO log(txID, logIndex, message) VALUES (?, ?, ?)"
	selectReceipt      = "SELECT txID, time, reverted, failedInstruction, errorCode, error FROM receipt"
	selectLogsQuery    = "SELECT message FROM log WHERE txID = ? ORDER BY logIndex ASC"
)

const memPath = ":memory:"

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	dsn := path
	if path != memPath {
		dsn += "?_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	if path == memPath {
		// every connection would see its own empty memory db
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(receiptTableSchema + logTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("log db opened", "path", path, "sqlite", driverVer)
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmtCache:     newStmtCache(db),
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(memPath)
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// WriteReceipts stores receipts and their program logs in one sql transaction.
// A receipt written again replaces the earlier one.
func (db *LogDB) WriteReceipts(receipts []*tx.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}
	err := db.execInTx(func(sqlTx *sql.Tx) error {
		for _, r := range receipts {
			if _, err := sqlTx.Exec(insertReceiptQuery,
				r.TxID.Bytes(),
				r.Time,
				r.Reverted,
				r.FailedInstruction,
				r.ErrorCode,
				r.Error,
			); err != nil {
				return err
			}
			if _, err := sqlTx.Exec(deleteLogsQuery, r.TxID.Bytes()); err != nil {
				return err
			}
			for i, msg := range r.Logs {
				if _, err := sqlTx.Exec(insertLogQuery, r.TxID.Bytes(), i, msg); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "write receipts")
	}
	metricReceiptsWritten().Add(int64(len(receipts)))
	return nil
}

func (db *LogDB) execInTx(proc func(*sql.Tx) error) (err error) {
	sqlTx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(sqlTx); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	return sqlTx.Commit()
}

// GetReceipt returns the receipt of a transaction, nil if it is unknown.
func (db *LogDB) GetReceipt(ctx context.Context, txID pubkey.Key) (*tx.Receipt, error) {
	receipts, err := db.queryReceipts(ctx, selectReceipt+" WHERE txID = ?", txID.Bytes())
	if err != nil {
		return nil, err
	}
	if len(receipts) == 0 {
		return nil, nil
	}
	return receipts[0], nil
}

// FilterReceipts returns receipts matching filter in write order.
func (db *LogDB) FilterReceipts(ctx context.Context, filter *ReceiptFilter) ([]*tx.Receipt, error) {
	if filter == nil {
		return db.queryReceipts(ctx, selectReceipt+" ORDER BY seq ASC")
	}
	metricsHandleFilter(filter)

	var (
		args  []any
		conds []string
	)
	if filter.Range != nil {
		conds = append(conds, "time >= ?")
		args = append(args, filter.Range.From)
		if filter.Range.To >= filter.Range.From {
			conds = append(conds, "time <= ?")
			args = append(args, filter.Range.To)
		}
	}
	if filter.Reverted != nil {
		conds = append(conds, "reverted = ?")
		args = append(args, *filter.Reverted)
	}

	stmt := selectReceipt
	if len(conds) > 0 {
		stmt += " WHERE " + strings.Join(conds, " AND ")
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
	return db.queryReceipts(ctx, stmt, args...)
}

func (db *LogDB) queryReceipts(ctx context.Context, query string, args ...any) ([]*tx.Receipt, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []*tx.Receipt
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			txID []byte
			r    tx.Receipt
		)
		if err := rows.Scan(
			&txID,
			&r.Time,
			&r.Reverted,
			&r.FailedInstruction,
			&r.ErrorCode,
			&r.Error,
		); err != nil {
			return nil, err
		}
		r.TxID = pubkey.BytesToKey(txID)
		receipts = append(receipts, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, r := range receipts {
		if r.Logs, err = db.queryLogs(ctx, r.TxID); err != nil {
			return nil, err
		}
	}
	return receipts, nil
}

func (db *LogDB) queryLogs(ctx context.Context, txID pubkey.Key) ([]string, error) {
	stmt, err := db.stmtCache.Prepare(selectLogsQuery)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, txID.Bytes())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []string
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, err
		}
		logs = append(logs, msg)
	}
	return logs, rows.Err()
}
