// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// receipts are numbered by seq in write order
const receiptTableSchema = `CREATE TABLE IF NOT EXISTS receipt (
	seq INTEGER PRIMARY KEY,
	txID BLOB(32) NOT NULL UNIQUE,
	time INTEGER NOT NULL,
	reverted INTEGER NOT NULL,
	failedInstruction INTEGER NOT NULL,
	errorCode INTEGER NOT NULL,
	error TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS receiptTimeIndex ON receipt(time);`

const logTableSchema = `CREATE TABLE IF NOT EXISTS log (
	txID BLOB(32) NOT NULL,
	logIndex INTEGER NOT NULL,
	message TEXT NOT NULL,
	PRIMARY KEY (txID, logIndex)
);`
