// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

// create a table for events
const eventTableSchema = `
create table if not exists event (
	seq integer primary key,
	name text not null,
	claimID blob(32),
	account blob(20),
	counterparty blob(20),
	sessionID blob(32),
	amount blob,
	code integer,
	timestamp integer
);

CREATE INDEX if not exists claimIndex on event(claimID);
CREATE INDEX if not exists nameIndex on event(name);
CREATE INDEX if not exists accountIndex on event(account);
CREATE INDEX if not exists counterpartyIndex on event(counterparty);
CREATE INDEX if not exists timestampIndex on event(timestamp);
`
