// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import "github.com/vechain/relay/relay"

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive range of unix timestamps. A To lower than From leaves the range open.
type Range struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects events. Nil fields match everything.
type Filter struct {
	ClaimID *relay.Bytes32 `json:"claimId"`
	// Names matches any of the given event names.
	Names []string `json:"names"`
	// Account matches the account or the counterparty of an event.
	Account *relay.Address `json:"account"`
	Range   *Range         `json:"range"`
	Order   Order          `json:"order"` // default asc
	Options *Options       `json:"options"`
}
