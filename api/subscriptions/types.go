// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/url"
	"slices"

	"github.com/pkg/errors"

	"github.com/vechain/relay/relay"
)

// EventFilter selects streamed events. Unset fields match everything.
type EventFilter struct {
	ClaimID *relay.Bytes32
	Account *relay.Address
	Names   []string
}

func parseEventFilter(query url.Values) (*EventFilter, error) {
	filter := &EventFilter{Names: query["name"]}
	if s := query.Get("claimId"); s != "" {
		id, err := relay.ParseBytes32(s)
		if err != nil {
			return nil, errors.WithMessage(err, "claimId")
		}
		filter.ClaimID = &id
	}
	if s := query.Get("account"); s != "" {
		addr, err := relay.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessage(err, "account")
		}
		filter.Account = addr
	}
	return filter, nil
}

func (f *EventFilter) match(ev *relay.Event) bool {
	if f.ClaimID != nil && *f.ClaimID != ev.ClaimID {
		return false
	}
	if f.Account != nil && *f.Account != ev.Account && *f.Account != ev.Counterparty {
		return false
	}
	if len(f.Names) > 0 && !slices.Contains(f.Names, ev.Name) {
		return false
	}
	return true
}
