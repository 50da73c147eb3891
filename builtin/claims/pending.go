// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package claims

import (
	"math/big"

	"github.com/vechain/relay/builtin/solidity"
	"github.com/vechain/relay/relay"
)

// pendingList links claims that are undecided or have an unfinished settlement.
type pendingList struct {
	head  *solidity.Bytes32
	tail  *solidity.Bytes32
	count *solidity.Uint256
	next  *solidity.Mapping[relay.Bytes32, relay.Bytes32]
	prev  *solidity.Mapping[relay.Bytes32, relay.Bytes32]
}

func newPendingList(sctx *solidity.Context, headPos, tailPos, countPos relay.Bytes32) *pendingList {
	return &pendingList{
		head:  solidity.NewBytes32(sctx, headPos),
		tail:  solidity.NewBytes32(sctx, tailPos),
		count: solidity.NewUint256(sctx, countPos),
		next:  solidity.NewMapping[relay.Bytes32, relay.Bytes32](sctx, headPos),
		prev:  solidity.NewMapping[relay.Bytes32, relay.Bytes32](sctx, tailPos),
	}
}

// Add appends id to the end of the list.
func (l *pendingList) Add(id relay.Bytes32) error {
	oldTail, err := l.tail.Get()
	if err != nil {
		return err
	}

	if oldTail.IsZero() {
		l.head.Set(&id)
		l.tail.Set(&id)
		return l.count.Add(big.NewInt(1))
	}

	if err := l.next.Set(oldTail, id); err != nil {
		return err
	}
	if err := l.prev.Set(id, oldTail); err != nil {
		return err
	}
	l.tail.Set(&id)
	return l.count.Add(big.NewInt(1))
}

// Contains returns whether id is linked.
func (l *pendingList) Contains(id relay.Bytes32) (bool, error) {
	prev, err := l.prev.Get(id)
	if err != nil {
		return false, err
	}
	if !prev.IsZero() {
		return true, nil
	}
	head, err := l.head.Get()
	if err != nil {
		return false, err
	}
	return !id.IsZero() && head == id, nil
}

// Remove unlinks id, reconnecting adjacent entries.
func (l *pendingList) Remove(id relay.Bytes32) error {
	ok, err := l.Contains(id)
	if err != nil || !ok {
		return err
	}
	prev, err := l.prev.Get(id)
	if err != nil {
		return err
	}
	next, err := l.next.Get(id)
	if err != nil {
		return err
	}

	if !prev.IsZero() {
		if err := l.next.Set(prev, next); err != nil {
			return err
		}
	} else {
		l.head.Set(&next)
	}

	if !next.IsZero() {
		if err := l.prev.Set(next, prev); err != nil {
			return err
		}
	} else {
		l.tail.Set(&prev)
	}

	l.next.Delete(id)
	l.prev.Delete(id)
	return l.count.Sub(big.NewInt(1))
}

// Len returns the count of linked entries.
func (l *pendingList) Len() (uint64, error) {
	count, err := l.count.Get()
	if err != nil {
		return 0, err
	}
	return count.Uint64(), nil
}

// Iter traverses the list from head, until completion or error.
func (l *pendingList) Iter(callback func(relay.Bytes32) error) error {
	return l.IterAfter(relay.Bytes32{}, callback)
}

// IterAfter traverses the entries following after. When after is zero or no
// longer linked, it starts from head.
func (l *pendingList) IterAfter(after relay.Bytes32, callback func(relay.Bytes32) error) error {
	ptr, err := l.head.Get()
	if err != nil {
		return err
	}
	if !after.IsZero() {
		linked, err := l.Contains(after)
		if err != nil {
			return err
		}
		if linked {
			if ptr, err = l.next.Get(after); err != nil {
				return err
			}
		}
	}
	for !ptr.IsZero() {
		next, err := l.next.Get(ptr)
		if err != nil {
			return err
		}
		if err := callback(ptr); err != nil {
			return err
		}
		ptr = next
	}
	return nil
}
