// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/relay/kv"
	"github.com/vechain/relay/relay"
)

// Stage abstracts the changes made on a state.
type Stage struct {
	store kv.Store
	keys  [][]byte
	vals  [][]byte
}

func newStage(store kv.Store, changes map[storageKey]rlp.RawValue) *Stage {
	stage := &Stage{store: store}
	for k := range changes {
		stage.keys = append(stage.keys, k.bytes())
	}
	sort.Slice(stage.keys, func(i, j int) bool {
		return bytes.Compare(stage.keys[i], stage.keys[j]) < 0
	})
	for _, k := range stage.keys {
		var key storageKey
		copy(key.addr[:], k[:20])
		copy(key.key[:], k[20:])
		stage.vals = append(stage.vals, changes[key])
	}
	return stage
}

// Len returns count of changed slots.
func (s *Stage) Len() int {
	return len(s.keys)
}

// Hash computes the digest of all changes. Empty stage results zero hash.
func (s *Stage) Hash() relay.Bytes32 {
	if len(s.keys) == 0 {
		return relay.Bytes32{}
	}
	return relay.Blake2bFn(func(w io.Writer) {
		for i, k := range s.keys {
			w.Write(k)
			w.Write(s.vals[i])
		}
	})
}

// Commit writes all changes atomically into the store.
func (s *Stage) Commit() error {
	if len(s.keys) == 0 {
		return nil
	}
	bulk := s.store.Bulk()
	for i, k := range s.keys {
		var err error
		if len(s.vals[i]) == 0 {
			err = bulk.Delete(k)
		} else {
			err = bulk.Put(k, s.vals[i])
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := bulk.Write(); err != nil {
		return &Error{err}
	}
	return nil
}
