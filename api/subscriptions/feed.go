// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"sync"

	"github.com/vechain/relay/relay"
)

// Feed fans the events of committed calls out to listeners.
// It is meant to be installed as an engine event sink.
type Feed struct {
	mu        sync.RWMutex
	listeners map[chan []*relay.Event]struct{}
}

func NewFeed() *Feed {
	return &Feed{listeners: make(map[chan []*relay.Event]struct{})}
}

func (f *Feed) Subscribe(ch chan []*relay.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listeners[ch] = struct{}{}
}

func (f *Feed) Unsubscribe(ch chan []*relay.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.listeners, ch)
}

// Insert never blocks. A listener whose channel is full misses the batch,
// which shows up as a gap in the event sequence.
func (f *Feed) Insert(events []*relay.Event) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for lsn := range f.listeners {
		select {
		case lsn <- events:
		default:
			metricDropped().Add(1)
		}
	}
	return nil
}
