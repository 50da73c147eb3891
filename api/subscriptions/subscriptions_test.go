// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/relay/relay"
	"github.com/vechain/relay/test/datagen"
)

func TestFeed(t *testing.T) {
	feed := NewFeed()
	assert.Empty(t, feed.listeners)

	ch := make(chan []*relay.Event, 1)
	ch2 := make(chan []*relay.Event)
	feed.Subscribe(ch)
	feed.Subscribe(ch2)
	assert.Len(t, feed.listeners, 2)

	batch := []*relay.Event{{Seq: 1, Name: relay.EventClaimCreated}}
	// ch2 is never drained, the insert must not block on it
	require.NoError(t, feed.Insert(batch))
	assert.Equal(t, batch, <-ch)

	feed.Unsubscribe(ch)
	assert.NotContains(t, feed.listeners, ch)
	assert.Contains(t, feed.listeners, ch2)

	require.NoError(t, feed.Insert(batch))
	assert.Empty(t, ch)
}

func TestEventFilter(t *testing.T) {
	claimID := datagen.RandomHash()
	acc := datagen.RandAddress()

	filter, err := parseEventFilter(url.Values{
		"claimId": {claimID.String()},
		"account": {acc.String()},
		"name":    {relay.EventClaimChallenged, relay.EventVerificationGameStarted},
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		event relay.Event
		want  bool
	}{
		{"account", relay.Event{Name: relay.EventClaimChallenged, ClaimID: claimID, Account: acc}, true},
		{"counterparty", relay.Event{Name: relay.EventVerificationGameStarted, ClaimID: claimID, Counterparty: acc}, true},
		{"other claim", relay.Event{Name: relay.EventClaimChallenged, ClaimID: datagen.RandomHash(), Account: acc}, false},
		{"other account", relay.Event{Name: relay.EventClaimChallenged, ClaimID: claimID, Account: datagen.RandAddress()}, false},
		{"other name", relay.Event{Name: relay.EventClaimFailed, ClaimID: claimID, Account: acc}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.match(&tt.event))
		})
	}

	empty, err := parseEventFilter(url.Values{})
	require.NoError(t, err)
	assert.True(t, empty.match(&relay.Event{Name: relay.EventError}))

	_, err = parseEventFilter(url.Values{"claimId": {"0x00"}})
	assert.ErrorContains(t, err, "claimId")
	_, err = parseEventFilter(url.Values{"account": {"zz"}})
	assert.ErrorContains(t, err, "account")
}

func TestSubscriptionsClose(t *testing.T) {
	feed := NewFeed()
	subs := New(feed, []string{"*"})
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	defer ts.Close()

	conn, res, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/subscriptions/events", nil)
	require.NoError(t, err)
	res.Body.Close()
	defer conn.Close()

	require.NoError(t, feed.Insert([]*relay.Event{{Seq: 7, Name: relay.EventClaimPending}}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev relay.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, uint64(7), ev.Seq)

	subs.Close()
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "%v", err)
}

func TestCheckOrigin(t *testing.T) {
	subs := New(NewFeed(), []string{"https://relay.example"})

	req := httptest.NewRequest("GET", "/subscriptions/events", nil)
	assert.True(t, subs.upgrader.CheckOrigin(req))

	req.Header.Set("Origin", "https://RELAY.example")
	assert.True(t, subs.upgrader.CheckOrigin(req))

	req.Header.Set("Origin", "https://other.example")
	assert.False(t, subs.upgrader.CheckOrigin(req))
}
