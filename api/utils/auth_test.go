// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/relay/builtin/superblocks"
	"github.com/vechain/relay/cry"
	"github.com/vechain/relay/engine"
	"github.com/vechain/relay/lvldb"
	"github.com/vechain/relay/relay"
)

func statusOf(err error) int {
	var he *httpError
	if errors.As(err, &he) {
		return he.status
	}
	return 0
}

func TestAuthenticate(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	now := uint64(1_700_000_000)
	eng, err := engine.New(db, relay.DefaultConfig(), engine.Options{Clock: func() uint64 { return now }})
	require.NoError(t, err)
	genesis, err := eng.Initialize(superblocks.DefaultGenesis())
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	auth := NewAuthenticator(eng)

	newReq := func(body string, expiry uint64) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/accounts/x/withdraw", strings.NewReader(body))
		require.NoError(t, SignRequest(req, genesis, key, expiry))
		return req
	}

	req := newReq(`{"amount":"1"}`, now+60)
	signer, err := auth.Authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, cry.Address(key), signer)
	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"amount":"1"}`, string(body), "body is restored")
	assert.NoError(t, Authorize(signer, cry.Address(key), "account"))
	assert.Equal(t, http.StatusForbidden, statusOf(Authorize(signer, relay.Address{1}, "account")))

	_, err = auth.Authenticate(newReq(`{"amount":"1"}`, now+60))
	assert.Equal(t, http.StatusUnauthorized, statusOf(err), "replayed")

	// a new expiry makes a new request
	_, err = auth.Authenticate(newReq(`{"amount":"1"}`, now+61))
	assert.NoError(t, err)

	tampered := newReq(`{"amount":"1"}`, now+62)
	tampered.Body = io.NopCloser(strings.NewReader(`{"amount":"9"}`))
	signer, err = auth.Authenticate(tampered)
	require.NoError(t, err)
	assert.NotEqual(t, cry.Address(key), signer)

	_, err = auth.Authenticate(newReq(`{}`, now))
	assert.Equal(t, http.StatusUnauthorized, statusOf(err), "expired")
	_, err = auth.Authenticate(newReq(`{}`, now+MaxSignatureTTL+1))
	assert.Equal(t, http.StatusBadRequest, statusOf(err), "too far ahead")

	unsigned := httptest.NewRequest(http.MethodPost, "/accounts/x/withdraw", strings.NewReader(`{}`))
	_, err = auth.Authenticate(unsigned)
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	bad := newReq(`{}`, now+60)
	bad.Header.Set(SignatureHeader, "0x1234")
	_, err = auth.Authenticate(bad)
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	// expired entries are dropped
	now += MaxSignatureTTL + 1
	_, err = auth.Authenticate(newReq(`{}`, now+1))
	require.NoError(t, err)
	assert.Len(t, auth.seen, 1)
}
