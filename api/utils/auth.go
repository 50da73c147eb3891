// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"bytes"
	"crypto/ecdsa"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/vechain/relay/cry"
	"github.com/vechain/relay/engine"
	"github.com/vechain/relay/relay"
)

// Headers of a signed request.
const (
	SignatureHeader = "x-relay-signature"
	ExpiryHeader    = "x-relay-expiry"
)

const (
	// MaxSignatureTTL bounds how far in the future a signed request may expire, in seconds.
	MaxSignatureTTL = 600
	maxSignedBody   = 64 * 1024
)

// RequestHash returns the hash an account signs to authorize a request.
func RequestHash(method, path string, expiry uint64, body []byte) relay.Bytes32 {
	return relay.Blake2bFn(func(w io.Writer) {
		fmt.Fprintf(w, "%s %s\n%d\n", method, path, expiry)
		w.Write(body)
	})
}

// SignRequest sets the signature headers of req, authorizing it on behalf of
// the account of key until expiry.
func SignRequest(req *http.Request, genesis relay.Bytes32, key *ecdsa.PrivateKey, expiry uint64) error {
	var body []byte
	if req.Body != nil {
		var err error
		if body, err = io.ReadAll(req.Body); err != nil {
			return err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
	}
	sig, err := cry.NewSigning(genesis).Sign(RequestHash(req.Method, req.URL.Path, expiry, body), key)
	if err != nil {
		return err
	}
	req.Header.Set(SignatureHeader, hexutil.Encode(sig))
	req.Header.Set(ExpiryHeader, strconv.FormatUint(expiry, 10))
	return nil
}

// Authenticator recovers the accounts signing requests. A signed request is
// accepted once, until it expires.
type Authenticator struct {
	engine *engine.Engine
	lock   sync.Mutex
	// request hash to expiry
	seen map[relay.Bytes32]uint64
}

func NewAuthenticator(engine *engine.Engine) *Authenticator {
	return &Authenticator{
		engine: engine,
		seen:   make(map[relay.Bytes32]uint64),
	}
}

// Authenticate returns the account which signed req. The body is consumed
// and restored for later parsing.
func (a *Authenticator) Authenticate(req *http.Request) (relay.Address, error) {
	sigHex := req.Header.Get(SignatureHeader)
	if sigHex == "" {
		return relay.Address{}, Unauthorized(errors.New("signature required"))
	}
	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		return relay.Address{}, BadRequest(errors.WithMessage(err, SignatureHeader))
	}
	expiry, err := strconv.ParseUint(req.Header.Get(ExpiryHeader), 10, 64)
	if err != nil {
		return relay.Address{}, BadRequest(errors.WithMessage(err, ExpiryHeader))
	}
	now := a.engine.Now()
	if expiry <= now {
		return relay.Address{}, Unauthorized(errors.New("signature expired"))
	}
	if expiry > now+MaxSignatureTTL {
		return relay.Address{}, BadRequest(errors.Errorf("%s: more than %d seconds ahead", ExpiryHeader, MaxSignatureTTL))
	}

	body, err := io.ReadAll(io.LimitReader(req.Body, maxSignedBody+1))
	if err != nil {
		return relay.Address{}, BadRequest(errors.WithMessage(err, "body"))
	}
	if len(body) > maxSignedBody {
		return relay.Address{}, BadRequest(errors.New("body: too large"))
	}
	req.Body = io.NopCloser(bytes.NewReader(body))

	genesis, err := a.engine.Genesis()
	if err != nil {
		return relay.Address{}, err
	}
	hash := RequestHash(req.Method, req.URL.Path, expiry, body)
	signer, err := cry.NewSigning(genesis).Signer(hash, sig)
	if err != nil {
		return relay.Address{}, Unauthorized(errors.WithMessage(err, "bad signature"))
	}

	a.lock.Lock()
	defer a.lock.Unlock()
	for h, exp := range a.seen {
		if exp <= now {
			delete(a.seen, h)
		}
	}
	if _, ok := a.seen[hash]; ok {
		return relay.Address{}, Unauthorized(errors.New("request replayed"))
	}
	a.seen[hash] = expiry
	return signer, nil
}

// Authorize rejects the call when account is not the signer.
func Authorize(signer, account relay.Address, role string) error {
	if signer != account {
		return Forbidden(errors.Errorf("%s %v not the signer %v", role, account, signer))
	}
	return nil
}
