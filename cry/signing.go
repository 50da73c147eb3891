// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cry signs the hashes accounts authorize calls with, and recovers their signers.
package cry

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/relay/relay"
)

// Signing to sign a hash or extract its signer.
type Signing struct {
	genesis relay.Bytes32
}

// NewSigning create a signing object.
// The 'genesis' superblock id is to prevent replay across relays.
func NewSigning(genesis relay.Bytes32) *Signing {
	return &Signing{genesis}
}

// xor signing hash with genesis id
func (s *Signing) mask(hash relay.Bytes32) relay.Bytes32 {
	for i := range hash {
		hash[i] ^= s.genesis[i]
	}
	return hash
}

// Sign signs hash with the given private key, in the [R || S || V] format.
func (s *Signing) Sign(hash relay.Bytes32, key *ecdsa.PrivateKey) ([]byte, error) {
	masked := s.mask(hash)
	return crypto.Sign(masked[:], key)
}

// Signer recovers the account which signed hash.
func (s *Signing) Signer(hash relay.Bytes32, sig []byte) (relay.Address, error) {
	masked := s.mask(hash)
	pub, err := crypto.SigToPub(masked[:], sig)
	if err != nil {
		return relay.Address{}, err
	}
	return relay.Address(crypto.PubkeyToAddress(*pub)), nil
}

// Address returns the account of a private key.
func Address(key *ecdsa.PrivateKey) relay.Address {
	return relay.Address(crypto.PubkeyToAddress(key.PublicKey))
}
