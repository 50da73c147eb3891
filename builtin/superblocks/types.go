// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package superblocks

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/relay/relay"
)

// Status is the status of a superblock.
type Status uint8

const (
	Uninitialized Status = iota
	New
	InBattle
	SemiApproved
	Approved
	Invalid
)

var statusNames = [...]string{"Uninitialized", "New", "InBattle", "SemiApproved", "Approved", "Invalid"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "Unknown"
}

// Header is the proposed content of a superblock.
type Header struct {
	MerkleRoot      relay.Bytes32
	AccumulatedWork *big.Int
	Timestamp       uint64
	PrevTimestamp   uint64
	LastHash        relay.Bytes32
	LastBits        uint32
	ParentID        relay.Bytes32
}

// ID computes the superblock identifier.
func (h *Header) ID() relay.Bytes32 {
	data, err := rlp.EncodeToBytes(h)
	if err != nil {
		panic(err)
	}
	return relay.Keccak256(data)
}

// Superblock is the stored record of a superblock.
type Superblock struct {
	Header
	Height    uint32
	Status    Status
	Submitter relay.Address
	Index     uint64
}

// Exists returns whether the superblock was ever stored.
func (s *Superblock) Exists() bool {
	return s.Status != Uninitialized
}

type heightKey uint32

func (h heightKey) Bytes() []byte {
	return []byte{byte(h >> 24), byte(h >> 16), byte(h >> 8), byte(h)}
}
