// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package claims

import (
	"encoding/binary"
	"math/big"

	"github.com/vechain/relay/builtin/superblocks"
	"github.com/vechain/relay/relay"
)

// SettlementKind is the kind of payout a decided claim runs.
type SettlementKind uint8

const (
	SettlementNone SettlementKind = iota
	SettlementPayChallengers
	SettlementPaySubmitter
)

func (k SettlementKind) String() string {
	switch k {
	case SettlementPayChallengers:
		return "pay-challengers"
	case SettlementPaySubmitter:
		return "pay-submitter"
	default:
		return "none"
	}
}

// Settlement tracks the progress of a payout over the challenger list.
type Settlement struct {
	Kind SettlementKind
	// Pool is the forfeited submitter bond when paying challengers,
	// or the sum of absorbed challenger bonds when paying the submitter.
	Pool        *big.Int
	Distributed *big.Int
	Cursor      uint32
	Done        bool
}

// Claim is the stored record of a claim about a superblock.
type Claim struct {
	Submitter           relay.Address
	CreatedAt           uint64
	ChallengerCount     uint32
	CurrentChallenger   uint32
	ChallengeTimeout    uint64
	VerificationOngoing bool
	Decided             bool
	Invalid             bool
	BattledDeposits     *big.Int
	Settlement          Settlement
}

// Exists returns whether the claim was ever created.
func (c *Claim) Exists() bool {
	return !c.Submitter.IsZero()
}

// Settling returns whether a payout is started but not complete.
func (c *Claim) Settling() bool {
	return c.Settlement.Kind != SettlementNone && !c.Settlement.Done
}

// ProposeArgs are the arguments of a proposal.
type ProposeArgs struct {
	superblocks.Header
	Submitter relay.Address
}

// DepositLedger holds the free balance of accounts.
type DepositLedger interface {
	FreeBalance(account relay.Address) (*big.Int, error)
	Bond(account relay.Address, amount *big.Int) error
	Unbond(account relay.Address, amount *big.Int) error
}

// SuperblockChain maintains status and linkage of superblocks.
type SuperblockChain interface {
	Propose(header *superblocks.Header, submitter relay.Address) (relay.Bytes32, error)
	Challenge(id relay.Bytes32, challenger relay.Address) error
	Confirm(id relay.Bytes32) error
	SemiApprove(id relay.Bytes32) error
	Invalidate(id relay.Bytes32) error
	Status(id relay.Bytes32) (superblocks.Status, error)
	ParentID(id relay.Bytes32) (relay.Bytes32, error)
	Height(id relay.Bytes32) (uint32, error)
	At(height uint32) (relay.Bytes32, error)
	Best() (relay.Bytes32, error)
}

// BattleArbiter runs verification sessions.
type BattleArbiter interface {
	BeginSession(claimID relay.Bytes32, submitter, challenger relay.Address) (relay.Bytes32, error)
}

// Collaborators are the contracts a claim manager drives.
type Collaborators struct {
	Ledger  DepositLedger
	Chain   SuperblockChain
	Arbiter BattleArbiter
	// ArbiterAddress is the only caller accepted by SessionDecided.
	ArbiterAddress relay.Address
}

// accountKey addresses per (claim, account) values.
type accountKey struct {
	id      relay.Bytes32
	account relay.Address
}

func (k accountKey) Bytes() []byte {
	return append(append(make([]byte, 0, 52), k.id[:]...), k.account[:]...)
}

// indexKey addresses the challenger list of a claim.
type indexKey struct {
	id    relay.Bytes32
	index uint32
}

func (k indexKey) Bytes() []byte {
	return binary.BigEndian.AppendUint32(append(make([]byte, 0, 36), k.id[:]...), k.index)
}
