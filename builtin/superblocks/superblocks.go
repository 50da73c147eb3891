// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package superblocks implements the chain of superblocks: status transitions,
// parent links and the canonical branch of approved superblocks.
package superblocks

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/relay/builtin/reverts"
	"github.com/vechain/relay/builtin/solidity"
	"github.com/vechain/relay/log"
	"github.com/vechain/relay/relay"
	"github.com/vechain/relay/state"
)

var (
	logger = log.WithContext("pkg", "superblocks")

	slotSuperblocks = nameToSlot("superblocks")
	slotCanonical   = nameToSlot("canonical")
	slotBest        = nameToSlot("best")
	slotCount       = nameToSlot("count")
)

func nameToSlot(name string) relay.Bytes32 {
	return relay.BytesToBytes32([]byte(name))
}

// DefaultGenesis returns the genesis superblock a fresh node starts from.
func DefaultGenesis() *Header {
	return &Header{
		MerkleRoot:      relay.Keccak256([]byte("relay genesis")),
		AccumulatedWork: big.NewInt(0),
	}
}

// Chain implements the superblock chain contract.
type Chain struct {
	superblocks *solidity.Mapping[relay.Bytes32, *Superblock]
	canonical   *solidity.Mapping[heightKey, relay.Bytes32]
	best        *solidity.Bytes32
	count       *solidity.Uint256
}

// NewChain create a new instance.
func NewChain(addr relay.Address, state *state.State, meter solidity.MeterFunc) *Chain {
	sctx := solidity.NewContext(addr, state, meter)
	return &Chain{
		superblocks: solidity.NewMapping[relay.Bytes32, *Superblock](sctx, slotSuperblocks),
		canonical:   solidity.NewMapping[heightKey, relay.Bytes32](sctx, slotCanonical),
		best:        solidity.NewBytes32(sctx, slotBest),
		count:       solidity.NewUint256(sctx, slotCount),
	}
}

// Get returns the superblock record. Absent superblocks have status Uninitialized.
func (c *Chain) Get(id relay.Bytes32) (*Superblock, error) {
	sb, err := c.superblocks.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "get superblock")
	}
	return sb, nil
}

func (c *Chain) getExisting(id relay.Bytes32) (*Superblock, error) {
	sb, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	if !sb.Exists() {
		return nil, reverts.Newf(reverts.CodeBadStatus, "superblock %v not found", id.AbbrevString())
	}
	return sb, nil
}

func (c *Chain) add(id relay.Bytes32, sb *Superblock) error {
	index, err := c.count.Get()
	if err != nil {
		return err
	}
	sb.Index = index.Uint64()
	if err := c.superblocks.Set(id, sb); err != nil {
		return err
	}
	return c.count.Add(big.NewInt(1))
}

// Initialize stores the approved genesis superblock. It panics if the chain is already initialized.
func (c *Chain) Initialize(genesis *Header) (relay.Bytes32, error) {
	best, err := c.best.Get()
	if err != nil {
		return relay.Bytes32{}, err
	}
	if !best.IsZero() {
		panic(errors.New("superblock chain already initialized"))
	}
	id := genesis.ID()
	if err := c.add(id, &Superblock{Header: *genesis, Status: Approved}); err != nil {
		return relay.Bytes32{}, err
	}
	c.best.Set(&id)
	if err := c.canonical.Set(0, id); err != nil {
		return relay.Bytes32{}, err
	}
	logger.Debug("initialized", "genesis", id)
	return id, nil
}

// Propose stores a new superblock on top of a semi-approved or approved parent.
func (c *Chain) Propose(header *Header, submitter relay.Address) (relay.Bytes32, error) {
	id := header.ID()
	existing, err := c.Get(id)
	if err != nil {
		return relay.Bytes32{}, err
	}
	if existing.Exists() {
		return relay.Bytes32{}, reverts.Newf(reverts.CodeSuperblockExists, "superblock %v already exists", id.AbbrevString())
	}
	parent, err := c.Get(header.ParentID)
	if err != nil {
		return relay.Bytes32{}, err
	}
	if parent.Status != SemiApproved && parent.Status != Approved {
		return relay.Bytes32{}, reverts.Newf(reverts.CodeBadParent, "parent %v is %v", header.ParentID.AbbrevString(), parent.Status)
	}

	sb := &Superblock{
		Header:    *header,
		Height:    parent.Height + 1,
		Status:    New,
		Submitter: submitter,
	}
	if sb.AccumulatedWork == nil {
		sb.AccumulatedWork = new(big.Int)
	}
	if err := c.add(id, sb); err != nil {
		return relay.Bytes32{}, err
	}
	return id, nil
}

func (c *Chain) transit(id relay.Bytes32, to Status, from ...Status) (*Superblock, error) {
	sb, err := c.getExisting(id)
	if err != nil {
		return nil, err
	}
	for _, s := range from {
		if sb.Status == s {
			sb.Status = to
			if err := c.superblocks.Set(id, sb); err != nil {
				return nil, err
			}
			return sb, nil
		}
	}
	logger.Info("bad status transition", "id", id, "status", sb.Status, "to", to)
	return nil, reverts.Newf(reverts.CodeBadStatus, "superblock %v is %v", id.AbbrevString(), sb.Status)
}

// Challenge marks a new or battling superblock as in battle.
func (c *Chain) Challenge(id relay.Bytes32, challenger relay.Address) error {
	_, err := c.transit(id, InBattle, New, InBattle)
	return err
}

// SemiApprove provisionally accepts a superblock.
func (c *Chain) SemiApprove(id relay.Bytes32) error {
	_, err := c.transit(id, SemiApproved, New, InBattle)
	return err
}

// Invalidate marks a disputed superblock as invalid.
func (c *Chain) Invalidate(id relay.Bytes32) error {
	_, err := c.transit(id, Invalid, InBattle, SemiApproved)
	return err
}

// Confirm approves a superblock whose parent is approved, and makes it the best
// superblock if it carries more accumulated work.
func (c *Chain) Confirm(id relay.Bytes32) error {
	sb, err := c.getExisting(id)
	if err != nil {
		return err
	}
	parent, err := c.Get(sb.ParentID)
	if err != nil {
		return err
	}
	if parent.Status != Approved {
		return reverts.Newf(reverts.CodeBadParent, "parent %v is %v", sb.ParentID.AbbrevString(), parent.Status)
	}
	if sb, err = c.transit(id, Approved, New, SemiApproved); err != nil {
		return err
	}

	bestID, err := c.best.Get()
	if err != nil {
		return err
	}
	best, err := c.Get(bestID)
	if err != nil {
		return err
	}
	if sb.AccumulatedWork.Cmp(best.AccumulatedWork) > 0 {
		return c.setBest(id, sb, best.Height)
	}
	return nil
}

// setBest rewrites the canonical index down to the fork point.
func (c *Chain) setBest(id relay.Bytes32, sb *Superblock, oldHeight uint32) error {
	c.best.Set(&id)
	for h := sb.Height + 1; h <= oldHeight; h++ {
		if err := c.canonical.Set(heightKey(h), relay.Bytes32{}); err != nil {
			return err
		}
	}
	for {
		at, err := c.canonical.Get(heightKey(sb.Height))
		if err != nil {
			return err
		}
		if at == id {
			return nil
		}
		if err := c.canonical.Set(heightKey(sb.Height), id); err != nil {
			return err
		}
		if sb.Height == 0 {
			return nil
		}
		id = sb.ParentID
		if sb, err = c.Get(id); err != nil {
			return err
		}
	}
}

// Status returns the status of a superblock.
func (c *Chain) Status(id relay.Bytes32) (Status, error) {
	sb, err := c.Get(id)
	if err != nil {
		return Uninitialized, err
	}
	return sb.Status, nil
}

// ParentID returns the parent of a superblock.
func (c *Chain) ParentID(id relay.Bytes32) (relay.Bytes32, error) {
	sb, err := c.Get(id)
	if err != nil {
		return relay.Bytes32{}, err
	}
	return sb.ParentID, nil
}

// Height returns the height of a superblock.
func (c *Chain) Height(id relay.Bytes32) (uint32, error) {
	sb, err := c.Get(id)
	if err != nil {
		return 0, err
	}
	return sb.Height, nil
}

// At returns the canonical superblock at height, zero if none.
func (c *Chain) At(height uint32) (relay.Bytes32, error) {
	return c.canonical.Get(heightKey(height))
}

// Best returns the approved superblock with the most accumulated work.
func (c *Chain) Best() (relay.Bytes32, error) {
	return c.best.Get()
}
