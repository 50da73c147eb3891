// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/relay/relay"
	"github.com/vechain/relay/state"
)

// MeterFunc receives the count of storage words touched by an access.
type MeterFunc func(words uint64)

// Context binds storage wrappers to a contract address within a state.
type Context struct {
	address relay.Address
	state   *state.State
	meter   MeterFunc
}

func NewContext(address relay.Address, state *state.State, meter MeterFunc) *Context {
	return &Context{
		address: address,
		state:   state,
		meter:   meter,
	}
}

func (c *Context) Address() relay.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) touch(words uint64) {
	if c.meter != nil {
		c.meter(words)
	}
}

// toWordSize converts bytes length to count of 32 bytes words.
func toWordSize(length int) uint64 {
	if length == 0 {
		return 1
	}
	return (uint64(length) + 31) / 32
}
