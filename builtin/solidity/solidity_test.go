// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/relay/lvldb"
	"github.com/vechain/relay/relay"
	"github.com/vechain/relay/state"
	"github.com/vechain/relay/test/datagen"
)

type meter struct {
	words uint64
}

func (m *meter) use(words uint64) { m.words += words }

func newContext(t *testing.T) (*Context, *meter) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	m := &meter{}
	return NewContext(relay.Address{1}, state.New(db), m.use), m
}

type record struct {
	Owner  relay.Address
	Amount *big.Int
	Flag   bool
}

func TestMapping(t *testing.T) {
	ctx, m := newContext(t)
	mapping := NewMapping[relay.Bytes32, *record](ctx, relay.Bytes32{9})

	key := datagen.RandomHash()

	// missing entries decode as zero value, never nil
	got, err := mapping.Get(key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Owner.IsZero())
	assert.Equal(t, uint64(1), m.words)

	in := &record{Owner: datagen.RandAddress(), Amount: big.NewInt(42), Flag: true}
	require.NoError(t, mapping.Set(key, in))

	got, err = mapping.Get(key)
	require.NoError(t, err)
	assert.Equal(t, in, got)

	mapping.Delete(key)
	got, err = mapping.Get(key)
	require.NoError(t, err)
	assert.Nil(t, got.Amount)
}

func TestMappingCorrupted(t *testing.T) {
	ctx, _ := newContext(t)
	mapping := NewMapping[relay.Bytes32, *record](ctx, relay.Bytes32{9})
	key := relay.Bytes32{1}
	ctx.State().SetRawStorage(ctx.Address(), relay.Blake2b(key.Bytes(), relay.Bytes32{9}.Bytes()), rlp.RawValue{0xFF})

	_, err := mapping.Get(key)
	assert.Error(t, err)
}

func TestUint256(t *testing.T) {
	ctx, _ := newContext(t)
	u := NewUint256(ctx, relay.Bytes32{2})

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	require.NoError(t, u.Add(big.NewInt(100)))
	require.NoError(t, u.Sub(big.NewInt(30)))
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(70), v)
}

func TestAddressAndBytes32(t *testing.T) {
	ctx, _ := newContext(t)

	addr := NewAddress(ctx, relay.Bytes32{3})
	value := datagen.RandAddress()
	addr.Set(&value)
	got, err := addr.Get()
	require.NoError(t, err)
	assert.Equal(t, value, got)
	addr.Set(nil)
	got, err = addr.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	b := NewBytes32(ctx, relay.Bytes32{4})
	h := datagen.RandomHash()
	b.Set(&h)
	gotH, err := b.Get()
	require.NoError(t, err)
	assert.Equal(t, h, gotH)

	assert.Equal(t, relay.Address{1}, ctx.Address())
}
