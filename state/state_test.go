// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/relay/lvldb"
	"github.com/vechain/relay/relay"
)

func newTestState(t *testing.T) (*State, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func TestStateStorage(t *testing.T) {
	st, _ := newTestState(t)

	addr := relay.BytesToAddress([]byte("contract"))
	key := relay.BytesToBytes32([]byte("slot"))

	v, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	value := relay.BytesToBytes32([]byte("value"))
	st.SetStorage(addr, key, value)
	v, err = st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, value, v)

	st.SetStorage(addr, key, relay.Bytes32{})
	raw, err := st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestStateEncodeDecode(t *testing.T) {
	st, _ := newTestState(t)
	addr := relay.BytesToAddress([]byte("contract"))
	key := relay.BytesToBytes32([]byte("list"))

	type pair struct {
		A uint64
		B []byte
	}
	in := pair{A: 7, B: []byte("b")}
	require.NoError(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(&in)
	}))

	var out pair
	require.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &out)
	}))
	assert.Equal(t, in, out)

	// rlp list values read as hash of raw
	h, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	raw, _ := rlp.EncodeToBytes(&in)
	assert.Equal(t, relay.Blake2b(raw), h)
}

func TestStateCheckpoint(t *testing.T) {
	st, _ := newTestState(t)
	addr := relay.BytesToAddress([]byte("contract"))
	key := relay.BytesToBytes32([]byte("slot"))

	st.SetStorage(addr, key, relay.BytesToBytes32([]byte{1}))
	cp := st.NewCheckpoint()
	st.SetStorage(addr, key, relay.BytesToBytes32([]byte{2}))
	st.RevertTo(cp)

	v, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, relay.BytesToBytes32([]byte{1}), v)

	// revert everything
	st.RevertTo(0)
	v, err = st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	// state still usable after full revert
	st.SetStorage(addr, key, relay.BytesToBytes32([]byte{3}))
	v, err = st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, relay.BytesToBytes32([]byte{3}), v)
}

func TestStageCommit(t *testing.T) {
	st, db := newTestState(t)
	addr := relay.BytesToAddress([]byte("contract"))
	k1 := relay.BytesToBytes32([]byte("k1"))
	k2 := relay.BytesToBytes32([]byte("k2"))

	st.SetStorage(addr, k1, relay.BytesToBytes32([]byte("v1")))
	st.SetStorage(addr, k2, relay.BytesToBytes32([]byte("v2")))

	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())
	assert.False(t, stage.Hash().IsZero())
	assert.Equal(t, stage.Hash(), st.Stage().Hash())
	require.NoError(t, stage.Commit())

	// a fresh state sees committed values
	st2 := New(db)
	v, err := st2.GetStorage(addr, k2)
	require.NoError(t, err)
	assert.Equal(t, relay.BytesToBytes32([]byte("v2")), v)

	// deletion is committed as well
	st2.SetStorage(addr, k1, relay.Bytes32{})
	require.NoError(t, st2.Stage().Commit())
	v, err = New(db).GetStorage(addr, k1)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	assert.True(t, New(db).Stage().Hash().IsZero())
}
