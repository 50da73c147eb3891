// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/relay/relay"
)

func TestSigning(t *testing.T) {
	key, err := crypto.HexToECDSA("289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032")
	require.NoError(t, err)
	addr, err := relay.ParseAddress("0x970e8128ab834e8eac17ab8e3812f010678cf791")
	require.NoError(t, err)
	assert.Equal(t, *addr, Address(key))

	genesis := relay.Keccak256([]byte("genesis"))
	signing := NewSigning(genesis)
	hash := relay.Blake2b([]byte("foo"))

	sig, err := signing.Sign(hash, key)
	require.NoError(t, err)
	assert.Len(t, sig, 65)

	signer, err := signing.Signer(hash, sig)
	require.NoError(t, err)
	assert.Equal(t, *addr, signer)

	// another relay recovers someone else
	other, err := NewSigning(relay.Keccak256([]byte("other"))).Signer(hash, sig)
	require.NoError(t, err)
	assert.NotEqual(t, *addr, other)

	_, err = signing.Signer(hash, sig[:64])
	assert.Error(t, err)
}
