// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotFound = errors.New("not found")

type mem map[string]string

func (m mem) Get(k []byte) ([]byte, error) {
	if v, ok := m[string(k)]; ok {
		return []byte(v), nil
	}
	return nil, errNotFound
}

func (m mem) Put(k, v []byte) error {
	m[string(k)] = string(v)
	return nil
}

func (m mem) Delete(k []byte) error {
	delete(m, string(k))
	return nil
}

func (m mem) IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

// Bulk buffers writes until Write.
func (m mem) Bulk() Bulk {
	pending := mem{}
	var deleted []string
	return &struct {
		Putter
		WriteFunc
	}{
		&struct {
			PutFunc
			DeleteFunc
		}{
			pending.Put,
			func(k []byte) error { deleted = append(deleted, string(k)); return nil },
		},
		func() error {
			for k, v := range pending {
				m[k] = v
			}
			for _, k := range deleted {
				delete(m, k)
			}
			return nil
		},
	}
}

func TestBucketGetter(t *testing.T) {
	m := mem{"k1": "v1", "k2": "v2"}

	tests := []struct {
		b     Bucket
		key   string
		want  string
		found bool
	}{
		{Bucket(""), "k1", "v1", true},
		{Bucket("k"), "k1", "", false},
		{Bucket("k"), "1", "v1", true},
		{Bucket("k"), "2", "v2", true},
		{Bucket("k1"), "", "v1", true},
	}
	for _, tt := range tests {
		getter := tt.b.NewGetter(m)
		got, err := getter.Get([]byte(tt.key))
		if tt.found {
			assert.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		} else {
			assert.True(t, getter.IsNotFound(err))
		}
	}
}

func TestBucketPutter(t *testing.T) {
	m := mem{}
	putter := Bucket("claims/").NewPutter(m)

	assert.NoError(t, putter.Put([]byte("a"), []byte("1")))
	assert.Equal(t, "1", m["claims/a"])

	assert.NoError(t, putter.Delete([]byte("a")))
	assert.Empty(t, m)
}

func TestBucketBulk(t *testing.T) {
	m := mem{"s/old": "x"}
	store := Bucket("s/").NewStore(m)

	bulk := store.Bulk()
	require.NoError(t, bulk.Put([]byte("a"), []byte("1")))
	require.NoError(t, bulk.Delete([]byte("old")))

	// nothing applied before write
	assert.Equal(t, mem{"s/old": "x"}, m)

	require.NoError(t, bulk.Write())
	assert.Equal(t, mem{"s/a": "1"}, m)

	v, err := store.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, "1", string(v))
}
