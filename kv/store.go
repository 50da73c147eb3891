// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the key value store the world state is persisted to.
package kv

// Getter reads values. A missing key is reported as an error that IsNotFound recognizes.
type Getter interface {
	Get(key []byte) ([]byte, error)
	IsNotFound(err error) bool
}

// Putter writes values.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Bulk collects writes and applies them atomically on Write.
type Bulk interface {
	Putter
	Write() error
}

// Store is a key value store with atomic bulk writes.
type Store interface {
	Getter
	Putter
	Bulk() Bulk
}
