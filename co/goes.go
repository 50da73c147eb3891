// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co holds small concurrency helpers shared by the long running services.
package co

import "sync"

// Goes tracks a group of go routines so their owner can wait for them on shutdown.
type Goes struct {
	wg sync.WaitGroup
}

// Go runs f in a new go routine.
func (g *Goes) Go(f func()) {
	g.wg.Go(f)
}

// Wait blocks until every go routine started by Go returned.
func (g *Goes) Wait() {
	g.wg.Wait()
}
