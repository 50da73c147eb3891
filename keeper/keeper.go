// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package keeper finalizes claims whose challenge period is over and continues unfinished payouts.
package keeper

import (
	"context"
	"time"

	"github.com/vechain/relay/builtin/claims"
	"github.com/vechain/relay/builtin/reverts"
	"github.com/vechain/relay/co"
	"github.com/vechain/relay/log"
	"github.com/vechain/relay/metrics"
	"github.com/vechain/relay/relay"
)

var (
	logger = log.WithContext("pkg", "keeper")

	metricActions = metrics.LazyLoadCounterVec("keeper_actions_count", []string{"action", "result"})
	metricPending = metrics.LazyLoadGauge("keeper_pending_claims")
)

// maxClaimsPerRound bounds the pending claims visited by a single round.
const maxClaimsPerRound = 256

// Executor runs the keeper calls.
type Executor interface {
	Now() uint64
	PendingClaimsAfter(after relay.Bytes32, limit int) ([]relay.Bytes32, error)
	Claim(id relay.Bytes32) (*claims.Claim, error)
	CheckClaimFinished(id relay.Bytes32) error
	Settle(id relay.Bytes32) error
}

// Keeper periodically walks the pending claims.
type Keeper struct {
	exec     Executor
	interval time.Duration
	perRound int
	// cursor is where the next round resumes, zero for the oldest claim.
	cursor relay.Bytes32
	ctx    context.Context
	cancel func()
	goes   co.Goes
}

// New creates a keeper. Start must be called to run it.
func New(exec Executor, interval time.Duration) *Keeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &Keeper{
		exec:     exec,
		interval: interval,
		perRound: maxClaimsPerRound,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs the keeper loop in background.
func (k *Keeper) Start() {
	k.goes.Go(func() {
		if err := k.loop(); err != nil && err != context.Canceled {
			logger.Warn("keeper interrupted", "err", err)
		}
	})
}

// Stop stops the keeper and waits for the running round.
func (k *Keeper) Stop() {
	k.cancel()
	k.goes.Wait()
}

func (k *Keeper) loop() error {
	logger.Info("keeper started", "interval", k.interval)
	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	for {
		select {
		case <-k.ctx.Done():
			return k.ctx.Err()
		case <-ticker.C:
			if _, err := k.Round(); err != nil {
				logger.Warn("keeper round failed", "err", err)
			}
		}
	}
}

// Stats counts the calls made by a round.
type Stats struct {
	Finalized int
	Settled   int
	Reverted  int
}

// Round visits the next batch of pending claims, in list order. Each round
// resumes where the previous one stopped and wraps around at the end of the list.
// Round is not safe for concurrent use.
func (k *Keeper) Round() (Stats, error) {
	var stats Stats
	ids, err := k.exec.PendingClaimsAfter(k.cursor, k.perRound)
	if err != nil {
		return stats, err
	}
	metricPending().Set(int64(len(ids)))

	// a short batch reached the tail
	next := relay.Bytes32{}
	defer func() { k.cursor = next }()

	for _, id := range ids {
		if k.ctx.Err() != nil {
			return stats, k.ctx.Err()
		}
		claim, err := k.exec.Claim(id)
		if err != nil {
			return stats, err
		}

		acted := true
		switch {
		case claim.Settling():
			err = k.exec.Settle(id)
			stats.count(&stats.Settled, "settle", err)
		case k.finishable(claim):
			err = k.exec.CheckClaimFinished(id)
			stats.count(&stats.Finalized, "finalize", err)
		default:
			acted = false
		}
		if err != nil && !reverts.IsRevertErr(err) {
			return stats, err
		}
		if err != nil {
			logger.Debug("keeper call reverted", "claim", id, "err", err)
		}
		// a successful call may have unlinked id
		if len(ids) == k.perRound && (!acted || err != nil) {
			next = id
		}
	}
	return stats, nil
}

func (k *Keeper) finishable(claim *claims.Claim) bool {
	if claim.Decided || claim.VerificationOngoing {
		return false
	}
	if claim.Invalid {
		return true
	}
	return k.exec.Now() > claim.ChallengeTimeout && claim.CurrentChallenger >= claim.ChallengerCount
}

func (s *Stats) count(counter *int, action string, err error) {
	result := "ok"
	switch {
	case err == nil:
		*counter++
	case reverts.IsRevertErr(err):
		s.Reverted++
		result = "revert"
	default:
		result = "error"
	}
	metricActions().AddWithLabel(1, map[string]string{"action": action, "result": result})
}
