// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package engine executes the entry points of the builtin contracts one at a time.
//
// Each call runs on a fresh state. On success the staged changes are committed in one batch
// and the emitted events are flushed to the sink. On an expected error nothing but the event
// sequence is written and a single Error event is flushed. A protocol violation writes nothing
// and is reported as ErrProtocolViolation.
package engine

import (
	stderrors "errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/relay/builtin"
	"github.com/vechain/relay/builtin/claims"
	"github.com/vechain/relay/builtin/reverts"
	"github.com/vechain/relay/builtin/solidity"
	"github.com/vechain/relay/kv"
	"github.com/vechain/relay/log"
	"github.com/vechain/relay/relay"
	"github.com/vechain/relay/state"
)

var (
	logger = log.WithContext("pkg", "engine")

	// ErrProtocolViolation is returned when a call breaks the protocol, such as a battle
	// outcome reported by an unauthorized caller.
	ErrProtocolViolation = errors.New("protocol violation")

	errStopIter = errors.New("stop iteration")

	address = relay.BytesToAddress([]byte("Engine"))
	seqSlot = relay.Blake2b([]byte("event-seq"))
)

// EventSink receives the events of every committed call.
type EventSink interface {
	Insert(events []*relay.Event) error
}

// Sinks flushes to every sink in order.
type Sinks []EventSink

func (s Sinks) Insert(events []*relay.Event) error {
	var errs []error
	for _, sink := range s {
		if err := sink.Insert(events); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// Options of the engine.
type Options struct {
	// Clock returns the unix time a call executes at. Defaults to the wall clock.
	Clock func() uint64
	// Sink is optional.
	Sink EventSink
}

// Engine serializes calls into the builtin contracts.
type Engine struct {
	lock   sync.RWMutex
	cfg    relay.Config
	stater *state.Stater
	clock  func() uint64
	sink   EventSink
}

// New creates an engine over the given store.
func New(store kv.Store, cfg relay.Config, opts Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	clock := opts.Clock
	if clock == nil {
		clock = func() uint64 { return uint64(time.Now().Unix()) }
	}
	return &Engine{
		cfg:    cfg,
		stater: state.NewStater(store),
		clock:  clock,
		sink:   opts.Sink,
	}, nil
}

// Config returns the protocol parameters.
func (e *Engine) Config() relay.Config {
	return e.cfg
}

// Now returns the current time of the engine clock.
func (e *Engine) Now() uint64 {
	return e.clock()
}

type call struct {
	op      string
	claimID relay.Bytes32
	account relay.Address
}

// execute runs fn as a single atomic call.
func (e *Engine) execute(c call, fn func(contracts *builtin.Contracts) error) (err error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	var (
		start  = time.Now()
		now    = e.clock()
		st     = e.stater.NewState()
		events []*relay.Event
		words  uint64
	)
	checkpoint := st.NewCheckpoint()
	contracts := builtin.New(st, &e.cfg, claims.Env{
		Time:  now,
		Emit:  func(ev *relay.Event) { events = append(events, ev) },
		Meter: func(n uint64) { words += n },
	})

	defer func() {
		if r := recover(); r != nil {
			logger.Error("protocol violation", "op", c.op, "claim", c.claimID, "err", r)
			metricCalls().AddWithLabel(1, map[string]string{"op": c.op, "result": "violation"})
			err = errors.Wrap(ErrProtocolViolation, fmt.Sprint(r))
		}
	}()

	if err := fn(contracts); err != nil {
		if !reverts.IsRevertErr(err) {
			metricCalls().AddWithLabel(1, map[string]string{"op": c.op, "result": "error"})
			return err
		}
		metricCalls().AddWithLabel(1, map[string]string{"op": c.op, "result": "revert"})
		st.RevertTo(checkpoint)
		events = []*relay.Event{{
			Name:      relay.EventError,
			ClaimID:   c.claimID,
			Account:   c.account,
			Code:      reverts.Code(err),
			Timestamp: now,
		}}
		if cerr := e.commit(st, events); cerr != nil {
			return cerr
		}
		return err
	}

	if err := e.commit(st, events); err != nil {
		return err
	}
	metricCalls().AddWithLabel(1, map[string]string{"op": c.op, "result": "ok"})
	metricStorageWords().ObserveWithLabels(int64(words), map[string]string{"op": c.op})
	metricCallDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": c.op})
	return nil
}

// commit numbers the events, writes the state and flushes the events.
func (e *Engine) commit(st *state.State, events []*relay.Event) error {
	if len(events) > 0 {
		seq := solidity.NewUint256(solidity.NewContext(address, st, nil), seqSlot)
		next, err := seq.Get()
		if err != nil {
			return err
		}
		for _, ev := range events {
			next.Add(next, big.NewInt(1))
			ev.Seq = next.Uint64()
		}
		seq.Set(next)
	}

	if err := st.Stage().Commit(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	if e.sink == nil || len(events) == 0 {
		return nil
	}
	// the state is already written, a failed flush leaves a gap in the event index only
	if err := e.sink.Insert(events); err != nil {
		logger.Error("failed to flush events", "count", len(events), "err", err)
	}
	return nil
}

// View runs fn against the latest committed state. Changes made by fn are discarded.
func (e *Engine) View(fn func(contracts *builtin.Contracts) error) error {
	e.lock.RLock()
	defer e.lock.RUnlock()

	contracts := builtin.New(e.stater.NewState(), &e.cfg, claims.Env{Time: e.clock()})
	return fn(contracts)
}
