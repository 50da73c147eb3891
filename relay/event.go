// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package relay

import "math/big"

// Event names.
const (
	EventDepositBonded           = "DepositBonded"
	EventDepositUnbonded         = "DepositUnbonded"
	EventClaimCreated            = "ClaimCreated"
	EventClaimChallenged         = "ClaimChallenged"
	EventVerificationGameStarted = "VerificationGameStarted"
	EventBattleDecided           = "SuperblockBattleDecided"
	EventClaimSuccessful         = "ClaimSuccessful"
	EventClaimPending            = "ClaimPending"
	EventClaimFailed             = "ClaimFailed"
	EventError                   = "Error"
)

// Event is a notification of a state change, or of a rejected operation.
//
// Account and Counterparty depend on the event: depositor, challenger,
// submitter/challenger of a battle, winner/loser of a decided battle.
type Event struct {
	Seq          uint64   `json:"seq"`
	Name         string   `json:"name"`
	ClaimID      Bytes32  `json:"claimId"`
	Account      Address  `json:"account"`
	Counterparty Address  `json:"counterparty"`
	SessionID    Bytes32  `json:"sessionId"`
	Amount       *big.Int `json:"amount,omitempty"`
	Code         uint32   `json:"code,omitempty"`
	Timestamp    uint64   `json:"timestamp"`
}

// EmitFunc receives emitted events.
type EmitFunc func(ev *Event)
