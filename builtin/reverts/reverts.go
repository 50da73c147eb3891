// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Error codes reported with expected failures.
const (
	CodeInsufficientFunds    uint32 = 50010
	CodeBadClaim             uint32 = 50020
	CodeClaimDecided         uint32 = 50030
	CodeBadStatus            uint32 = 50035
	CodeVerificationPending  uint32 = 50040
	CodeNoTimeout            uint32 = 50050
	CodeMissingConfirmations uint32 = 50060
	CodeNoVerification       uint32 = 50070
	CodeWalkTooLong          uint32 = 50080
	CodeNothingToSettle      uint32 = 50090
	CodeBadTimestamp         uint32 = 50100
	CodeBadParent            uint32 = 50110
	CodeSuperblockExists     uint32 = 50120
	CodeBadChallenger        uint32 = 50130
	CodeBadSession           uint32 = 50140
)

// ErrRevert is an expected business-rule failure. State is left unchanged.
type ErrRevert struct {
	code    uint32
	message string
}

func New(code uint32, message string) *ErrRevert {
	return &ErrRevert{
		code:    code,
		message: message,
	}
}

// Newf creates a revert with a formatted message.
func Newf(code uint32, format string, args ...any) *ErrRevert {
	return New(code, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Code returns the numeric code of the revert.
func (e *ErrRevert) Code() uint32 {
	return e.code
}

// Is reports reverts with equal codes as the same error.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	return ok && t.code == e.code
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// Code extracts the revert code from err, zero if err is not a revert.
func Code(err error) uint32 {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.code
	}
	return 0
}
