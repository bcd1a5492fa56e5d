// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"errors"
	"fmt"
)

// ErrChainStopped describes an error where a mining round was requested or
// interrupted because the chain is shutting down.
var ErrChainStopped = errors.New("chain is stopped")

// AssertError identifies an error that indicates an internal code consistency
// issue and should be treated as a critical and unrecoverable error.
type AssertError string

// Error returns the assertion error as a human-readable string and satisfies
// the error interface.
func (e AssertError) Error() string {
	return "assertion failed: " + string(e)
}

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific RuleError.
const (
	// ErrUnsealedBlock indicates a block without a proof was submitted
	// for connection.
	ErrUnsealedBlock ErrorCode = iota

	// ErrBadIndex indicates the index of a block does not directly follow
	// the index of the current tip.
	ErrBadIndex

	// ErrBadPrevHash indicates the previous block hash of a block does not
	// match the hash of the current tip.
	ErrBadPrevHash

	// ErrHighHash indicates the block hash does not satisfy the required
	// difficulty.
	ErrHighHash

	// ErrTooManyTransactions indicates a block carries more transactions
	// than allowed.
	ErrTooManyTransactions
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrUnsealedBlock:       "ErrUnsealedBlock",
	ErrBadIndex:            "ErrBadIndex",
	ErrBadPrevHash:         "ErrBadPrevHash",
	ErrHighHash:            "ErrHighHash",
	ErrTooManyTransactions: "ErrTooManyTransactions",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a rule violation.  It is used to indicate that
// processing of a block failed due to one of the many validation rules.  The
// caller can use type assertions to determine if a failure was specifically
// due to a rule violation and access the ErrorCode field to ascertain the
// specific reason for the rule violation.
type RuleError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates an RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}
