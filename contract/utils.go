// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientGas = errors.New("insufficient gas")
	ErrWriteProtection = errors.New("write protection: state change in read-only call")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnknownMethod   = errors.New("unknown method selector")
)

// DeductGas charges cost against suppliedGas.
func DeductGas(suppliedGas uint64, cost uint64) (uint64, error) {
	if suppliedGas < cost {
		return 0, fmt.Errorf("%w: required %d, supplied %d", ErrInsufficientGas, cost, suppliedGas)
	}
	return suppliedGas - cost, nil
}

// Atomic runs fn against stateDB and reverts every write fn made if it
// returns an error. Nested calls are fine: an inner revert only unwinds
// the inner snapshot.
func Atomic(stateDB StateDB, fn func() error) error {
	snapshot := stateDB.Snapshot()
	if err := fn(); err != nil {
		stateDB.RevertToSnapshot(snapshot)
		return err
	}
	return nil
}
