// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package access

import (
	"github.com/luxfi/geth/common"

	"github.com/luxfi/taxledger/contract"
	"github.com/luxfi/taxledger/storage"
)

// Lock takes the reentrancy lock of addr. The lock lives in storage so a
// nested call into the same ledger within one transaction sees it held.
func Lock(stateDB contract.StateDB, addr common.Address) error {
	s := storage.New(stateDB, addr)
	if s.Bool(lockSlot) {
		return ErrReentrantCall
	}
	s.SetBool(lockSlot, true)
	return nil
}

// Unlock releases the lock taken by Lock.
func Unlock(stateDB contract.StateDB, addr common.Address) {
	storage.New(stateDB, addr).SetBool(lockSlot, false)
}

// NonReentrant runs fn atomically under addr's reentrancy lock.
func NonReentrant(stateDB contract.StateDB, addr common.Address, fn func() error) error {
	if err := Lock(stateDB, addr); err != nil {
		return err
	}
	err := contract.Atomic(stateDB, fn)
	Unlock(stateDB, addr)
	return err
}
