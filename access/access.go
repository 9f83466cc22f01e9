// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package access implements owner-based authorization and the one-shot
// initializer shared by the ledger precompiles.
//
// A ledger starts uninitialized. Initialize moves it to initialized exactly
// once and records the owner; every other operation calls RequireInitialized
// first. Privileged operations check the caller with OnlyOwner.
package access

import (
	"errors"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/taxledger/contract"
	"github.com/luxfi/taxledger/storage"
)

var (
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrNotInitialized     = errors.New("not initialized")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidAddress     = errors.New("invalid address: cannot be zero")
	ErrReentrantCall      = errors.New("reentrant call")
)

var (
	ownerSlot       = storage.Key([]byte("access/owner"))
	initializedSlot = storage.Key([]byte("access/initialized"))
	lockSlot        = storage.Key([]byte("access/lock"))
)

// Allowed is the capability check for owner-only operations.
func Allowed(caller, owner common.Address) bool {
	return owner != (common.Address{}) && caller == owner
}

// Initialize records owner for the contract at addr. It fails on every
// call after the first.
func Initialize(stateDB contract.StateDB, addr common.Address, owner common.Address) error {
	s := storage.New(stateDB, addr)
	if s.Bool(initializedSlot) {
		return ErrAlreadyInitialized
	}
	if owner == (common.Address{}) {
		return ErrInvalidAddress
	}
	s.SetAddress(ownerSlot, owner)
	s.SetBool(initializedSlot, true)
	return nil
}

// IsInitialized reports whether Initialize has succeeded for addr.
func IsInitialized(stateDB contract.StateDB, addr common.Address) bool {
	return storage.New(stateDB, addr).Bool(initializedSlot)
}

// RequireInitialized fails fast while addr is still uninitialized.
func RequireInitialized(stateDB contract.StateDB, addr common.Address) error {
	if !IsInitialized(stateDB, addr) {
		return ErrNotInitialized
	}
	return nil
}

func Owner(stateDB contract.StateDB, addr common.Address) common.Address {
	return storage.New(stateDB, addr).Address(ownerSlot)
}

// IsOwner reports whether caller currently holds the owner role of addr.
func IsOwner(stateDB contract.StateDB, addr common.Address, caller common.Address) bool {
	return Allowed(caller, Owner(stateDB, addr))
}

// OnlyOwner fails unless caller is the owner of addr.
func OnlyOwner(stateDB contract.StateDB, addr common.Address, caller common.Address) error {
	if err := RequireInitialized(stateDB, addr); err != nil {
		return err
	}
	if !IsOwner(stateDB, addr, caller) {
		return ErrUnauthorized
	}
	return nil
}
