// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package access

import (
	"errors"
	"testing"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/taxledger/host"
	"github.com/luxfi/taxledger/storage"
)

var (
	ledger = common.HexToAddress("0x0000000000000000000000000000000000009110")
	alice  = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob    = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

func TestInitialize(t *testing.T) {
	state := host.NewStateDB(memdb.New())

	require.ErrorIs(t, RequireInitialized(state, ledger), ErrNotInitialized)
	require.ErrorIs(t, OnlyOwner(state, ledger, alice), ErrNotInitialized)
	require.ErrorIs(t, Initialize(state, ledger, common.Address{}), ErrInvalidAddress)
	require.False(t, IsInitialized(state, ledger))

	require.NoError(t, Initialize(state, ledger, alice))
	require.NoError(t, RequireInitialized(state, ledger))
	require.Equal(t, alice, Owner(state, ledger))

	require.ErrorIs(t, Initialize(state, ledger, bob), ErrAlreadyInitialized)
	require.Equal(t, alice, Owner(state, ledger))
}

func TestOnlyOwner(t *testing.T) {
	state := host.NewStateDB(memdb.New())
	require.NoError(t, Initialize(state, ledger, alice))

	require.NoError(t, OnlyOwner(state, ledger, alice))
	require.ErrorIs(t, OnlyOwner(state, ledger, bob), ErrUnauthorized)
	require.True(t, IsOwner(state, ledger, alice))
	require.False(t, IsOwner(state, ledger, bob))

	require.False(t, Allowed(common.Address{}, common.Address{}))
}

func TestNonReentrant(t *testing.T) {
	state := host.NewStateDB(memdb.New())
	slot := storage.Key([]byte("test/counter"))
	s := storage.New(state, ledger)

	err := NonReentrant(state, ledger, func() error {
		s.SetUint64(slot, 1)
		return NonReentrant(state, ledger, func() error {
			s.SetUint64(slot, 2)
			return nil
		})
	})
	require.ErrorIs(t, err, ErrReentrantCall)
	require.Zero(t, s.Uint64(slot))

	errBoom := errors.New("boom")
	err = NonReentrant(state, ledger, func() error {
		s.SetUint64(slot, 3)
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	require.Zero(t, s.Uint64(slot))

	require.NoError(t, NonReentrant(state, ledger, func() error {
		s.SetUint64(slot, 4)
		return nil
	}))
	require.Equal(t, uint64(4), s.Uint64(slot))

	// The lock is released after every outcome.
	require.NoError(t, Lock(state, ledger))
	Unlock(state, ledger)
}
