// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/taxledger/host"
)

var owner = common.HexToAddress("0x0000000000000000000000000000000000009110")

func TestKey(t *testing.T) {
	a := common.HexToAddress("0x0a").Bytes()
	b := common.HexToAddress("0x0b").Bytes()

	require.Equal(t, Key([]byte("bal"), a), Key([]byte("bal"), a))
	require.NotEqual(t, Key([]byte("bal"), a), Key([]byte("bal"), b))
	require.NotEqual(t, Key([]byte("bal"), a), Key([]byte("allow"), a))
	require.NotEqual(t, Key([]byte("allow"), a, b), Key([]byte("allow"), b, a))

	base := Key([]byte("name"))
	require.NotEqual(t, Index(base, 0), Index(base, 1))
	require.NotEqual(t, base, Index(base, 0))
}

func TestStoreValues(t *testing.T) {
	s := New(host.NewStateDB(memdb.New()), owner)
	require.Equal(t, owner, s.Contract())

	k := Key([]byte("k"))
	require.True(t, s.Uint(k).IsZero())
	require.False(t, s.Bool(k))
	require.Equal(t, common.Address{}, s.Address(k))

	maxUint := new(uint256.Int).SetAllOne()
	s.SetUint(k, maxUint)
	require.Equal(t, maxUint, s.Uint(k))

	s.SetUint64(k, 42)
	require.Equal(t, uint64(42), s.Uint64(k))

	s.SetBool(k, true)
	require.True(t, s.Bool(k))
	s.SetBool(k, false)
	require.False(t, s.Bool(k))

	addr := common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	s.SetAddress(k, addr)
	require.Equal(t, addr, s.Address(k))
}

func TestStoreString(t *testing.T) {
	s := New(host.NewStateDB(memdb.New()), owner)
	k := Key([]byte("name"))

	tests := []string{
		"",
		"Moon",
		strings.Repeat("x", common.HashLength),
		strings.Repeat("MoonCoin ", 9),
	}
	for _, v := range tests {
		s.SetString(k, v)
		require.Equal(t, v, s.String(k))
	}

	// A shorter value overwrites a longer one cleanly.
	s.SetString(k, strings.Repeat("y", 70))
	s.SetString(k, "ab")
	require.Equal(t, "ab", s.String(k))
}
