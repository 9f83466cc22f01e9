// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package storage maps ledger fields onto 32-byte precompile storage slots.
package storage

import (
	"encoding/binary"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/zeebo/blake3"

	"github.com/luxfi/taxledger/contract"
)

// Key derives a slot from a prefix and any number of identifiers.
// Key = BLAKE3(prefix || id_0 || id_1 ...)
func Key(prefix []byte, ids ...[]byte) common.Hash {
	h := blake3.New()
	h.Write(prefix)
	for _, id := range ids {
		h.Write(id)
	}
	var key common.Hash
	h.Digest().Read(key[:])
	return key
}

// Index returns the slot at offset i from base, used for multi-slot values.
func Index(base common.Hash, i uint64) common.Hash {
	var off [8]byte
	binary.BigEndian.PutUint64(off[:], i)
	return Key(base[:], off[:])
}

// Store is a view of one contract's storage.
type Store struct {
	db   contract.StateDB
	addr common.Address
}

// New returns a Store over addr's storage in db.
func New(db contract.StateDB, addr common.Address) Store {
	return Store{db: db, addr: addr}
}

func (s Store) DB() contract.StateDB { return s.db }
func (s Store) Contract() common.Address { return s.addr }

func (s Store) Get(key common.Hash) common.Hash {
	return s.db.GetState(s.addr, key)
}

func (s Store) Set(key common.Hash, value common.Hash) {
	s.db.SetState(s.addr, key, value)
}

func (s Store) Uint(key common.Hash) *uint256.Int {
	val := s.Get(key)
	return new(uint256.Int).SetBytes32(val[:])
}

func (s Store) SetUint(key common.Hash, v *uint256.Int) {
	s.Set(key, common.Hash(v.Bytes32()))
}

func (s Store) Uint64(key common.Hash) uint64 {
	return s.Uint(key).Uint64()
}

func (s Store) SetUint64(key common.Hash, v uint64) {
	s.SetUint(key, uint256.NewInt(v))
}

func (s Store) Address(key common.Hash) common.Address {
	val := s.Get(key)
	return common.BytesToAddress(val[12:])
}

func (s Store) SetAddress(key common.Hash, addr common.Address) {
	var val common.Hash
	copy(val[12:], addr.Bytes())
	s.Set(key, val)
}

func (s Store) Bool(key common.Hash) bool {
	val := s.Get(key)
	return val[31] != 0
}

func (s Store) SetBool(key common.Hash, v bool) {
	var val common.Hash
	if v {
		val[31] = 1
	}
	s.Set(key, val)
}

// String reads a string written by SetString: the length word at key,
// followed by 32-byte chunks at Index(key, 0..n).
func (s Store) String(key common.Hash) string {
	n := s.Uint64(key)
	if n == 0 {
		return ""
	}
	out := make([]byte, 0, n)
	for i := uint64(0); uint64(len(out)) < n; i++ {
		chunk := s.Get(Index(key, i))
		remaining := n - uint64(len(out))
		if remaining > common.HashLength {
			remaining = common.HashLength
		}
		out = append(out, chunk[:remaining]...)
	}
	return string(out)
}

func (s Store) SetString(key common.Hash, v string) {
	data := []byte(v)
	s.SetUint64(key, uint64(len(data)))
	for i := 0; i*common.HashLength < len(data); i++ {
		var chunk common.Hash
		copy(chunk[:], data[i*common.HashLength:])
		s.Set(Index(key, uint64(i)), chunk)
	}
}
