// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package host is a minimal deterministic execution environment for the
// ledger precompiles: a journaled StateDB over a luxfi database, a block
// context, and an executor that runs every call as one atomic transaction.
package host

import (
	"errors"

	"github.com/luxfi/database"
	"github.com/luxfi/geth/common"
	ethtypes "github.com/luxfi/geth/core/types"

	"github.com/luxfi/taxledger/contract"
)

var _ contract.StateDB = (*StateDB)(nil)

// Key prefixes in the backing database
var (
	storagePrefix = []byte("s")
	accountPrefix = []byte("a")
)

type journalKind uint8

const (
	storageChange journalKind = iota
	accountCreated
	logAdded
)

type journalEntry struct {
	kind journalKind
	addr common.Address
	key  common.Hash
	prev common.Hash
	// dirty reports whether key had an uncommitted value before the change
	dirty bool
}

// StateDB buffers writes in memory on top of a database.Database.
// Writes become durable on Commit; Snapshot/RevertToSnapshot unwind
// uncommitted writes, logs and account creations.
type StateDB struct {
	db database.Database

	storage  map[common.Address]map[common.Hash]common.Hash
	accounts map[common.Address]bool
	logs     []*ethtypes.Log
	txHash   common.Hash

	journal   []journalEntry
	snapshots []int

	// dbErr is the first error returned by the backing database
	dbErr error
}

// NewStateDB returns a StateDB reading committed state from db.
func NewStateDB(db database.Database) *StateDB {
	return &StateDB{
		db:       db,
		storage:  make(map[common.Address]map[common.Hash]common.Hash),
		accounts: make(map[common.Address]bool),
	}
}

func storageKey(addr common.Address, key common.Hash) []byte {
	k := make([]byte, 0, len(storagePrefix)+common.AddressLength+common.HashLength)
	k = append(k, storagePrefix...)
	k = append(k, addr.Bytes()...)
	return append(k, key.Bytes()...)
}

func accountKey(addr common.Address) []byte {
	return append(append([]byte{}, accountPrefix...), addr.Bytes()...)
}

func (s *StateDB) setErr(err error) {
	if s.dbErr == nil {
		s.dbErr = err
	}
}

// Error returns the first backing-store error seen, if any.
func (s *StateDB) Error() error {
	return s.dbErr
}

func (s *StateDB) committedState(addr common.Address, key common.Hash) common.Hash {
	val, err := s.db.Get(storageKey(addr, key))
	if errors.Is(err, database.ErrNotFound) {
		return common.Hash{}
	}
	if err != nil {
		s.setErr(err)
		return common.Hash{}
	}
	return common.BytesToHash(val)
}

func (s *StateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	if slots, ok := s.storage[addr]; ok {
		if val, ok := slots[key]; ok {
			return val
		}
	}
	return s.committedState(addr, key)
}

func (s *StateDB) SetState(addr common.Address, key common.Hash, value common.Hash) common.Hash {
	slots, ok := s.storage[addr]
	if !ok {
		slots = make(map[common.Hash]common.Hash)
		s.storage[addr] = slots
	}
	prev, dirty := slots[key]
	if !dirty {
		prev = s.committedState(addr, key)
	}
	s.journal = append(s.journal, journalEntry{
		kind:  storageChange,
		addr:  addr,
		key:   key,
		prev:  prev,
		dirty: dirty,
	})
	slots[key] = value
	return prev
}

func (s *StateDB) Exist(addr common.Address) bool {
	if s.accounts[addr] {
		return true
	}
	ok, err := s.db.Has(accountKey(addr))
	if err != nil {
		s.setErr(err)
		return false
	}
	return ok
}

func (s *StateDB) CreateAccount(addr common.Address) {
	if s.Exist(addr) {
		return
	}
	s.accounts[addr] = true
	s.journal = append(s.journal, journalEntry{kind: accountCreated, addr: addr})
}

func (s *StateDB) AddLog(log *ethtypes.Log) {
	log.TxHash = s.txHash
	log.Index = uint(len(s.logs))
	s.logs = append(s.logs, log)
	s.journal = append(s.journal, journalEntry{kind: logAdded})
}

func (s *StateDB) Logs() []*ethtypes.Log {
	return s.logs
}

func (s *StateDB) TxHash() common.Hash {
	return s.txHash
}

// Prepare starts a new transaction. Logs from the previous one are
// dropped and earlier snapshots can no longer be reverted to.
func (s *StateDB) Prepare(txHash common.Hash) {
	s.txHash = txHash
	s.logs = nil
	s.journal = nil
	s.snapshots = nil
}

func (s *StateDB) Snapshot() int {
	s.snapshots = append(s.snapshots, len(s.journal))
	return len(s.snapshots) - 1
}

func (s *StateDB) RevertToSnapshot(id int) {
	if id < 0 || id >= len(s.snapshots) {
		return
	}
	target := s.snapshots[id]
	for i := len(s.journal) - 1; i >= target; i-- {
		entry := s.journal[i]
		switch entry.kind {
		case storageChange:
			if entry.dirty {
				s.storage[entry.addr][entry.key] = entry.prev
			} else {
				delete(s.storage[entry.addr], entry.key)
			}
		case accountCreated:
			delete(s.accounts, entry.addr)
		case logAdded:
			s.logs = s.logs[:len(s.logs)-1]
		}
	}
	s.journal = s.journal[:target]
	s.snapshots = s.snapshots[:id]
}

// Commit writes all buffered changes to the backing database and clears
// the journal. Zero slots are deleted.
func (s *StateDB) Commit() error {
	if s.dbErr != nil {
		return s.dbErr
	}
	for addr := range s.accounts {
		if err := s.db.Put(accountKey(addr), []byte{1}); err != nil {
			return err
		}
	}
	for addr, slots := range s.storage {
		for key, val := range slots {
			var err error
			if val == (common.Hash{}) {
				err = s.db.Delete(storageKey(addr, key))
			} else {
				err = s.db.Put(storageKey(addr, key), val.Bytes())
			}
			if err != nil {
				return err
			}
		}
	}
	s.storage = make(map[common.Address]map[common.Hash]common.Hash)
	s.accounts = make(map[common.Address]bool)
	s.journal = nil
	s.snapshots = nil
	return nil
}
