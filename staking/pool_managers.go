// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package staking

import (
	"github.com/luxfi/geth/common"

	"github.com/luxfi/taxledger/access"
	"github.com/luxfi/taxledger/storage"
)

var poolManagerPrefix = []byte("staking/poolManager")

func poolManagerKey(manager common.Address) common.Hash {
	return storage.Key(poolManagerPrefix, manager.Bytes())
}

// IsPoolManager reports whether manager may deposit rewards.
func (l *Ledger) IsPoolManager(manager common.Address) bool {
	return l.store.Bool(poolManagerKey(manager))
}

// AddPoolManager grants manager the right to deposit rewards.
func (l *Ledger) AddPoolManager(caller, manager common.Address) error {
	if err := access.OnlyOwner(l.stateDB, l.addr, caller); err != nil {
		return err
	}
	if manager == (common.Address{}) {
		return access.ErrInvalidAddress
	}
	if l.IsPoolManager(manager) {
		return nil
	}
	l.store.SetBool(poolManagerKey(manager), true)
	return StakingABI.EmitEvent(l.stateDB, l.addr, "PoolManagerAdded", manager)
}

// RemovePoolManager revokes manager's deposit right.
func (l *Ledger) RemovePoolManager(caller, manager common.Address) error {
	if err := access.OnlyOwner(l.stateDB, l.addr, caller); err != nil {
		return err
	}
	if !l.IsPoolManager(manager) {
		return nil
	}
	l.store.SetBool(poolManagerKey(manager), false)
	return StakingABI.EmitEvent(l.stateDB, l.addr, "PoolManagerRemoved", manager)
}
