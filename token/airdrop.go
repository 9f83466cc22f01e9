// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/taxledger/access"
	"github.com/luxfi/taxledger/contract"
)

// IsAirdropComplete reports whether the one-time distribution is closed.
func (l *Ledger) IsAirdropComplete() bool {
	return l.store.Bool(airdropCompleteSlot)
}

// Airdrop mints amounts[i] to recipients[i]. Only the owner may call it
// and only until CompleteAirdrop.
func (l *Ledger) Airdrop(caller common.Address, recipients []common.Address, amounts []*uint256.Int) error {
	if err := access.OnlyOwner(l.stateDB, l.addr, caller); err != nil {
		return err
	}
	if l.IsAirdropComplete() {
		return ErrAlreadyComplete
	}
	if len(recipients) != len(amounts) {
		return fmt.Errorf("%w: %d recipients, %d amounts", ErrLengthMismatch, len(recipients), len(amounts))
	}
	return contract.Atomic(l.stateDB, func() error {
		for i, to := range recipients {
			if to == (common.Address{}) {
				return fmt.Errorf("recipient %d: %w", i, access.ErrInvalidAddress)
			}
			if err := l.mint(to, amounts[i]); err != nil {
				return fmt.Errorf("recipient %d: %w", i, err)
			}
		}
		return nil
	})
}

// CompleteAirdrop closes the airdrop. It can succeed only once.
func (l *Ledger) CompleteAirdrop(caller common.Address) error {
	if err := access.OnlyOwner(l.stateDB, l.addr, caller); err != nil {
		return err
	}
	if l.IsAirdropComplete() {
		return ErrAlreadyComplete
	}
	if err := TokenABI.EmitEvent(l.stateDB, l.addr, "AirdropComplete", l.TotalSupply().ToBig()); err != nil {
		return err
	}
	l.store.SetBool(airdropCompleteSlot, true)
	return nil
}
