// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/taxledger/access"
	"github.com/luxfi/taxledger/bps"
	"github.com/luxfi/taxledger/contract"
	"github.com/luxfi/taxledger/modules"
)

// TaxReceiver is implemented by precompiles that accept the bonus slice
// of a transfer as a reward deposit. receiver is the address the bonus was
// credited to and token the ledger it was credited on.
type TaxReceiver interface {
	ReceiveTax(stateDB contract.StateDB, receiver common.Address, token common.Address, amount *uint256.Int) error
}

// Transfer moves amount from caller to to, withholding the configured
// referral, burn and bonus slices.
func (l *Ledger) Transfer(caller, to common.Address, amount *uint256.Int) error {
	if err := access.RequireInitialized(l.stateDB, l.addr); err != nil {
		return err
	}
	return access.NonReentrant(l.stateDB, l.addr, func() error {
		return l.transfer(caller, to, amount)
	})
}

// TransferFrom spends caller's allowance over from's balance.
func (l *Ledger) TransferFrom(caller, from, to common.Address, amount *uint256.Int) error {
	if err := access.RequireInitialized(l.stateDB, l.addr); err != nil {
		return err
	}
	return access.NonReentrant(l.stateDB, l.addr, func() error {
		allowance := l.Allowance(from, caller)
		if allowance.Lt(amount) {
			return fmt.Errorf("%w: %s may spend %s of %s, needs %s",
				ErrInsufficientAllowance, caller, allowance.Dec(), from, amount.Dec())
		}
		l.setAllowance(from, caller, new(uint256.Int).Sub(allowance, amount))
		return l.transfer(from, to, amount)
	})
}

// Approve sets the amount spender may move out of caller's balance.
func (l *Ledger) Approve(caller, spender common.Address, amount *uint256.Int) error {
	if err := access.RequireInitialized(l.stateDB, l.addr); err != nil {
		return err
	}
	if spender == (common.Address{}) {
		return access.ErrInvalidAddress
	}
	return contract.Atomic(l.stateDB, func() error {
		l.setAllowance(caller, spender, amount)
		return TokenABI.EmitEvent(l.stateDB, l.addr, "Approval", caller, spender, amount.ToBig())
	})
}

// SetReferralSink redirects future referral slices to sink.
func (l *Ledger) SetReferralSink(caller, sink common.Address) error {
	if err := access.OnlyOwner(l.stateDB, l.addr, caller); err != nil {
		return err
	}
	if sink == (common.Address{}) {
		return access.ErrInvalidAddress
	}
	return contract.Atomic(l.stateDB, func() error {
		previous := l.ReferralSink()
		l.store.SetAddress(referralSinkSlot, sink)
		return TokenABI.EmitEvent(l.stateDB, l.addr, "ReferralSinkChanged", previous, sink)
	})
}

func (l *Ledger) transfer(from, to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return access.ErrInvalidAddress
	}
	balance := l.BalanceOf(from)
	if balance.Lt(amount) {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, from, balance.Dec(), amount.Dec())
	}
	split, err := l.TaxAmount(amount)
	if err != nil {
		return err
	}
	withheld, err := split.Total()
	if err != nil {
		return err
	}
	if withheld.Gt(amount) {
		return fmt.Errorf("%w: tax %s exceeds principal %s", bps.ErrInvalidConfiguration, withheld.Dec(), amount.Dec())
	}
	net := new(uint256.Int).Sub(amount, withheld)

	var (
		sink    = l.ReferralSink()
		staking = l.StakingContract()
	)
	if err := l.debit(from, amount); err != nil {
		return err
	}
	if err := l.credit(to, net); err != nil {
		return err
	}
	if err := l.credit(sink, split.Referral); err != nil {
		return err
	}
	if err := l.credit(staking, split.Bonus); err != nil {
		return err
	}
	if !split.Burn.IsZero() {
		if err := l.burn(from, split.Burn); err != nil {
			return err
		}
	}

	if err := l.emitTransfer(from, to, net); err != nil {
		return err
	}
	if err := l.emitTransfer(from, sink, split.Referral); err != nil {
		return err
	}
	if err := l.emitTransfer(from, staking, split.Bonus); err != nil {
		return err
	}

	// Balances are final; only now hand the bonus to the staking ledger.
	if split.Bonus.IsZero() {
		return nil
	}
	return l.forwardBonus(staking, split.Bonus)
}

// forwardBonus notifies the precompile at staking of a bonus credited to
// it. An address with no TaxReceiver registered simply keeps the credit.
func (l *Ledger) forwardBonus(staking common.Address, amount *uint256.Int) error {
	module, ok := modules.GetPrecompileModuleByAddress(staking)
	if !ok {
		return nil
	}
	receiver, ok := module.Contract.(TaxReceiver)
	if !ok {
		return nil
	}
	if err := receiver.ReceiveTax(l.stateDB, staking, l.addr, amount); err != nil {
		return fmt.Errorf("forwarding bonus to %s: %w", staking, err)
	}
	return nil
}
