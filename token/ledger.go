// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package token implements a taxed fungible-token ledger precompile.
//
// Every transfer withholds three independent basis-point slices of the
// amount: a referral slice credited to the referral sink, a burn slice
// removed from total supply, and a bonus slice credited to the staking
// contract and forwarded to it as a dividend deposit.
package token

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/taxledger/access"
	"github.com/luxfi/taxledger/bps"
	"github.com/luxfi/taxledger/contract"
	"github.com/luxfi/taxledger/storage"
	"github.com/luxfi/taxledger/tax"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrAlreadyComplete       = errors.New("airdrop already complete")
	ErrLengthMismatch        = errors.New("recipients and amounts length mismatch")
)

// Storage slots
var (
	nameSlot            = storage.Key([]byte("token/name"))
	symbolSlot          = storage.Key([]byte("token/symbol"))
	decimalsSlot        = storage.Key([]byte("token/decimals"))
	totalSupplySlot     = storage.Key([]byte("token/totalSupply"))
	burnedSlot          = storage.Key([]byte("token/burned"))
	stakingSlot         = storage.Key([]byte("token/staking"))
	referralSinkSlot    = storage.Key([]byte("token/referralSink"))
	airdropCompleteSlot = storage.Key([]byte("token/airdropComplete"))

	balancePrefix   = []byte("token/bal")
	allowancePrefix = []byte("token/allow")
)

// InitParams configures a token once.
type InitParams struct {
	Name     string
	Symbol   string
	Decimals uint8
	Rates    tax.Rates
	Owner    common.Address
	// Staking receives the bonus slice of every transfer.
	Staking common.Address
}

// Ledger reads and writes the token held at one precompile address.
// It keeps no state of its own; everything lives in the StateDB.
type Ledger struct {
	stateDB contract.StateDB
	addr    common.Address
	store   storage.Store
}

// NewLedger returns the ledger stored under addr in stateDB.
func NewLedger(stateDB contract.StateDB, addr common.Address) *Ledger {
	return &Ledger{
		stateDB: stateDB,
		addr:    addr,
		store:   storage.New(stateDB, addr),
	}
}

// Address returns the precompile address the ledger lives at.
func (l *Ledger) Address() common.Address {
	return l.addr
}

// Initialize configures the token. It succeeds once; the referral sink
// starts out as the owner.
func (l *Ledger) Initialize(p InitParams) error {
	if err := p.Rates.Validate(); err != nil {
		return err
	}
	if p.Staking == (common.Address{}) {
		return fmt.Errorf("%w: staking contract", access.ErrInvalidAddress)
	}
	return contract.Atomic(l.stateDB, func() error {
		if err := access.Initialize(l.stateDB, l.addr, p.Owner); err != nil {
			return err
		}
		l.store.SetString(nameSlot, p.Name)
		l.store.SetString(symbolSlot, p.Symbol)
		l.store.SetUint64(decimalsSlot, uint64(p.Decimals))
		l.store.SetAddress(stakingSlot, p.Staking)
		l.store.SetAddress(referralSinkSlot, p.Owner)
		tax.Store(l.stateDB, l.addr, p.Rates)
		return nil
	})
}

func (l *Ledger) Name() string   { return l.store.String(nameSlot) }
func (l *Ledger) Symbol() string { return l.store.String(symbolSlot) }
func (l *Ledger) Decimals() uint8 {
	return uint8(l.store.Uint64(decimalsSlot))
}

func (l *Ledger) Owner() common.Address {
	return access.Owner(l.stateDB, l.addr)
}

// IsOwner reports whether caller holds the owner role.
func (l *Ledger) IsOwner(caller common.Address) bool {
	return access.IsOwner(l.stateDB, l.addr, caller)
}

func (l *Ledger) Rates() tax.Rates {
	return tax.Load(l.stateDB, l.addr)
}

func (l *Ledger) TotalSupply() *uint256.Int {
	return l.store.Uint(totalSupplySlot)
}

// Burned is the amount removed from supply by transfer burns so far.
func (l *Ledger) Burned() *uint256.Int {
	return l.store.Uint(burnedSlot)
}

func (l *Ledger) StakingContract() common.Address {
	return l.store.Address(stakingSlot)
}

func (l *Ledger) ReferralSink() common.Address {
	return l.store.Address(referralSinkSlot)
}

func (l *Ledger) BalanceOf(owner common.Address) *uint256.Int {
	return l.store.Uint(storage.Key(balancePrefix, owner.Bytes()))
}

func (l *Ledger) setBalance(owner common.Address, amount *uint256.Int) {
	l.store.SetUint(storage.Key(balancePrefix, owner.Bytes()), amount)
}

func (l *Ledger) Allowance(owner, spender common.Address) *uint256.Int {
	return l.store.Uint(storage.Key(allowancePrefix, owner.Bytes(), spender.Bytes()))
}

func (l *Ledger) setAllowance(owner, spender common.Address, amount *uint256.Int) {
	l.store.SetUint(storage.Key(allowancePrefix, owner.Bytes(), spender.Bytes()), amount)
}

// TaxAmount previews the referral, burn and bonus slices withheld from a
// transfer of amount. It has no side effects.
func (l *Ledger) TaxAmount(amount *uint256.Int) (tax.Split, error) {
	return l.Rates().Amount(amount)
}

func (l *Ledger) credit(to common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	balance, err := bps.Add(l.BalanceOf(to), amount)
	if err != nil {
		return err
	}
	l.setBalance(to, balance)
	return nil
}

func (l *Ledger) debit(from common.Address, amount *uint256.Int) error {
	balance := l.BalanceOf(from)
	if balance.Lt(amount) {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, from, balance.Dec(), amount.Dec())
	}
	l.setBalance(from, new(uint256.Int).Sub(balance, amount))
	return nil
}

// Move transfers amount from one holder to another without withholding
// tax. It is the path the staking ledger uses to take custody of stakes
// and deposits and to pay them back out; it is not reachable from calldata.
func (l *Ledger) Move(from, to common.Address, amount *uint256.Int) error {
	if err := access.RequireInitialized(l.stateDB, l.addr); err != nil {
		return err
	}
	return contract.Atomic(l.stateDB, func() error {
		if err := l.debit(from, amount); err != nil {
			return err
		}
		if err := l.credit(to, amount); err != nil {
			return err
		}
		return l.emitTransfer(from, to, amount)
	})
}

// Burn destroys amount of from's balance and removes it from supply. Like
// Move it is reachable only from other ledgers, never from calldata.
func (l *Ledger) Burn(from common.Address, amount *uint256.Int) error {
	if err := access.RequireInitialized(l.stateDB, l.addr); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	return contract.Atomic(l.stateDB, func() error {
		if err := l.debit(from, amount); err != nil {
			return err
		}
		return l.burn(from, amount)
	})
}

func (l *Ledger) mint(to common.Address, amount *uint256.Int) error {
	supply, err := bps.Add(l.TotalSupply(), amount)
	if err != nil {
		return err
	}
	l.store.SetUint(totalSupplySlot, supply)
	if err := l.credit(to, amount); err != nil {
		return err
	}
	return l.emitTransfer(common.Address{}, to, amount)
}

func (l *Ledger) burn(from common.Address, amount *uint256.Int) error {
	supply, err := bps.Sub(l.TotalSupply(), amount)
	if err != nil {
		return err
	}
	burned, err := bps.Add(l.Burned(), amount)
	if err != nil {
		return err
	}
	l.store.SetUint(totalSupplySlot, supply)
	l.store.SetUint(burnedSlot, burned)
	return TokenABI.EmitEvent(l.stateDB, l.addr, "Burn", from, amount.ToBig())
}

func (l *Ledger) emitTransfer(from, to common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	return TokenABI.EmitEvent(l.stateDB, l.addr, "Transfer", from, to, amount.ToBig())
}
