// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package staking implements the dividend staking ledger precompile.
//
// Investors stake tokens of the configured token ledger. Pool managers,
// and the token ledger itself through the bonus slice of every transfer,
// deposit rewards that are shared pro rata over the stakes in O(1).
package staking

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
	"github.com/luxfi/taxledger/token"
)

var ErrNotStarted = errors.New("staking has not started")

var (
	startTimeSlot = storage.Key([]byte("staking/startTime"))
	tokenSlot     = storage.Key([]byte("staking/token"))
)

// InitParams configures a staking ledger once.
type InitParams struct {
	// StartTime is the unix time from which Stake is accepted.
	StartTime    uint64
	Rates        tax.Rates
	Owner        common.Address
	PoolManagers []common.Address
	Token        common.Address
}

// Ledger reads and writes the staking ledger held at one precompile address.
type Ledger struct {
	stateDB contract.StateDB
	addr    common.Address
	store   storage.Store
	acc     Accumulator
}

func NewLedger(stateDB contract.StateDB, addr common.Address) *Ledger {
	s := storage.New(stateDB, addr)
	return &Ledger{
		stateDB: stateDB,
		addr:    addr,
		store:   s,
		acc:     NewAccumulator(s),
	}
}

func (l *Ledger) Address() common.Address {
	return l.addr
}

// Initialize configures the ledger. It succeeds once.
func (l *Ledger) Initialize(p InitParams) error {
	if err := p.Rates.Validate(); err != nil {
		return err
	}
	if p.Token == (common.Address{}) {
		return fmt.Errorf("%w: token contract", access.ErrInvalidAddress)
	}
	return contract.Atomic(l.stateDB, func() error {
		if err := access.Initialize(l.stateDB, l.addr, p.Owner); err != nil {
			return err
		}
		l.store.SetUint64(startTimeSlot, p.StartTime)
		l.store.SetAddress(tokenSlot, p.Token)
		tax.Store(l.stateDB, l.addr, p.Rates)
		for _, manager := range p.PoolManagers {
			if manager == (common.Address{}) {
				return fmt.Errorf("%w: pool manager", access.ErrInvalidAddress)
			}
			l.store.SetBool(poolManagerKey(manager), true)
		}
		return nil
	})
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

// TaxAmount slices amount by the staking ledger's own rates.
func (l *Ledger) TaxAmount(amount *uint256.Int) (tax.Split, error) {
	return l.Rates().Amount(amount)
}

func (l *Ledger) StartTime() uint64 {
	return l.store.Uint64(startTimeSlot)
}

// Token is the address of the token ledger stakes are held in.
func (l *Ledger) Token() common.Address {
	return l.store.Address(tokenSlot)
}

func (l *Ledger) StakeOf(investor common.Address) *uint256.Int {
	return l.acc.StakeOf(investor)
}

func (l *Ledger) TotalStaked() *uint256.Int {
	return l.acc.TotalStaked()
}

func (l *Ledger) Undistributed() *uint256.Int {
	return l.acc.Undistributed()
}

func (l *Ledger) PerShare() *uint256.Int {
	return l.acc.PerShare()
}

func (l *Ledger) DividendsOf(investor common.Address) (*uint256.Int, error) {
	return l.acc.DividendsOf(investor)
}

func (l *Ledger) tokenLedger() *token.Ledger {
	return token.NewLedger(l.stateDB, l.Token())
}

func (l *Ledger) requireBalance(tok *token.Ledger, holder common.Address, amount *uint256.Int) error {
	balance := tok.BalanceOf(holder)
	if balance.Lt(amount) {
		return fmt.Errorf("%w: %s has %s, needs %s", token.ErrInsufficientBalance, holder, balance.Dec(), amount.Dec())
	}
	return nil
}

// Stake moves amount of caller's tokens into the ledger, withholding the
// ledger's own rates. The bonus slice is shared over the stakes that were
// already in place, the referral slice goes to the owner and the burn slice
// leaves supply. now is the timestamp of the executing block.
func (l *Ledger) Stake(caller common.Address, amount *uint256.Int, now uint64) error {
	if err := access.RequireInitialized(l.stateDB, l.addr); err != nil {
		return err
	}
	if start := l.StartTime(); now < start {
		return fmt.Errorf("%w: starts at %d, now %d", ErrNotStarted, start, now)
	}
	return access.NonReentrant(l.stateDB, l.addr, func() error {
		tok := l.tokenLedger()
		if err := l.requireBalance(tok, caller, amount); err != nil {
			return err
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
			return fmt.Errorf("%w: tax %s exceeds stake %s", bps.ErrInvalidConfiguration, withheld.Dec(), amount.Dec())
		}
		net := new(uint256.Int).Sub(amount, withheld)

		if err := l.acc.Distribute(split.Bonus); err != nil {
			return err
		}
		if err := l.acc.Stake(caller, net); err != nil {
			return err
		}
		if err := tok.Move(caller, l.addr, new(uint256.Int).Add(net, split.Bonus)); err != nil {
			return err
		}
		if !split.Referral.IsZero() {
			if err := tok.Move(caller, l.Owner(), split.Referral); err != nil {
				return err
			}
		}
		if err := tok.Burn(caller, split.Burn); err != nil {
			return err
		}
		return StakingABI.EmitEvent(l.stateDB, l.addr, "Staked", caller, net.ToBig())
	})
}

// Unstake returns amount of caller's stake. Accrued dividends stay
// claimable.
func (l *Ledger) Unstake(caller common.Address, amount *uint256.Int) error {
	if err := access.RequireInitialized(l.stateDB, l.addr); err != nil {
		return err
	}
	return access.NonReentrant(l.stateDB, l.addr, func() error {
		if err := l.acc.Unstake(caller, amount); err != nil {
			return err
		}
		if err := l.tokenLedger().Move(l.addr, caller, amount); err != nil {
			return err
		}
		return StakingABI.EmitEvent(l.stateDB, l.addr, "Unstaked", caller, amount.ToBig())
	})
}

// Deposit moves amount of a pool manager's tokens into the ledger and
// shares it over the current stakes.
func (l *Ledger) Deposit(caller common.Address, amount *uint256.Int) error {
	if err := access.RequireInitialized(l.stateDB, l.addr); err != nil {
		return err
	}
	if !l.IsPoolManager(caller) {
		return fmt.Errorf("%w: %s is not a pool manager", access.ErrUnauthorized, caller)
	}
	return access.NonReentrant(l.stateDB, l.addr, func() error {
		tok := l.tokenLedger()
		if err := l.requireBalance(tok, caller, amount); err != nil {
			return err
		}
		if err := l.acc.Distribute(amount); err != nil {
			return err
		}
		if err := tok.Move(caller, l.addr, amount); err != nil {
			return err
		}
		return StakingABI.EmitEvent(l.stateDB, l.addr, "Deposited", caller, amount.ToBig())
	})
}

// ReceiveTax distributes a bonus the token ledger has already credited to
// this ledger. Only the configured token may call it.
func (l *Ledger) ReceiveTax(from common.Address, amount *uint256.Int) error {
	if err := access.RequireInitialized(l.stateDB, l.addr); err != nil {
		return err
	}
	if from != l.Token() {
		return fmt.Errorf("%w: %s is not the staked token", access.ErrUnauthorized, from)
	}
	return access.NonReentrant(l.stateDB, l.addr, func() error {
		if err := l.acc.Distribute(amount); err != nil {
			return err
		}
		return StakingABI.EmitEvent(l.stateDB, l.addr, "Deposited", from, amount.ToBig())
	})
}

// WithdrawDividends pays caller everything accrued so far.
func (l *Ledger) WithdrawDividends(caller common.Address) (*uint256.Int, error) {
	if err := access.RequireInitialized(l.stateDB, l.addr); err != nil {
		return nil, err
	}
	var paid *uint256.Int
	err := access.NonReentrant(l.stateDB, l.addr, func() error {
		dividends, err := l.acc.Withdraw(caller)
		if err != nil {
			return err
		}
		paid = dividends
		if dividends.IsZero() {
			return nil
		}
		if err := l.tokenLedger().Move(l.addr, caller, dividends); err != nil {
			return err
		}
		return StakingABI.EmitEvent(l.stateDB, l.addr, "DividendsWithdrawn", caller, dividends.ToBig())
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}
