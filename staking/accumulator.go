// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package staking

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/taxledger/bps"
	"github.com/luxfi/taxledger/storage"
)

var ErrInsufficientStake = errors.New("insufficient stake")

// Scale is the fixed-point multiplier of the reward-per-share accumulator.
var Scale = new(uint256.Int).Lsh(uint256.NewInt(1), 64)

var (
	perShareSlot      = storage.Key([]byte("staking/perShare"))
	totalStakedSlot   = storage.Key([]byte("staking/totalStaked"))
	undistributedSlot = storage.Key([]byte("staking/undistributed"))

	stakePrefix      = []byte("staking/stake")
	correctionPrefix = []byte("staking/correction")
)

// Accumulator tracks rewards per staked unit so that deposits, stakes and
// claims are all O(1) regardless of how many investors have staked.
//
// Each investor carries a correction term so that
//
//	dividends = (perShare*stake - correction) / Scale
//
// Corrections are signed; they are stored as two's-complement words and
// updated with wrapping arithmetic. The difference above is always a true
// non-negative value even when the correction itself is negative.
type Accumulator struct {
	store storage.Store
}

// NewAccumulator returns the accumulator kept in s.
func NewAccumulator(s storage.Store) Accumulator {
	return Accumulator{store: s}
}

// PerShare is the cumulative reward per staked unit, scaled by Scale.
func (a Accumulator) PerShare() *uint256.Int {
	return a.store.Uint(perShareSlot)
}

func (a Accumulator) TotalStaked() *uint256.Int {
	return a.store.Uint(totalStakedSlot)
}

// Undistributed is the reward escrowed while nothing was staked.
func (a Accumulator) Undistributed() *uint256.Int {
	return a.store.Uint(undistributedSlot)
}

func (a Accumulator) StakeOf(investor common.Address) *uint256.Int {
	return a.store.Uint(storage.Key(stakePrefix, investor.Bytes()))
}

func (a Accumulator) setStake(investor common.Address, v *uint256.Int) {
	a.store.SetUint(storage.Key(stakePrefix, investor.Bytes()), v)
}

func (a Accumulator) correction(investor common.Address) *uint256.Int {
	return a.store.Uint(storage.Key(correctionPrefix, investor.Bytes()))
}

func (a Accumulator) setCorrection(investor common.Address, v *uint256.Int) {
	a.store.SetUint(storage.Key(correctionPrefix, investor.Bytes()), v)
}

// Distribute spreads reward over the current stakes. With nothing staked,
// or when the reward is too small to raise perShare, it is held in
// Undistributed and paid out by a later Distribute or Stake.
func (a Accumulator) Distribute(reward *uint256.Int) error {
	pending, err := bps.Add(a.Undistributed(), reward)
	if err != nil {
		return err
	}
	total := a.TotalStaked()
	if total.IsZero() {
		a.store.SetUint(undistributedSlot, pending)
		return nil
	}
	if pending.IsZero() {
		return nil
	}
	increment, err := bps.MulDiv(pending, Scale, total)
	if err != nil {
		return err
	}
	if increment.IsZero() {
		// Too small to move perShare; hold it until it is not.
		a.store.SetUint(undistributedSlot, pending)
		return nil
	}
	perShare, err := bps.Add(a.PerShare(), increment)
	if err != nil {
		return err
	}
	a.store.SetUint(perShareSlot, perShare)
	a.store.SetUint(undistributedSlot, new(uint256.Int))
	return nil
}

// Stake adds amount to investor's stake without changing what the
// investor is already owed. Escrowed rewards are released afterwards, so
// the first staker receives them.
func (a Accumulator) Stake(investor common.Address, amount *uint256.Int) error {
	perShare := a.PerShare()
	stake, err := bps.Add(a.StakeOf(investor), amount)
	if err != nil {
		return err
	}
	total, err := bps.Add(a.TotalStaked(), amount)
	if err != nil {
		return err
	}
	// perShare*stake must stay representable for DividendsOf.
	if _, err := bps.Mul(perShare, stake); err != nil {
		return err
	}
	magnified, err := bps.Mul(perShare, amount)
	if err != nil {
		return err
	}
	a.setCorrection(investor, new(uint256.Int).Add(a.correction(investor), magnified))
	a.setStake(investor, stake)
	a.store.SetUint(totalStakedSlot, total)

	return a.Distribute(new(uint256.Int))
}

// Unstake removes amount from investor's stake. Dividends accrued so far
// stay claimable.
func (a Accumulator) Unstake(investor common.Address, amount *uint256.Int) error {
	stake := a.StakeOf(investor)
	if stake.Lt(amount) {
		return fmt.Errorf("%w: %s has %s staked, unstaking %s", ErrInsufficientStake, investor, stake.Dec(), amount.Dec())
	}
	magnified, err := bps.Mul(a.PerShare(), amount)
	if err != nil {
		return err
	}
	total, err := bps.Sub(a.TotalStaked(), amount)
	if err != nil {
		return err
	}
	a.setCorrection(investor, new(uint256.Int).Sub(a.correction(investor), magnified))
	a.setStake(investor, new(uint256.Int).Sub(stake, amount))
	a.store.SetUint(totalStakedSlot, total)
	return nil
}

func (a Accumulator) magnified(investor common.Address) (*uint256.Int, error) {
	return bps.Mul(a.PerShare(), a.StakeOf(investor))
}

// DividendsOf is what investor could withdraw now.
func (a Accumulator) DividendsOf(investor common.Address) (*uint256.Int, error) {
	magnified, err := a.magnified(investor)
	if err != nil {
		return nil, err
	}
	accrued := new(uint256.Int).Sub(magnified, a.correction(investor))
	return accrued.Div(accrued, Scale), nil
}

// Withdraw settles investor's dividends and returns the amount to pay out.
// A second Withdraw with no deposit in between returns zero.
func (a Accumulator) Withdraw(investor common.Address) (*uint256.Int, error) {
	dividends, err := a.DividendsOf(investor)
	if err != nil {
		return nil, err
	}
	magnified, err := a.magnified(investor)
	if err != nil {
		return nil, err
	}
	a.setCorrection(investor, magnified)
	return dividends, nil
}
