// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/taxledger/access"
	"github.com/luxfi/taxledger/bps"
	"github.com/luxfi/taxledger/tax"
)

func TestTransferSplitsTax(t *testing.T) {
	l, state := newMoonCoin(t)
	require.NoError(t, l.SetReferralSink(alice, referrer))
	fund(t, l, 100000, bob)
	logsBefore := len(state.Logs())

	require.NoError(t, l.Transfer(bob, carol, u(100000)))

	require.True(t, l.BalanceOf(bob).IsZero())
	require.Equal(t, u(97000), l.BalanceOf(carol))
	require.Equal(t, u(1000), l.BalanceOf(referrer))
	require.Equal(t, u(1000), l.BalanceOf(stakingAddr))
	require.Equal(t, u(99000), l.TotalSupply())
	require.Equal(t, u(1000), l.Burned())

	// net, referral and bonus transfers plus the burn
	logs := state.Logs()[logsBefore:]
	require.Len(t, logs, 4)
	require.Equal(t, TokenABI.Events["Burn"].ID, logs[0].Topics[0])
	require.Equal(t, TokenABI.Events["Transfer"].ID, logs[1].Topics[0])
	require.Equal(t, common.BytesToHash(carol.Bytes()), logs[1].Topics[2])
}

func TestTransferDustStaysWithRecipient(t *testing.T) {
	l, _ := newMoonCoin(t)
	fund(t, l, 1000, bob)

	// 1% of 99 floors to zero for every slice.
	require.NoError(t, l.Transfer(bob, carol, u(99)))
	require.Equal(t, u(99), l.BalanceOf(carol))
	require.Equal(t, u(1000), l.TotalSupply())
	require.True(t, l.BalanceOf(stakingAddr).IsZero())
}

func TestTransferToSelf(t *testing.T) {
	l, _ := newMoonCoin(t)
	fund(t, l, 10000, bob)

	require.NoError(t, l.Transfer(bob, bob, u(10000)))
	require.Equal(t, u(9700), l.BalanceOf(bob))
	require.Equal(t, u(9900), l.TotalSupply())
}

func TestTransferFailuresRollBack(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, l *Ledger)
		from    common.Address
		to      common.Address
		amount  *uint256.Int
		wantErr error
	}{
		{
			name:    "insufficient balance",
			from:    bob,
			to:      carol,
			amount:  u(5001),
			wantErr: ErrInsufficientBalance,
		},
		{
			name:    "zero recipient",
			from:    bob,
			to:      common.Address{},
			amount:  u(1),
			wantErr: access.ErrInvalidAddress,
		},
		{
			name: "tax exceeds principal",
			setup: func(t *testing.T, l *Ledger) {
				// Rates are validated on initialize; corrupt them underneath.
				tax.Store(l.stateDB, l.addr, tax.Rates{Referral: 5000, Burn: 5000, Bonus: 5000})
			},
			from:    bob,
			to:      carol,
			amount:  u(1000),
			wantErr: bps.ErrInvalidConfiguration,
		},
		{
			name: "reentrant",
			setup: func(t *testing.T, l *Ledger) {
				require.NoError(t, access.Lock(l.stateDB, l.addr))
			},
			from:    bob,
			to:      carol,
			amount:  u(1),
			wantErr: access.ErrReentrantCall,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, state := newMoonCoin(t)
			fund(t, l, 5000, bob)
			if tt.setup != nil {
				tt.setup(t, l)
			}
			logs := len(state.Logs())

			require.ErrorIs(t, l.Transfer(tt.from, tt.to, tt.amount), tt.wantErr)

			require.Equal(t, u(5000), l.BalanceOf(bob))
			require.True(t, l.BalanceOf(carol).IsZero())
			require.True(t, l.BalanceOf(stakingAddr).IsZero())
			require.Equal(t, u(5000), l.TotalSupply())
			require.True(t, l.Burned().IsZero())
			require.Len(t, state.Logs(), logs)
		})
	}
}

func TestTransferReleasesLock(t *testing.T) {
	l, _ := newMoonCoin(t)
	fund(t, l, 5000, bob)

	require.ErrorIs(t, l.Transfer(bob, carol, u(6000)), ErrInsufficientBalance)
	require.NoError(t, l.Transfer(bob, carol, u(100)))
	require.NoError(t, l.Transfer(bob, carol, u(100)))
}

func TestConservation(t *testing.T) {
	l, _ := newMoonCoin(t)
	require.NoError(t, l.SetReferralSink(alice, referrer))

	holders := []common.Address{alice, bob, carol}
	fund(t, l, 1_000_000, holders...)
	genesis := l.TotalSupply().Clone()
	everyone := append([]common.Address{referrer, stakingAddr}, holders...)

	check := func() {
		sum := new(uint256.Int)
		for _, h := range everyone {
			sum.Add(sum, l.BalanceOf(h))
		}
		require.Equal(t, l.TotalSupply(), sum)
		require.Equal(t, genesis, new(uint256.Int).Add(sum, l.Burned()))
	}

	amounts := []uint64{1, 99, 100, 12345, 777777, 50, 10001, 333}
	for i, amount := range amounts {
		from := holders[i%len(holders)]
		to := holders[(i+1)%len(holders)]
		if l.BalanceOf(from).Lt(u(amount)) {
			continue
		}
		require.NoError(t, l.Transfer(from, to, u(amount)))
		check()
	}
	require.False(t, l.Burned().IsZero())
}

func TestApproveAndTransferFrom(t *testing.T) {
	l, _ := newMoonCoin(t)
	fund(t, l, 10000, bob)

	require.NoError(t, l.Approve(bob, carol, u(5000)))
	require.Equal(t, u(5000), l.Allowance(bob, carol))

	err := l.TransferFrom(carol, bob, alice, u(5001))
	require.ErrorIs(t, err, ErrInsufficientAllowance)
	require.Equal(t, u(5000), l.Allowance(bob, carol))

	require.NoError(t, l.TransferFrom(carol, bob, carol, u(5000)))
	require.True(t, l.Allowance(bob, carol).IsZero())
	require.Equal(t, u(5000), l.BalanceOf(bob))
	require.Equal(t, u(4850), l.BalanceOf(carol))
	require.Equal(t, u(9950), l.TotalSupply())

	require.ErrorIs(t, l.Approve(bob, common.Address{}, u(1)), access.ErrInvalidAddress)
}

func TestTransferFromRestoresAllowanceOnFailure(t *testing.T) {
	l, _ := newMoonCoin(t)
	fund(t, l, 100, bob)
	require.NoError(t, l.Approve(bob, carol, u(1000)))

	require.ErrorIs(t, l.TransferFrom(carol, bob, alice, u(500)), ErrInsufficientBalance)
	require.Equal(t, u(1000), l.Allowance(bob, carol))
}

func TestSetReferralSink(t *testing.T) {
	l, state := newMoonCoin(t)
	logsBefore := len(state.Logs())

	require.ErrorIs(t, l.SetReferralSink(bob, bob), access.ErrUnauthorized)
	require.ErrorIs(t, l.SetReferralSink(alice, common.Address{}), access.ErrInvalidAddress)
	require.Len(t, state.Logs(), logsBefore)

	require.NoError(t, l.SetReferralSink(alice, referrer))
	require.Equal(t, referrer, l.ReferralSink())

	logs := state.Logs()[logsBefore:]
	require.Len(t, logs, 1)
	require.Equal(t, TokenABI.Events["ReferralSinkChanged"].ID, logs[0].Topics[0])
	require.Equal(t, common.BytesToHash(alice.Bytes()), logs[0].Topics[1])
	require.Equal(t, common.BytesToHash(referrer.Bytes()), logs[0].Topics[2])
}

func TestTransferLargeBalance(t *testing.T) {
	l, _ := newMoonCoin(t)
	amount := new(uint256.Int).Lsh(u(1), 250)
	require.NoError(t, l.Airdrop(alice, []common.Address{bob}, []*uint256.Int{amount}))

	require.NoError(t, l.Transfer(bob, carol, amount))

	slice := new(uint256.Int).Div(amount, u(100))
	withheld := new(uint256.Int).Mul(slice, u(3))
	require.Equal(t, new(uint256.Int).Sub(amount, withheld), l.BalanceOf(carol))
	require.True(t, l.BalanceOf(bob).IsZero())
	require.Equal(t, slice, l.BalanceOf(alice))
	require.Equal(t, slice, l.BalanceOf(stakingAddr))
	require.Equal(t, slice, l.Burned())
	require.Equal(t, new(uint256.Int).Sub(amount, slice), l.TotalSupply())
}

func TestBurn(t *testing.T) {
	l, state := newMoonCoin(t)
	fund(t, l, 100, bob)
	logsBefore := len(state.Logs())

	require.NoError(t, l.Burn(bob, u(0)))
	require.Len(t, state.Logs(), logsBefore)

	require.NoError(t, l.Burn(bob, u(40)))
	require.Equal(t, u(60), l.BalanceOf(bob))
	require.Equal(t, u(60), l.TotalSupply())
	require.Equal(t, u(40), l.Burned())

	require.ErrorIs(t, l.Burn(bob, u(61)), ErrInsufficientBalance)
	require.Equal(t, u(60), l.BalanceOf(bob))
	require.Equal(t, u(60), l.TotalSupply())
}

func TestTransferWithoutTax(t *testing.T) {
	state := newState()
	l := NewLedger(state, ContractAddress)
	p := moonCoin()
	p.Rates = tax.Rates{}
	require.NoError(t, l.Initialize(p))
	fund(t, l, 100, bob)

	require.NoError(t, l.Transfer(bob, carol, u(100)))
	require.Equal(t, u(100), l.BalanceOf(carol))
	require.Equal(t, u(100), l.TotalSupply())
}
