// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/taxledger/access"
	"github.com/luxfi/taxledger/bps"
	"github.com/luxfi/taxledger/host"
	"github.com/luxfi/taxledger/tax"
)

var (
	alice       = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob         = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	carol       = common.HexToAddress("0x00000000000000000000000000000000000ca201")
	referrer    = common.HexToAddress("0x000000000000000000000000000000000000bef0")
	stakingAddr = common.HexToAddress("0x0000000000000000000000000000000000005a4e")
)

func u(n uint64) *uint256.Int {
	return uint256.NewInt(n)
}

func moonCoin() InitParams {
	return InitParams{
		Name:     "MoonCoin",
		Symbol:   "Moon",
		Decimals: 18,
		Rates:    tax.Rates{Tax: 100, Referral: 100, Burn: 100, Bonus: 100},
		Owner:    alice,
		Staking:  stakingAddr,
	}
}

func newState() *host.StateDB {
	return host.NewStateDB(memdb.New())
}

// newMoonCoin returns an initialized ledger at ContractAddress.
func newMoonCoin(t *testing.T) (*Ledger, *host.StateDB) {
	t.Helper()
	state := newState()
	l := NewLedger(state, ContractAddress)
	require.NoError(t, l.Initialize(moonCoin()))
	return l, state
}

// fund mints amount to each holder through the airdrop.
func fund(t *testing.T, l *Ledger, amount uint64, holders ...common.Address) {
	t.Helper()
	amounts := make([]*uint256.Int, len(holders))
	for i := range holders {
		amounts[i] = u(amount)
	}
	require.NoError(t, l.Airdrop(alice, holders, amounts))
}

func TestMoonCoinInitialState(t *testing.T) {
	l, _ := newMoonCoin(t)

	require.Equal(t, "MoonCoin", l.Name())
	require.Equal(t, "Moon", l.Symbol())
	require.Equal(t, uint8(18), l.Decimals())
	require.Equal(t, alice, l.Owner())
	require.True(t, l.IsOwner(alice))
	require.False(t, l.IsOwner(bob))
	require.False(t, l.IsAirdropComplete())
	require.True(t, l.TotalSupply().IsZero())
	require.True(t, l.Burned().IsZero())
	require.Equal(t, stakingAddr, l.StakingContract())
	require.Equal(t, alice, l.ReferralSink())

	rates := l.Rates()
	require.Equal(t, uint16(100), rates.Tax)
	require.Equal(t, uint16(100), rates.Referral)
	require.Equal(t, uint16(100), rates.Burn)
	require.Equal(t, uint16(100), rates.Bonus)

	split, err := l.TaxAmount(u(100000))
	require.NoError(t, err)
	require.Equal(t, u(1000), split.Referral)
	require.Equal(t, u(1000), split.Burn)
	require.Equal(t, u(1000), split.Bonus)
}

func TestInitializeTwice(t *testing.T) {
	l, _ := newMoonCoin(t)

	second := moonCoin()
	second.Name = "SunCoin"
	second.Owner = bob
	err := l.Initialize(second)
	require.ErrorIs(t, err, access.ErrAlreadyInitialized)

	require.Equal(t, "MoonCoin", l.Name())
	require.Equal(t, alice, l.Owner())
}

func TestInitializeRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *InitParams)
		wantErr error
	}{
		{
			name:    "rate above 100%",
			mutate:  func(p *InitParams) { p.Rates.Burn = 10001 },
			wantErr: bps.ErrInvalidConfiguration,
		},
		{
			name:    "tax label above 100%",
			mutate:  func(p *InitParams) { p.Rates.Tax = 20000 },
			wantErr: bps.ErrInvalidConfiguration,
		},
		{
			name: "slices exceed principal",
			mutate: func(p *InitParams) {
				p.Rates = tax.Rates{Referral: 5000, Burn: 5000, Bonus: 1}
			},
			wantErr: bps.ErrInvalidConfiguration,
		},
		{
			name:    "zero owner",
			mutate:  func(p *InitParams) { p.Owner = common.Address{} },
			wantErr: access.ErrInvalidAddress,
		},
		{
			name:    "zero staking contract",
			mutate:  func(p *InitParams) { p.Staking = common.Address{} },
			wantErr: access.ErrInvalidAddress,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := newState()
			l := NewLedger(state, ContractAddress)
			p := moonCoin()
			tt.mutate(&p)

			require.ErrorIs(t, l.Initialize(p), tt.wantErr)
			require.False(t, access.IsInitialized(state, ContractAddress))
			require.Empty(t, l.Name())

			// A failed attempt leaves the ledger initializable.
			require.NoError(t, l.Initialize(moonCoin()))
		})
	}
}

func TestUninitializedLedgerFailsFast(t *testing.T) {
	l := NewLedger(newState(), ContractAddress)

	require.ErrorIs(t, l.Transfer(alice, bob, u(1)), access.ErrNotInitialized)
	require.ErrorIs(t, l.TransferFrom(alice, bob, carol, u(1)), access.ErrNotInitialized)
	require.ErrorIs(t, l.Approve(alice, bob, u(1)), access.ErrNotInitialized)
	require.ErrorIs(t, l.Move(alice, bob, u(1)), access.ErrNotInitialized)
	require.ErrorIs(t, l.Airdrop(alice, nil, nil), access.ErrNotInitialized)
	require.ErrorIs(t, l.CompleteAirdrop(alice), access.ErrNotInitialized)
	require.ErrorIs(t, l.SetReferralSink(alice, bob), access.ErrNotInitialized)
}

func TestTaxAmountMatchesFloor(t *testing.T) {
	state := newState()
	l := NewLedger(state, ContractAddress)
	p := moonCoin()
	p.Rates = tax.Rates{Tax: 250, Referral: 37, Burn: 1, Bonus: 9999 - 37 - 1}
	require.NoError(t, l.Initialize(p))

	amounts := []*uint256.Int{
		u(0), u(1), u(9999), u(10000), u(123456789),
		uint256.MustFromDecimal("1000000000000000000000000"),
		new(uint256.Int).Lsh(u(1), 200),
	}
	for _, amount := range amounts {
		split, err := l.TaxAmount(amount)
		require.NoError(t, err)

		for _, c := range []struct {
			got  *uint256.Int
			rate uint16
		}{
			{split.Referral, p.Rates.Referral},
			{split.Burn, p.Rates.Burn},
			{split.Bonus, p.Rates.Bonus},
		} {
			want := new(uint256.Int).Mul(amount, u(uint64(c.rate)))
			want.Div(want, u(10000))
			require.Equal(t, want, c.got, "amount %s rate %d", amount.Dec(), c.rate)
		}
	}
}

func TestMoveIsUntaxed(t *testing.T) {
	l, _ := newMoonCoin(t)
	fund(t, l, 500, bob)

	require.NoError(t, l.Move(bob, carol, u(200)))
	require.Equal(t, u(300), l.BalanceOf(bob))
	require.Equal(t, u(200), l.BalanceOf(carol))
	require.Equal(t, u(500), l.TotalSupply())

	require.ErrorIs(t, l.Move(bob, carol, u(301)), ErrInsufficientBalance)
	require.Equal(t, u(300), l.BalanceOf(bob))
}
