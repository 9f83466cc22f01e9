// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bps

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		amount   *uint256.Int
		bp       uint16
		expected *uint256.Int
	}{
		{
			name:     "one percent",
			amount:   uint256.NewInt(100000),
			bp:       100,
			expected: uint256.NewInt(1000),
		},
		{
			name:     "floors fractional result",
			amount:   uint256.NewInt(199),
			bp:       100,
			expected: uint256.NewInt(1),
		},
		{
			name:     "below one unit",
			amount:   uint256.NewInt(99),
			bp:       100,
			expected: uint256.NewInt(0),
		},
		{
			name:     "zero rate",
			amount:   uint256.NewInt(12345),
			bp:       0,
			expected: uint256.NewInt(0),
		},
		{
			name:     "full rate",
			amount:   uint256.NewInt(12345),
			bp:       10000,
			expected: uint256.NewInt(12345),
		},
		{
			name:     "zero amount",
			amount:   uint256.NewInt(0),
			bp:       2500,
			expected: uint256.NewInt(0),
		},
		{
			name:     "18 decimal supply",
			amount:   uint256.MustFromDecimal("1000000000000000000000000000"),
			bp:       250,
			expected: uint256.MustFromDecimal("25000000000000000000000000"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.amount, tt.bp)
			require.NoError(t, err)
			require.Equal(t, tt.expected.Dec(), got.Dec())
		})
	}
}

func TestSplitRejectsRateAboveDenominator(t *testing.T) {
	_, err := Split(uint256.NewInt(1000), 10001)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestSplitFullRange(t *testing.T) {
	maxAmount := new(uint256.Int).SetAllOne()

	got, err := Split(maxAmount, Denominator)
	require.NoError(t, err)
	require.True(t, got.Eq(maxAmount))

	// floor((2^256-1) * 9999 / 10000) == 2^256-1 - ceil((2^256-1) / 10000)
	got, err = Split(maxAmount, 9999)
	require.NoError(t, err)
	want := new(uint256.Int).Div(maxAmount, uint256.NewInt(10000))
	want.AddUint64(want, 1)
	want.Sub(maxAmount, want)
	require.Equal(t, want.Dec(), got.Dec())

	large := new(uint256.Int).Lsh(uint256.NewInt(1), 250)
	got, err = Split(large, 100)
	require.NoError(t, err)
	require.Equal(t, "18092513943330655534932966407607485602073435104006338131165247501236426506", got.Dec())
}

func TestSplitMatchesBigInt(t *testing.T) {
	amounts := []string{"1", "7", "10001", "123456789012345678901234567890", "999999999999999999999"}
	rates := []uint16{1, 3, 33, 100, 333, 5000, 9999}

	for _, a := range amounts {
		for _, bp := range rates {
			amount := uint256.MustFromDecimal(a)
			got, err := Split(amount, bp)
			require.NoError(t, err)

			want := new(big.Int).Mul(amount.ToBig(), big.NewInt(int64(bp)))
			want.Div(want, big.NewInt(10000))
			require.Equal(t, want.String(), got.Dec(), "amount=%s bp=%d", a, bp)
		}
	}
}

func TestMulDiv(t *testing.T) {
	scale := new(uint256.Int).Lsh(uint256.NewInt(1), 64)

	got, err := MulDiv(uint256.NewInt(30), scale, uint256.NewInt(3))
	require.NoError(t, err)
	require.True(t, got.Eq(new(uint256.Int).Mul(uint256.NewInt(10), scale)))

	// 512-bit intermediate: x*y overflows 256 bits but the quotient fits.
	max := new(uint256.Int).SetAllOne()
	got, err = MulDiv(max, scale, scale)
	require.NoError(t, err)
	require.True(t, got.Eq(max))

	_, err = MulDiv(max, scale, uint256.NewInt(1))
	require.ErrorIs(t, err, ErrArithmeticOverflow)

	_, err = MulDiv(uint256.NewInt(1), uint256.NewInt(1), uint256.NewInt(0))
	require.ErrorIs(t, err, ErrDivisionByZero)
}

func TestCheckedArithmetic(t *testing.T) {
	max := new(uint256.Int).SetAllOne()

	_, err := Add(max, uint256.NewInt(1))
	require.ErrorIs(t, err, ErrArithmeticOverflow)

	_, err = Sub(uint256.NewInt(1), uint256.NewInt(2))
	require.ErrorIs(t, err, ErrArithmeticOverflow)

	_, err = Mul(max, uint256.NewInt(2))
	require.ErrorIs(t, err, ErrArithmeticOverflow)

	sum, err := Add(uint256.NewInt(2), uint256.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, uint64(5), sum.Uint64())

	diff, err := Sub(uint256.NewInt(5), uint256.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, uint64(2), diff.Uint64())
}
