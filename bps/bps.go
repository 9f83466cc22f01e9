// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bps implements the fixed-point basis-point arithmetic shared by
// the token and staking ledgers. All results round toward zero.
package bps

import (
	"errors"

	"github.com/holiman/uint256"
)

// Denominator is 100% expressed in basis points.
const Denominator uint16 = 10000

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrArithmeticOverflow   = errors.New("arithmetic overflow")
	ErrDivisionByZero       = errors.New("division by zero")
)

var denominator = uint256.NewInt(uint64(Denominator))

// Split returns floor(amount * bp / 10000).
//
// The product is formed in 512 bits, so every representable amount splits
// without overflow. Rounding dust is not tracked.
func Split(amount *uint256.Int, bp uint16) (*uint256.Int, error) {
	if bp > Denominator {
		return nil, ErrInvalidConfiguration
	}
	if amount.IsZero() || bp == 0 {
		return new(uint256.Int), nil
	}
	return MulDiv(amount, uint256.NewInt(uint64(bp)), denominator)
}

// MulDiv returns floor(x * y / d) computed with a 512-bit intermediate.
func MulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrDivisionByZero
	}
	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return z, nil
}

// Add returns x + y.
func Add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return z, nil
}

// Sub returns x - y, failing if y > x.
func Sub(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, ErrArithmeticOverflow
	}
	return z, nil
}

// Mul returns x * y.
func Mul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return z, nil
}
