// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package abiext

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/taxledger/contract"
)

// Args gives typed access to unpacked calldata.
type Args []interface{}

func (a Args) at(i int) (interface{}, error) {
	if i >= len(a) {
		return nil, fmt.Errorf("%w: missing argument %d", contract.ErrInvalidInput, i)
	}
	return a[i], nil
}

func typeErr(i int, want string, got interface{}) error {
	return fmt.Errorf("%w: argument %d is %T, want %s", contract.ErrInvalidInput, i, got, want)
}

func (a Args) Address(i int) (common.Address, error) {
	v, err := a.at(i)
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := v.(common.Address)
	if !ok {
		return common.Address{}, typeErr(i, "address", v)
	}
	return addr, nil
}

func (a Args) Addresses(i int) ([]common.Address, error) {
	v, err := a.at(i)
	if err != nil {
		return nil, err
	}
	addrs, ok := v.([]common.Address)
	if !ok {
		return nil, typeErr(i, "address[]", v)
	}
	return addrs, nil
}

func (a Args) String(i int) (string, error) {
	v, err := a.at(i)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", typeErr(i, "string", v)
	}
	return s, nil
}

func (a Args) Uint8(i int) (uint8, error) {
	v, err := a.at(i)
	if err != nil {
		return 0, err
	}
	n, ok := v.(uint8)
	if !ok {
		return 0, typeErr(i, "uint8", v)
	}
	return n, nil
}

func (a Args) Uint16(i int) (uint16, error) {
	v, err := a.at(i)
	if err != nil {
		return 0, err
	}
	n, ok := v.(uint16)
	if !ok {
		return 0, typeErr(i, "uint16", v)
	}
	return n, nil
}

// Uint256 converts a uint256 argument, which the ABI decodes as *big.Int.
func (a Args) Uint256(i int) (*uint256.Int, error) {
	v, err := a.at(i)
	if err != nil {
		return nil, err
	}
	b, ok := v.(*big.Int)
	if !ok {
		return nil, typeErr(i, "uint256", v)
	}
	n, overflow := uint256.FromBig(b)
	if overflow || b.Sign() < 0 {
		return nil, fmt.Errorf("%w: argument %d out of uint256 range", contract.ErrInvalidInput, i)
	}
	return n, nil
}

// Uint256s converts a uint256[] argument.
func (a Args) Uint256s(i int) ([]*uint256.Int, error) {
	v, err := a.at(i)
	if err != nil {
		return nil, err
	}
	bs, ok := v.([]*big.Int)
	if !ok {
		return nil, typeErr(i, "uint256[]", v)
	}
	out := make([]*uint256.Int, len(bs))
	for j, b := range bs {
		n, overflow := uint256.FromBig(b)
		if overflow || b.Sign() < 0 {
			return nil, fmt.Errorf("%w: argument %d[%d] out of uint256 range", contract.ErrInvalidInput, i, j)
		}
		out[j] = n
	}
	return out, nil
}
