// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package tax holds the basis-point rates a ledger is configured with and
// computes the referral, burn and bonus slices of an amount.
//
// The four rates are independent percentages of the same amount. Tax is a
// label kept for clients; it is not applied when slicing an amount.
package tax

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/taxledger/bps"
	"github.com/luxfi/taxledger/contract"
	"github.com/luxfi/taxledger/storage"
)

// Storage slots for the rates of one ledger
var (
	taxSlot   = storage.Key([]byte("tax/taxBP"))
	refSlot   = storage.Key([]byte("tax/refBP"))
	burnSlot  = storage.Key([]byte("tax/burnBP"))
	bonusSlot = storage.Key([]byte("tax/bonusBP"))
)

// Rates are basis points of a transferred amount (10000 = 100%).
type Rates struct {
	Tax      uint16 `json:"taxBP"`
	Referral uint16 `json:"refBP"`
	Burn     uint16 `json:"burnBP"`
	Bonus    uint16 `json:"bonusBP"`
}

// Split is the withheld part of one amount.
type Split struct {
	Referral *uint256.Int
	Burn     *uint256.Int
	Bonus    *uint256.Int
}

// Total returns Referral + Burn + Bonus.
func (s Split) Total() (*uint256.Int, error) {
	total, err := bps.Add(s.Referral, s.Burn)
	if err != nil {
		return nil, err
	}
	return bps.Add(total, s.Bonus)
}

// Validate checks every rate is at most 100% and the withheld slices
// together never exceed the principal.
func (r Rates) Validate() error {
	rates := []struct {
		name string
		v    uint16
	}{
		{"taxBP", r.Tax},
		{"refBP", r.Referral},
		{"burnBP", r.Burn},
		{"bonusBP", r.Bonus},
	}
	for _, rate := range rates {
		if rate.v > bps.Denominator {
			return fmt.Errorf("%w: %s=%d exceeds %d", bps.ErrInvalidConfiguration, rate.name, rate.v, bps.Denominator)
		}
	}
	withheld := uint32(r.Referral) + uint32(r.Burn) + uint32(r.Bonus)
	if withheld > uint32(bps.Denominator) {
		return fmt.Errorf("%w: refBP+burnBP+bonusBP=%d exceeds %d", bps.ErrInvalidConfiguration, withheld, bps.Denominator)
	}
	return nil
}

// Amount slices amount by the referral, burn and bonus rates.
func (r Rates) Amount(amount *uint256.Int) (Split, error) {
	ref, err := bps.Split(amount, r.Referral)
	if err != nil {
		return Split{}, err
	}
	burn, err := bps.Split(amount, r.Burn)
	if err != nil {
		return Split{}, err
	}
	bonus, err := bps.Split(amount, r.Bonus)
	if err != nil {
		return Split{}, err
	}
	return Split{Referral: ref, Burn: burn, Bonus: bonus}, nil
}

// Store writes r into addr's storage.
func Store(stateDB contract.StateDB, addr common.Address, r Rates) {
	s := storage.New(stateDB, addr)
	s.SetUint64(taxSlot, uint64(r.Tax))
	s.SetUint64(refSlot, uint64(r.Referral))
	s.SetUint64(burnSlot, uint64(r.Burn))
	s.SetUint64(bonusSlot, uint64(r.Bonus))
}

// Load reads the rates stored for addr.
func Load(stateDB contract.StateDB, addr common.Address) Rates {
	s := storage.New(stateDB, addr)
	return Rates{
		Tax:      uint16(s.Uint64(taxSlot)),
		Referral: uint16(s.Uint64(refSlot)),
		Burn:     uint16(s.Uint64(burnSlot)),
		Bonus:    uint16(s.Uint64(bonusSlot)),
	}
}
