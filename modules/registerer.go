// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package modules

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/luxfi/geth/common"
)

// AddressRange represents a continuous range of addresses
type AddressRange struct {
	Name  string
	Start common.Address
	End   common.Address
}

// Contains reports whether addr lies in [Start, End].
func (a *AddressRange) Contains(addr common.Address) bool {
	return bytes.Compare(addr[:], a.Start[:]) >= 0 && bytes.Compare(addr[:], a.End[:]) <= 0
}

// Reserved address ranges for ledger precompiles
var (
	TokenRange = AddressRange{
		Name:  "token",
		Start: common.HexToAddress("0x0000000000000000000000000000000000009100"),
		End:   common.HexToAddress("0x00000000000000000000000000000000000091ff"),
	}
	StakingRange = AddressRange{
		Name:  "staking",
		Start: common.HexToAddress("0x0000000000000000000000000000000000009200"),
		End:   common.HexToAddress("0x00000000000000000000000000000000000092ff"),
	}

	reservedRanges = []*AddressRange{&TokenRange, &StakingRange}
)

// registeredModules is kept sorted by address
var registeredModules []Module

// ReservedAddress reports whether addr is in a ledger precompile range.
func ReservedAddress(addr common.Address) bool {
	_, ok := RangeOf(addr)
	return ok
}

// RangeOf returns the reserved range addr falls in.
func RangeOf(addr common.Address) (*AddressRange, bool) {
	for _, r := range reservedRanges {
		if r.Contains(addr) {
			return r, true
		}
	}
	return nil, false
}

// RegisterModule adds a precompile to the registry. Modules call it from
// init; a conflicting key or address is a programming error.
func RegisterModule(m Module) error {
	switch {
	case m.ConfigKey == "":
		return fmt.Errorf("module at %s has no config key", m.Address)
	case m.Contract == nil || m.Configurator == nil:
		return fmt.Errorf("module %s is missing its contract or configurator", m.ConfigKey)
	case !ReservedAddress(m.Address):
		return fmt.Errorf("address %s not in a reserved range", m.Address)
	}
	for _, registered := range registeredModules {
		if registered.ConfigKey == m.ConfigKey {
			return fmt.Errorf("name %s already used by a stateful precompile", m.ConfigKey)
		}
		if registered.Address == m.Address {
			return fmt.Errorf("address %s already used by %s", m.Address, registered.ConfigKey)
		}
	}
	registeredModules = append(registeredModules, m)
	slices.SortFunc(registeredModules, func(a, b Module) int {
		return bytes.Compare(a.Address[:], b.Address[:])
	})
	return nil
}

// GetPrecompileModuleByAddress returns the module registered at address.
func GetPrecompileModuleByAddress(address common.Address) (Module, bool) {
	i := slices.IndexFunc(registeredModules, func(m Module) bool { return m.Address == address })
	if i < 0 {
		return Module{}, false
	}
	return registeredModules[i], true
}

// GetPrecompileModule returns the module registered under config key.
func GetPrecompileModule(key string) (Module, bool) {
	i := slices.IndexFunc(registeredModules, func(m Module) bool { return m.ConfigKey == key })
	if i < 0 {
		return Module{}, false
	}
	return registeredModules[i], true
}

// RegisteredModules returns every module in address order.
func RegisteredModules() []Module {
	return registeredModules
}
