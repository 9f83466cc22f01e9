// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package precompileconfig defines the genesis/upgrade configuration
// contract every ledger precompile module implements.
package precompileconfig

import "github.com/luxfi/ids"

// Config is the JSON-decodable activation config of one precompile.
type Config interface {
	// Key returns the json key of this config in the upgrade file.
	Key() string
	// Timestamp returns the activation timestamp, nil if not scheduled.
	Timestamp() *uint64
	IsDisabled() bool
	Equal(Config) bool
	// Verify is called once at chain start-up before the config is used.
	Verify(ChainConfig) error
}

// ChainConfig is the view of the chain configuration a precompile config
// may consult during Verify.
type ChainConfig interface {
	ChainID() ids.ID
}

// Upgrade holds the activation fields shared by all precompile configs.
type Upgrade struct {
	BlockTimestamp *uint64 `json:"blockTimestamp,omitempty"`
	Disable        bool    `json:"disable,omitempty"`
}

// Timestamp returns the activation timestamp.
func (u *Upgrade) Timestamp() *uint64 {
	return u.BlockTimestamp
}

// Equal reports whether both upgrades activate at the same time the same way.
func (u *Upgrade) Equal(other *Upgrade) bool {
	if other == nil {
		return false
	}
	if u.Disable != other.Disable {
		return false
	}
	if u.BlockTimestamp == nil || other.BlockTimestamp == nil {
		return u.BlockTimestamp == nil && other.BlockTimestamp == nil
	}
	return *u.BlockTimestamp == *other.BlockTimestamp
}
