// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/taxledger/access"
	"github.com/luxfi/taxledger/bps"
	"github.com/luxfi/taxledger/host"
	"github.com/luxfi/taxledger/modules"
)

const genesisJSON = `{
	"upgrade": {"blockTimestamp": 0},
	"name": "MoonCoin",
	"symbol": "Moon",
	"decimals": 18,
	"taxBP": 100,
	"refBP": 100,
	"burnBP": 100,
	"bonusBP": 100,
	"owner": "0x00000000000000000000000000000000000a11ce",
	"stakingContract": "0x0000000000000000000000000000000000005a4e"
}`

func TestModuleRegistered(t *testing.T) {
	m, ok := modules.GetPrecompileModule(ConfigKey)
	require.True(t, ok)
	require.Equal(t, ContractAddress, m.Address)

	byAddr, ok := modules.GetPrecompileModuleByAddress(ContractAddress)
	require.True(t, ok)
	require.Equal(t, ConfigKey, byAddr.ConfigKey)
}

func TestConfigJSON(t *testing.T) {
	cfg := Module.MakeConfig().(*Config)
	require.NoError(t, json.Unmarshal([]byte(genesisJSON), cfg))

	require.Equal(t, ConfigKey, cfg.Key())
	require.Equal(t, moonCoin(), cfg.InitParams())
	require.False(t, cfg.IsDisabled())
	require.NotNil(t, cfg.Timestamp())
	require.NoError(t, cfg.Verify(host.ChainConfig{ID: testChainID}))

	other := new(Config)
	require.NoError(t, json.Unmarshal([]byte(genesisJSON), other))
	require.True(t, cfg.Equal(other))
	other.Rates.Burn = 0
	require.False(t, cfg.Equal(other))
}

func TestConfigVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"bad rate", func(c *Config) { c.Rates.Referral = 10001 }, bps.ErrInvalidConfiguration},
		{"zero owner", func(c *Config) { c.Owner = [20]byte{} }, access.ErrInvalidAddress},
		{"zero staking", func(c *Config) { c.Staking = [20]byte{} }, access.ErrInvalidAddress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := new(Config)
			require.NoError(t, json.Unmarshal([]byte(genesisJSON), cfg))
			tt.mutate(cfg)
			err := cfg.Verify(host.ChainConfig{ID: testChainID})
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfigureInitializesLedger(t *testing.T) {
	e := newExecutor(t)
	cfg := new(Config)
	require.NoError(t, json.Unmarshal([]byte(genesisJSON), cfg))

	require.NoError(t, e.Configure(host.ChainConfig{ID: testChainID}, cfg))

	l := NewLedger(e.State(), ContractAddress)
	require.Equal(t, "MoonCoin", l.Name())
	require.Equal(t, alice, l.Owner())
	require.Equal(t, stakingAddr, l.StakingContract())

	require.ErrorIs(t, e.Configure(host.ChainConfig{ID: testChainID}, cfg), access.ErrAlreadyInitialized)
}
