// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package staking

import (
	"fmt"
	"slices"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"

	"github.com/luxfi/taxledger/access"
	"github.com/luxfi/taxledger/contract"
	"github.com/luxfi/taxledger/modules"
	"github.com/luxfi/taxledger/precompileconfig"
	"github.com/luxfi/taxledger/tax"
)

var _ contract.Configurator = (*configurator)(nil)

// ConfigKey is the key used in json config files to specify this precompile config.
const ConfigKey = "dividendStakingConfig"

// ContractAddress is where the staking precompile is registered.
var ContractAddress = common.HexToAddress("0x0000000000000000000000000000000000009210")

// Module is the staking precompile module
var Module = modules.Module{
	ConfigKey:    ConfigKey,
	Address:      ContractAddress,
	Contract:     StakingPrecompile,
	Configurator: &configurator{},
}

type configurator struct{}

func init() {
	if err := modules.RegisterModule(Module); err != nil {
		panic(err)
	}
}

func (*configurator) MakeConfig() precompileconfig.Config {
	return new(Config)
}

// Configure initializes the staking ledger from its genesis config.
func (*configurator) Configure(
	chainConfig precompileconfig.ChainConfig,
	cfg precompileconfig.Config,
	state contract.StateDB,
	blockContext contract.ConfigurationBlockContext,
) error {
	config, ok := cfg.(*Config)
	if !ok {
		return fmt.Errorf("expected config type %T, got %T", &Config{}, cfg)
	}
	if err := NewLedger(state, ContractAddress).Initialize(config.InitParams()); err != nil {
		return err
	}
	log.Root().Info("dividend staking initialized",
		"token", config.Token,
		"startTime", config.StartTime,
		"poolManagers", len(config.PoolManagers),
		"block", blockContext.Number(),
	)
	return nil
}

// Config implements the precompileconfig.Config interface
type Config struct {
	Upgrade precompileconfig.Upgrade `json:"upgrade,omitempty"`

	StartTime uint64 `json:"startTime"`
	tax.Rates
	Owner        common.Address   `json:"owner"`
	PoolManagers []common.Address `json:"poolManagers,omitempty"`
	Token        common.Address   `json:"tokenContract"`
}

// InitParams returns the initializer arguments carried by c.
func (c *Config) InitParams() InitParams {
	return InitParams{
		StartTime:    c.StartTime,
		Rates:        c.Rates,
		Owner:        c.Owner,
		PoolManagers: slices.Clone(c.PoolManagers),
		Token:        c.Token,
	}
}

func (*Config) Key() string {
	return ConfigKey
}

func (c *Config) Timestamp() *uint64 {
	return c.Upgrade.Timestamp()
}

func (c *Config) IsDisabled() bool {
	return c.Upgrade.Disable
}

func (c *Config) Equal(cfg precompileconfig.Config) bool {
	other, ok := cfg.(*Config)
	if !ok {
		return false
	}
	return c.Upgrade.Equal(&other.Upgrade) &&
		c.StartTime == other.StartTime &&
		c.Rates == other.Rates &&
		c.Owner == other.Owner &&
		c.Token == other.Token &&
		slices.Equal(c.PoolManagers, other.PoolManagers)
}

func (c *Config) Verify(precompileconfig.ChainConfig) error {
	if err := c.Rates.Validate(); err != nil {
		return err
	}
	if c.Owner == (common.Address{}) {
		return fmt.Errorf("%w: owner", access.ErrInvalidAddress)
	}
	if c.Token == (common.Address{}) {
		return fmt.Errorf("%w: tokenContract", access.ErrInvalidAddress)
	}
	for i, manager := range c.PoolManagers {
		if manager == (common.Address{}) {
			return fmt.Errorf("%w: poolManagers[%d]", access.ErrInvalidAddress, i)
		}
	}
	return nil
}
