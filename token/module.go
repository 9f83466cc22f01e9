// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"fmt"

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
const ConfigKey = "taxTokenConfig"

// ContractAddress is where the token precompile is registered.
var ContractAddress = common.HexToAddress("0x0000000000000000000000000000000000009110")

// Module is the token precompile module
var Module = modules.Module{
	ConfigKey:    ConfigKey,
	Address:      ContractAddress,
	Contract:     TokenPrecompile,
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

// Configure initializes the token from its genesis config.
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
	log.Root().Info("tax token initialized",
		"symbol", config.Symbol,
		"owner", config.Owner,
		"staking", config.Staking,
		"block", blockContext.Number(),
	)
	return nil
}

// Config implements the precompileconfig.Config interface
type Config struct {
	Upgrade precompileconfig.Upgrade `json:"upgrade,omitempty"`

	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	tax.Rates
	Owner   common.Address `json:"owner"`
	Staking common.Address `json:"stakingContract"`
}

// InitParams returns the initializer arguments carried by c.
func (c *Config) InitParams() InitParams {
	return InitParams{
		Name:     c.Name,
		Symbol:   c.Symbol,
		Decimals: c.Decimals,
		Rates:    c.Rates,
		Owner:    c.Owner,
		Staking:  c.Staking,
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
	return c.Upgrade.Equal(&other.Upgrade) && c.InitParams() == other.InitParams()
}

func (c *Config) Verify(precompileconfig.ChainConfig) error {
	if err := c.Rates.Validate(); err != nil {
		return err
	}
	if c.Owner == (common.Address{}) {
		return fmt.Errorf("%w: owner", access.ErrInvalidAddress)
	}
	if c.Staking == (common.Address{}) {
		return fmt.Errorf("%w: stakingContract", access.ErrInvalidAddress)
	}
	return nil
}
