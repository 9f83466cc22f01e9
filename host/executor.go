// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"

	"github.com/luxfi/taxledger/modules"
	"github.com/luxfi/taxledger/precompileconfig"
)

var (
	ErrNoPrecompile = errors.New("no precompile registered at address")
	ErrWrongChain   = errors.New("call targets a different chain")
	ErrDisabled     = errors.New("precompile config is disabled")
)

// Executor runs precompile calls one at a time against a StateDB. Each
// call commits all of its writes or none of them.
type Executor struct {
	state   *StateDB
	block   *BlockContext
	log     log.Logger
	metrics *Metrics
}

// NewExecutor returns an executor over state in block.
func NewExecutor(state *StateDB, block *BlockContext, logger log.Logger) *Executor {
	if logger == nil {
		logger = log.Root()
	}
	return &Executor{
		state: state,
		block: block,
		log:   logger,
	}
}

// UseMetrics records every call and activation in m.
func (e *Executor) UseMetrics(m *Metrics) {
	e.metrics = m
}

func (e *Executor) State() *StateDB {
	return e.state
}

func (e *Executor) Block() *BlockContext {
	return e.block
}

// Call executes input against the precompile at addr on behalf of caller.
func (e *Executor) Call(
	ctx context.Context,
	caller common.Address,
	addr common.Address,
	input []byte,
	gas uint64,
) ([]byte, uint64, error) {
	return e.run(ctx, caller, addr, input, gas, false)
}

// StaticCall executes input in read-only mode.
func (e *Executor) StaticCall(
	ctx context.Context,
	caller common.Address,
	addr common.Address,
	input []byte,
	gas uint64,
) ([]byte, uint64, error) {
	return e.run(ctx, caller, addr, input, gas, true)
}

func (e *Executor) run(
	ctx context.Context,
	caller common.Address,
	addr common.Address,
	input []byte,
	gas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, gas, err
	}
	if chainID, ok := ChainIDFrom(ctx); ok && chainID != e.block.ChainID() {
		return nil, gas, fmt.Errorf("%w: %s", ErrWrongChain, chainID)
	}

	module, ok := modules.GetPrecompileModuleByAddress(addr)
	if !ok {
		return nil, gas, fmt.Errorf("%w: %s", ErrNoPrecompile, addr)
	}

	snapshot := e.state.Snapshot()
	ret, remaining, err := module.Contract.Run(
		NewAccessibleState(e.state, e.block),
		caller,
		addr,
		input,
		gas,
		readOnly,
	)
	e.metrics.observeCall(module.ConfigKey, gas-remaining, err)
	if err != nil {
		e.state.RevertToSnapshot(snapshot)
		e.log.Debug("precompile call reverted",
			"precompile", module.ConfigKey,
			"caller", caller,
			"block", e.block.number,
			"err", err,
		)
		return nil, remaining, err
	}

	e.log.Debug("precompile call",
		"precompile", module.ConfigKey,
		"caller", caller,
		"block", e.block.number,
		"gasUsed", gas-remaining,
	)
	return ret, remaining, nil
}

// Configure activates cfg on the module registered under its key, the
// way a chain applies a precompile upgrade at genesis.
func (e *Executor) Configure(chainConfig precompileconfig.ChainConfig, cfg precompileconfig.Config) error {
	module, ok := modules.GetPrecompileModule(cfg.Key())
	if !ok {
		return fmt.Errorf("no precompile module for config key %q", cfg.Key())
	}
	if cfg.IsDisabled() {
		return fmt.Errorf("%w: %s", ErrDisabled, cfg.Key())
	}
	if err := cfg.Verify(chainConfig); err != nil {
		return fmt.Errorf("invalid %s config: %w", cfg.Key(), err)
	}

	snapshot := e.state.Snapshot()
	err := module.Configure(chainConfig, cfg, e.state, e.block)
	e.metrics.observeConfigure(cfg.Key(), err)
	if err != nil {
		e.state.RevertToSnapshot(snapshot)
		return err
	}

	e.log.Info("precompile configured",
		"precompile", cfg.Key(),
		"address", module.Address,
		"chainID", chainConfig.ChainID(),
	)
	return nil
}
