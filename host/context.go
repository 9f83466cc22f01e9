// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"context"
	"math/big"

	"github.com/luxfi/ids"

	"github.com/luxfi/taxledger/contract"
	"github.com/luxfi/taxledger/precompileconfig"
)

var (
	_ contract.BlockContext              = (*BlockContext)(nil)
	_ contract.ConfigurationBlockContext = (*BlockContext)(nil)
	_ contract.AccessibleState           = (*accessibleState)(nil)
	_ precompileconfig.ChainConfig       = ChainConfig{}
)

// chainIDKey carries the chain a caller expects its call to run on.
type chainIDKey struct{}

// WithChainID pins calls made with ctx to chainID. The executor refuses
// them on any other chain.
func WithChainID(ctx context.Context, chainID ids.ID) context.Context {
	return context.WithValue(ctx, chainIDKey{}, chainID)
}

// ChainIDFrom reports the chain ctx was pinned to, if any.
func ChainIDFrom(ctx context.Context) (ids.ID, bool) {
	chainID, ok := ctx.Value(chainIDKey{}).(ids.ID)
	return chainID, ok
}

// ChainConfig identifies the chain precompile configs are verified against.
type ChainConfig struct {
	ID ids.ID
}

func (c ChainConfig) ChainID() ids.ID {
	return c.ID
}

// BlockContext is the block the executor runs calls in. The host advances
// it between transactions; calls never change it.
type BlockContext struct {
	number    uint64
	timestamp uint64
	chainID   ids.ID
}

// NewBlockContext returns a block context for chainID at the given height and time.
func NewBlockContext(chainID ids.ID, number uint64, timestamp uint64) *BlockContext {
	return &BlockContext{
		number:    number,
		timestamp: timestamp,
		chainID:   chainID,
	}
}

func (b *BlockContext) Number() *big.Int {
	return new(big.Int).SetUint64(b.number)
}

func (b *BlockContext) Timestamp() uint64 {
	return b.timestamp
}

func (b *BlockContext) ChainID() ids.ID {
	return b.chainID
}

// Advance moves to the next block, seconds later.
func (b *BlockContext) Advance(seconds uint64) {
	b.number++
	b.timestamp += seconds
}

// SetTimestamp jumps the block clock to timestamp.
func (b *BlockContext) SetTimestamp(timestamp uint64) {
	b.timestamp = timestamp
}

type accessibleState struct {
	stateDB contract.StateDB
	block   contract.BlockContext
}

func (a *accessibleState) GetStateDB() contract.StateDB {
	return a.stateDB
}

func (a *accessibleState) GetBlockContext() contract.BlockContext {
	return a.block
}

// NewAccessibleState pairs a StateDB with a block context for a precompile Run.
func NewAccessibleState(stateDB contract.StateDB, block contract.BlockContext) contract.AccessibleState {
	return &accessibleState{stateDB: stateDB, block: block}
}
