// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package abiext decodes precompile calldata and encodes return values and
// event logs with the Solidity ABI.
package abiext

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/common"
	ethtypes "github.com/luxfi/geth/core/types"

	"github.com/luxfi/taxledger/contract"
)

// SelectorLen is the length of a method ID prefix in calldata.
const SelectorLen = 4

// ExtendedABI adds selector dispatch, output packing and event emission
// to a parsed ABI.
type ExtendedABI struct {
	abi.ABI
}

// ParseABI parses a JSON ABI. It panics on malformed input and is meant
// for package-level ABI variables.
func ParseABI(rawABI string) ExtendedABI {
	parsed, err := abi.JSON(strings.NewReader(rawABI))
	if err != nil {
		panic(fmt.Sprintf("failed to parse ABI: %v", err))
	}
	return ExtendedABI{ABI: parsed}
}

// MethodByInput resolves the method addressed by calldata and returns it
// along with the argument bytes that follow the selector.
func (e ExtendedABI) MethodByInput(input []byte) (*abi.Method, []byte, error) {
	if len(input) < SelectorLen {
		return nil, nil, fmt.Errorf("%w: calldata shorter than selector", contract.ErrInvalidInput)
	}
	method, err := e.MethodById(input[:SelectorLen])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %x", contract.ErrUnknownMethod, input[:SelectorLen])
	}
	return method, input[SelectorLen:], nil
}

func (e ExtendedABI) method(name string) (abi.Method, error) {
	method, ok := e.Methods[name]
	if !ok {
		return abi.Method{}, fmt.Errorf("%w: no method %q", contract.ErrUnknownMethod, name)
	}
	return method, nil
}

// PackOutput ABI-encodes the return values of method name, without selector.
func (e ExtendedABI) PackOutput(name string, args ...interface{}) ([]byte, error) {
	method, err := e.method(name)
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(args...)
}

// UnpackInput decodes the arguments of method name. In strict mode data
// must be a whole number of 32-byte words.
func (e ExtendedABI) UnpackInput(name string, data []byte, useStrictMode bool) ([]interface{}, error) {
	method, err := e.method(name)
	if err != nil {
		return nil, err
	}
	if useStrictMode && len(data)%common.HashLength != 0 {
		return nil, fmt.Errorf("%w: %s calldata is %d bytes", contract.ErrInvalidInput, name, len(data))
	}
	args, err := method.Inputs.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contract.ErrInvalidInput, err)
	}
	return args, nil
}

// PackEvent returns the topics and data of event name. Indexed arguments
// become topics after the event ID; the rest are ABI-encoded as data.
func (e ExtendedABI) PackEvent(name string, args ...interface{}) ([]common.Hash, []byte, error) {
	event, ok := e.Events[name]
	if !ok {
		return nil, nil, fmt.Errorf("no event %q", name)
	}
	if len(args) != len(event.Inputs) {
		return nil, nil, fmt.Errorf("event %s takes %d arguments, got %d", name, len(event.Inputs), len(args))
	}

	topics := make([]common.Hash, 0, len(event.Inputs)+1)
	if !event.Anonymous {
		topics = append(topics, event.ID)
	}
	var (
		dataArgs   abi.Arguments
		dataValues []interface{}
	)
	for i, input := range event.Inputs {
		if !input.Indexed {
			dataArgs = append(dataArgs, input)
			dataValues = append(dataValues, args[i])
			continue
		}
		topic, err := packTopic(args[i])
		if err != nil {
			return nil, nil, fmt.Errorf("event %s argument %s: %w", name, input.Name, err)
		}
		topics = append(topics, topic)
	}

	data, err := dataArgs.Pack(dataValues...)
	if err != nil {
		return nil, nil, err
	}
	return topics, data, nil
}

// EmitEvent packs an event and appends it to the logs of stateDB as
// emitted by addr.
func (e ExtendedABI) EmitEvent(stateDB contract.StateDB, addr common.Address, name string, args ...interface{}) error {
	topics, data, err := e.PackEvent(name, args...)
	if err != nil {
		return err
	}
	stateDB.AddLog(&ethtypes.Log{
		Address: addr,
		Topics:  topics,
		Data:    data,
	})
	return nil
}

// packTopic encodes one indexed value. Dynamic types are hashed.
func packTopic(value interface{}) (common.Hash, error) {
	switch v := value.(type) {
	case common.Address:
		return common.BytesToHash(v.Bytes()), nil
	case common.Hash:
		return v, nil
	case *big.Int:
		if v.Sign() < 0 || v.BitLen() > 256 {
			return common.Hash{}, fmt.Errorf("%w: topic %s out of uint256 range", contract.ErrInvalidInput, v)
		}
		return common.BigToHash(v), nil
	case []byte:
		return common.BytesToHash(crypto.Keccak256(v)), nil
	case string:
		return common.BytesToHash(crypto.Keccak256([]byte(v))), nil
	default:
		return common.Hash{}, fmt.Errorf("unsupported indexed type %T", value)
	}
}
