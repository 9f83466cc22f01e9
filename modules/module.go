// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package modules

import (
	"github.com/luxfi/geth/common"

	"github.com/luxfi/taxledger/contract"
)

// Module binds a precompile to its address and config key.
type Module struct {
	// ConfigKey names the module's section in genesis and upgrade files.
	ConfigKey string
	Address   common.Address
	// Contract is a stateless singleton; all ledger state is in the StateDB.
	Contract contract.StatefulPrecompiledContract
	contract.Configurator
}
