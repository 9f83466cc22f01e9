// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package staking

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/taxledger/abiext"
	"github.com/luxfi/taxledger/access"
	"github.com/luxfi/taxledger/contract"
	"github.com/luxfi/taxledger/token"
)

var (
	_ contract.StatefulPrecompiledContract = (*stakingPrecompile)(nil)
	_ token.TaxReceiver                    = (*stakingPrecompile)(nil)
)

// Gas costs
const (
	GasRead        uint64 = 200
	GasTaxAmount   uint64 = 1000
	GasDividendsOf uint64 = 800
	GasAdminWrite  uint64 = 5000
	GasStake       uint64 = 50000
	GasDeposit     uint64 = 50000
	GasWithdraw    uint64 = 40000
	GasInitialize  uint64 = 100000
	GasPerManager  uint64 = 5000
)

const rawABI = `[
{"type":"function","name":"initialize","stateMutability":"nonpayable","inputs":[{"name":"startTime","type":"uint256"},{"name":"taxBP","type":"uint16"},{"name":"refBP","type":"uint16"},{"name":"burnBP","type":"uint16"},{"name":"bonusBP","type":"uint16"},{"name":"owner","type":"address"},{"name":"poolManagers","type":"address[]"},{"name":"tokenContract","type":"address"}],"outputs":[]},
{"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"isOwner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"taxBP","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint16"}]},
{"type":"function","name":"refBP","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint16"}]},
{"type":"function","name":"burnBP","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint16"}]},
{"type":"function","name":"bonusBP","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint16"}]},
{"type":"function","name":"taxAmount","stateMutability":"view","inputs":[{"name":"amount","type":"uint256"}],"outputs":[{"name":"refAmount","type":"uint256"},{"name":"burnAmount","type":"uint256"},{"name":"bonusAmount","type":"uint256"}]},
{"type":"function","name":"startTime","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"token","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"isPoolManager","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"addPoolManager","stateMutability":"nonpayable","inputs":[{"name":"account","type":"address"}],"outputs":[]},
{"type":"function","name":"removePoolManager","stateMutability":"nonpayable","inputs":[{"name":"account","type":"address"}],"outputs":[]},
{"type":"function","name":"dividendsOf","stateMutability":"view","inputs":[{"name":"investor","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"stakeOf","stateMutability":"view","inputs":[{"name":"investor","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"totalStaked","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"undistributed","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"stake","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
{"type":"function","name":"unstake","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
{"type":"function","name":"deposit","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
{"type":"function","name":"withdrawDividends","stateMutability":"nonpayable","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"event","name":"Staked","anonymous":false,"inputs":[{"name":"investor","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}]},
{"type":"event","name":"Unstaked","anonymous":false,"inputs":[{"name":"investor","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}]},
{"type":"event","name":"Deposited","anonymous":false,"inputs":[{"name":"from","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}]},
{"type":"event","name":"DividendsWithdrawn","anonymous":false,"inputs":[{"name":"investor","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}]},
{"type":"event","name":"PoolManagerAdded","anonymous":false,"inputs":[{"name":"account","type":"address","indexed":true}]},
{"type":"event","name":"PoolManagerRemoved","anonymous":false,"inputs":[{"name":"account","type":"address","indexed":true}]}
]`

// StakingABI is the Solidity interface of the staking precompile.
var StakingABI = abiext.ParseABI(rawABI)

// StakingPrecompile is the singleton run at the staking module address.
var StakingPrecompile = &stakingPrecompile{}

type stakingPrecompile struct{}

type call struct {
	caller common.Address
	now    uint64
	args   abiext.Args
}

type handler struct {
	gas uint64
	run func(l *Ledger, c call) ([]interface{}, error)
}

var handlers = map[string]handler{
	"initialize":        {gas: GasInitialize, run: initialize},
	"owner":             {gas: GasRead, run: func(l *Ledger, _ call) ([]interface{}, error) { return out(l.Owner()) }},
	"isOwner":           {gas: GasRead, run: func(l *Ledger, c call) ([]interface{}, error) { return out(l.IsOwner(c.caller)) }},
	"taxBP":             {gas: GasRead, run: func(l *Ledger, _ call) ([]interface{}, error) { return out(l.Rates().Tax) }},
	"refBP":             {gas: GasRead, run: func(l *Ledger, _ call) ([]interface{}, error) { return out(l.Rates().Referral) }},
	"burnBP":            {gas: GasRead, run: func(l *Ledger, _ call) ([]interface{}, error) { return out(l.Rates().Burn) }},
	"bonusBP":           {gas: GasRead, run: func(l *Ledger, _ call) ([]interface{}, error) { return out(l.Rates().Bonus) }},
	"startTime":         {gas: GasRead, run: func(l *Ledger, _ call) ([]interface{}, error) { return out(new(uint256.Int).SetUint64(l.StartTime()).ToBig()) }},
	"token":             {gas: GasRead, run: func(l *Ledger, _ call) ([]interface{}, error) { return out(l.Token()) }},
	"totalStaked":       {gas: GasRead, run: func(l *Ledger, _ call) ([]interface{}, error) { return out(l.TotalStaked().ToBig()) }},
	"undistributed":     {gas: GasRead, run: func(l *Ledger, _ call) ([]interface{}, error) { return out(l.Undistributed().ToBig()) }},
	"taxAmount":         {gas: GasTaxAmount, run: taxAmount},
	"isPoolManager":     {gas: GasRead, run: isPoolManager},
	"addPoolManager":    {gas: GasAdminWrite, run: addPoolManager},
	"removePoolManager": {gas: GasAdminWrite, run: removePoolManager},
	"dividendsOf":       {gas: GasDividendsOf, run: dividendsOf},
	"stakeOf":           {gas: GasRead, run: stakeOf},
	"stake":             {gas: GasStake, run: stake},
	"unstake":           {gas: GasStake, run: unstake},
	"deposit":           {gas: GasDeposit, run: deposit},
	"withdrawDividends": {gas: GasWithdraw, run: withdrawDividends},
}

// Run executes a staking call
func (*stakingPrecompile) Run(
	accessibleState contract.AccessibleState,
	caller common.Address,
	addr common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	method, data, err := StakingABI.MethodByInput(input)
	if err != nil {
		return nil, suppliedGas, err
	}
	h, ok := handlers[method.Name]
	if !ok {
		return nil, suppliedGas, fmt.Errorf("%w: %s", contract.ErrUnknownMethod, method.Name)
	}
	remainingGas, err := contract.DeductGas(suppliedGas, h.gas)
	if err != nil {
		return nil, 0, err
	}
	if readOnly && !method.IsConstant() {
		return nil, remainingGas, contract.ErrWriteProtection
	}

	values, err := StakingABI.UnpackInput(method.Name, data, false)
	if err != nil {
		return nil, remainingGas, err
	}
	args := abiext.Args(values)

	stateDB := accessibleState.GetStateDB()
	if method.Name == "initialize" {
		managers, err := args.Addresses(6)
		if err != nil {
			return nil, remainingGas, err
		}
		if remainingGas, err = contract.DeductGas(remainingGas, GasPerManager*uint64(len(managers))); err != nil {
			return nil, 0, err
		}
	} else if err := access.RequireInitialized(stateDB, addr); err != nil {
		return nil, remainingGas, err
	}

	outputs, err := h.run(NewLedger(stateDB, addr), call{
		caller: caller,
		now:    accessibleState.GetBlockContext().Timestamp(),
		args:   args,
	})
	if err != nil {
		return nil, remainingGas, err
	}
	ret, err := StakingABI.PackOutput(method.Name, outputs...)
	if err != nil {
		return nil, remainingGas, err
	}
	return ret, remainingGas, nil
}

// ReceiveTax accepts the bonus slice of a transfer on the token ledger at
// tokenAddr, already credited to receiver.
func (*stakingPrecompile) ReceiveTax(
	stateDB contract.StateDB,
	receiver common.Address,
	tokenAddr common.Address,
	amount *uint256.Int,
) error {
	return NewLedger(stateDB, receiver).ReceiveTax(tokenAddr, amount)
}

func out(values ...interface{}) ([]interface{}, error) {
	return values, nil
}

func initialize(l *Ledger, c call) ([]interface{}, error) {
	var (
		p   InitParams
		err error
	)
	start, err := c.args.Uint256(0)
	if err != nil {
		return nil, err
	}
	if !start.IsUint64() {
		return nil, fmt.Errorf("%w: startTime %s out of range", contract.ErrInvalidInput, start.Dec())
	}
	p.StartTime = start.Uint64()
	for j, dst := range []*uint16{&p.Rates.Tax, &p.Rates.Referral, &p.Rates.Burn, &p.Rates.Bonus} {
		if *dst, err = c.args.Uint16(1 + j); err != nil {
			return nil, err
		}
	}
	if p.Owner, err = c.args.Address(5); err != nil {
		return nil, err
	}
	if p.PoolManagers, err = c.args.Addresses(6); err != nil {
		return nil, err
	}
	if p.Token, err = c.args.Address(7); err != nil {
		return nil, err
	}
	return nil, l.Initialize(p)
}

func taxAmount(l *Ledger, c call) ([]interface{}, error) {
	amount, err := c.args.Uint256(0)
	if err != nil {
		return nil, err
	}
	split, err := l.TaxAmount(amount)
	if err != nil {
		return nil, err
	}
	return out(split.Referral.ToBig(), split.Burn.ToBig(), split.Bonus.ToBig())
}

func isPoolManager(l *Ledger, c call) ([]interface{}, error) {
	account, err := c.args.Address(0)
	if err != nil {
		return nil, err
	}
	return out(l.IsPoolManager(account))
}

func addPoolManager(l *Ledger, c call) ([]interface{}, error) {
	account, err := c.args.Address(0)
	if err != nil {
		return nil, err
	}
	return nil, l.AddPoolManager(c.caller, account)
}

func removePoolManager(l *Ledger, c call) ([]interface{}, error) {
	account, err := c.args.Address(0)
	if err != nil {
		return nil, err
	}
	return nil, l.RemovePoolManager(c.caller, account)
}

func dividendsOf(l *Ledger, c call) ([]interface{}, error) {
	investor, err := c.args.Address(0)
	if err != nil {
		return nil, err
	}
	dividends, err := l.DividendsOf(investor)
	if err != nil {
		return nil, err
	}
	return out(dividends.ToBig())
}

func stakeOf(l *Ledger, c call) ([]interface{}, error) {
	investor, err := c.args.Address(0)
	if err != nil {
		return nil, err
	}
	return out(l.StakeOf(investor).ToBig())
}

func stake(l *Ledger, c call) ([]interface{}, error) {
	amount, err := c.args.Uint256(0)
	if err != nil {
		return nil, err
	}
	return nil, l.Stake(c.caller, amount, c.now)
}

func unstake(l *Ledger, c call) ([]interface{}, error) {
	amount, err := c.args.Uint256(0)
	if err != nil {
		return nil, err
	}
	return nil, l.Unstake(c.caller, amount)
}

func deposit(l *Ledger, c call) ([]interface{}, error) {
	amount, err := c.args.Uint256(0)
	if err != nil {
		return nil, err
	}
	return nil, l.Deposit(c.caller, amount)
}

func withdrawDividends(l *Ledger, c call) ([]interface{}, error) {
	paid, err := l.WithdrawDividends(c.caller)
	if err != nil {
		return nil, err
	}
	return out(paid.ToBig())
}

