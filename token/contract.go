// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"fmt"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/taxledger/abiext"
	"github.com/luxfi/taxledger/access"
	"github.com/luxfi/taxledger/contract"
	"github.com/luxfi/taxledger/tax"
)

var _ contract.StatefulPrecompiledContract = (*tokenPrecompile)(nil)

// Gas costs
const (
	GasRead                uint64 = 200
	GasTaxAmount           uint64 = 1000
	GasAdminWrite          uint64 = 5000
	GasApprove             uint64 = 10000
	GasTransfer            uint64 = 40000
	GasInitialize          uint64 = 100000
	GasAirdropBase         uint64 = 20000
	GasAirdropPerRecipient uint64 = 10000
)

const rawABI = `[
{"type":"function","name":"initialize","stateMutability":"nonpayable","inputs":[{"name":"name","type":"string"},{"name":"symbol","type":"string"},{"name":"decimals","type":"uint8"},{"name":"taxBP","type":"uint16"},{"name":"refBP","type":"uint16"},{"name":"burnBP","type":"uint16"},{"name":"bonusBP","type":"uint16"},{"name":"owner","type":"address"},{"name":"stakingContract","type":"address"}],"outputs":[]},
{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
{"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"isOwner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"isAirdropComplete","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"taxBP","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint16"}]},
{"type":"function","name":"refBP","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint16"}]},
{"type":"function","name":"burnBP","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint16"}]},
{"type":"function","name":"bonusBP","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint16"}]},
{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"burned","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"taxAmount","stateMutability":"view","inputs":[{"name":"amount","type":"uint256"}],"outputs":[{"name":"refAmount","type":"uint256"},{"name":"burnAmount","type":"uint256"},{"name":"bonusAmount","type":"uint256"}]},
{"type":"function","name":"stakingContract","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"referralSink","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"transferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"airdrop","stateMutability":"nonpayable","inputs":[{"name":"recipients","type":"address[]"},{"name":"amounts","type":"uint256[]"}],"outputs":[]},
{"type":"function","name":"completeAirdrop","stateMutability":"nonpayable","inputs":[],"outputs":[]},
{"type":"function","name":"setReferralSink","stateMutability":"nonpayable","inputs":[{"name":"sink","type":"address"}],"outputs":[]},
{"type":"event","name":"Transfer","anonymous":false,"inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]},
{"type":"event","name":"Approval","anonymous":false,"inputs":[{"name":"owner","type":"address","indexed":true},{"name":"spender","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]},
{"type":"event","name":"Burn","anonymous":false,"inputs":[{"name":"from","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]},
{"type":"event","name":"AirdropComplete","anonymous":false,"inputs":[{"name":"totalSupply","type":"uint256","indexed":false}]},
{"type":"event","name":"ReferralSinkChanged","anonymous":false,"inputs":[{"name":"previousSink","type":"address","indexed":true},{"name":"newSink","type":"address","indexed":true}]}
]`

// TokenABI is the Solidity interface of the token precompile.
var TokenABI = abiext.ParseABI(rawABI)

// TokenPrecompile is the singleton run at every address the token module
// is registered at.
var TokenPrecompile = &tokenPrecompile{}

type tokenPrecompile struct{}

type handler struct {
	gas uint64
	// perItem is charged once per element of the first argument.
	perItem uint64
	run     func(l *Ledger, caller common.Address, args abiext.Args) ([]interface{}, error)
}

var handlers = map[string]handler{
	"initialize":        {gas: GasInitialize, run: initialize},
	"name":              {gas: GasRead, run: func(l *Ledger, _ common.Address, _ abiext.Args) ([]interface{}, error) { return out(l.Name()) }},
	"symbol":            {gas: GasRead, run: func(l *Ledger, _ common.Address, _ abiext.Args) ([]interface{}, error) { return out(l.Symbol()) }},
	"decimals":          {gas: GasRead, run: func(l *Ledger, _ common.Address, _ abiext.Args) ([]interface{}, error) { return out(l.Decimals()) }},
	"owner":             {gas: GasRead, run: func(l *Ledger, _ common.Address, _ abiext.Args) ([]interface{}, error) { return out(l.Owner()) }},
	"isOwner":           {gas: GasRead, run: func(l *Ledger, caller common.Address, _ abiext.Args) ([]interface{}, error) { return out(l.IsOwner(caller)) }},
	"isAirdropComplete": {gas: GasRead, run: func(l *Ledger, _ common.Address, _ abiext.Args) ([]interface{}, error) { return out(l.IsAirdropComplete()) }},
	"taxBP":             {gas: GasRead, run: func(l *Ledger, _ common.Address, _ abiext.Args) ([]interface{}, error) { return out(l.Rates().Tax) }},
	"refBP":             {gas: GasRead, run: func(l *Ledger, _ common.Address, _ abiext.Args) ([]interface{}, error) { return out(l.Rates().Referral) }},
	"burnBP":            {gas: GasRead, run: func(l *Ledger, _ common.Address, _ abiext.Args) ([]interface{}, error) { return out(l.Rates().Burn) }},
	"bonusBP":           {gas: GasRead, run: func(l *Ledger, _ common.Address, _ abiext.Args) ([]interface{}, error) { return out(l.Rates().Bonus) }},
	"totalSupply":       {gas: GasRead, run: func(l *Ledger, _ common.Address, _ abiext.Args) ([]interface{}, error) { return out(l.TotalSupply().ToBig()) }},
	"burned":            {gas: GasRead, run: func(l *Ledger, _ common.Address, _ abiext.Args) ([]interface{}, error) { return out(l.Burned().ToBig()) }},
	"stakingContract":   {gas: GasRead, run: func(l *Ledger, _ common.Address, _ abiext.Args) ([]interface{}, error) { return out(l.StakingContract()) }},
	"referralSink":      {gas: GasRead, run: func(l *Ledger, _ common.Address, _ abiext.Args) ([]interface{}, error) { return out(l.ReferralSink()) }},
	"balanceOf":         {gas: GasRead, run: balanceOf},
	"allowance":         {gas: GasRead, run: allowance},
	"taxAmount":         {gas: GasTaxAmount, run: taxAmount},
	"transfer":          {gas: GasTransfer, run: transfer},
	"transferFrom":      {gas: GasTransfer, run: transferFrom},
	"approve":           {gas: GasApprove, run: approve},
	"airdrop":           {gas: GasAirdropBase, perItem: GasAirdropPerRecipient, run: airdrop},
	"completeAirdrop":   {gas: GasAdminWrite, run: completeAirdrop},
	"setReferralSink":   {gas: GasAdminWrite, run: setReferralSink},
}

// Run executes a token call
func (*tokenPrecompile) Run(
	accessibleState contract.AccessibleState,
	caller common.Address,
	addr common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	method, data, err := TokenABI.MethodByInput(input)
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

	values, err := TokenABI.UnpackInput(method.Name, data, false)
	if err != nil {
		return nil, remainingGas, err
	}
	args := abiext.Args(values)
	if h.perItem > 0 {
		items, err := args.Addresses(0)
		if err != nil {
			return nil, remainingGas, err
		}
		if remainingGas, err = contract.DeductGas(remainingGas, h.perItem*uint64(len(items))); err != nil {
			return nil, 0, err
		}
	}

	stateDB := accessibleState.GetStateDB()
	if method.Name != "initialize" {
		if err := access.RequireInitialized(stateDB, addr); err != nil {
			return nil, remainingGas, err
		}
	}

	outputs, err := h.run(NewLedger(stateDB, addr), caller, args)
	if err != nil {
		return nil, remainingGas, err
	}
	ret, err := TokenABI.PackOutput(method.Name, outputs...)
	if err != nil {
		return nil, remainingGas, err
	}
	return ret, remainingGas, nil
}

func out(values ...interface{}) ([]interface{}, error) {
	return values, nil
}

func initialize(l *Ledger, _ common.Address, args abiext.Args) ([]interface{}, error) {
	var (
		p   InitParams
		err error
	)
	if p.Name, err = args.String(0); err != nil {
		return nil, err
	}
	if p.Symbol, err = args.String(1); err != nil {
		return nil, err
	}
	if p.Decimals, err = args.Uint8(2); err != nil {
		return nil, err
	}
	if p.Rates, err = ratesArgs(args, 3); err != nil {
		return nil, err
	}
	if p.Owner, err = args.Address(7); err != nil {
		return nil, err
	}
	if p.Staking, err = args.Address(8); err != nil {
		return nil, err
	}
	return nil, l.Initialize(p)
}

// ratesArgs reads taxBP, refBP, burnBP and bonusBP starting at argument i.
func ratesArgs(args abiext.Args, i int) (tax.Rates, error) {
	var (
		r   tax.Rates
		err error
	)
	for j, dst := range []*uint16{&r.Tax, &r.Referral, &r.Burn, &r.Bonus} {
		if *dst, err = args.Uint16(i + j); err != nil {
			return tax.Rates{}, err
		}
	}
	return r, nil
}

func balanceOf(l *Ledger, _ common.Address, args abiext.Args) ([]interface{}, error) {
	account, err := args.Address(0)
	if err != nil {
		return nil, err
	}
	return out(l.BalanceOf(account).ToBig())
}

func allowance(l *Ledger, _ common.Address, args abiext.Args) ([]interface{}, error) {
	owner, err := args.Address(0)
	if err != nil {
		return nil, err
	}
	spender, err := args.Address(1)
	if err != nil {
		return nil, err
	}
	return out(l.Allowance(owner, spender).ToBig())
}

func taxAmount(l *Ledger, _ common.Address, args abiext.Args) ([]interface{}, error) {
	amount, err := args.Uint256(0)
	if err != nil {
		return nil, err
	}
	split, err := l.TaxAmount(amount)
	if err != nil {
		return nil, err
	}
	return out(split.Referral.ToBig(), split.Burn.ToBig(), split.Bonus.ToBig())
}

func transfer(l *Ledger, caller common.Address, args abiext.Args) ([]interface{}, error) {
	to, err := args.Address(0)
	if err != nil {
		return nil, err
	}
	amount, err := args.Uint256(1)
	if err != nil {
		return nil, err
	}
	if err := l.Transfer(caller, to, amount); err != nil {
		return nil, err
	}
	return out(true)
}

func transferFrom(l *Ledger, caller common.Address, args abiext.Args) ([]interface{}, error) {
	from, err := args.Address(0)
	if err != nil {
		return nil, err
	}
	to, err := args.Address(1)
	if err != nil {
		return nil, err
	}
	amount, err := args.Uint256(2)
	if err != nil {
		return nil, err
	}
	if err := l.TransferFrom(caller, from, to, amount); err != nil {
		return nil, err
	}
	return out(true)
}

func approve(l *Ledger, caller common.Address, args abiext.Args) ([]interface{}, error) {
	spender, err := args.Address(0)
	if err != nil {
		return nil, err
	}
	amount, err := args.Uint256(1)
	if err != nil {
		return nil, err
	}
	if err := l.Approve(caller, spender, amount); err != nil {
		return nil, err
	}
	return out(true)
}

func airdrop(l *Ledger, caller common.Address, args abiext.Args) ([]interface{}, error) {
	recipients, err := args.Addresses(0)
	if err != nil {
		return nil, err
	}
	amounts, err := args.Uint256s(1)
	if err != nil {
		return nil, err
	}
	return nil, l.Airdrop(caller, recipients, amounts)
}

func completeAirdrop(l *Ledger, caller common.Address, _ abiext.Args) ([]interface{}, error) {
	return nil, l.CompleteAirdrop(caller)
}

func setReferralSink(l *Ledger, caller common.Address, args abiext.Args) ([]interface{}, error) {
	sink, err := args.Address(0)
	if err != nil {
		return nil, err
	}
	return nil, l.SetReferralSink(caller, sink)
}
