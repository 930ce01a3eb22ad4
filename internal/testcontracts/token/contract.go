// Package token is a NEP-17 token extended with allowances. It is used only
// to test contracts consuming tokens through approve/transferFrom.
package token

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/token-migration-contract/common"
)

const (
	symbol   = "TMT"
	decimals = 8

	ownerKey  = "o"
	supplyKey = "s"

	balancePrefix   = 'b'
	allowancePrefix = 'a'

	errInsufficientAllowance = "insufficient allowance"
	errInsufficientBalance   = "insufficient balance"
)

// nolint:deadcode,unused
func _deploy(_ any, isUpdate bool) {
	if isUpdate {
		return
	}

	ctx := storage.GetContext()
	storage.Put(ctx, ownerKey, runtime.GetScriptContainer().Sender)
}

// Symbol is a NEP-17 standard method.
func Symbol() string {
	return symbol
}

// Decimals is a NEP-17 standard method.
func Decimals() int {
	return decimals
}

// TotalSupply is a NEP-17 standard method.
func TotalSupply() int {
	return common.GetInt(storage.GetReadOnlyContext(), supplyKey)
}

// BalanceOf is a NEP-17 standard method.
func BalanceOf(account interop.Hash160) int {
	return common.GetInt(storage.GetReadOnlyContext(), balanceKey(account))
}

// Allowance returns the amount spender can still transfer from owner's account.
func Allowance(owner, spender interop.Hash160) int {
	return common.GetInt(storage.GetReadOnlyContext(), allowanceKey(owner, spender))
}

// Transfer is a NEP-17 standard method. It can be invoked only by the account
// owner.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	if len(to) != interop.Hash160Len || amount < 0 {
		panic("invalid transfer arguments")
	}

	if !common.IsCallerOrWitness(from) {
		return false
	}

	ctx := storage.GetContext()
	if !move(ctx, from, to, amount) {
		return false
	}

	postTransfer(from, to, amount, data)

	return true
}

// Approve allows spender to transfer up to amount from owner's account. It
// replaces any previous allowance and can be invoked only by the owner.
func Approve(owner, spender interop.Hash160, amount int) bool {
	if len(spender) != interop.Hash160Len || amount < 0 {
		panic("invalid approve arguments")
	}

	if !common.IsCallerOrWitness(owner) {
		return false
	}

	common.PutInt(storage.GetContext(), allowanceKey(owner, spender), amount)
	runtime.Notify("Approval", owner, spender, amount)

	return true
}

// TransferFrom transfers amount from `from` account to `to` account using
// allowance given to spender. It can be invoked only by the spender. It fails
// with an exception if allowance or balance is not enough.
func TransferFrom(spender, from, to interop.Hash160, amount int, data any) bool {
	if len(to) != interop.Hash160Len || amount < 0 {
		panic("invalid transfer arguments")
	}

	if !common.IsCallerOrWitness(spender) {
		return false
	}

	ctx := storage.GetContext()

	aKey := allowanceKey(from, spender)
	allowed := common.GetInt(ctx, aKey)
	if allowed < amount {
		panic(errInsufficientAllowance)
	}

	if !move(ctx, from, to, amount) {
		panic(errInsufficientBalance)
	}

	common.PutInt(ctx, aKey, allowed-amount)

	postTransfer(from, to, amount, data)

	return true
}

// Mint issues new tokens to the account. It can be invoked only by the
// account that deployed the token.
func Mint(to interop.Hash160, amount int) {
	ctx := storage.GetContext()

	common.CheckWitness(storage.Get(ctx, ownerKey).(interop.Hash160))

	if len(to) != interop.Hash160Len || amount <= 0 {
		panic("invalid mint arguments")
	}

	key := balanceKey(to)
	common.PutInt(ctx, key, common.GetInt(ctx, key)+amount)
	common.PutInt(ctx, supplyKey, common.GetInt(ctx, supplyKey)+amount)

	var from interop.Hash160
	postTransfer(from, to, amount, nil)
}

func move(ctx storage.Context, from, to interop.Hash160, amount int) bool {
	fromKey := balanceKey(from)
	fromBalance := common.GetInt(ctx, fromKey)
	if fromBalance < amount {
		return false
	}

	if amount == 0 || from.Equals(to) {
		return true
	}

	common.PutInt(ctx, fromKey, fromBalance-amount)

	toKey := balanceKey(to)
	common.PutInt(ctx, toKey, common.GetInt(ctx, toKey)+amount)

	return true
}

func postTransfer(from, to interop.Hash160, amount int, data any) {
	runtime.Notify("Transfer", from, to, amount)
	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}
}

func balanceKey(account interop.Hash160) []byte {
	return append([]byte{balancePrefix}, account...)
}

func allowanceKey(owner, spender interop.Hash160) []byte {
	key := append([]byte{allowancePrefix}, owner...)
	return append(key, spender...)
}
