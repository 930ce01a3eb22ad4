package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// ErrWitnessFailed appears when the method must be called
// using certain account but was not.
const ErrWitnessFailed = "witness check failed"

// CheckWitness checks witness of the passed account.
// It panics with ErrWitnessFailed message on fail.
func CheckWitness(account interop.Hash160) {
	CheckWitnessWithMessage(account, ErrWitnessFailed)
}

// CheckWitnessWithMessage is like CheckWitness but panics with the given
// message, so contracts can keep their own error vocabulary.
func CheckWitnessWithMessage(account interop.Hash160, panicMsg string) {
	if !runtime.CheckWitness(account) {
		panic(panicMsg)
	}
}

// IsCallerOrWitness reports whether account either witnessed the transaction
// or is the contract calling the current one.
func IsCallerOrWitness(account interop.Hash160) bool {
	if len(account) != interop.Hash160Len {
		return false
	}

	if runtime.CheckWitness(account) {
		return true
	}

	return runtime.GetCallingScriptHash().Equals(account)
}
