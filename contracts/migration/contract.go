package migration

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/token-migration-contract/common"
	"github.com/nspcc-dev/token-migration-contract/contracts/migration/migrationconst"
)

// pendingLock describes tokens being pulled into the contract by migrate.
// It lives in storage only for the duration of the transferFrom call.
type pendingLock struct {
	From   interop.Hash160
	Amount int
}

const (
	ownerKey       = "o"
	migratorKey    = "m"
	tokenKey       = "t"
	totalLockedKey = "s"
	pendingKey     = "p"

	lockedPrefix = 'l'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	args := data.([]any)

	if isUpdate {
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	if len(args) < 2 || len(args) > 3 {
		panic("invalid deploy arguments")
	}

	token := args[0].(interop.Hash160)
	if len(token) != interop.Hash160Len {
		panic("incorrect length of token contract script hash")
	}

	migrator := args[1].(interop.Hash160)
	if len(migrator) != interop.Hash160Len {
		panic(migrationconst.ErrInvalidMigrator)
	}

	var owner interop.Hash160
	if len(args) == 3 {
		owner = args[2].(interop.Hash160)
	} else {
		owner = runtime.GetScriptContainer().Sender
	}
	if len(owner) != interop.Hash160Len {
		panic("incorrect length of owner script hash")
	}

	storage.Put(ctx, tokenKey, token)
	storage.Put(ctx, migratorKey, migrator)
	storage.Put(ctx, ownerKey, owner)

	runtime.Log("migration contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	common.CheckWitnessWithMessage(getHash(ctx, ownerKey), migrationconst.ErrUnauthorized)

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("migration contract updated")
}

// GetLockedHoldings returns the amount of tokens locked by the holder and not
// released by FinishMigration yet. Holders that never migrated have 0.
func GetLockedHoldings(holder interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, lockedKey(holder))
}

// TotalLocked returns the sum of all locked holdings. It never exceeds the
// contract's balance in the migrated token.
func TotalLocked() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, totalLockedKey)
}

// ListLockedHoldings iterates over all holders with non-zero locked holdings.
// Iteration is through key-value pair, where key is holder's script hash,
// value is locked amount.
func ListLockedHoldings() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{lockedPrefix}, storage.RemovePrefix)
}

// Owner returns the account allowed to change the migrator and update the
// contract.
func Owner() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getHash(ctx, ownerKey)
}

// Migrator returns the account allowed to finish migrations.
func Migrator() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getHash(ctx, migratorKey)
}

// Token returns script hash of the migrated token contract.
func Token() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getHash(ctx, tokenKey)
}

// SetMigrateRole passes the migrator role to a new account. It can be invoked
// only by the contract owner.
//
// It produces MigratorChanged notification if the migrator actually changes.
func SetMigrateRole(newMigrator interop.Hash160) {
	ctx := storage.GetContext()

	common.CheckWitnessWithMessage(getHash(ctx, ownerKey), migrationconst.ErrUnauthorized)

	if len(newMigrator) != interop.Hash160Len {
		panic(migrationconst.ErrInvalidMigrator)
	}

	previous := getHash(ctx, migratorKey)
	if previous.Equals(newMigrator) {
		return
	}

	storage.Put(ctx, migratorKey, newMigrator)

	runtime.Notify("MigratorChanged", previous, newMigrator)
}

// Migrate locks amount of tokens of the holder in the contract and
// associates them with the target address in the foreign chain. It can be
// invoked only by the holder, who must have approved at least amount of
// tokens to the contract in the token contract beforehand.
//
// It produces Migrate notification.
func Migrate(from interop.Hash160, targetAddress []byte, amount int) {
	ctx := storage.GetContext()

	common.CheckWitnessWithMessage(from, migrationconst.ErrUnauthorized)

	if amount <= 0 {
		panic(migrationconst.ErrInvalidAmount)
	}

	checkTargetAddress(targetAddress)

	var (
		token = getHash(ctx, tokenKey)
		self  = runtime.GetExecutingScriptHash()
	)

	common.SetSerialized(ctx, pendingKey, pendingLock{
		From:   from,
		Amount: amount,
	})

	ok := contract.Call(token, "transferFrom", contract.All, self, from, self, amount, nil).(bool)
	if !ok {
		panic(migrationconst.ErrTransferFailed)
	}

	storage.Delete(ctx, pendingKey)

	key := lockedKey(from)
	common.PutInt(ctx, key, common.GetInt(ctx, key)+amount)
	common.PutInt(ctx, totalLockedKey, common.GetInt(ctx, totalLockedKey)+amount)

	runtime.Notify("Migrate", from, targetAddress, amount)
}

// FinishMigration releases amount of tokens locked by the holder back to the
// holder, marking this part of the migration to the target address as done.
// It can be invoked only by the migrator. Locked tokens can be released in
// several calls.
//
// Checks are done in a fixed order: migrator witness, non-zero amount,
// sufficient locked holdings.
//
// It produces Migrated notification.
func FinishMigration(holder interop.Hash160, targetAddress []byte, amount int) {
	ctx := storage.GetContext()

	common.CheckWitnessWithMessage(getHash(ctx, migratorKey), migrationconst.ErrUnauthorized)

	if amount == 0 {
		panic(migrationconst.ErrZeroMigration)
	}
	if amount < 0 {
		panic(migrationconst.ErrInvalidAmount)
	}

	key := lockedKey(holder)
	locked := common.GetInt(ctx, key)
	if amount > locked {
		panic(migrationconst.ErrInsufficientLockedBalance)
	}

	checkTargetAddress(targetAddress)

	common.PutInt(ctx, key, locked-amount)
	common.PutInt(ctx, totalLockedKey, common.GetInt(ctx, totalLockedKey)-amount)

	var (
		token = getHash(ctx, tokenKey)
		self  = runtime.GetExecutingScriptHash()
	)

	ok := contract.Call(token, "transfer", contract.All, self, holder, amount, nil).(bool)
	if !ok {
		panic(migrationconst.ErrTransferFailed)
	}

	runtime.Notify("Migrated", holder, targetAddress, amount)
}

// OnNEP17Payment is a callback for NEP-17 compatible token contracts. The
// contract accepts only the migrated token and only while Migrate pulls it
// from the holder.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()

	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(getHash(ctx, tokenKey)) {
		panic(migrationconst.ErrForeignToken)
	}

	raw := storage.Get(ctx, pendingKey)
	if raw == nil {
		panic(migrationconst.ErrUnexpectedPayment)
	}

	p := std.Deserialize(raw.([]byte)).(pendingLock)
	if !p.From.Equals(from) || p.Amount != amount {
		panic(migrationconst.ErrUnexpectedPayment)
	}

	storage.Delete(ctx, pendingKey)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func checkTargetAddress(addr []byte) {
	if len(addr) != migrationconst.TargetAddressLength {
		panic(migrationconst.ErrInvalidTargetAddress)
	}
}

func lockedKey(holder interop.Hash160) []byte {
	return append([]byte{lockedPrefix}, holder...)
}

func getHash(ctx storage.Context, key string) interop.Hash160 {
	return storage.Get(ctx, key).(interop.Hash160)
}
