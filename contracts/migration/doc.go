/*
Package migration implements Migration contract which moves a NEP-17 token to
a foreign chain.

A holder approves some amount of the token to the Migration contract and calls
Migrate with the address in the foreign chain (32-byte ed25519 public key). The
contract pulls the tokens into its own account, increases locked holdings of
the holder and throws Migrate notification. Off-chain services catch the
notification and credit the target address in the foreign chain. After that the
migrator finishes the migration with FinishMigration which releases the tokens
from the contract back to the holder and throws Migrated notification. A single
lock can be finished in several steps, but never beyond what is locked.

Locked holdings are tracked per holder only. Target address passed to
FinishMigration does not have to match the one passed to Migrate.

The migrator is a single account. Only the owner of the contract (the account
that deployed it, unless another one is specified in deploy arguments) can pass
the migrator role to another account.

# Contract notifications

Migrate notification. This notification is produced when tokens are locked.

	Migrate:
	  - name: from
	    type: Hash160
	  - name: to
	    type: ByteArray
	  - name: value
	    type: Integer

Migrated notification. This notification is produced when locked tokens are
released by the migrator.

	Migrated:
	  - name: from
	    type: Hash160
	  - name: to
	    type: ByteArray
	  - name: value
	    type: Integer

MigratorChanged notification. This notification is produced when the owner
passes the migrator role to another account.

	MigratorChanged:
	  - name: previous
	    type: Hash160
	  - name: current
	    type: Hash160
*/
package migration

/*
Contract storage model.

# Summary
Key-value storage format:
  - 'o' -> interop.Hash160
    contract owner
  - 'm' -> interop.Hash160
    current migrator
  - 't' -> interop.Hash160
    migrated NEP-17 token
  - 's' -> int
    sum of all locked holdings
  - 'l'<interop.Hash160> -> int
    locked holdings of the holder, missing for zero
  - 'p' -> std.Serialize(pendingLock)
    lock being paid by the token contract, exists only inside Migrate

# Accounting
Sum of all locked holdings never exceeds the token balance of the contract.
*/
