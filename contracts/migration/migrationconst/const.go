package migrationconst

const (
	// TargetAddressLength is the length of a foreign chain address accepted by
	// the contract (ed25519 public key).
	TargetAddressLength = 32

	// ErrUnauthorized is thrown when the caller lacks the role required by the
	// method: holder for migrate, migrator for finishMigration, owner for
	// setMigrateRole and update.
	ErrUnauthorized = "unauthorized"
	// ErrZeroMigration is thrown when an authorized migrator finishes a
	// migration of zero tokens.
	ErrZeroMigration = "zero migration"
	// ErrInsufficientLockedBalance is thrown when finishMigration requests more
	// than the holder has locked.
	ErrInsufficientLockedBalance = "insufficient locked balance"
	// ErrInvalidAmount is thrown on non-positive migrate amounts and negative
	// finishMigration amounts.
	ErrInvalidAmount = "invalid amount"
	// ErrInvalidTargetAddress is thrown when target address is not
	// TargetAddressLength bytes long.
	ErrInvalidTargetAddress = "invalid target address"
	// ErrInvalidMigrator is thrown when the new migrator is not a valid
	// script hash.
	ErrInvalidMigrator = "invalid migrator address"
	// ErrTransferFailed is thrown when the token contract refuses a transfer
	// without throwing itself.
	ErrTransferFailed = "token transfer failed"
	// ErrForeignToken is thrown when the contract receives tokens other than
	// the migrated one.
	ErrForeignToken = "only the migrated token is accepted"
	// ErrUnexpectedPayment is thrown when the migrated token is sent to the
	// contract outside of migrate.
	ErrUnexpectedPayment = "unexpected payment"

	// MigrateEvent is the name of the notification thrown by migrate.
	MigrateEvent = "Migrate"
	// MigratedEvent is the name of the notification thrown by finishMigration.
	MigratedEvent = "Migrated"
	// MigratorChangedEvent is the name of the notification thrown when the
	// migrator role changes hands.
	MigratorChangedEvent = "MigratorChanged"
)
