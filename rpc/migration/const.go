package migration

import (
	"github.com/nspcc-dev/token-migration-contract/contracts/migration/migrationconst"
)

const (
	// TargetAddressLength is the exact length of a foreign chain address.
	TargetAddressLength = migrationconst.TargetAddressLength

	// ErrUnauthorized is returned when the transaction lacks required witness.
	ErrUnauthorized = migrationconst.ErrUnauthorized
	// ErrZeroMigration is returned on attempt to finish zero amount.
	ErrZeroMigration = migrationconst.ErrZeroMigration
	// ErrInsufficientLockedBalance is returned when finished amount exceeds
	// holder's locked holdings.
	ErrInsufficientLockedBalance = migrationconst.ErrInsufficientLockedBalance
	// ErrInvalidAmount is returned on negative (or zero for migrate) amounts.
	ErrInvalidAmount = migrationconst.ErrInvalidAmount
	// ErrInvalidTargetAddress is returned when target address has wrong length.
	ErrInvalidTargetAddress = migrationconst.ErrInvalidTargetAddress
)
