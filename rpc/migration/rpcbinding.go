// Package migration contains RPC wrappers for Token Migration contract.
package migration

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
)

// MigrateEvent represents "Migrate" event emitted by the contract.
type MigrateEvent struct {
	From util.Uint160
	To []byte
	Value *big.Int
}

// MigratedEvent represents "Migrated" event emitted by the contract.
type MigratedEvent struct {
	From util.Uint160
	To []byte
	Value *big.Int
}

// MigratorChangedEvent represents "MigratorChanged" event emitted by the contract.
type MigratorChangedEvent struct {
	Previous util.Uint160
	Current util.Uint160
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// GetLockedHoldings invokes `getLockedHoldings` method of contract.
func (c *ContractReader) GetLockedHoldings(holder util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getLockedHoldings", holder))
}

// ListLockedHoldings invokes `listLockedHoldings` method of contract.
func (c *ContractReader) ListLockedHoldings() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "listLockedHoldings"))
}

// ListLockedHoldingsExpanded is similar to ListLockedHoldings (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ListLockedHoldingsExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "listLockedHoldings", _numOfIteratorItems))
}

// Migrator invokes `migrator` method of contract.
func (c *ContractReader) Migrator() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "migrator"))
}

// Owner invokes `owner` method of contract.
func (c *ContractReader) Owner() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "owner"))
}

// Token invokes `token` method of contract.
func (c *ContractReader) Token() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "token"))
}

// TotalLocked invokes `totalLocked` method of contract.
func (c *ContractReader) TotalLocked() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalLocked"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// FinishMigration creates a transaction invoking `finishMigration` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) FinishMigration(holder util.Uint160, targetAddress []byte, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "finishMigration", holder, targetAddress, amount)
}

// FinishMigrationTransaction creates a transaction invoking `finishMigration` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) FinishMigrationTransaction(holder util.Uint160, targetAddress []byte, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "finishMigration", holder, targetAddress, amount)
}

// FinishMigrationUnsigned creates a transaction invoking `finishMigration` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) FinishMigrationUnsigned(holder util.Uint160, targetAddress []byte, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "finishMigration", nil, holder, targetAddress, amount)
}

// Migrate creates a transaction invoking `migrate` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Migrate(from util.Uint160, targetAddress []byte, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "migrate", from, targetAddress, amount)
}

// MigrateTransaction creates a transaction invoking `migrate` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) MigrateTransaction(from util.Uint160, targetAddress []byte, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "migrate", from, targetAddress, amount)
}

// MigrateUnsigned creates a transaction invoking `migrate` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) MigrateUnsigned(from util.Uint160, targetAddress []byte, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "migrate", nil, from, targetAddress, amount)
}

// SetMigrateRole creates a transaction invoking `setMigrateRole` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetMigrateRole(newMigrator util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setMigrateRole", newMigrator)
}

// SetMigrateRoleTransaction creates a transaction invoking `setMigrateRole` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetMigrateRoleTransaction(newMigrator util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setMigrateRole", newMigrator)
}

// SetMigrateRoleUnsigned creates a transaction invoking `setMigrateRole` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetMigrateRoleUnsigned(newMigrator util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setMigrateRole", nil, newMigrator)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

// MigrateEventsFromApplicationLog retrieves a set of all emitted events
// with "Migrate" name from the provided [result.ApplicationLog].
func MigrateEventsFromApplicationLog(log *result.ApplicationLog) ([]*MigrateEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*MigrateEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Migrate" {
				continue
			}
			event := new(MigrateEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize MigrateEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to MigrateEvent or
// returns an error if it's not possible to do to so.
func (e *MigrateEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.From, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field From: %w", err)
	}

	index++
	e.To, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field To: %w", err)
	}

	index++
	e.Value, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Value: %w", err)
	}

	return nil
}

// MigratedEventsFromApplicationLog retrieves a set of all emitted events
// with "Migrated" name from the provided [result.ApplicationLog].
func MigratedEventsFromApplicationLog(log *result.ApplicationLog) ([]*MigratedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*MigratedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Migrated" {
				continue
			}
			event := new(MigratedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize MigratedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to MigratedEvent or
// returns an error if it's not possible to do to so.
func (e *MigratedEvent) FromStackItem(item *stackitem.Array) error {
	var m MigrateEvent
	err := m.FromStackItem(item)
	if err != nil {
		return err
	}

	*e = MigratedEvent(m)
	return nil
}

// MigratorChangedEventsFromApplicationLog retrieves a set of all emitted events
// with "MigratorChanged" name from the provided [result.ApplicationLog].
func MigratorChangedEventsFromApplicationLog(log *result.ApplicationLog) ([]*MigratorChangedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*MigratorChangedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "MigratorChanged" {
				continue
			}
			event := new(MigratorChangedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize MigratorChangedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to MigratorChangedEvent or
// returns an error if it's not possible to do to so.
func (e *MigratorChangedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Previous, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Previous: %w", err)
	}

	index++
	e.Current, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Current: %w", err)
	}

	return nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, err
	}
	return u, nil
}
