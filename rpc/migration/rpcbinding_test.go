package migration

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type testInv struct {
	err error
	res *result.Invoke

	method string
	params []any

	pages      [][]stackitem.Item
	traversed  int
	terminated []uuid.UUID
}

func (t *testInv) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	t.method, t.params = operation, params
	return t.res, t.err
}

func (t *testInv) CallAndExpandIterator(contract util.Uint160, operation string, i int, params ...any) (*result.Invoke, error) {
	t.method, t.params = operation, params
	return t.res, t.err
}

func (t *testInv) TraverseIterator(_ uuid.UUID, _ *result.Iterator, num int) ([]stackitem.Item, error) {
	if t.traversed >= len(t.pages) {
		return nil, nil
	}
	page := t.pages[t.traversed]
	t.traversed++
	if len(page) > num {
		return nil, errors.New("page exceeds requested size")
	}
	return page, nil
}

func (t *testInv) TerminateSession(id uuid.UUID) error {
	t.terminated = append(t.terminated, id)
	return nil
}

func halt(items ...stackitem.Item) *result.Invoke {
	return &result.Invoke{
		State: "HALT",
		Stack: items,
	}
}

func holdingItem(h util.Uint160, amount int64) stackitem.Item {
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray(h.BytesBE()),
		stackitem.NewBigInteger(big.NewInt(amount)),
	})
}

func TestReaderErrors(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	ti.err = errors.New("bad")
	_, err := r.GetLockedHoldings(util.Uint160{})
	require.Error(t, err)
	_, err = r.Migrator()
	require.Error(t, err)

	ti.err = nil
	ti.res = &result.Invoke{State: "FAULT", FaultException: "boom"}
	_, err = r.TotalLocked()
	require.Error(t, err)

	ti.res = halt(stackitem.Make([]stackitem.Item{}))
	_, err = r.GetLockedHoldings(util.Uint160{})
	require.Error(t, err)
}

func TestReader(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	holder := util.Uint160{9, 8, 7}
	ti.res = halt(stackitem.Make(42))
	v, err := r.GetLockedHoldings(holder)
	require.NoError(t, err)
	require.EqualValues(t, 42, v.Int64())
	require.Equal(t, "getLockedHoldings", ti.method)
	require.Equal(t, []any{holder}, ti.params)

	m := util.Uint160{4, 5, 6}
	ti.res = halt(stackitem.Make(m.BytesBE()))
	got, err := r.Migrator()
	require.NoError(t, err)
	require.Equal(t, m, got)
	require.Equal(t, "migrator", ti.method)

	got, err = r.Owner()
	require.NoError(t, err)
	require.Equal(t, m, got)

	got, err = r.Token()
	require.NoError(t, err)
	require.Equal(t, m, got)
}

func TestLockedHoldings(t *testing.T) {
	var (
		ti   = new(testInv)
		r    = NewReader(ti, util.Uint160{1, 2, 3})
		sess = uuid.New()
		iid  = uuid.New()
	)

	ti.res = &result.Invoke{
		State:   "HALT",
		Session: sess,
		Stack: []stackitem.Item{
			stackitem.NewInterop(result.Iterator{ID: &iid}),
		},
	}
	ti.pages = [][]stackitem.Item{
		{holdingItem(util.Uint160{1}, 10), holdingItem(util.Uint160{2}, 20)},
		{holdingItem(util.Uint160{3}, 30)},
	}

	hs, err := r.LockedHoldings(2)
	require.NoError(t, err)
	require.Equal(t, []LockedHolding{
		{Holder: util.Uint160{1}, Amount: big.NewInt(10)},
		{Holder: util.Uint160{2}, Amount: big.NewInt(20)},
		{Holder: util.Uint160{3}, Amount: big.NewInt(30)},
	}, hs)
	require.Equal(t, 2, ti.traversed)
	require.Equal(t, []uuid.UUID{sess}, ti.terminated)

	t.Run("broken item", func(t *testing.T) {
		ti.traversed = 0
		ti.terminated = nil
		ti.pages = [][]stackitem.Item{{stackitem.Make(1)}}

		_, err := r.LockedHoldings(0)
		require.Error(t, err)
		require.Equal(t, []uuid.UUID{sess}, ti.terminated)
	})
}

func TestLockedHoldingFromStackItem(t *testing.T) {
	var h LockedHolding

	require.Error(t, h.FromStackItem(nil))
	require.Error(t, h.FromStackItem(stackitem.Make(1)))
	require.Error(t, h.FromStackItem(stackitem.NewStruct([]stackitem.Item{stackitem.Make(1)})))
	require.Error(t, h.FromStackItem(stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray([]byte{1, 2, 3}),
		stackitem.Make(1),
	})))

	holder := util.Uint160{0xde, 0xad}
	require.NoError(t, h.FromStackItem(holdingItem(holder, 100500)))
	require.Equal(t, holder, h.Holder)
	require.EqualValues(t, 100500, h.Amount.Int64())
}

func TestEventsFromApplicationLog(t *testing.T) {
	_, err := MigrateEventsFromApplicationLog(nil)
	require.Error(t, err)

	var (
		holder = util.Uint160{1, 1, 1}
		target = make([]byte, TargetAddressLength)
		prev   = util.Uint160{2}
		curr   = util.Uint160{3}
	)
	target[0] = 0xff

	transfer := stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(holder.BytesBE()),
		stackitem.NewByteArray(target),
		stackitem.Make(7),
	})

	log := &result.ApplicationLog{
		Executions: []state.Execution{{
			Trigger: trigger.Application,
			Events: []state.NotificationEvent{
				{Name: "Migrate", Item: transfer},
				{Name: "Transfer", Item: stackitem.NewArray(nil)},
				{Name: "Migrated", Item: transfer},
				{Name: "MigratorChanged", Item: stackitem.NewArray([]stackitem.Item{
					stackitem.NewByteArray(prev.BytesBE()),
					stackitem.NewByteArray(curr.BytesBE()),
				})},
			},
		}},
	}

	migrate, err := MigrateEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, migrate, 1)
	require.Equal(t, holder, migrate[0].From)
	require.Equal(t, target, migrate[0].To)
	require.EqualValues(t, 7, migrate[0].Value.Int64())

	addr, err := migrate[0].Target()
	require.NoError(t, err)
	require.Equal(t, target, addr.Bytes())

	migrated, err := MigratedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, migrated, 1)
	require.Equal(t, MigratedEvent(*migrate[0]), *migrated[0])

	changed, err := MigratorChangedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*MigratorChangedEvent{{Previous: prev, Current: curr}}, changed)

	log.Executions[0].Events = append(log.Executions[0].Events, state.NotificationEvent{
		Name: "Migrate",
		Item: stackitem.NewArray([]stackitem.Item{stackitem.Make(1)}),
	})
	_, err = MigrateEventsFromApplicationLog(log)
	require.Error(t, err)
}
