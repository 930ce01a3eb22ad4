package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testStateGetter struct {
	st  *state.Contract
	err error
}

func (g testStateGetter) GetContractStateByHash(util.Uint160) (*state.Contract, error) {
	return g.st, g.err
}

type testDeployer struct {
	calls int
	data  any
	err   error
}

func (d *testDeployer) Deploy(_ *nef.File, _ *manifest.Manifest, data any) (util.Uint256, uint32, error) {
	d.calls++
	d.data = data
	return util.Uint256{1}, 100, d.err
}

type testUpdater struct {
	addr     util.Uint160
	nef      []byte
	manifest []byte
	calls    int
}

func (u *testUpdater) Update(nefFile []byte, manifest []byte, _ any) (util.Uint256, uint32, error) {
	u.calls++
	u.nef, u.manifest = nefFile, manifest
	return util.Uint256{2}, 200, nil
}

type testWaiter struct {
	res *state.AppExecResult
	err error
}

func (w testWaiter) WaitAny(ctx context.Context, _ uint32, _ ...util.Uint256) (*state.AppExecResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return w.res, w.err
}

func halted() *state.AppExecResult {
	return &state.AppExecResult{Execution: state.Execution{VMState: vmstate.Halt}}
}

func anyContract(tb testing.TB, script byte) (nef.File, manifest.Manifest) {
	_nef, err := nef.NewFile([]byte{script})
	require.NoError(tb, err)
	return *_nef, *manifest.NewManifest("Token Migration")
}

func newSyncPrm(t *testing.T, g testStateGetter, d *testDeployer, u *testUpdater, w testWaiter) syncContractPrm {
	localNEF, localManifest := anyContract(t, 1)

	return syncContractPrm{
		logger:     zaptest.NewLogger(t),
		blockchain: g,
		deployer:   d,
		updater: func(addr util.Uint160) contractUpdater {
			u.addr = addr
			return u
		},
		waiter:        w,
		sender:        util.Uint160{0xaa},
		localNEF:      localNEF,
		localManifest: localManifest,
		deployArgs:    []any{util.Uint160{1}, util.Uint160{2}},
	}
}

func TestSyncContractDeploy(t *testing.T) {
	var (
		d = new(testDeployer)
		u = new(testUpdater)
		g = testStateGetter{err: errors.New("Unknown contract")}
	)

	prm := newSyncPrm(t, g, d, u, testWaiter{res: halted()})
	expected := state.CreateContractHash(prm.sender, prm.localNEF.Checksum, prm.localManifest.Name)

	addr, err := syncContract(context.Background(), prm)
	require.NoError(t, err)
	require.Equal(t, expected, addr)
	require.Equal(t, 1, d.calls)
	require.Equal(t, prm.deployArgs, d.data)
	require.Zero(t, u.calls)

	t.Run("fault", func(t *testing.T) {
		res := halted()
		res.VMState = vmstate.Fault
		res.FaultException = "invalid deploy arguments"

		_, err := syncContract(context.Background(), newSyncPrm(t, g, d, u, testWaiter{res: res}))
		require.ErrorContains(t, err, "invalid deploy arguments")
	})

	t.Run("send failure", func(t *testing.T) {
		d := &testDeployer{err: errors.New("insufficient funds")}

		_, err := syncContract(context.Background(), newSyncPrm(t, g, d, u, testWaiter{res: halted()}))
		require.ErrorContains(t, err, "insufficient funds")
	})

	t.Run("context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := syncContract(ctx, newSyncPrm(t, g, d, u, testWaiter{res: halted()}))
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestSyncContractStateFailure(t *testing.T) {
	var (
		d = new(testDeployer)
		u = new(testUpdater)
		g = testStateGetter{err: errors.New("connection refused")}
	)

	_, err := syncContract(context.Background(), newSyncPrm(t, g, d, u, testWaiter{res: halted()}))
	require.ErrorContains(t, err, "connection refused")
	require.Zero(t, d.calls)
	require.Zero(t, u.calls)
}

func TestSyncContractUpToDate(t *testing.T) {
	var (
		d = new(testDeployer)
		u = new(testUpdater)
	)

	onChainNEF, _ := anyContract(t, 1)
	g := testStateGetter{st: &state.Contract{ContractBase: state.ContractBase{NEF: onChainNEF}}}

	_, err := syncContract(context.Background(), newSyncPrm(t, g, d, u, testWaiter{res: halted()}))
	require.NoError(t, err)
	require.Zero(t, d.calls)
	require.Zero(t, u.calls)
}

func TestSyncContractUpdate(t *testing.T) {
	var (
		d = new(testDeployer)
		u = new(testUpdater)
	)

	onChainNEF, _ := anyContract(t, 2)
	g := testStateGetter{st: &state.Contract{ContractBase: state.ContractBase{NEF: onChainNEF}}}

	prm := newSyncPrm(t, g, d, u, testWaiter{res: halted()})

	addr, err := syncContract(context.Background(), prm)
	require.NoError(t, err)
	require.Zero(t, d.calls)
	require.Equal(t, 1, u.calls)
	require.Equal(t, addr, u.addr)

	bNEF, err := prm.localNEF.Bytes()
	require.NoError(t, err)
	require.Equal(t, bNEF, u.nef)

	var m manifest.Manifest
	require.NoError(t, json.Unmarshal(u.manifest, &m))
	require.Equal(t, prm.localManifest.Name, m.Name)
}

func TestDeployArgs(t *testing.T) {
	prm := Prm{
		Token:    util.Uint160{1},
		Migrator: util.Uint160{2},
	}
	require.Equal(t, []any{prm.Token, prm.Migrator}, deployArgs(prm))

	prm.Owner = util.Uint160{3}
	require.Equal(t, []any{prm.Token, prm.Migrator, prm.Owner}, deployArgs(prm))
}

func TestDeployMissingAccount(t *testing.T) {
	_, err := Deploy(context.Background(), Prm{})
	require.Error(t, err)
}
