// Package deploy provides deployment procedure of the token migration contract.
package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	rpcmigration "github.com/nspcc-dev/token-migration-contract/rpc/migration"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the contract deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by
	// its address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Prm groups all parameters of the deployment procedure.
type Prm struct {
	// Writes progress into the log. Optional, no logs by default.
	Logger *zap.Logger

	// Particular Neo blockchain instance the contract is deployed to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// Resulting contract address is derived from it.
	LocalAccount *wallet.Account

	// Compiled migration contract.
	Contract CommonDeployPrm

	// Address of the migrated NEP-17 token contract.
	Token util.Uint160

	// Account initially holding the migrator role.
	Migrator util.Uint160

	// Contract owner. Optional, LocalAccount is the owner by default.
	Owner util.Uint160
}

// Deploy makes the migration contract from Prm.Contract present on the chain
// and returns its address.
//
// Contract is deployed if missing, updated if its on-chain NEF differs from
// the local one, and left as is otherwise. Updates are possible only when
// Prm.LocalAccount is the contract owner. Deploy waits for every sent
// transaction to be accepted and aborts on context cancellation.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	if prm.LocalAccount == nil {
		return util.Uint160{}, errors.New("missing local account")
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("init transaction sender from single local account: %w", err)
	}

	return syncContract(ctx, syncContractPrm{
		logger:     prm.Logger,
		blockchain: prm.Blockchain,
		deployer:   management.New(act),
		updater: func(addr util.Uint160) contractUpdater {
			return rpcmigration.New(act, addr)
		},
		waiter:        act,
		sender:        prm.LocalAccount.ScriptHash(),
		localNEF:      prm.Contract.NEF,
		localManifest: prm.Contract.Manifest,
		deployArgs:    deployArgs(prm),
	})
}

func deployArgs(prm Prm) []any {
	args := []any{prm.Token, prm.Migrator}
	if !prm.Owner.Equals(util.Uint160{}) {
		args = append(args, prm.Owner)
	}
	return args
}

type contractStateGetter interface {
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

type contractDeployer interface {
	Deploy(exe *nef.File, manif *manifest.Manifest, data any) (util.Uint256, uint32, error)
}

type contractUpdater interface {
	Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error)
}

type txWaiter interface {
	WaitAny(ctx context.Context, vub uint32, hashes ...util.Uint256) (*state.AppExecResult, error)
}

type syncContractPrm struct {
	logger     *zap.Logger
	blockchain contractStateGetter
	deployer   contractDeployer
	updater    func(util.Uint160) contractUpdater
	waiter     txWaiter

	sender        util.Uint160
	localNEF      nef.File
	localManifest manifest.Manifest
	deployArgs    []any
}

func syncContract(ctx context.Context, prm syncContractPrm) (util.Uint160, error) {
	l := prm.logger
	if l == nil {
		l = zap.NewNop()
	}

	addr := state.CreateContractHash(prm.sender, prm.localNEF.Checksum, prm.localManifest.Name)
	l = l.With(zap.String("contract", prm.localManifest.Name), zap.Stringer("address", addr))

	l.Info("checking contract presence on the chain...")

	onChain, err := prm.blockchain.GetContractStateByHash(addr)
	if err != nil {
		if !isErrContractNotFound(err) {
			return util.Uint160{}, fmt.Errorf("get contract state: %w", err)
		}

		l.Info("contract is missing on the chain, deploying...")

		txHash, vub, err := prm.deployer.Deploy(&prm.localNEF, &prm.localManifest, prm.deployArgs)
		if err != nil {
			return util.Uint160{}, fmt.Errorf("send deployment transaction: %w", err)
		}

		l.Info("deployment transaction sent, waiting...", zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

		err = awaitTx(ctx, prm.waiter, txHash, vub)
		if err != nil {
			return util.Uint160{}, fmt.Errorf("deploy contract: %w", err)
		}

		l.Info("contract successfully deployed")

		return addr, nil
	}

	if onChain.NEF.Checksum == prm.localNEF.Checksum {
		l.Info("contract is already up-to-date")
		return addr, nil
	}

	l.Info("on-chain contract differs from the local one, updating...",
		zap.Uint32("on-chain", onChain.NEF.Checksum), zap.Uint32("local", prm.localNEF.Checksum))

	bNEF, err := prm.localNEF.Bytes()
	if err != nil {
		return util.Uint160{}, fmt.Errorf("encode local NEF: %w", err)
	}

	jManifest, err := json.Marshal(prm.localManifest)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("encode local manifest: %w", err)
	}

	txHash, vub, err := prm.updater(addr).Update(bNEF, jManifest, nil)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send update transaction: %w", err)
	}

	l.Info("update transaction sent, waiting...", zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	err = awaitTx(ctx, prm.waiter, txHash, vub)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("update contract: %w", err)
	}

	l.Info("contract successfully updated")

	return addr, nil
}

func awaitTx(ctx context.Context, w txWaiter, txHash util.Uint256, vub uint32) error {
	res, err := w.WaitAny(ctx, vub, txHash)
	if err != nil {
		return fmt.Errorf("wait for transaction %s: %w", txHash.StringLE(), err)
	}

	if res.VMState != vmstate.Halt {
		return fmt.Errorf("transaction %s failed with %s: %s", txHash.StringLE(), res.VMState, res.FaultException)
	}

	return nil
}

func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}
