/*
Package contracts provides access to compiled token migration contract.

Compiled artifacts are produced by

	neo-go contract compile -i contracts/migration -c contracts/migration/config.yml \
		-o contracts/migration/contract.nef -m contracts/migration/manifest.json

and read either from the repository directory or from any other fs.FS.
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	// MigrationDir is a directory of the migration contract relative to
	// the root of the source FS.
	MigrationDir = "migration"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about Neo contract stored in the current package.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")
)

// GetMigration reads compiled migration contract from the given FS. The FS
// root is expected to correspond to this package directory.
func GetMigration(_fs fs.FS) (Contract, error) {
	cs, err := read(_fs, []string{MigrationDir})
	if err != nil {
		return Contract{}, err
	}

	return cs[0], nil
}

// GetMigrationFromDir is the same as GetMigration, but reads from a
// directory of the local file system.
func GetMigrationFromDir(dir string) (Contract, error) {
	return GetMigration(os.DirFS(dir))
}

// read reads contracts from the given directories of the given FS.
func read(_fs fs.FS, dirs []string) ([]Contract, error) {
	var res = make([]Contract, 0, len(dirs))

	for i := range dirs {
		c, err := readContractFromDir(_fs, dirs[i])
		if err != nil {
			return nil, fmt.Errorf("read contract %s: %w", dirs[i], err)
		}

		res = append(res, c)
	}

	return res, nil
}

func readContractFromDir(_fs fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS paths always use "/", so filepath.Join() is not applicable.
	fNEF, err := _fs.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := _fs.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	if c.Manifest.Name == "" {
		return c, fmt.Errorf("%w: missing name", errInvalidManifest)
	}

	return c, nil
}
