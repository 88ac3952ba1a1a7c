package app

import (
	"os"
	"path/filepath"
)

// DataDirName is the per-deployment data directory under the working directory.
const DataDirName = ".awmit"

// Paths holds the resolved filesystem paths of the data directory.
type Paths struct {
	Root string // .awmit/
	DB   string // .awmit/gaps.db
}

// NewPaths resolves the data directory paths under base.
func NewPaths(base string) *Paths {
	root := filepath.Join(base, DataDirName)
	return &Paths{
		Root: root,
		DB:   filepath.Join(root, "gaps.db"),
	}
}

// EnsureDirs creates the data directory. Idempotent.
func (p *Paths) EnsureDirs() error {
	return os.MkdirAll(p.Root, 0755)
}
