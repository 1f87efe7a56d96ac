// Package backend contains the on-disk storage engine used to persist
// and retrieve objects and references for a repository.
package backend

import (
	"errors"
	"sync"

	"github.com/Nivl/git-go/ginternals"
	"github.com/Nivl/git-go/ginternals/config"
	"github.com/Nivl/git-go/internal/cache"
	"github.com/Nivl/git-go/internal/syncutil"
	"github.com/spf13/afero"
)

// cacheSize is the number of objects kept in memory to avoid
// re-inflating the same loose object repeatedly
const cacheSize = 128

// lockStripes is the number of stripes used by the per-oid mutex guarding
// object reads/writes
const lockStripes = 64

// RefWalkFunc represents a function that will be applied on all references
// found by WalkReferences
type RefWalkFunc = func(ref *ginternals.Reference) error

// WalkStop is a fake error used to tell WalkReferences/WalkLooseObjectIDs to
// stop early without propagating a real error
var WalkStop = errors.New("stop walking") //nolint:golint // not a real error, used as a stop sentinel

// Backend is the filesystem-backed object and reference store.
// A Backend represents a single .git directory; all its exported methods
// except Init and InitWithOptions may be called concurrently.
type Backend struct {
	fs     afero.Fs
	config *config.Config

	// looseObjects tracks which oids have been observed on disk, so that
	// Object() doesn't need to stat the filesystem for every miss.
	looseObjects sync.Map
	objectMu     *syncutil.NamedMutex
	cache        *cache.LRU

	// refs holds the raw (unparsed) bytes of every known reference, keyed
	// by its name. It's populated once by loadRefs() when the backend is
	// opened.
	refs sync.Map
}

// NewFS creates a Backend bound to the given config. If the repository
// already exists on disk its objects and references are discovered
// eagerly.
func NewFS(cfg *config.Config) (*Backend, error) {
	b := &Backend{
		config:   cfg,
		fs:       cfg.FS,
		objectMu: syncutil.NewNamedMutex(lockStripes),
		cache:    cache.NewLRU(cacheSize),
	}
	if b.fs == nil {
		b.fs = afero.NewOsFs()
	}

	if err := b.loadLooseObject(); err != nil {
		return nil, err
	}
	if err := b.loadRefs(); err != nil {
		return nil, err
	}
	return b, nil
}

// Path returns the path to the .git directory
func (b *Backend) Path() string {
	return b.config.GitDirPath
}

// ObjectsPath returns the path to the object database
func (b *Backend) ObjectsPath() string {
	return b.config.ObjectDirPath
}

// Close releases any resource held by the backend
func (b *Backend) Close() error {
	return nil
}
