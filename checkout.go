package git

import (
	"os"

	"github.com/Nivl/git-go/ginternals"
	"github.com/Nivl/git-go/ginternals/object"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ErrDestinationNotEmpty is returned by Checkout when the destination
// directory already exists and isn't empty.
var ErrDestinationNotEmpty = errors.New("destination is not empty")

// ErrUnsupportedMode is returned by Checkout when a tree entry's mode
// isn't one this implementation can materialise on disk.
var ErrUnsupportedMode = errors.New("unsupported mode")

// Checkout materialises the tree at treeID into dest, using fs (the OS
// filesystem if fs is nil). dest must not exist, or must be an empty
// directory.
func (r *Repository) Checkout(treeID ginternals.Oid, dest string, fs afero.Fs) error {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	info, err := fs.Stat(dest)
	switch {
	case os.IsNotExist(err):
		if err := fs.MkdirAll(dest, 0o750); err != nil {
			return errors.Wrapf(err, "could not create %s", dest)
		}
	case err != nil:
		return errors.Wrapf(err, "could not stat %s", dest)
	default:
		if !info.IsDir() {
			return errors.Wrapf(ErrDestinationNotEmpty, "%s is a file", dest)
		}
		entries, err := afero.ReadDir(fs, dest)
		if err != nil {
			return errors.Wrapf(err, "could not read %s", dest)
		}
		if len(entries) > 0 {
			return errors.Wrapf(ErrDestinationNotEmpty, "%s", dest)
		}
	}

	tree, err := r.GetTree(treeID)
	if err != nil {
		return err
	}
	return r.checkoutTree(tree, dest, fs)
}

func (r *Repository) checkoutTree(tree *object.Tree, dest string, fs afero.Fs) error {
	for _, e := range tree.Entries() {
		entryDest := dest + string(os.PathSeparator) + e.Path

		switch e.Mode {
		case object.ModeDirectory:
			if err := fs.MkdirAll(entryDest, 0o750); err != nil {
				return errors.Wrapf(err, "could not create directory %s", entryDest)
			}
			subTree, err := r.GetTree(e.ID)
			if err != nil {
				return err
			}
			if err := r.checkoutTree(subTree, entryDest, fs); err != nil {
				return err
			}
		case object.ModeFile, object.ModeExecutable:
			o, err := r.GetObject(e.ID)
			if err != nil {
				return err
			}
			blob := o.AsBlob()
			perm := os.FileMode(0o644)
			if e.Mode == object.ModeExecutable {
				perm = 0o755
			}
			f, err := fs.OpenFile(entryDest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
			if err != nil {
				return errors.Wrapf(err, "could not create %s", entryDest)
			}
			_, writeErr := blob.WriteTo(f)
			if err := f.Close(); err != nil && writeErr == nil {
				writeErr = err
			}
			if writeErr != nil {
				return errors.Wrapf(writeErr, "could not write %s", entryDest)
			}
		default:
			return errors.Wrapf(ErrUnsupportedMode, "%s (mode %o)", e.Path, e.Mode)
		}
	}
	return nil
}
