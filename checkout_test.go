package git

import (
	"testing"

	"github.com/Nivl/git-go/ginternals"
	"github.com/Nivl/git-go/ginternals/object"
	"github.com/Nivl/git-go/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutMaterializesTree(t *testing.T) {
	t.Parallel()

	repoPath, cleanup := testutil.UnTar(t, testutil.RepoSmall)
	t.Cleanup(cleanup)

	r, err := OpenRepository(repoPath)
	require.NoError(t, err, "failed loading a repo")
	t.Cleanup(func() {
		require.NoError(t, r.Close(), "failed closing repo")
	})

	treeOid, err := ginternals.NewOidFromStr("e5b9e846e1b468bc9597ff95d71dfacda8bd54e3")
	require.NoError(t, err)
	tree, err := r.GetTree(treeOid)
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	require.NoError(t, r.Checkout(treeOid, "/dest", fs))

	for _, e := range tree.Entries() {
		if e.Mode == object.ModeDirectory {
			continue
		}
		exists, err := afero.Exists(fs, "/dest/"+e.Path)
		require.NoError(t, err)
		assert.True(t, exists, "%s should have been checked out", e.Path)
	}
}

func TestCheckoutRefusesNonEmptyDestination(t *testing.T) {
	t.Parallel()

	repoPath, cleanup := testutil.UnTar(t, testutil.RepoSmall)
	t.Cleanup(cleanup)

	r, err := OpenRepository(repoPath)
	require.NoError(t, err, "failed loading a repo")
	t.Cleanup(func() {
		require.NoError(t, r.Close(), "failed closing repo")
	})

	treeOid, err := ginternals.NewOidFromStr("e5b9e846e1b468bc9597ff95d71dfacda8bd54e3")
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/dest", 0o750))
	require.NoError(t, afero.WriteFile(fs, "/dest/already-there", []byte("x"), 0o644))

	err = r.Checkout(treeOid, "/dest", fs)
	require.ErrorIs(t, err, ErrDestinationNotEmpty)
}

func TestCheckoutRejectsUnsupportedMode(t *testing.T) {
	t.Parallel()

	repoPath, cleanup := testutil.UnTar(t, testutil.RepoSmall)
	t.Cleanup(cleanup)

	r, err := OpenRepository(repoPath)
	require.NoError(t, err, "failed loading a repo")
	t.Cleanup(func() {
		require.NoError(t, r.Close(), "failed closing repo")
	})

	blobOid, err := ginternals.NewOidFromStr("642480605b8b0fd464ab5762e044269cf29a60a3")
	require.NoError(t, err)

	tb := r.NewTreeBuilder()
	require.NoError(t, tb.Insert("link", blobOid, object.ModeSymLink))
	tree, err := tb.Write()
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	err = r.Checkout(tree.ID(), "/dest", fs)
	require.ErrorIs(t, err, ErrUnsupportedMode)
}
