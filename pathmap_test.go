package git

import (
	"path"
	"testing"

	"github.com/Nivl/git-go/ginternals"
	"github.com/Nivl/git-go/ginternals/object"
	"github.com/Nivl/git-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathMapMatchesManualTreeWalk(t *testing.T) {
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

	got, err := r.PathMap(treeOid)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	want := map[string]ginternals.Oid{}
	require.NoError(t, manualWalk(t, r, treeOid, "", want))

	assert.Equal(t, want, got)
}

func manualWalk(t *testing.T, r *Repository, treeOid ginternals.Oid, prefix string, out map[string]ginternals.Oid) error {
	t.Helper()
	tree, err := r.GetTree(treeOid)
	if err != nil {
		return err
	}
	for _, e := range tree.Entries() {
		p := e.Path
		if prefix != "" {
			p = path.Join(prefix, e.Path)
		}
		if e.Mode == object.ModeDirectory {
			if err := manualWalk(t, r, e.ID, p, out); err != nil {
				return err
			}
			continue
		}
		out[p] = e.ID
	}
	return nil
}

func TestPathMapDoesNotFollowGitlinks(t *testing.T) {
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
	require.NoError(t, tb.Insert("submodule", blobOid, object.ModeGitLink))
	tree, err := tb.Write()
	require.NoError(t, err)

	got, err := r.PathMap(tree.ID())
	require.NoError(t, err)
	require.Contains(t, got, "submodule")
	assert.Equal(t, blobOid, got["submodule"])
}
