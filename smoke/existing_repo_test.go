package smoke_test

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	git "github.com/Nivl/git-go"
	"github.com/Nivl/git-go/ginternals"
	"github.com/Nivl/git-go/ginternals/object"
	"github.com/Nivl/git-go/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// TestWorkingOnExistingRepo exercises the full read/write/checkout cycle
// against a pre-existing repository: walk its history, patch a tracked
// file, commit the result on a topic branch, merge it back into the
// default branch, then checkout the merged tree and confirm the
// working copy on disk matches.
func TestWorkingOnExistingRepo(t *testing.T) {
	t.Parallel()

	repoPath, cleanup := testutil.UnTar(t, testutil.RepoSmall)
	t.Cleanup(cleanup)

	r, err := git.OpenRepository(repoPath)
	require.NoError(t, err, "failed opening a repo")
	t.Cleanup(func() {
		require.NoError(t, r.Close(), "failed closing repo")
	})

	defaultBranchName := ginternals.LocalBranchFullName("master")
	defaultBranch, err := r.GetReference(defaultBranchName)
	require.NoError(t, err, "couldn't get the default branch")

	headCommit, err := r.GetCommit(defaultBranch.Target())
	require.NoError(t, err, "couldn't get the head commit")

	// The history walker should include the head commit itself.
	walked := []ginternals.Oid{}
	require.NoError(t, r.WalkHistory(headCommit.ID(), func(entry git.LogEntry) error {
		walked = append(walked, entry.ID)
		return nil
	}))
	require.Contains(t, walked, headCommit.ID())

	rootTree, err := r.GetTree(headCommit.TreeID())
	require.NoError(t, err, "couldn't get the head commit's tree")

	// Flatten the tree to find the readme instead of walking entries
	// by hand.
	paths, err := r.PathMap(headCommit.TreeID())
	require.NoError(t, err, "failed flattening the tree")
	readmeOid, ok := paths["README.md"]
	require.True(t, ok, "couldn't find the readme in the tree")

	readmeObj, err := r.GetObject(readmeOid)
	require.NoError(t, err, "failed finding the readme object from its oid")
	readme := readmeObj.AsBlob()

	tb := r.NewTreeBuilderFromTree(rootTree)
	newReadme, err := r.NewBlob(append(readme.BytesCopy(), []byte("\nHello World\n")...))
	require.NoError(t, err, "failed creating new readme")
	err = tb.Insert("README.md", newReadme.ID(), object.ModeFile)
	require.NoError(t, err, "failed adding readme to tree")

	newTree, err := tb.Write()
	require.NoError(t, err, "failed creating new tree")

	fixBranchName := ginternals.LocalBranchFullName("ml/docs/update-readme")
	fixCommit, err := r.NewCommit(
		fixBranchName,
		newTree,
		object.NewSignature("John Doe", "john@domain.tld"),
		&object.CommitOptions{
			Message:   "docs(readme): Fix typo",
			ParentsID: []ginternals.Oid{headCommit.ID()},
		})
	require.NoError(t, err, "failed creating the commit with the updated readme")

	mergeCommit, err := r.NewCommit(
		defaultBranchName,
		newTree,
		object.NewSignature("John Doe", "john@domain.tld"),
		&object.CommitOptions{
			Message:   "merge branch ml/docs/update-readme into main",
			ParentsID: []ginternals.Oid{headCommit.ID(), fixCommit.ID()},
		})
	require.NoError(t, err, "failed creating the commit with the fix")

	mainBranch, err := r.GetReference(defaultBranchName)
	require.NoError(t, err, "couldn't get the main branch")
	require.Equal(t, mergeCommit.ID(), mainBranch.Target(), "the merge didn't work")

	// Checking out the merged tree should produce a working copy with
	// the patched readme on disk.
	checkoutDest, err := ioutil.TempDir("", "git-go-smoke-checkout")
	require.NoError(t, err, "failed creating checkout destination")
	t.Cleanup(func() { _ = afero.NewOsFs().RemoveAll(checkoutDest) })

	require.NoError(t, r.Checkout(newTree.ID(), checkoutDest, nil))
	content, err := ioutil.ReadFile(filepath.Join(checkoutDest, "README.md"))
	require.NoError(t, err, "failed reading the checked out readme")
	require.Contains(t, string(content), "Hello World")
}
