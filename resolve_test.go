package git

import (
	"testing"

	"github.com/Nivl/git-go/ginternals"
	"github.com/Nivl/git-go/ginternals/object"
	"github.com/Nivl/git-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRevision(t *testing.T) {
	t.Parallel()

	headCommitSHA := "bbb720a96e4c29b9950a4c577c98470a4d5dd089"

	testCases := []struct {
		desc string
		name string
		want string
	}{
		{desc: "HEAD", name: "HEAD", want: headCommitSHA},
		{desc: "full sha", name: headCommitSHA, want: headCommitSHA},
		{desc: "abbreviated sha", name: headCommitSHA[:10], want: headCommitSHA},
		{desc: "branch name", name: "ml/packfile/tests", want: headCommitSHA},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			repoPath, cleanup := testutil.UnTar(t, testutil.RepoSmall)
			t.Cleanup(cleanup)

			r, err := OpenRepository(repoPath)
			require.NoError(t, err, "failed loading a repo")
			t.Cleanup(func() {
				require.NoError(t, r.Close(), "failed closing repo")
			})

			oid, err := r.ResolveRevision(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.want, oid.String())
		})
	}
}

func TestResolveRevisionNotFound(t *testing.T) {
	t.Parallel()

	repoPath, cleanup := testutil.UnTar(t, testutil.RepoSmall)
	t.Cleanup(cleanup)

	r, err := OpenRepository(repoPath)
	require.NoError(t, err, "failed loading a repo")
	t.Cleanup(func() {
		require.NoError(t, r.Close(), "failed closing repo")
	})

	_, err = r.ResolveRevision("this-branch-does-not-exist")
	require.ErrorIs(t, err, ginternals.ErrRevisionNotFound)
}

func TestResolveRevisionAsFollowsAnnotatedTagToItsCommit(t *testing.T) {
	t.Parallel()

	repoPath, cleanup := testutil.UnTar(t, testutil.RepoSmall)
	t.Cleanup(cleanup)

	r, err := OpenRepository(repoPath)
	require.NoError(t, err, "failed loading a repo")
	t.Cleanup(func() {
		require.NoError(t, r.Close(), "failed closing repo")
	})

	oid, err := r.ResolveRevisionAs("annotated", object.TypeCommit, true)
	require.NoError(t, err)
	assert.Equal(t, "6097a04b7a327c4be68f222ca66e61b8e1abe5c1", oid.String())
}

func TestResolveRevisionAsRejectsWrongKind(t *testing.T) {
	t.Parallel()

	repoPath, cleanup := testutil.UnTar(t, testutil.RepoSmall)
	t.Cleanup(cleanup)

	r, err := OpenRepository(repoPath)
	require.NoError(t, err, "failed loading a repo")
	t.Cleanup(func() {
		require.NoError(t, r.Close(), "failed closing repo")
	})

	// A blob can't be coerced into a commit.
	_, err = r.ResolveRevisionAs("642480605b8b0fd464ab5762e044269cf29a60a3", object.TypeCommit, true)
	require.ErrorIs(t, err, ErrWrongObjectKind)
}
