package main

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/Nivl/git-go/env"
	"github.com/Nivl/git-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevParse(t *testing.T) {
	t.Parallel()

	repoPath, cleanup := testutil.UnTar(t, testutil.RepoSmall)
	t.Cleanup(cleanup)

	testCases := []struct {
		desc     string
		name     string
		expected string
	}{
		{desc: "HEAD resolves to the head commit", name: "HEAD", expected: "bbb720a96e4c29b9950a4c577c98470a4d5dd089\n"},
		{desc: "a full sha resolves to itself", name: "bbb720a96e4c29b9950a4c577c98470a4d5dd089", expected: "bbb720a96e4c29b9950a4c577c98470a4d5dd089\n"},
		{desc: "a branch name resolves to its target", name: "ml/packfile/tests", expected: "bbb720a96e4c29b9950a4c577c98470a4d5dd089\n"},
	}

	for i, tc := range testCases {
		tc := tc
		i := i
		t.Run(fmt.Sprintf("%d/%s", i, tc.desc), func(t *testing.T) {
			t.Parallel()

			outBuf := bytes.NewBufferString("")
			cmd := newRootCmd(".", env.NewFromOs())
			cmd.SetOut(outBuf)
			cmd.SetArgs([]string{"-C", repoPath, "rev-parse", tc.name})

			require.NoError(t, cmd.Execute())
			assert.Equal(t, tc.expected, outBuf.String())
		})
	}
}

func TestRevParseUnknownRevision(t *testing.T) {
	t.Parallel()

	repoPath, cleanup := testutil.UnTar(t, testutil.RepoSmall)
	t.Cleanup(cleanup)

	cmd := newRootCmd(".", env.NewFromOs())
	cmd.SetArgs([]string{"-C", repoPath, "rev-parse", "this-does-not-exist"})
	require.Error(t, cmd.Execute())
}
