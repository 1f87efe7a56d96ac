package backend

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Nivl/git-go/ginternals"
	"github.com/spf13/afero"
)

// InitOptions represents all the options that can be used to
// create a repository
type InitOptions struct {
	// CreateSymlink will create a .git FILE that contains a path
	// to the real repository, instead of a directory.
	CreateSymlink bool
	// SymlinkTarget is the actual location of the .git directory when
	// CreateSymlink is set.
	SymlinkTarget string
}

// Init initializes a repository using the default options.
// This method cannot be called concurrently with other methods.
// On an existing repository it adds what's missing without overwriting
// what's already there, then returns ginternals.ErrRefExists because
// HEAD already exists.
func (b *Backend) Init(branchName string) error {
	return b.InitWithOptions(branchName, InitOptions{})
}

// InitWithOptions initializes a repository using the provided options.
//
// This method cannot be called concurrently with other methods.
// On an existing repository it adds what's missing without overwriting
// what's already there, then returns ginternals.ErrRefExists because
// HEAD already exists.
func (b *Backend) InitWithOptions(branchName string, opts InitOptions) error {
	_, statErr := b.fs.Stat(b.config.LocalConfig)
	confFileExists := !errors.Is(statErr, os.ErrNotExist)

	if opts.CreateSymlink {
		linkTarget := fmt.Sprintf("gitdir: %s\n", opts.SymlinkTarget)
		if err := afero.WriteFile(b.fs, b.config.GitDirPath, []byte(linkTarget), 0o644); err != nil {
			return fmt.Errorf("could not create symlink %s: %w", b.config.GitDirPath, err)
		}
	}

	dirs := []string{
		ginternals.DotGitPath(b.config),
		ginternals.TagsPath(b.config),
		ginternals.LocalBranchesPath(b.config),
		ginternals.ObjectsPath(b.config),
		ginternals.ObjectsInfoPath(b.config),
		ginternals.ObjectsPacksPath(b.config),
		ginternals.BranchesPath(b.config),
		filepath.Dir(ginternals.ExcludesFilePath(b.config)),
	}
	for _, d := range dirs {
		if err := b.fs.MkdirAll(d, 0o750); err != nil {
			return fmt.Errorf("could not create directory %s: %w", d, err)
		}
	}

	// Default description file content, matching what a repo created
	// on github.com gets.
	descPath := ginternals.DescriptionFilePath(b.config)
	if _, err := b.fs.Stat(descPath); errors.Is(err, os.ErrNotExist) {
		content := []byte("Unnamed repository; edit this file 'description' to name the repository.\n")
		if err := afero.WriteFile(b.fs, descPath, content, 0o644); err != nil {
			return fmt.Errorf("could not create file %s: %w", descPath, err)
		}
	}

	excludesPath := ginternals.ExcludesFilePath(b.config)
	if _, err := b.fs.Stat(excludesPath); errors.Is(err, os.ErrNotExist) {
		content := []byte("# git ls-files --others --exclude-from=.git/info/exclude\n" +
			"# Lines that start with '#' are comments.\n" +
			"# For a project mostly in C, the following would be a good set of\n" +
			"# exclude patterns (uncomment them if you want to use them):\n" +
			"# *.[oa]\n" +
			"# *~\n")
		if err := afero.WriteFile(b.fs, excludesPath, content, 0o644); err != nil {
			return fmt.Errorf("could not create file %s: %w", excludesPath, err)
		}
	}

	if !confFileExists {
		fromFile := b.config.FromFile()
		fromFile.UpdateRepoFormatVersion("0")
		fromFile.UpdateIsBare(false)
		if err := fromFile.Save(); err != nil {
			return fmt.Errorf("could not save the config: %w", err)
		}
	}

	ref := ginternals.NewSymbolicReference(ginternals.Head, ginternals.LocalBranchFullName(branchName))
	if err := b.WriteReferenceSafe(ref); err != nil {
		if errors.Is(err, ginternals.ErrRefExists) {
			return err
		}
		return fmt.Errorf("could not write HEAD: %w", err)
	}

	return nil
}
