// Package git is the entry point of the library. It exposes a
// Repository type that wraps the on-disk storage backend and the
// object/reference helpers found in ginternals.
package git

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Nivl/git-go/backend"
	"github.com/Nivl/git-go/env"
	"github.com/Nivl/git-go/ginternals"
	"github.com/Nivl/git-go/ginternals/config"
	"github.com/Nivl/git-go/ginternals/object"
	"github.com/spf13/afero"
)

// List of errors returned by the Repository struct
var (
	ErrRepositoryNotExist           = errors.New("repository does not exist")
	ErrRepositoryUnsupportedVersion = errors.New("repository nor supported")
	ErrRepositoryExists             = errors.New("repository already exists")
	ErrTagExists                    = errors.New("tag already exists")
	ErrTagNotFound                  = errors.New("tag not found")
)

// Repository represent a git repository
// A Git repository is the .git/ folder inside a project.
// This repository tracks all changes made to files in your project,
// building a history over time.
// https://blog.axosoft.com/learning-git-repository/
type Repository struct {
	// Config holds the resolved configuration (paths, env overrides,
	// config files) this repository was opened or created with.
	Config *config.Config

	dotGit   *backend.Backend
	workTree afero.Fs
}

// InitOptions contains all the optional data used to initialized a
// repository
type InitOptions struct {
	// IsBare represents whether a bare repository will be created or not
	IsBare bool
	// InitialBranchName is the name given to the first branch.
	// Defaults to ginternals.Master
	InitialBranchName string
	// Symlink creates a .git FILE pointing at the real git directory
	// instead of a regular directory, mirroring --separate-git-dir.
	Symlink bool
	// WorkingTreeBackend represents the underlying filesystem used to
	// interact with the working tree.
	// By default the OS filesystem will be used.
	// Setting this is useless if IsBare is set to true
	WorkingTreeBackend afero.Fs
}

// InitRepository initialize a new git repository by creating the .git
// directory in the given path, which is where almost everything that
// Git stores and manipulates is located.
// https://git-scm.com/book/en/v2/Git-Internals-Plumbing-and-Porcelain#ch10-git-internals
func InitRepository(repoPath string) (*Repository, error) {
	return InitRepositoryWithOptions(repoPath, InitOptions{})
}

// InitRepositoryWithOptions initialize a new git repository in the
// given path using the provided options.
func InitRepositoryWithOptions(repoPath string, opts InitOptions) (*Repository, error) {
	cfg, err := config.LoadConfigSkipEnv(config.LoadConfigOptions{
		WorkingDirectory: repoPath,
		IsBare:           opts.IsBare,
		SkipGitDirLookUp: true,
	})
	if err != nil {
		return nil, fmt.Errorf("could not generate config: %w", err)
	}
	return InitRepositoryWithParams(cfg, opts)
}

// InitRepositoryWithParams initializes a new git repository using an
// already built config.Config, bypassing all the default path
// resolution logic. This is mostly useful to point $GIT_DIR and
// $GIT_OBJECT_DIRECTORY to custom locations.
func InitRepositoryWithParams(cfg *config.Config, opts InitOptions) (*Repository, error) {
	r := &Repository{
		Config: cfg,
	}

	if !opts.IsBare {
		r.workTree = opts.WorkingTreeBackend
		if r.workTree == nil {
			r.workTree = afero.NewOsFs()
		}
	}

	dotGit, err := backend.NewFS(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create backend: %w", err)
	}
	r.dotGit = dotGit

	branchName := opts.InitialBranchName
	if branchName == "" {
		branchName = ginternals.Master
	}

	initErr := r.dotGit.InitWithOptions(branchName, backend.InitOptions{
		CreateSymlink: opts.Symlink,
		SymlinkTarget: cfg.GitDirPath,
	})
	if initErr != nil {
		if errors.Is(initErr, ginternals.ErrRefExists) {
			return nil, ErrRepositoryExists
		}
		return nil, fmt.Errorf("could not initialize repository: %w", initErr)
	}

	return r, nil
}

// OpenOptions contains all the optional data used to open a
// repository
type OpenOptions struct {
	// IsBare represents whether the repository being opened is bare
	IsBare bool
	// WorkingTreeBackend represents the underlying filesystem used to
	// interact with the working tree.
	// By default the OS filesystem will be used.
	// Setting this is useless if IsBare is set to true
	WorkingTreeBackend afero.Fs
}

// OpenRepository loads an existing git repository by reading its
// config file, and returns a Repository instance
func OpenRepository(repoPath string) (*Repository, error) {
	return OpenRepositoryWithOptions(repoPath, OpenOptions{})
}

// OpenRepositoryWithOptions loads an existing git repository by reading
// its config file, and returns a Repository instance
func OpenRepositoryWithOptions(repoPath string, opts OpenOptions) (*Repository, error) {
	gitDirPath := repoPath
	workTreePath := ""
	if !opts.IsBare {
		gitDirPath = filepath.Join(repoPath, ".git")
		workTreePath = repoPath
	}

	cfg, err := config.LoadConfig(env.NewFromOs(), config.LoadConfigOptions{
		GitDirPath:   gitDirPath,
		WorkTreePath: workTreePath,
		IsBare:       opts.IsBare,
	})
	if err != nil {
		return nil, fmt.Errorf("could not generate config: %w", err)
	}
	return OpenRepositoryWithParams(cfg, opts)
}

// OpenRepositoryWithParams loads an existing git repository using an
// already built config.Config, bypassing all the default path
// resolution logic.
func OpenRepositoryWithParams(cfg *config.Config, opts OpenOptions) (*Repository, error) {
	r := &Repository{
		Config: cfg,
	}

	if !opts.IsBare {
		r.workTree = opts.WorkingTreeBackend
		if r.workTree == nil {
			r.workTree = afero.NewOsFs()
		}
	}

	dotGit, err := backend.NewFS(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create backend: %w", err)
	}
	r.dotGit = dotGit

	// since we can't check if the directory exists on disk to validate
	// if the repo exists, we instead check that HEAD exists, since it
	// should always be there
	if _, err := r.dotGit.Reference(ginternals.Head); err != nil {
		return nil, ErrRepositoryNotExist
	}

	return r, nil
}

// IsBare returns whether the repository has no working tree
func (r *Repository) IsBare() bool {
	return r.workTree == nil
}

// Close releases any resource held by the repository
func (r *Repository) Close() error {
	return r.dotGit.Close()
}

// GetObject returns the object matching the given Oid
func (r *Repository) GetObject(oid ginternals.Oid) (*object.Object, error) {
	o, err := r.dotGit.Object(oid)
	if err != nil {
		return nil, fmt.Errorf("could not get object %s: %w", oid.String(), err)
	}
	return o, nil
}

// NewBlob creates, persists, and returns a new Blob object
func (r *Repository) NewBlob(data []byte) (*object.Blob, error) {
	o := object.New(object.TypeBlob, data)
	if _, err := r.dotGit.WriteObject(o); err != nil {
		return nil, fmt.Errorf("could not persist blob: %w", err)
	}
	return object.NewBlob(o), nil
}

// WriteObject persists an already built object to the object database,
// returning its Oid. Writing an object that's already there is a no-op.
func (r *Repository) WriteObject(o *object.Object) (ginternals.Oid, error) {
	oid, err := r.dotGit.WriteObject(o)
	if err != nil {
		return ginternals.NullOid, fmt.Errorf("could not persist object: %w", err)
	}
	return oid, nil
}

// GetCommit returns the commit matching the given Oid
func (r *Repository) GetCommit(oid ginternals.Oid) (*object.Commit, error) {
	o, err := r.GetObject(oid)
	if err != nil {
		return nil, err
	}
	c, err := o.AsCommit()
	if err != nil {
		return nil, fmt.Errorf("could not parse commit %s: %w", oid.String(), err)
	}
	return c, nil
}

// GetTree returns the tree matching the given Oid
func (r *Repository) GetTree(oid ginternals.Oid) (*object.Tree, error) {
	o, err := r.GetObject(oid)
	if err != nil {
		return nil, err
	}
	t, err := o.AsTree()
	if err != nil {
		return nil, fmt.Errorf("could not parse tree %s: %w", oid.String(), err)
	}
	return t, nil
}

// GetReference returns the reference matching the given name, resolving
// symbolic references along the way
func (r *Repository) GetReference(name string) (*ginternals.Reference, error) {
	ref, err := r.dotGit.Reference(name)
	if err != nil {
		return nil, fmt.Errorf("could not get reference %s: %w", name, err)
	}
	return ref, nil
}

// UpdateReference creates or overwrites the reference called name so it
// points directly at target, used for detaching HEAD onto a raw commit.
func (r *Repository) UpdateReference(name string, target ginternals.Oid) (*ginternals.Reference, error) {
	ref := ginternals.NewReference(name, target)
	if err := r.dotGit.WriteReference(ref); err != nil {
		return nil, fmt.Errorf("could not update reference %s: %w", name, err)
	}
	return ref, nil
}

// UpdateSymbolicReference creates or overwrites the symbolic reference
// called name so it points at target, used to move HEAD onto a branch.
func (r *Repository) UpdateSymbolicReference(name, target string) (*ginternals.Reference, error) {
	ref := ginternals.NewSymbolicReference(name, target)
	if err := r.dotGit.WriteReference(ref); err != nil {
		return nil, fmt.Errorf("could not update reference %s: %w", name, err)
	}
	return ref, nil
}

// ListReferences returns every known reference, resolved to its
// target Oid, keyed by its full name (ex. "refs/heads/main").
// HEAD is included only when it does not point at a branch (i.e. a
// detached HEAD), matching `show-ref`'s behavior.
func (r *Repository) ListReferences() (map[string]ginternals.Oid, error) {
	out := map[string]ginternals.Oid{}
	err := r.dotGit.WalkReferences(func(ref *ginternals.Reference) error {
		if ref.Name() == ginternals.Head && ref.Type() == ginternals.SymbolicReference {
			return nil
		}
		out[ref.Name()] = ref.Target()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not list references: %w", err)
	}
	return out, nil
}

// GetTag returns the reference of the tag with the given short name
// (ex. "v1.0.0")
func (r *Repository) GetTag(name string) (*ginternals.Reference, error) {
	ref, err := r.dotGit.Reference(ginternals.LocalTagFullName(name))
	if err != nil {
		if errors.Is(err, ginternals.ErrRefNotFound) {
			return nil, fmt.Errorf("tag %s: %w", name, ErrTagNotFound)
		}
		return nil, fmt.Errorf("could not get tag %s: %w", name, err)
	}
	return ref, nil
}

// NewCommit creates a new commit, persists it, and updates the
// reference given in refName to point to it.
func (r *Repository) NewCommit(refName string, tree *object.Tree, author object.Signature, opts *object.CommitOptions) (*object.Commit, error) {
	for _, pid := range opts.ParentsID {
		parent, err := r.GetObject(pid)
		if err != nil {
			return nil, fmt.Errorf("could not get parent %s: %w", pid.String(), err)
		}
		if parent.Type() != object.TypeCommit {
			return nil, fmt.Errorf("invalid type for parent %s: got %s", pid.String(), parent.Type().String())
		}
	}

	c := object.NewCommit(tree.ID(), author, opts)
	if _, err := r.dotGit.WriteObject(c.ToObject()); err != nil {
		return nil, fmt.Errorf("could not persist commit: %w", err)
	}

	ref := ginternals.NewReference(refName, c.ID())
	if err := r.dotGit.WriteReference(ref); err != nil {
		return nil, fmt.Errorf("could not update reference %s: %w", refName, err)
	}

	return c, nil
}

// NewDetachedCommit creates a new commit and persists it without
// updating any reference.
func (r *Repository) NewDetachedCommit(tree *object.Tree, author object.Signature, opts *object.CommitOptions) (*object.Commit, error) {
	for _, pid := range opts.ParentsID {
		parent, err := r.GetObject(pid)
		if err != nil {
			return nil, fmt.Errorf("could not get parent %s: %w", pid.String(), err)
		}
		if parent.Type() != object.TypeCommit {
			return nil, fmt.Errorf("invalid type for parent %s: got %s", pid.String(), parent.Type().String())
		}
	}

	c := object.NewCommit(tree.ID(), author, opts)
	if _, err := r.dotGit.WriteObject(c.ToObject()); err != nil {
		return nil, fmt.Errorf("could not persist commit: %w", err)
	}
	return c, nil
}

// NewTag creates a new annotated tag, persists it, and creates the
// refs/tags/<name> reference pointing to it.
func (r *Repository) NewTag(p *object.TagParams) (*object.Tag, error) {
	fullName := ginternals.LocalTagFullName(p.Name)
	if _, err := r.dotGit.Reference(fullName); err == nil {
		return nil, fmt.Errorf("tag %s: %w", p.Name, ErrTagExists)
	}

	tag, err := object.NewTag(p)
	if err != nil {
		return nil, err
	}
	if _, err := r.GetObject(p.Target.ID()); err != nil {
		return nil, fmt.Errorf("tag target must be a persisted object: %w", object.ErrObjectInvalid)
	}
	if _, err := r.dotGit.WriteObject(tag.ToObject()); err != nil {
		return nil, fmt.Errorf("could not persist tag: %w", err)
	}

	ref := ginternals.NewReference(fullName, tag.ID())
	if err := r.dotGit.WriteReferenceSafe(ref); err != nil {
		if errors.Is(err, ginternals.ErrRefExists) {
			return nil, fmt.Errorf("tag %s: %w", p.Name, ErrTagExists)
		}
		return nil, fmt.Errorf("could not write tag reference: %w", err)
	}

	return tag, nil
}

// NewLightweightTag creates the refs/tags/<name> reference pointing
// directly at the given (already persisted) object.
func (r *Repository) NewLightweightTag(name string, target ginternals.Oid) (*ginternals.Reference, error) {
	if _, err := r.GetObject(target); err != nil {
		return nil, fmt.Errorf("tag target must be a persisted object: %w", object.ErrObjectInvalid)
	}

	ref := ginternals.NewReference(ginternals.LocalTagFullName(name), target)
	if err := r.dotGit.WriteReferenceSafe(ref); err != nil {
		if errors.Is(err, ginternals.ErrRefExists) {
			return nil, fmt.Errorf("tag %s: %w", name, ErrTagExists)
		}
		return nil, fmt.Errorf("could not write tag reference: %w", err)
	}
	return ref, nil
}
