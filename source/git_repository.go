package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/sirupsen/logrus"
)

// GitRepository is a struct that implements the Repository interface for
// handling a schema document stored within a Git repository.
// The repository is cloned into memory once and pulled on every refresh.
// Hosted providers rate-limit clones and pulls, so prefer a bucket source
// fed by CI for short refresh intervals.
type GitRepository struct {
	snapshot
	Name          string           // Name of the configuration source
	URL           *url.URL         // URL representing the Git repository URL
	Path          string           // Path to the document within the Git repository
	Branch        string           // Branch to use when cloning the Git repository
	Auth          *http.BasicAuth  // BasicAuth to use when cloning the Git repository
	gitMu         sync.Mutex       // Serializes clone and pull
	gitRepository *git.Repository  // Go-Git repository instance for the in-memory clone
	fs            billy.Filesystem // Filesystem to store the in-memory clone of the repository
}

// NewGitRepository creates a GitRepository for the document at path inside
// the repository at rawURL.
func NewGitRepository(name, rawURL, path, branch string) (*GitRepository, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("git repository %s: path is required", rawURL)
	}
	return &GitRepository{Name: name, URL: u, Path: path, Branch: branch}, nil
}

// GetName returns the name of the configuration source.
func (g *GitRepository) GetName() string {
	return g.Name
}

// Refresh clones or pulls the Git repository and reloads the document.
func (g *GitRepository) Refresh() error {
	g.gitMu.Lock()
	defer g.gitMu.Unlock()

	if err := g.sync(context.Background()); err != nil {
		return err
	}

	data, err := readFile(g.fs, g.Path)
	if err != nil {
		return err
	}
	return g.store(data)
}

func (g *GitRepository) sync(ctx context.Context) error {
	// If the in-memory clone of the Git repository does not exist, create it.
	if g.gitRepository == nil {
		fs := memfs.New()
		logrus.Debugf("Cloning %s into memory", g.URL.String())
		opts := &git.CloneOptions{
			URL:  g.URL.String(),
			Auth: g.Auth,
		}
		if g.Auth == nil {
			opts.Auth = nil
		}
		r, err := git.CloneContext(ctx, memory.NewStorage(), fs, opts)
		if err != nil {
			return fmt.Errorf("cloning %s: %w", g.URL, err)
		}

		if g.Branch != "" {
			// Checkout the specified Branch.
			w, err := r.Worktree()
			if err != nil {
				return err
			}

			err = r.FetchContext(ctx, &git.FetchOptions{
				RefSpecs: []config.RefSpec{"refs/*:refs/*", "HEAD:refs/heads/HEAD"},
				Auth:     opts.Auth,
			})
			if err != nil && err != git.NoErrAlreadyUpToDate {
				return err
			}

			err = w.Checkout(&git.CheckoutOptions{
				Branch: plumbing.NewBranchReferenceName(g.Branch),
				Force:  true,
			})
			if err != nil {
				return err
			}
		}

		logrus.Debug("Cloned")
		g.gitRepository = r
		g.fs = fs
		return nil
	}

	// Pull the latest changes from the Git repository.
	w, err := g.gitRepository.Worktree()
	if err != nil {
		return err
	}
	logrus.Debug("Pulling")

	pullOptions := &git.PullOptions{}
	if g.Auth != nil {
		pullOptions.Auth = g.Auth
	}
	if g.Branch != "" {
		pullOptions.ReferenceName = plumbing.NewBranchReferenceName(g.Branch)
		pullOptions.Force = true
		pullOptions.SingleBranch = true
	}

	err = w.PullContext(ctx, pullOptions)
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return err
	}
	if err == git.NoErrAlreadyUpToDate {
		logrus.Debug("Already up to date")
	} else {
		logrus.Debug("Pulled")
	}
	return nil
}

// readFile reads the document at path from the cloned worktree.
func readFile(fs billy.Filesystem, path string) ([]byte, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func(file billy.File) {
		err := file.Close()
		if err != nil {
			logrus.WithError(err).Error("error closing file")
		}
	}(file)

	return io.ReadAll(file)
}
