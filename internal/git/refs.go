package git

import (
	"context"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// RefReader answers ref lookups from the object store without spawning git.
type RefReader struct {
	repo *gogit.Repository
}

func OpenRefs(root string) (*RefReader, error) {
	repo, err := gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, err
	}
	return &RefReader{repo: repo}, nil
}

func (r *RefReader) HasBranch(name string) bool {
	_, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), false)
	return err == nil
}

func (r *RefReader) HasRemoteBranch(remote, name string) bool {
	_, err := r.repo.Reference(plumbing.NewRemoteReferenceName(remote, name), false)
	return err == nil
}

func (r *RefReader) HasRemote(name string) bool {
	_, err := r.repo.Remote(name)
	return err == nil
}

// RemoteHead returns the branch a remote's HEAD points at.
func (r *RefReader) RemoteHead(remote string) (string, bool) {
	ref, err := r.repo.Reference(plumbing.NewRemoteHEADReferenceName(remote), false)
	if err != nil || ref.Type() != plumbing.SymbolicReference {
		return "", false
	}
	return strings.TrimPrefix(ref.Target().Short(), remote+"/"), true
}

// RefNames lists local and remote-tracking branch ref names.
func (r *RefReader) RefNames() ([]string, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, err
	}
	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		n := ref.Name()
		if n.IsBranch() || (n.IsRemote() && ref.Type() == plumbing.HashReference) {
			names = append(names, n.String())
		}
		return nil
	})
	return names, err
}

func (g *Git) refReader() *RefReader {
	g.refsOnce.Do(func() {
		if r, err := OpenRefs(g.RepoRoot); err == nil {
			g.refs = r
		}
	})
	return g.refs
}

// Branches returns local and remote branch names with the remote prefix
// stripped, deduplicated and sorted.
func (g *Git) Branches(ctx context.Context) ([]string, error) {
	var refs []string
	if r := g.refReader(); r != nil {
		if names, err := r.RefNames(); err == nil {
			refs = names
		}
	}
	if refs == nil {
		out, err := g.run(ctx, g.RepoRoot, "for-each-ref", "--format=%(refname)", "refs/heads", "refs/remotes")
		if err != nil {
			return nil, err
		}
		refs = strings.Fields(out)
	}
	return shortBranchNames(refs), nil
}

func shortBranchNames(refs []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, ref := range refs {
		var name string
		switch {
		case strings.HasPrefix(ref, "refs/heads/"):
			name = strings.TrimPrefix(ref, "refs/heads/")
		case strings.HasPrefix(ref, "refs/remotes/"):
			_, name, _ = strings.Cut(strings.TrimPrefix(ref, "refs/remotes/"), "/")
		default:
			continue
		}
		if name == "" || name == "HEAD" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (g *Git) BranchExists(ctx context.Context, name string) bool {
	if r := g.refReader(); r != nil {
		return r.HasBranch(name)
	}
	_, err := g.run(ctx, g.RepoRoot, "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil
}

// RemoteBranchExists reports whether refs/remotes/<remote>/<name> exists.
func (g *Git) RemoteBranchExists(ctx context.Context, remote, name string) bool {
	if r := g.refReader(); r != nil {
		return r.HasRemoteBranch(remote, name)
	}
	_, err := g.run(ctx, g.RepoRoot, "show-ref", "--verify", "--quiet", "refs/remotes/"+remote+"/"+name)
	return err == nil
}

func (g *Git) HasRemote(ctx context.Context, name string) bool {
	if r := g.refReader(); r != nil {
		return r.HasRemote(name)
	}
	out, err := g.run(ctx, g.RepoRoot, "remote")
	if err != nil {
		return false
	}
	for _, remote := range strings.Fields(out) {
		if remote == name {
			return true
		}
	}
	return false
}

// MainBranch resolves the branch worktrees are compared against: the
// configured name, else main, else master, else origin's HEAD.
func (g *Git) MainBranch(ctx context.Context, configured string) string {
	if configured != "" {
		return configured
	}
	for _, name := range []string{"main", "master"} {
		if g.BranchExists(ctx, name) {
			return name
		}
	}
	if r := g.refReader(); r != nil {
		if head, ok := r.RemoteHead("origin"); ok {
			return head
		}
	}
	return "main"
}
