package resolve

import (
	"context"
	"regexp"
)

var (
	shortNameRE  = regexp.MustCompile(`^refs/(remotes/)?.+?/`)
	remoteNameRE = regexp.MustCompile(`^refs/remotes/([^/]+)`)
)

// Branch is a full ref name such as refs/heads/main or refs/remotes/origin/main.
type Branch struct {
	r    *Resolver
	Name string
}

func (r *Resolver) branch(name string) *Branch {
	return &Branch{r: r, Name: name}
}

func shortName(ref string) string {
	return shortNameRE.ReplaceAllString(ref, "")
}

// ShortName strips the refs/heads/ or refs/remotes/<remote>/ prefix.
func (b *Branch) ShortName() string {
	return shortName(b.Name)
}

// IsRemote reports whether the branch is a remote-tracking ref.
func (b *Branch) IsRemote() bool {
	return remoteNameRE.MatchString(b.Name)
}

// RemoteName returns the remote of a remote-tracking ref, empty otherwise.
func (b *Branch) RemoteName() string {
	if m := remoteNameRE.FindStringSubmatch(b.Name); m != nil {
		return m[1]
	}
	return ""
}

// IsDefault reports whether the branch is the repository's default branch.
func (b *Branch) IsDefault(ctx context.Context) bool {
	return b.ShortName() == b.r.MasterBranch(ctx).ShortName()
}

// Upstream returns the ref the branch tracks.
func (b *Branch) Upstream(ctx context.Context) (*Branch, bool) {
	ref, ok := b.r.git.Command(ctx, "rev-parse", "--symbolic-full-name", b.ShortName()+"@{upstream}")
	if !ok {
		return nil, false
	}
	return b.r.branch(ref), true
}

func (b *Branch) String() string {
	return b.Name
}
