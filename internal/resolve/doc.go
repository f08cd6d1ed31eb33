// Package resolve answers the questions the command rewrites ask about the
// environment hub runs in.
//
// A single [Resolver] is created per invocation. It knows:
//
//   - the local repository and its remotes (origin first)
//   - the GitHub project each remote points at, after undoing ssh host aliases
//   - the current branch, its upstream and the default branch
//   - the current user per host and the preferred clone protocol
//   - which hosts count as GitHub hosts ("hub.host" plus the default host)
//
// All git queries go through a memoizing [git.Reader], so asking the same
// question twice never runs git twice.
//
// # Failure Policy
//
// Things that may legitimately be missing (no upstream, detached HEAD, a
// remote on an unknown host) are reported as absence with a boolean.
// Only operations that cannot proceed without a repository or a user
// identity return a [*FatalError].
package resolve
