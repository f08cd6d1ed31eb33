// Package commands holds the rewrite rules that turn a hub invocation
// into the git commands that actually run.
//
// [Run] looks up the rule for the subcommand and lets it edit the
// [args.Args] in place. Rules that only expand shorthand (clone, remote,
// fetch) change tokens; rules for pull request URLs (checkout, merge, am)
// also add before-steps that fetch or download first; commands that exist
// only in hub (create, fork, pull-request, browse, compare, ci-status)
// replace the invocation altogether.
//
// # Exits
//
// A rule that must stop hub before anything runs returns an [*ExitError].
// Its Message, when set, goes to stderr. Commands that print their result
// themselves, such as ci-status and alias, return an ExitError with an
// empty message and the status to exit with.
package commands
