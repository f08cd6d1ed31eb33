// Package git provides read-only git queries via shell commands.
//
// All queries call the git CLI directly rather than using Go git libraries,
// so user configuration (includes, aliases, credential helpers, "-c"
// overrides) is honoured exactly as git itself would.
//
// # Reader
//
// [Reader] is the single entry point. It runs plumbing commands such as
// "rev-parse" and "config" and memoizes every answer, so the command
// rewrite rules can ask the same question repeatedly without spawning git
// again:
//
//   - [Reader.Command], [Reader.Lines]: raw queries
//   - [Reader.Config], [Reader.ConfigAll], [Reader.ConfigBool]: git config lookups
//   - [Reader.StubConfig]: seed a config value given on the command line
//   - [Reader.AliasFor]: alias definitions
//
// Global options that change where git operates ("-C", "--git-dir", ...)
// are attached once with [Reader.AddExecFlags] and apply to every later
// query.
package git
