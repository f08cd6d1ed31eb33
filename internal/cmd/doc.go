// Package cmd provides helpers for executing external commands with proper error handling.
//
// Two kinds of execution are supported:
//
//   - Captured runs ([RunContext], [OutputContext]) for plumbing queries. Stderr
//     is folded into the returned error so failures read like git's own message.
//   - Attached runs ([Spawn], [Replace]) for the commands the user actually
//     asked for. The child inherits stdio and its exit status is reported
//     back unchanged; [Replace] hands the process over to the child entirely
//     where the platform allows it.
//
// # Usage
//
//	out, err := cmd.OutputContext(ctx, "", "git", "rev-parse", "--git-dir")
//	if err != nil {
//	    // err contains stderr output if available
//	}
//
//	status, err := cmd.Spawn(ctx, cmd.Inherit(), "git", "fetch", "origin")
//
// Every execution is traced through the context logger when verbose output
// is enabled.
package cmd
