// Package args holds the argument list of a git invocation and the chain
// of commands that will run around it.
//
// Rewrite rules edit the tokens in place and attach extra steps:
//
//	a := args.New("git", []string{"fetch", "mislav"})
//	a.BeforeGit("remote", "add", "mislav", "git://github.com/mislav/hub.git")
//	a.AfterExec("echo", "done")
//
//	for _, s := range a.Commands() {
//	    fmt.Println(s)
//	}
//	// git remote add mislav git://github.com/mislav/hub.git
//	// git fetch mislav
//	// echo done
//
// # Chain Ordering
//
// Before-steps run in the order they were added, all ahead of the primary
// invocation; after-steps run in the order they were added, all behind it.
// [Args.Skip] removes only the primary invocation.
//
// # Steps
//
// A step either spawns a program ([StepSpawn]) or calls a function inside
// the hub process ([StepInvoke]), used for work such as downloading a patch
// before "git am" reads it.
package args
