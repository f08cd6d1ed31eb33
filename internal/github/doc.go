// Package github models GitHub repositories and talks to the GitHub REST API.
//
// # Projects
//
// A [Project] is an owner/name pair on a host. It knows how to render the
// URLs hub writes into git commands:
//
//   - [Project.GitURL]: clone/fetch URL. https when requested, ssh
//     ("git@host:owner/name.git") for private repositories, the anonymous
//     git protocol otherwise.
//   - [Project.WebURL]: browser URL. Repositories named "x.wiki" map onto the
//     wiki pages of "x".
//
// [ParseURL] turns a web URL such as https://github.com/owner/name/pull/12
// back into a project plus the remaining path ("pull/12").
//
// # API
//
// [Client] covers the handful of endpoints the command rewrites need:
// repository lookup, creation and forking, pull request lookup and
// creation, and commit statuses. Failed calls return an [*APIError]
// carrying the HTTP status and GitHub's error details; [FormatError]
// renders them for the terminal.
//
// GitHub Enterprise hosts are reached at https://<host>/api/v3.
package github
