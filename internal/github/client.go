package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// User is the owner of a repository.
type User struct {
	Login string `json:"login"`
}

// Repository is the API representation of a repository.
type Repository struct {
	Name     string      `json:"name"`
	FullName string      `json:"full_name"`
	Private  bool        `json:"private"`
	HTMLURL  string      `json:"html_url"`
	Owner    User        `json:"owner"`
	Parent   *Repository `json:"parent"`
}

// PullRequestRef is one side of a pull request.
type PullRequestRef struct {
	Label string      `json:"label"` // "owner:branch"
	Ref   string      `json:"ref"`
	SHA   string      `json:"sha"`
	Repo  *Repository `json:"repo"` // nil when the fork was deleted
}

// PullRequest is the API representation of a pull request.
type PullRequest struct {
	Number  int            `json:"number"`
	Title   string         `json:"title"`
	HTMLURL string         `json:"html_url"`
	Head    PullRequestRef `json:"head"`
	Base    PullRequestRef `json:"base"`
}

// Status is a single commit status.
type Status struct {
	State       string `json:"state"`
	Context     string `json:"context"`
	Description string `json:"description"`
	TargetURL   string `json:"target_url"`
}

// CreateRepoOptions are the settings of a new repository.
type CreateRepoOptions struct {
	Private     bool
	Description string
	Homepage    string
}

// PullRequestOptions describe a pull request to open. Either Title or
// Issue must be set; Issue converts an existing issue into a pull request.
type PullRequestOptions struct {
	Base  string
	Head  string
	Title string
	Body  string
	Issue string
}

// ErrorDetail is one entry of the "errors" list of an API error.
type ErrorDetail struct {
	Resource string `json:"resource"`
	Field    string `json:"field"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// APIError is a failed API response.
type APIError struct {
	Status  int           `json:"-"`
	Message string        `json:"message"`
	Errors  []ErrorDetail `json:"errors"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
}

// Details returns the human readable reasons attached to the error.
func (e *APIError) Details() []string {
	var out []string
	for _, d := range e.Errors {
		switch {
		case d.Message != "":
			out = append(out, d.Message)
		case d.Code == "custom":
			continue
		case d.Code == "missing_field":
			out = append(out, fmt.Sprintf("Missing field: %q", d.Field))
		case d.Code == "invalid" && d.Field != "":
			out = append(out, fmt.Sprintf("Invalid value for %q", d.Field))
		case d.Code == "already_exists":
			out = append(out, fmt.Sprintf("Duplicate value for %q", d.Field))
		default:
			out = append(out, fmt.Sprintf("%s: %s", d.Resource, d.Code))
		}
	}
	return out
}

// IsNotFound reports whether err is a 404 API response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// FormatError renders err the way hub reports failed API calls:
// "Error <action>: <message> (HTTP <status>)" followed by one line per detail.
func FormatError(action string, err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error %s: %s", action, err)
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		for _, d := range apiErr.Details() {
			b.WriteString("\n")
			b.WriteString(d)
		}
	}
	return b.String()
}

// Client talks to the REST API of one GitHub host.
type Client struct {
	Host      string
	User      string // the authenticated user; decides where new repositories go
	Token     string
	BaseURL   string
	UserAgent string
	HTTP      *http.Client
}

// NewClient returns a client for host authenticated with token, which may be empty.
func NewClient(host, token string) *Client {
	return &Client{
		Host:      host,
		Token:     token,
		BaseURL:   apiBase(host),
		UserAgent: "hub",
		HTTP:      &http.Client{Timeout: 30 * time.Second},
	}
}

func apiBase(host string) string {
	if NormalizeHost(host) == MainHost {
		return "https://api.github.com"
	}
	return "https://" + host + "/api/v3"
}

// RepoInfo fetches a repository.
func (c *Client) RepoInfo(ctx context.Context, p *Project) (*Repository, error) {
	var repo Repository
	if err := c.do(ctx, http.MethodGet, "repos/"+p.NameWithOwner(), nil, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// CreateRepo creates p under the authenticated user, or under the
// organization named by p.Owner.
func (c *Client) CreateRepo(ctx context.Context, p *Project, opts CreateRepoOptions) (*Repository, error) {
	endpoint := "user/repos"
	if !strings.EqualFold(p.Owner, c.User) {
		endpoint = "orgs/" + p.Owner + "/repos"
	}
	body := map[string]any{"name": p.Name, "private": opts.Private}
	if opts.Description != "" {
		body["description"] = opts.Description
	}
	if opts.Homepage != "" {
		body["homepage"] = opts.Homepage
	}
	var repo Repository
	if err := c.do(ctx, http.MethodPost, endpoint, body, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// ForkRepo forks p into the authenticated user's account.
func (c *Client) ForkRepo(ctx context.Context, p *Project) (*Repository, error) {
	var repo Repository
	if err := c.do(ctx, http.MethodPost, "repos/"+p.NameWithOwner()+"/forks", nil, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// PullRequestInfo fetches pull request id of p.
func (c *Client) PullRequestInfo(ctx context.Context, p *Project, id string) (*PullRequest, error) {
	var pr PullRequest
	if err := c.do(ctx, http.MethodGet, "repos/"+p.NameWithOwner()+"/pulls/"+id, nil, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// CreatePullRequest opens a pull request against p.
func (c *Client) CreatePullRequest(ctx context.Context, p *Project, opts PullRequestOptions) (*PullRequest, error) {
	body := map[string]any{"base": opts.Base, "head": opts.Head}
	if opts.Issue != "" {
		body["issue"] = opts.Issue
	} else {
		body["title"] = opts.Title
		if opts.Body != "" {
			body["body"] = opts.Body
		}
	}
	var pr PullRequest
	if err := c.do(ctx, http.MethodPost, "repos/"+p.NameWithOwner()+"/pulls", body, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// Statuses lists the commit statuses of sha, most recent first.
func (c *Client) Statuses(ctx context.Context, p *Project, sha string) ([]Status, error) {
	var statuses []Status
	if err := c.do(ctx, http.MethodGet, "repos/"+p.NameWithOwner()+"/statuses/"+sha, nil, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimSuffix(c.BaseURL, "/")+"/"+endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.UserAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "token "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse API response: %w", err)
	}
	return nil
}
