package domain

import "time"

// ResourceKind is one of the three analyzed endpoints.
type ResourceKind string

// Resource kinds, named after the REST path segment they are listed under.
const (
	KindCommits ResourceKind = "commits"
	KindPulls   ResourceKind = "pulls"
	KindIssues  ResourceKind = "issues"
)

// BranchParam returns the query key that carries the branch filter.
// The commits endpoint filters by "sha", pulls and issues by "base".
func (k ResourceKind) BranchParam() string {
	if k == KindCommits {
		return "sha"
	}
	return "base"
}

// Item states recognized by the aggregator.
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// RawRecord is a single item returned by one of the list endpoints.
// Only the fields the aggregator needs are decoded.
type RawRecord struct {
	State     string    `json:"state,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Account is the GitHub user linked to a commit; null when the commit
	// email is not associated with any account.
	Account *Account    `json:"author,omitempty"`
	Commit  *CommitData `json:"commit,omitempty"`
}

// Account is the structured identity GitHub attaches to a commit.
type Account struct {
	Login string `json:"login"`
}

// CommitData is the git-level commit payload.
type CommitData struct {
	Author *CommitAuthor `json:"author,omitempty"`
}

// CommitAuthor is the free-text author recorded in the commit itself.
type CommitAuthor struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

// AuthorKind tags which shape an Author was taken from.
type AuthorKind int

const (
	AuthorUnknown AuthorKind = iota
	AuthorLogin
	AuthorName
)

// Author is the identity a commit is attributed to.
type Author struct {
	Kind  AuthorKind
	Value string
}

// Key is the value contributors are grouped by. Both shapes reconcile to the
// bare handle or name, so "alice" as a login and "alice" as a name count once.
func (a Author) Key() string {
	if a.Kind == AuthorUnknown {
		return ""
	}
	return a.Value
}

// Author returns the commit's author, preferring the linked account's login
// over the name written in the commit.
func (r RawRecord) Author() Author {
	if r.Account != nil && r.Account.Login != "" {
		return Author{Kind: AuthorLogin, Value: r.Account.Login}
	}
	if r.Commit != nil && r.Commit.Author != nil && r.Commit.Author.Name != "" {
		return Author{Kind: AuthorName, Value: r.Commit.Author.Name}
	}
	return Author{Kind: AuthorUnknown}
}
