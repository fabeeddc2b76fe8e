// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// ContributorCounts maps an author key to the number of commits attributed to it.
type ContributorCounts map[string]int

// ResourceCounts holds the opened, closed and stale totals for pulls or issues.
// A nil *ResourceCounts means there was nothing to report for the resource kind.
type ResourceCounts struct {
	Opened int `json:"opened"`
	Closed int `json:"closed"`
	Stale  int `json:"stale"`
}

// IsZero reports whether all three counters are zero.
func (c ResourceCounts) IsZero() bool {
	return c.Opened == 0 && c.Closed == 0 && c.Stale == 0
}

// ContributorRow is a single line of the ranked contributor list.
type ContributorRow struct {
	Author  string `json:"author"`
	Commits int    `json:"commits"`
}

// RepositoryInfo is optional repository metadata looked up over GraphQL.
type RepositoryInfo struct {
	NameWithOwner string    `json:"name_with_owner"`
	Description   string    `json:"description,omitempty"`
	DefaultBranch string    `json:"default_branch"`
	CreatedAt     time.Time `json:"created_at"`
	Stars         int       `json:"stars"`
}

// Report is the result of one analysis run, handed to the output layer.
type Report struct {
	RunID      string          `json:"run_id,omitempty"`
	Repository RepositoryRef   `json:"repository"`
	Info       *RepositoryInfo `json:"info,omitempty"`
	Filters    Filters         `json:"filters"`

	// Contributors is ranked and truncated; ContributorCount and TotalCommits cover every author.
	Contributors     []ContributorRow `json:"contributors"`
	ContributorCount int              `json:"contributor_count"`
	TotalCommits     int              `json:"total_commits"`
	MeanCommits      float64          `json:"mean_commits"`
	MedianCommits    float64          `json:"median_commits"`

	Pulls       *ResourceCounts `json:"pulls"`
	Issues      *ResourceCounts `json:"issues"`
	GeneratedAt time.Time       `json:"generated_at"`
}
