package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/repo-analyzer/internal/domain"
)

func sampleReport() *domain.Report {
	from := time.Date(2018, 2, 23, 0, 0, 0, 0, time.UTC)
	return &domain.Report{
		RunID:      "run-1",
		Repository: domain.RepositoryRef{Owner: "fastlane", Name: "fastlane"},
		Info:       &domain.RepositoryInfo{Description: "Deploy apps"},
		Filters:    domain.Filters{From: &from, Branch: "master"},
		Contributors: []domain.ContributorRow{
			{Author: "alice", Commits: 5},
			{Author: "bob", Commits: 5},
		},
		ContributorCount: 3,
		TotalCommits:     11,
		MedianCommits:    5,
		Pulls:            &domain.ResourceCounts{Opened: 4, Closed: 9, Stale: 2},
		Issues:           nil,
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "Repository: fastlane")
	assert.Contains(t, out, "About:      Deploy apps")
	assert.Contains(t, out, "Period:     2018-02-23..*")
	assert.Contains(t, out, "Commits: 11 (3 contributors")
	assert.Contains(t, out, "Author")
	assert.Contains(t, out, "opened: 4")
	assert.Contains(t, out, "closed: 9")
	assert.Contains(t, out, " stale: 2")
	assert.Contains(t, out, "No issues found.")
	assert.NotContains(t, out, "No pull requests found.")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("alice")), bytes.Index(buf.Bytes(), []byte("bob")))
}

func TestWriteText_Empty(t *testing.T) {
	var buf bytes.Buffer
	report := &domain.Report{Repository: domain.RepositoryRef{Owner: "o", Name: "r"}}
	require.NoError(t, WriteText(&buf, report))

	out := buf.String()
	assert.Contains(t, out, "No contributions found.")
	assert.Contains(t, out, "No pull requests found.")
	assert.Contains(t, out, "No issues found.")
	assert.NotContains(t, out, "Period:")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])
	assert.Equal(t, float64(11), decoded["total_commits"])
	// Absent counts are explicit nulls so consumers can tell them from zeros.
	assert.Contains(t, decoded, "issues")
	assert.Nil(t, decoded["issues"])
	assert.NotNil(t, decoded["pulls"])
}

func TestWrite_Format(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, "json", sampleReport()))
	assert.True(t, json.Valid(buf.Bytes()))

	buf.Reset()
	assert.NoError(t, Write(&buf, "text", sampleReport()))
	assert.Contains(t, buf.String(), "GitHub repository analysis")

	assert.Error(t, Write(&buf, "xml", sampleReport()))
}
