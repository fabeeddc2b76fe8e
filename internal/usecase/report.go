package usecase

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/repo-analyzer/internal/domain"
)

// RankContributors orders contributors by commits descending, breaking ties by
// author ascending, and keeps at most limit rows (limit <= 0 keeps all). The
// returned total counts every commit, including those of truncated authors.
func RankContributors(counts domain.ContributorCounts, limit int) ([]domain.ContributorRow, int) {
	rows := make([]domain.ContributorRow, 0, len(counts))
	total := 0
	for author, commits := range counts {
		rows = append(rows, domain.ContributorRow{Author: author, Commits: commits})
		total += commits
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Commits != rows[j].Commits {
			return rows[i].Commits > rows[j].Commits
		}
		return rows[i].Author < rows[j].Author
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, total
}

// AssembleReport builds the contributor part of a report.
func AssembleReport(counts domain.ContributorCounts, maxContributors int) *domain.Report {
	rows, total := RankContributors(counts, maxContributors)
	report := &domain.Report{
		Contributors:     rows,
		ContributorCount: len(counts),
		TotalCommits:     total,
	}

	if len(counts) == 0 {
		return report
	}
	perAuthor := make([]int, 0, len(counts))
	for _, commits := range counts {
		perAuthor = append(perAuthor, commits)
	}
	data := stats.LoadRawData(perAuthor)
	// Errors only occur on empty input, which is excluded above.
	report.MeanCommits, _ = stats.Mean(data)
	report.MedianCommits, _ = stats.Median(data)
	return report
}
