// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/repo-analyzer/internal/domain"
	"github.com/naka-gawa/repo-analyzer/internal/gateway"
)

// Settings holds the analysis policy.
type Settings struct {
	DefaultBranch   string
	MaxContributors int
	StalePullDays   int
	StaleIssueDays  int
}

// DefaultSettings mirrors the defaults of the command line.
func DefaultSettings() Settings {
	return Settings{
		DefaultBranch:   "master",
		MaxContributors: 30,
		StalePullDays:   30,
		StaleIssueDays:  14,
	}
}

// Request is the input of one analysis run.
type Request struct {
	RunID      string
	Repository domain.RepositoryRef
	Filters    domain.Filters
}

// Aggregator is the use case for analyzing a repository.
// It orchestrates the fetching and reduction of data.
type Aggregator struct {
	fetcher  gateway.Fetcher
	settings Settings
	logger   *log.Logger
	now      func() time.Time
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, settings Settings, logger *log.Logger) *Aggregator {
	return &Aggregator{
		fetcher:  fetcher,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the wall clock used for stale detection and report timestamps.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// Aggregate fetches commits, pulls and issues concurrently, reduces each of
// them and assembles the report. The first failure aborts the whole run and
// no partial report is returned.
func (a *Aggregator) Aggregate(ctx context.Context, req Request) (*domain.Report, error) {
	if !req.Repository.Valid() {
		return nil, domain.ErrInvalidRepository
	}
	a.logger.Debug("starting analysis", "repo", req.Repository.String())

	filters := req.Filters
	info := a.lookupInfo(ctx, req.Repository)
	if filters.Branch == "" {
		filters.Branch = a.settings.DefaultBranch
		if info != nil && info.DefaultBranch != "" {
			filters.Branch = info.DefaultBranch
		}
		a.logger.Debug("resolved branch", "branch", filters.Branch)
	}

	// Sampled once so every record in this run is judged against the same instant.
	now := a.now()

	var (
		contributors domain.ContributorCounts
		pulls        *domain.ResourceCounts
		issues       *domain.ResourceCounts
	)

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		records, err := a.fetcher.FetchAll(egCtx, req.Repository, domain.KindCommits, filters)
		if err != nil {
			return err
		}
		contributors = CountContributors(records)
		return nil
	})

	eg.Go(func() error {
		records, err := a.fetcher.FetchAll(egCtx, req.Repository, domain.KindPulls, filters)
		if err != nil {
			return err
		}
		pulls = CountResourceStates(records, a.settings.StalePullDays, now)
		return nil
	})

	eg.Go(func() error {
		records, err := a.fetcher.FetchAll(egCtx, req.Repository, domain.KindIssues, filters)
		if err != nil {
			return err
		}
		issues = CountResourceStates(records, a.settings.StaleIssueDays, now)
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	a.logger.Debug("all resources fetched", "contributors", len(contributors))

	report := AssembleReport(contributors, a.settings.MaxContributors)
	report.RunID = req.RunID
	report.Repository = req.Repository
	report.Info = info
	report.Filters = filters
	report.Pulls = pulls
	report.Issues = issues
	report.GeneratedAt = now

	a.logger.Debug("analysis complete")
	return report, nil
}

// lookupInfo fetches optional repository metadata. Failures are never fatal.
func (a *Aggregator) lookupInfo(ctx context.Context, repo domain.RepositoryRef) *domain.RepositoryInfo {
	info, err := a.fetcher.FetchRepositoryInfo(ctx, repo)
	switch {
	case errors.Is(err, gateway.ErrNoCredentials):
		a.logger.Debug("skipping repository info lookup without a token")
		return nil
	case err != nil:
		a.logger.Warn("repository info lookup failed", "err", err)
		return nil
	}
	return info
}

// CountContributors counts commits per author key. Commits that carry no
// author identity at all are skipped.
func CountContributors(records []domain.RawRecord) domain.ContributorCounts {
	counts := make(domain.ContributorCounts)
	for _, r := range records {
		key := r.Author().Key()
		if key == "" {
			continue
		}
		counts[key]++
	}
	return counts
}

// CountResourceStates tallies open, closed and stale items. An open item is
// stale when its age in whole days is strictly greater than staleDays. States
// other than open and closed are ignored. The result is nil when nothing was counted.
func CountResourceStates(records []domain.RawRecord, staleDays int, now time.Time) *domain.ResourceCounts {
	var counts domain.ResourceCounts
	for _, r := range records {
		switch r.State {
		case domain.StateOpen:
			counts.Opened++
			if ageInDays(now, r.CreatedAt) > staleDays {
				counts.Stale++
			}
		case domain.StateClosed:
			counts.Closed++
		}
	}
	if counts.IsZero() {
		return nil
	}
	return &counts
}

func ageInDays(now, created time.Time) int {
	return int(now.Sub(created) / (24 * time.Hour))
}
