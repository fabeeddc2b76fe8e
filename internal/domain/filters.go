package domain

import (
	"fmt"
	"time"
)

// DateLayout is the accepted input format for date filters.
const DateLayout = "2006-01-02"

// Filters narrows the fetched resources by date range and branch.
// An empty Branch means the default branch is resolved at analysis time.
type Filters struct {
	From   *time.Time `json:"from,omitempty"`
	To     *time.Time `json:"to,omitempty"`
	Branch string     `json:"branch,omitempty"`
}

// NewFilters parses the optional date bounds and returns the filters along with
// any warnings. A bound that fails to parse is dropped; a contradictory range is
// kept as-is. Neither condition is fatal.
func NewFilters(from, to, branch string) (Filters, []error) {
	var (
		f        = Filters{Branch: branch}
		warnings []error
	)

	if from != "" {
		t, err := time.Parse(DateLayout, from)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("%w: from date %q, expected YYYY-MM-DD; floor date will not be used", ErrMalformedDate, from))
		} else {
			f.From = &t
		}
	}
	if to != "" {
		t, err := time.Parse(DateLayout, to)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("%w: to date %q, expected YYYY-MM-DD; ceiling date will not be used", ErrMalformedDate, to))
		} else {
			f.To = &t
		}
	}

	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		warnings = append(warnings, fmt.Errorf("%w: nothing can match %s..%s",
			ErrContradictoryRange, f.From.Format(DateLayout), f.To.Format(DateLayout)))
	}

	return f, warnings
}
