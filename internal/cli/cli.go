// Package cli implements the dayctl commands. Each command is a kong node
// with a Run method that receives the shared Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tbourn/go-day-tracker/internal/analytics"
	"github.com/tbourn/go-day-tracker/internal/repo"
	"github.com/tbourn/go-day-tracker/internal/services"
)

// Context carries the services every command works against.
type Context struct {
	Ctx       context.Context
	User      string
	Records   *services.RecordService
	Analytics *services.AnalyticsService
	Out       io.Writer
}

// DateRange is the optional --from/--to pair shared by range commands.
// Without either bound a command sees the user's whole history.
type DateRange struct {
	From string `help:"First day, inclusive (YYYY-MM-DD)." placeholder:"DATE"`
	To   string `help:"Last day, inclusive (YYYY-MM-DD)." placeholder:"DATE"`
}

func (r DateRange) bounds() (from, to *time.Time, err error) {
	parse := func(s string) (*time.Time, error) {
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		if t, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err == nil {
			return &t, nil
		}
		ts, err := analytics.ParseTimestamp(s)
		if err != nil {
			return nil, err
		}
		return ts.Ptr(), nil
	}
	if from, err = parse(r.From); err != nil {
		return nil, nil, fmt.Errorf("--from: %w", err)
	}
	if to, err = parse(r.To); err != nil {
		return nil, nil, fmt.Errorf("--to: %w", err)
	}
	return from, to, nil
}

func (r DateRange) repoRange() (repo.DateRange, error) {
	from, to, err := r.bounds()
	if err != nil {
		return repo.DateRange{}, err
	}
	var rng repo.DateRange
	if from != nil {
		f := services.DayOf(*from)
		rng.From = &f
	}
	if to != nil {
		t := services.DayOf(*to)
		rng.To = &t
	}
	if rng.From != nil && rng.To != nil && rng.From.After(*rng.To) {
		return repo.DateRange{}, services.ErrInvalidRange
	}
	return rng, nil
}

func (c *Context) ctx() context.Context {
	if c.Ctx != nil {
		return c.Ctx
	}
	return context.Background()
}
