// Package export writes the dashboard views to PNG charts and an XLSX
// workbook.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/view"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Output file names.
const (
	PieFile      = "pie.png"
	BarsFile     = "revenue_capital.png"
	ScatterFile  = "scatter.png"
	WorkbookFile = "budget.xlsx"
)

// ErrNoData means a chart had nothing to draw and was not written.
var ErrNoData = errors.New("no data to plot")

// Options selects what to write and where.
type Options struct {
	Dir    string
	PNG    bool
	XLSX   bool
	Params view.Params // scatter axes and ranking length
}

// Result lists the files written and the charts skipped for lack of data.
type Result struct {
	Files   []string
	Skipped []string
}

type job struct {
	name   string
	render func(path string) error
}

// Run renders every selected output into opts.Dir. Charts are rendered
// concurrently, each reading ds only.
func Run(ctx context.Context, ds *model.Dataset, opts Options, logger zerolog.Logger) (Result, error) {
	if err := os.MkdirAll(opts.Dir, 0o750); err != nil {
		return Result{}, fmt.Errorf("creating export dir: %w", err)
	}
	p := opts.Params.WithDefaults(ds)

	var jobs []job
	if opts.PNG {
		jobs = append(jobs,
			job{PieFile, func(path string) error { return WritePie(ds, path) }},
			job{BarsFile, func(path string) error { return WriteRevenueCapital(ds, path) }},
			job{ScatterFile, func(path string) error { return WriteScatter(ds, p.XField, p.YField, path) }},
		)
	}
	if opts.XLSX {
		jobs = append(jobs, job{WorkbookFile, func(path string) error { return WriteWorkbook(ds, p.TopN, path) }})
	}

	written := make([]bool, len(jobs))
	skipped := make([]bool, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(opts.Dir, j.name)
			err := j.render(path)
			switch {
			case errors.Is(err, ErrNoData):
				logger.Warn().Str("file", j.name).Msg("skipped: no data to plot")
				skipped[i] = true
				return nil
			case err != nil:
				return fmt.Errorf("writing %s: %w", j.name, err)
			}
			logger.Debug().Str("file", path).Msg("written")
			written[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var res Result
	for i, j := range jobs {
		switch {
		case written[i]:
			res.Files = append(res.Files, filepath.Join(opts.Dir, j.name))
		case skipped[i]:
			res.Skipped = append(res.Skipped, j.name)
		}
	}
	return res, nil
}
