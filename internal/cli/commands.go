package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tbourn/go-day-tracker/internal/analytics"
	"github.com/tbourn/go-day-tracker/internal/services"
)

// ImportCmd loads a JSON export into the store.
type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"JSON file with records, meals, activities and moods."`
}

func (c *ImportCmd) Run(app *Context) error {
	raw, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	var ds analytics.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return fmt.Errorf("decode %s: %w", c.File, err)
	}
	sum, err := app.Records.Import(app.ctx(), app.User, &ds)
	if err != nil {
		return fmt.Errorf("import %s: %w", c.File, err)
	}
	fmt.Fprintln(app.Out, renderImport(sum))
	return nil
}

// ExportCmd writes the user's data as JSON.
type ExportCmd struct {
	File string `arg:"" default:"-" help:"Output file, '-' for stdout."`
	DateRange `embed:""`
}

func (c *ExportCmd) Run(app *Context) error {
	rng, err := c.repoRange()
	if err != nil {
		return err
	}
	ds, err := app.Records.Export(app.ctx(), app.User, rng)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	if c.File == "" || c.File == "-" {
		_, err = app.Out.Write(out)
		return err
	}
	return os.WriteFile(c.File, out, 0o600)
}

// ReportCmd prints recommendations and the strongest mood correlations.
type ReportCmd struct {
	DateRange `embed:""`
	Top int `default:"5" help:"How many correlations to show."`
}

func (c *ReportCmd) Run(app *Context) error {
	from, to, err := c.bounds()
	if err != nil {
		return err
	}
	recs, err := app.Analytics.Recommendations(app.ctx(), app.User, from, to)
	if err != nil {
		return err
	}
	corr, err := app.Analytics.Correlations(app.ctx(), app.User, from, to)
	if err != nil && !errors.Is(err, services.ErrInsufficientData) {
		return err
	}
	if c.Top > 0 && len(corr) > c.Top {
		corr = corr[:c.Top]
	}
	fmt.Fprintln(app.Out, renderReport(recs, corr))
	return nil
}

// TrainCmd fits the mood model and prints its accuracy.
type TrainCmd struct {
	DateRange `embed:""`
}

func (c *TrainCmd) Run(app *Context) error {
	from, to, err := c.bounds()
	if err != nil {
		return err
	}
	rep, err := app.Analytics.Train(app.ctx(), app.User, from, to)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.Out, renderFit(rep))
	return nil
}

// PredictCmd fits the model on the range, then predicts overall mood from
// feature=value pairs. Models live in memory only, so every invocation
// trains its own.
type PredictCmd struct {
	DateRange `embed:""`
	Values []string `arg:"" optional:"" name:"feature=value" help:"Feature values; omitted features default to 5."`
}

func (c *PredictCmd) Run(app *Context) error {
	values, err := parseAssignments(c.Values)
	if err != nil {
		return err
	}
	from, to, err := c.bounds()
	if err != nil {
		return err
	}
	if _, err := app.Analytics.Train(app.ctx(), app.User, from, to); err != nil {
		return err
	}
	y, err := app.Analytics.Predict(app.ctx(), app.User, values)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.Out, renderPrediction(y))
	return nil
}

// parseAssignments turns ["sleep_quality=7", ...] into a value map.
func parseAssignments(args []string) (map[string]float64, error) {
	out := make(map[string]float64, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("expected feature=value, got %q", a)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = f
	}
	return out, nil
}
