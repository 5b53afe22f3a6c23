package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-day-tracker/internal/analytics"
	"github.com/tbourn/go-day-tracker/internal/services"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(24)

	priorityStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

var title = cases.Title(language.English)

// humanize turns snake_case identifiers into title-cased words.
func humanize(s string) string {
	return title.String(strings.ReplaceAll(s, "_", " "))
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

func optional(v *float64) string {
	if v == nil {
		return "–"
	}
	return fmt.Sprintf("%.1f", *v)
}

func renderImport(sum services.ImportSummary) string {
	lines := []string{
		sectionStyle.Render("Imported"),
		row("Records", fmt.Sprint(sum.Records)),
		row("Meals", fmt.Sprint(sum.Meals)),
		row("Activities", fmt.Sprint(sum.Activities)),
		row("Moods", fmt.Sprint(sum.Moods)),
	}
	if sum.Skipped > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d entries skipped: their record is not in the file", sum.Skipped)))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderReport(recs *services.Recommendations, corr []analytics.FactorCorrelation) string {
	parts := []string{titleStyle.Render("Day Tracker Report")}

	st := recs.Stats
	parts = append(parts,
		sectionStyle.Render("Averages"),
		row("Days", fmt.Sprint(st.Days)),
		row("Mood", optional(st.AvgMood)),
		row("Sleep quality", optional(st.AvgSleepQuality)),
		row("Sleep hours", optional(st.AvgSleepDuration)),
		row("Meal health", optional(st.AvgHealthRating)),
		row("Activities per day", optional(st.AvgActivitiesCount)),
		"",
		sectionStyle.Render("Recommendations"),
	)
	for _, r := range recs.Items {
		head := lipgloss.JoinHorizontal(lipgloss.Top,
			priorityStyle.Render(fmt.Sprintf("[%d] ", r.Priority)),
			lipgloss.NewStyle().Bold(true).Render(r.Title),
			mutedStyle.Render(fmt.Sprintf("  %s · %.0f%%", humanize(r.Category), r.Confidence*100)),
		)
		parts = append(parts, head, "    "+r.Description)
	}

	parts = append(parts, "", sectionStyle.Render("What moves your mood"))
	if len(corr) == 0 {
		parts = append(parts, mutedStyle.Render("not enough data yet"))
	}
	for _, c := range corr {
		parts = append(parts, row(humanize(string(c.Factor)),
			fmt.Sprintf("%+.2f  %s %s (n=%d)", c.Correlation, humanize(c.Strength), c.Direction, c.SampleSize)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderFit(rep analytics.FitReport) string {
	lines := []string{
		sectionStyle.Render("Mood model"),
		row("Train rows", fmt.Sprint(rep.TrainRows)),
		row("Test rows", fmt.Sprint(rep.TestRows)),
		row("RMSE", fmt.Sprintf("%.3f", rep.RMSE)),
		row("R²", fmt.Sprintf("%.3f", rep.R2)),
		"",
		sectionStyle.Render("Feature importance"),
	}
	for _, f := range rep.Features {
		lines = append(lines, row(humanize(string(f)), fmt.Sprintf("%.3f", rep.FeatureImportance[f])))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderPrediction(y float64) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render("Predicted mood"),
		priorityStyle.Render(fmt.Sprintf("%.1f", y)),
	)
}
