package cli

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-pals/pals/fit"
	"github.com/cwbudde/algo-pals/pals/param"
)

// Theme holds the styles of the fit summary.
type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	OK       lipgloss.Style
	Failed   lipgloss.Style
	Card     lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: lipgloss.NewStyle().Faint(true),
		OK:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Failed:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Card: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
	}
}

// renderResult formats the fit summary and the parameter table.
func renderResult(th Theme, source string, set *param.Set, res *fit.Result) string {
	status := th.OK
	if !res.OK() {
		status = th.Failed
	}

	var b strings.Builder
	b.WriteString(th.Title.Render("ltfit " + source))
	b.WriteString("\n")
	b.WriteString(th.Subtitle.Render(fmt.Sprintf("fit %s  spectrum %016x  %s",
		res.ID, res.Digest, res.Timestamp.Format("2006-01-02 15:04:05Z07:00"))))
	b.WriteString("\n\n")
	b.WriteString(status.Render(fmt.Sprintf("%s (%d) %s", res.State, int(res.Status), res.StatusText)))
	b.WriteString("\n\n")

	var summary bytes.Buffer
	tw := tabwriter.NewWriter(&summary, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "runs\t%d\titerations\t%d\n", len(res.Runs), res.Iterations)
	fmt.Fprintf(tw, "chi2 start\t%.4f\tchi2\t%.4f\n", res.ChiSquareStart, res.ChiSquare)
	fmt.Fprintf(tw, "dof\t%d\tcounts\t%d\n", res.DOF, res.CountsInROI)
	fmt.Fprintf(tw, "avg tau\t%.2f ± %.2f\tsum I\t%.4f ± %.4f\n",
		res.AverageLifetime, res.AverageLifetimeError, res.IntensitySum, res.IntensitySumError)
	fmt.Fprintf(tw, "background\t%.3f\tpeak/bkg\t%s\n", res.Background, ratio(res.PeakToBackground))
	fmt.Fprintf(tw, "centroid\t%.2f\tt0\t%.2f\n", res.SpectralCentroid, res.TimeZero)
	fmt.Fprintf(tw, "residual rms\t%.3f\truns z\t%.2f\n", res.ResidualStats.RMS, res.ResidualStats.RunsZ)
	_ = tw.Flush()
	b.WriteString(th.Card.Render(strings.TrimRight(summary.String(), "\n")))
	b.WriteString("\n")

	var table bytes.Buffer
	tw = tabwriter.NewWriter(&table, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "group\tparam\tfit\terror\t\n")
	for _, g := range set.Groups() {
		for _, p := range g.Params {
			mark := ""
			if p.Fixed {
				mark = "fixed"
			}
			fmt.Fprintf(tw, "%s\t%s\t%.4f\t%.4f\t%s\n", g.Kind, p.Label(), p.Fit, p.FitError, mark)
		}
	}
	_ = tw.Flush()
	b.WriteString(th.Card.Render(strings.TrimRight(table.String(), "\n")))

	return b.String()
}

func ratio(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.1f", v)
}
