package display

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/mzkii/MomentumGo/internal/models"
	"github.com/mzkii/MomentumGo/internal/scanner"
	"github.com/mzkii/MomentumGo/internal/snapshot"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
	emptyStyle  = lipgloss.NewStyle().Italic(true).Faint(true)
)

// Renderer writes screener results as terminal tables.
type Renderer struct {
	out io.Writer
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Snapshot renders the full tracked record set.
func (r *Renderer) Snapshot(records []models.TickerRecord) {
	fmt.Fprintln(r.out, titleStyle.Render(fmt.Sprintf("Tracked symbols (%d)", len(records))))
	if len(records) == 0 {
		fmt.Fprintln(r.out, emptyStyle.Render("None"))
		return
	}
	fmt.Fprintln(r.out, r.recordTable(records))
}

// Breakouts renders the above-high and below-low partitions.
func (r *Renderer) Breakouts(b scanner.Breakouts) {
	fmt.Fprintln(r.out, titleStyle.Render("Above 20D High"))
	if len(b.AboveHigh) == 0 {
		fmt.Fprintln(r.out, emptyStyle.Render("None"))
	} else {
		fmt.Fprintln(r.out, r.recordTable(b.AboveHigh))
	}

	fmt.Fprintln(r.out, titleStyle.Render("Below 20D Low"))
	if len(b.BelowLow) == 0 {
		fmt.Fprintln(r.out, emptyStyle.Render("None"))
	} else {
		fmt.Fprintln(r.out, r.recordTable(b.BelowLow))
	}
}

// Extremes renders the new-high and new-low hit lists.
func (r *Renderer) Extremes(e scanner.Extremes) {
	r.extremeTable("New 20D Highs (intraday)", "Today High", "Stored 20D High", e.NewHighs)
	r.extremeTable("New 20D Lows (intraday)", "Today Low", "Stored 20D Low", e.NewLows)
}

// Status renders the refresh clock lines.
func (r *Renderer) Status(clock snapshot.Clock) {
	fmt.Fprintln(r.out, statusStyle.Render(fmt.Sprintf("Last Full Refresh:  %s", formatStamp(clock.LastFullRefresh))))
	fmt.Fprintln(r.out, statusStyle.Render(fmt.Sprintf("Last Quick Refresh: %s", formatStamp(clock.LastQuickRefresh))))
	fmt.Fprintln(r.out, statusStyle.Render(fmt.Sprintf("Latest Data Date:   %s", formatDate(clock.LatestDataDate))))
}

// Summary renders the outcome counts of a refresh.
func (r *Renderer) Summary(op string, res scanner.Result) {
	fmt.Fprintln(r.out, statusStyle.Render(
		fmt.Sprintf("%s: %d requested, %d succeeded, %d skipped", op, res.Requested, res.Succeeded, res.Skipped)))
}

func (r *Renderer) recordTable(records []models.TickerRecord) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Headers("Ticker", "Name", "Current Price", "20D High", "20D Low", "Last Bar")

	for _, rec := range records {
		t.Row(rec.Symbol, rec.Name, formatPrice(rec.CurrentPrice),
			rec.High20.StringFixed(2), rec.Low20.StringFixed(2),
			formatDate(rec.LastBarDate))
	}
	return t.Render()
}

func (r *Renderer) extremeTable(title, todayCol, baselineCol string, hits []models.ExtremeHit) {
	fmt.Fprintln(r.out, titleStyle.Render(title))
	if len(hits) == 0 {
		fmt.Fprintln(r.out, emptyStyle.Render("None"))
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Headers("Ticker", "Name", todayCol, baselineCol)

	for _, h := range hits {
		t.Row(h.Symbol, h.Name, h.Today.StringFixed(2), h.Baseline.StringFixed(2))
	}
	fmt.Fprintln(r.out, t.Render())
}

func formatPrice(p decimal.NullDecimal) string {
	if !p.Valid {
		return "-"
	}
	return p.Decimal.StringFixed(2)
}

func formatStamp(t time.Time) string {
	if t.IsZero() {
		return "Never"
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("2006-01-02")
}
