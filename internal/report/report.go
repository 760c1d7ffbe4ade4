// Package report renders session analytics as a self-contained HTML page
// of echarts visualisations: per-driver lap-time trends and the gap to the
// race leader over the session.
package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pitwall-data/pitwall/internal/analysis"
	"github.com/pitwall-data/pitwall/internal/livetiming"
)

// Render builds the analysis index from the session and writes the full
// report page.
func Render(w io.Writer, s *livetiming.Session) error {
	idx := analysis.BuildIndex(s)
	page := components.NewPage()
	page.AddCharts(
		paceChart(idx, s.Roster),
		gapChart(idx, s.Roster),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render report page: %w", err)
	}
	return nil
}

// seriesName labels a driver series with the racing number plus the roster
// name when one is known.
func seriesName(roster *livetiming.RosterProcessor, driver string) string {
	if name := roster.NameFor(driver); name != "" {
		return fmt.Sprintf("%s %s", driver, name)
	}
	return driver
}

func paceChart(idx *analysis.Index, roster *livetiming.RosterProcessor) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Lap times", Subtitle: "seconds per lap"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Lap"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Lap time (s)", Scale: opts.Bool(true)}),
	)
	line.SetXAxis(idx.LapNumbers())
	for _, driver := range idx.Drivers() {
		line.AddSeries(seriesName(roster, driver), driverSeries(idx, driver, func(rec analysis.LapRecord) *float64 {
			if rec.LapTimeMs == nil {
				return nil
			}
			sec := *rec.LapTimeMs / 1000
			return &sec
		}))
	}
	return line
}

func gapChart(idx *analysis.Index, roster *livetiming.RosterProcessor) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Gap to leader", Subtitle: "seconds behind P1"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Lap"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Gap (s)"}),
	)
	line.SetXAxis(idx.LapNumbers())
	for _, driver := range idx.Drivers() {
		line.AddSeries(seriesName(roster, driver), driverSeries(idx, driver, func(rec analysis.LapRecord) *float64 {
			return rec.GapToLeaderSec
		}))
	}
	return line
}

// driverSeries produces one data point per known lap number, holes where
// the driver has no record or no value for that lap.
func driverSeries(idx *analysis.Index, driver string, value func(analysis.LapRecord) *float64) []opts.LineData {
	byLap := make(map[int]analysis.LapRecord)
	for _, rec := range idx.Records(driver) {
		byLap[rec.Lap] = rec
	}
	data := make([]opts.LineData, 0, len(idx.LapNumbers()))
	for _, lap := range idx.LapNumbers() {
		rec, ok := byLap[lap]
		if !ok {
			data = append(data, opts.LineData{Value: nil})
			continue
		}
		v := value(rec)
		if v == nil {
			data = append(data, opts.LineData{Value: nil})
			continue
		}
		data = append(data, opts.LineData{Value: *v})
	}
	return data
}
