package stats

import (
	"bytes"
	"fmt"
	"time"

	"github.com/revlyx/revector/internal/database/types"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Chart dimensions and styling constants control the visual appearance
// of the statistics charts.
const (
	// hoursToShow is the number of x-axis ticks to show in the tier chart.
	hoursToShow = 24

	// titleFontSize sets the size of the chart title text.
	titleFontSize = 12.0
	// xAxisFontSize sets the size of x-axis labels.
	xAxisFontSize = 10.0
	// yAxisFontSize sets the size of y-axis labels.
	yAxisFontSize = 12.0
	// xAxisRotation angles x-axis labels to prevent overlap.
	xAxisRotation = 45.0
	// gridLineWidth controls the thickness of grid lines.
	gridLineWidth = 1.0
	// seriesLineWidth controls the thickness of data lines.
	seriesLineWidth = 3.0
	// seriesDotWidth controls the size of data points.
	seriesDotWidth = 4.0
	// paddingTop adds space above the chart.
	paddingTop = 30
	// paddingBottom adds space below the chart.
	paddingBottom = 30
	// paddingLeft adds space to the left of the chart.
	paddingLeft = 20
	// paddingRight adds space to the right of the chart.
	paddingRight = 20
)

// ChartBuilder creates statistical charts from hourly tier snapshots and the
// score histogram.
type ChartBuilder struct {
	hourly  []*types.HourlyTierStats
	buckets []types.ScoreBucket
}

// NewChartBuilder loads aggregated statistics to create a new chart builder.
func NewChartBuilder(hourly []*types.HourlyTierStats, buckets []types.ScoreBucket) *ChartBuilder {
	return &ChartBuilder{
		hourly:  hourly,
		buckets: buckets,
	}
}

// Build creates both the tier trend and score distribution charts.
func (b *ChartBuilder) Build() (*bytes.Buffer, *bytes.Buffer, error) {
	tierBuffer, err := b.buildTierChart()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build tier chart: %w", err)
	}

	distributionBuffer, err := b.buildDistributionChart()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build distribution chart: %w", err)
	}

	return tierBuffer, distributionBuffer, nil
}

// buildTierChart creates a chart showing assessment counts per risk tier.
func (b *ChartBuilder) buildTierChart() (*bytes.Buffer, error) {
	// Extract data points for tier series
	xValues, lowSeries, mediumSeries, highSeries, criticalSeries := b.prepareTierDataSeries()

	// Configure and create the chart
	graph := &chart.Chart{
		Title:      "Risk Tier Trend (24h)",
		TitleStyle: b.getTitleStyle(),
		Background: b.getBackgroundStyle(),
		XAxis:      b.getXAxis(b.prepareGridLinesAndTicks()),
		YAxis:      b.getYAxis(),
		Series: []chart.Series{
			b.createSeries("Low", xValues, lowSeries, chart.ColorGreen),
			b.createSeries("Medium", xValues, mediumSeries, chart.ColorOrange),
			b.createSeries("High", xValues, highSeries, chart.ColorRed),
			b.createSeries("Critical", xValues, criticalSeries, chart.ColorBlack),
		},
	}

	// Add legend below the chart
	graph.Elements = []chart.Renderable{
		chart.Legend(graph),
	}

	// Render chart to PNG format
	buf := new(bytes.Buffer)
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// buildDistributionChart creates a chart showing how assessment scores spread
// across fixed buckets.
func (b *ChartBuilder) buildDistributionChart() (*bytes.Buffer, error) {
	xValues := make([]float64, len(b.buckets))
	yValues := make([]float64, len(b.buckets))
	gridLines := make([]chart.GridLine, len(b.buckets))
	ticks := make([]chart.Tick, len(b.buckets))

	for i, bucket := range b.buckets {
		xValues[i] = float64(i)
		yValues[i] = float64(bucket.Count)
		gridLines[i] = chart.GridLine{Value: float64(i)}
		ticks[i] = chart.Tick{
			Value: float64(i),
			Label: fmt.Sprintf("%d-%d", bucket.Lower, bucket.Upper),
		}
	}

	graph := &chart.Chart{
		Title:      "Score Distribution",
		TitleStyle: b.getTitleStyle(),
		Background: b.getBackgroundStyle(),
		XAxis:      b.getXAxis(gridLines, ticks),
		YAxis:      b.getYAxis(),
		Series: []chart.Series{
			b.createSeries("Profiles", xValues, yValues, chart.ColorBlue),
		},
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(graph),
	}

	buf := new(bytes.Buffer)
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// prepareTierDataSeries extracts per-tier data points from hourly statistics.
func (b *ChartBuilder) prepareTierDataSeries() ([]float64, []float64, []float64, []float64, []float64) {
	xValues := make([]float64, hoursToShow)
	lowSeries := make([]float64, hoursToShow)
	mediumSeries := make([]float64, hoursToShow)
	highSeries := make([]float64, hoursToShow)
	criticalSeries := make([]float64, hoursToShow)

	// Create a map of truncated timestamps to stats for lookup
	statsMap := make(map[time.Time]*types.HourlyTierStats)
	for _, stat := range b.hourly {
		truncatedTime := stat.Hour.UTC().Truncate(time.Hour)
		statsMap[truncatedTime] = stat
	}

	// Fill in data points for each hour
	now := time.Now().UTC().Truncate(time.Hour)

	for i := range hoursToShow {
		xValues[i] = float64(i)
		timestamp := now.Add(time.Duration(-i) * time.Hour)

		if stat, exists := statsMap[timestamp]; exists {
			idx := hoursToShow - 1 - i
			lowSeries[idx] = float64(stat.LowCount)
			mediumSeries[idx] = float64(stat.MediumCount)
			highSeries[idx] = float64(stat.HighCount)
			criticalSeries[idx] = float64(stat.CriticalCount)
		}
	}

	return xValues, lowSeries, mediumSeries, highSeries, criticalSeries
}

// prepareGridLinesAndTicks creates grid lines and x-axis labels for the tier
// chart.
func (b *ChartBuilder) prepareGridLinesAndTicks() ([]chart.GridLine, []chart.Tick) {
	gridLines := make([]chart.GridLine, hoursToShow)
	ticks := make([]chart.Tick, hoursToShow)

	for i := range hoursToShow {
		gridLines[i] = chart.GridLine{Value: float64(i)}

		// Format as hours ago
		hoursAgo := hoursToShow - i
		label := fmt.Sprintf("%dh ago", hoursAgo)

		ticks[i] = chart.Tick{
			Value: float64(i),
			Label: label,
		}
	}

	return gridLines, ticks
}

// getTitleStyle returns styling for the chart title.
func (b *ChartBuilder) getTitleStyle() chart.Style {
	return chart.Style{
		FontSize: titleFontSize,
	}
}

// getBackgroundStyle returns styling for the chart background,
// including padding around all edges.
func (b *ChartBuilder) getBackgroundStyle() chart.Style {
	return chart.Style{
		Padding: chart.Box{
			Top:    paddingTop,
			Left:   paddingLeft,
			Right:  paddingRight,
			Bottom: paddingBottom,
		},
	}
}

// getXAxis returns configuration for the x-axis.
func (b *ChartBuilder) getXAxis(gridLines []chart.GridLine, ticks []chart.Tick) chart.XAxis {
	return chart.XAxis{
		Style: chart.Style{
			FontSize:            xAxisFontSize,
			TextRotationDegrees: xAxisRotation,
		},
		GridMajorStyle: chart.Style{
			StrokeColor: chart.ColorAlternateGray,
			StrokeWidth: gridLineWidth,
		},
		GridLines:    gridLines,
		Ticks:        ticks,
		TickPosition: chart.TickPositionUnderTick,
	}
}

// getYAxis returns configuration for the y-axis.
func (b *ChartBuilder) getYAxis() chart.YAxis {
	return chart.YAxis{
		Style: chart.Style{
			FontSize:            yAxisFontSize,
			TextRotationDegrees: 0.0,
		},
		GridMajorStyle: chart.Style{
			StrokeColor: chart.ColorAlternateGray,
			StrokeWidth: gridLineWidth,
		},
		ValueFormatter: func(v any) string {
			if f, ok := v.(float64); ok {
				return fmt.Sprintf("%.0f", f)
			}
			return ""
		},
	}
}

// createSeries builds a line series for the chart.
func (b *ChartBuilder) createSeries(name string, xValues, yValues []float64, color drawing.Color) chart.Series {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: color,
			StrokeWidth: seriesLineWidth,
			DotColor:    color,
			DotWidth:    seriesDotWidth,
		},
	}
}
