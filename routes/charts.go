/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/humaidq/pulse/db"
	"github.com/humaidq/pulse/vitals"
)

type vitalsPoint struct {
	label     string
	weight    *float64
	systolic  *int
	diastolic *int
}

// vitalsSeries orders the registration measurements and every visit that
// recorded weight or blood pressure from oldest to newest.
func vitalsSeries(p *db.Patient, visits []db.Visit) []vitalsPoint {
	weight, systolic, diastolic := p.WeightKg, p.SystolicBP, p.DiastolicBP
	points := []vitalsPoint{{
		label:     vitals.FormatDate(p.RegisteredOn),
		weight:    &weight,
		systolic:  &systolic,
		diastolic: &diastolic,
	}}

	ordered := slices.Clone(visits)
	slices.SortStableFunc(ordered, func(a, b db.Visit) int {
		return a.VisitDate.Compare(b.VisitDate)
	})

	for _, v := range ordered {
		if v.WeightKg == nil && v.SystolicBP == nil && v.DiastolicBP == nil {
			continue
		}
		points = append(points, vitalsPoint{
			label:     v.VisitDateDisplay(),
			weight:    v.WeightKg,
			systolic:  v.SystolicBP,
			diastolic: v.DiastolicBP,
		})
	}

	return points
}

func lineValue[T int | float64](v *T) opts.LineData {
	if v == nil {
		return opts.LineData{Value: "-"}
	}

	return opts.LineData{Value: *v}
}

// generateVitalsChart renders weight and blood pressure over time as an
// embeddable HTML snippet. It returns an empty string when there is nothing
// to plot beyond the registration measurements.
func generateVitalsChart(p *db.Patient, visits []db.Visit) (string, error) {
	points := vitalsSeries(p, visits)
	if len(points) < 2 {
		return "", nil
	}

	xAxis := make([]string, 0, len(points))
	weights := make([]opts.LineData, 0, len(points))
	systolic := make([]opts.LineData, 0, len(points))
	diastolic := make([]opts.LineData, 0, len(points))

	for _, pt := range points {
		xAxis = append(xAxis, pt.label)
		weights = append(weights, lineValue(pt.weight))
		systolic = append(systolic, lineValue(pt.systolic))
		diastolic = append(diastolic, lineValue(pt.diastolic))
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Vitals"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "kg / mmHg"}),
	)

	line.SetXAxis(xAxis).
		AddSeries("Weight (kg)", weights).
		AddSeries("Systolic (mmHg)", systolic).
		AddSeries("Diastolic (mmHg)", diastolic,
			charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{Name: "Diastolic limit", YAxis: 80}),
		).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(true), ConnectNulls: opts.Bool(true)}),
		)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}
