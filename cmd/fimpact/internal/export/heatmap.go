// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package export

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/estimator"
)

// Heatmap cell geometry in pixels.
const (
	cellWidth   = 56
	cellHeight  = 26
	labelMargin = 170
	headerSpace = 48
	footerSpace = 20
)

// RenderHeatmap draws the impact matrix as a PNG heatmap and writes it to
// path. Positive cells shade toward green, negative toward red, centered
// on white at zero; omitted cells stay gray so "unknown" is visually
// distinct from "no effect".
func RenderHeatmap(path string, result *estimator.Result) error {
	codes := result.Indicators()
	if len(codes) == 0 || len(result.Times) == 0 {
		return fmt.Errorf("nothing to render: empty matrix")
	}

	maxAbs := 0.0
	for _, est := range result.Estimates {
		if abs := math.Abs(est.Value); abs > maxAbs {
			maxAbs = abs
		}
	}
	if maxAbs == 0 {
		maxAbs = 1
	}

	idx := indexCells(result)
	width := labelMargin + cellWidth*len(result.Times)
	height := headerSpace + cellHeight*len(codes) + footerSpace
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Column headers.
	dc.SetRGB(0.2, 0.2, 0.2)
	for i, t := range result.Times {
		x := float64(labelMargin + i*cellWidth + cellWidth/2)
		dc.DrawStringAnchored(t.Format(timeLayout), x, headerSpace-12, 0.5, 0.5)
	}

	for row, code := range codes {
		y := float64(headerSpace + row*cellHeight)
		dc.SetRGB(0.2, 0.2, 0.2)
		dc.DrawStringAnchored(code, labelMargin-8, y+cellHeight/2, 1, 0.5)

		for col, t := range result.Times {
			x := float64(labelMargin + col*cellWidth)
			est, ok := idx.at(code, t)
			if !ok {
				dc.SetRGB(0.9, 0.9, 0.9)
			} else {
				r, g, b := rampColor(est.Value / maxAbs)
				dc.SetRGB(r, g, b)
			}
			dc.DrawRectangle(x, y, cellWidth, cellHeight)
			dc.Fill()
			dc.SetRGB(0.6, 0.6, 0.6)
			dc.DrawRectangle(x, y, cellWidth, cellHeight)
			dc.Stroke()

			if ok {
				dc.SetRGB(0.1, 0.1, 0.1)
				dc.DrawStringAnchored(fmt.Sprintf("%.3f", est.Value),
					x+cellWidth/2, y+cellHeight/2, 0.5, 0.5)
			}
		}
	}

	return dc.SavePNG(path)
}

// rampColor maps a normalized value in [-1, 1] to a diverging
// red-white-green ramp.
func rampColor(v float64) (r, g, b float64) {
	v = math.Max(-1, math.Min(1, v))
	if v >= 0 {
		// white -> green
		return 1 - 0.75*v, 1 - 0.15*v, 1 - 0.75*v
	}
	// white -> red
	v = -v
	return 1 - 0.10*v, 1 - 0.75*v, 1 - 0.75*v
}
