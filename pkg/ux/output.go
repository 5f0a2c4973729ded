// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides rich terminal output styling for the fimpact CLI.
package ux

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// fimpact color palette - highland greens and amber
var (
	// Primary palette (brightest to darkest)
	ColorGreenBright  = lipgloss.Color("#4AD66D") // Bright green - highlights, success
	ColorGreenPrimary = lipgloss.Color("#2DC653") // Primary green - main brand color
	ColorGreenMedium  = lipgloss.Color("#25A244") // Medium green - secondary elements
	ColorGreenDeep    = lipgloss.Color("#1A7431") // Deep green - borders, accents
	ColorAmber        = lipgloss.Color("#E0A100") // Amber - emphasis, magnitudes

	// Dark palette (for backgrounds, muted elements)
	ColorForest = lipgloss.Color("#10451D") // Forest - deep backgrounds
	ColorSlate  = lipgloss.Color("#49584C") // Slate - muted text, borders

	// Semantic colors (keeping standard conventions for clarity)
	ColorSuccess = lipgloss.Color("#4AD66D")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorMuted   = lipgloss.Color("#49584C")
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	Box        lipgloss.Style
	WarningBox lipgloss.Style
	ErrorBox   lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorGreenBright),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorGreenPrimary),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorAmber).Bold(true),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorGreenDeep).
		Padding(0, 1),
	WarningBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorWarning).
		Padding(0, 1),
	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(0, 1),
}

// Icon provides themed status icons
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
)

// Render returns the icon with appropriate styling
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	default:
		return Styles.Muted.Render(string(i))
	}
}

// Header prints a styled section header.
func Header(text string) {
	fmt.Println(Styles.Title.Render(text))
}

// Successf prints a success line to stdout.
func Successf(format string, args ...any) {
	fmt.Printf("%s %s\n", IconSuccess.Render(), fmt.Sprintf(format, args...))
}

// Warnf prints a warning line to stdout.
func Warnf(format string, args ...any) {
	fmt.Printf("%s %s\n", IconWarning.Render(), Styles.Warning.Render(fmt.Sprintf(format, args...)))
}

// Errorf prints an error line to stderr.
func Errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", IconError.Render(), Styles.Error.Render(fmt.Sprintf(format, args...)))
}

// Bulletf prints an indented bullet line.
func Bulletf(format string, args ...any) {
	fmt.Printf("  %s %s\n", IconBullet.Render(), fmt.Sprintf(format, args...))
}
