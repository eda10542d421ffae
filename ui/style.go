package ui

import (
	gloss "github.com/charmbracelet/lipgloss"
)

func ReaderStyle(width int) gloss.Style {
	return gloss.NewStyle().
		Foreground(gloss.Color("#CDD6F4")).
		Width(width).
		PaddingLeft(2).
		PaddingRight(1).
		PaddingTop(1)
}

var ReaderLoadingStyle = gloss.NewStyle().
	Foreground(gloss.Color("#89b4fa")).
	Padding(2).
	Align(gloss.Center)

const (
	TabSpacing    = 4
	TabPaddingTop = 1
	TabPaddingBot = 0
	ListMaxWidth  = 60
)

// accent follows the customizable button color; muted and surface stay fixed.
var (
	accentColor = gloss.Color("#AECFA4")
	mutedColor  = gloss.Color("#585b70")
	textColor   = gloss.Color("#cdd6f4")
)

// Tab styles
var (
	ActiveTabStyle = gloss.NewStyle().
			Foreground(accentColor).
			Padding(TabPaddingTop, TabSpacing, TabPaddingBot, TabSpacing).
			Align(gloss.Center)

	InactiveTabStyle = gloss.NewStyle().
				Foreground(mutedColor).
				Padding(TabPaddingTop, TabSpacing, TabPaddingBot, TabSpacing).
				Align(gloss.Center)
)

// List container style
var ListStyle = gloss.NewStyle().
	Align(gloss.Left).
	Padding(1, 4) // left/right padding

// Listed item styles
var (
	SelectedTitleStyle = gloss.NewStyle().
				Foreground(accentColor).
				BorderLeft(true).
				BorderStyle(gloss.NormalBorder()).
				BorderForeground(accentColor).
				PaddingLeft(1).
				Bold(true)

	SelectedDescStyle = gloss.NewStyle().
				Foreground(gloss.Color("#bac2de")).
				BorderLeft(true).
				BorderStyle(gloss.NormalBorder()).
				BorderForeground(accentColor).
				PaddingLeft(1)

	NormalTitleStyle = gloss.NewStyle().
				Foreground(mutedColor).
				PaddingLeft(2)

	NormalDescStyle = gloss.NewStyle().
			Foreground(mutedColor).
			PaddingLeft(2)
)

var (
	PromptStyle = gloss.NewStyle().
			Foreground(accentColor)

	PromptTextStyle = gloss.NewStyle().
			Foreground(textColor)

	PromptCursorStyle = gloss.NewStyle().
				Foreground(textColor)
)

// Tabs
var (
	TabsRow = gloss.NewStyle().
		Foreground(accentColor).
		Align(gloss.Center).
		Bold(true)

	UnderlineRow = gloss.NewStyle().
			Foreground(gloss.Color("#363a4f")).
			Align(gloss.Center)

	Centered = gloss.NewStyle().
			Align(gloss.Center)

	StatusStyle = gloss.NewStyle().
			Foreground(accentColor).
			PaddingLeft(4).
			PaddingRight(4).
			PaddingTop(1).
			Align(gloss.Center)

	StatusMutedStyle = gloss.NewStyle().
				Foreground(mutedColor).
				PaddingLeft(4).
				PaddingTop(1).
				Align(gloss.Center)

	ErrorStyle = gloss.NewStyle().
			Foreground(gloss.Color("#f38ba8")).
			PaddingLeft(4).
			PaddingTop(1).
			Align(gloss.Center)
)

var (
	BannerStyle = gloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			PaddingLeft(4).
			PaddingTop(1)

	LabelStyle = gloss.NewStyle().
			Foreground(mutedColor).
			PaddingLeft(4)

	ValueStyle = gloss.NewStyle().
			Foreground(textColor)

	SwatchSelectedStyle = gloss.NewStyle().
				Bold(true).
				Foreground(accentColor)

	SwatchStyle = gloss.NewStyle().
			Foreground(mutedColor)

	ConfirmBoxStyle = gloss.NewStyle().
			Border(gloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(1, 2)

	ConfirmPromptStyle = gloss.NewStyle().
				Foreground(textColor)

	ReaderHeaderStyle = gloss.NewStyle().
				Foreground(accentColor).
				Bold(true).
				PaddingLeft(2).
				PaddingTop(1)

	ReaderFooterStyle = gloss.NewStyle().
				Foreground(mutedColor).
				PaddingLeft(2)
)

// ApplyTheme swaps the accent color used by every accent-bearing style. The
// terminal cannot repaint its background, so the customizable background
// color only shows up in the swatch preview.
func ApplyTheme(button string) {
	accentColor = gloss.Color(button)

	ActiveTabStyle = ActiveTabStyle.Foreground(accentColor)
	SelectedTitleStyle = SelectedTitleStyle.Foreground(accentColor).BorderForeground(accentColor)
	SelectedDescStyle = SelectedDescStyle.BorderForeground(accentColor)
	PromptStyle = PromptStyle.Foreground(accentColor)
	TabsRow = TabsRow.Foreground(accentColor)
	StatusStyle = StatusStyle.Foreground(accentColor)
	BannerStyle = BannerStyle.Foreground(accentColor)
	SwatchSelectedStyle = SwatchSelectedStyle.Foreground(accentColor)
	ConfirmBoxStyle = ConfirmBoxStyle.BorderForeground(accentColor)
	ReaderHeaderStyle = ReaderHeaderStyle.Foreground(accentColor)
}
