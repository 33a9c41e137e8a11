package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Theme is the TUI palette. Views read colors from it, never from tcell directly.
type Theme struct {
	BgColor           tcell.Color
	FgColor           tcell.Color
	BorderColor       tcell.Color
	BorderFocusColor  tcell.Color
	TableHeaderFg     tcell.Color
	TableHeaderBg     tcell.Color
	TableCursorFg     tcell.Color
	TableCursorBg     tcell.Color
	CrumbActiveFg     tcell.Color
	CrumbActiveBg     tcell.Color
	CrumbInactiveFg   tcell.Color
	CrumbInactiveBg   tcell.Color
	MenuKeyColor      tcell.Color
	NumericKeyColor   tcell.Color
	TitleColor        tcell.Color
	CounterColor      tcell.Color
	FlashInfoColor    tcell.Color
	FlashWarnColor    tcell.Color
	FlashErrColor     tcell.Color
	PromptBorderColor tcell.Color
	UnreadColor       tcell.Color
	OnlineColor       tcell.Color
	TickColor         tcell.Color
	TickReadColor     tcell.Color
	OwnMessageColor   tcell.Color
	AttachmentColor   tcell.Color
}

// DefaultTheme returns the dark palette: teal chrome, green for anything
// that is yours or new, blue for read receipts.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:           tcell.ColorBlack,
		FgColor:           tcell.ColorSilver,
		BorderColor:       tcell.ColorTeal,
		BorderFocusColor:  tcell.ColorMediumAquamarine,
		TableHeaderFg:     tcell.ColorWhite,
		TableHeaderBg:     tcell.ColorBlack,
		TableCursorFg:     tcell.ColorBlack,
		TableCursorBg:     tcell.ColorMediumAquamarine,
		CrumbActiveFg:     tcell.ColorBlack,
		CrumbActiveBg:     tcell.ColorMediumSeaGreen,
		CrumbInactiveFg:   tcell.ColorBlack,
		CrumbInactiveBg:   tcell.ColorTeal,
		MenuKeyColor:      tcell.ColorMediumAquamarine,
		NumericKeyColor:   tcell.ColorGold,
		TitleColor:        tcell.ColorMediumSeaGreen,
		CounterColor:      tcell.ColorGold,
		FlashInfoColor:    tcell.ColorWheat,
		FlashWarnColor:    tcell.ColorOrange,
		FlashErrColor:     tcell.ColorOrangeRed,
		PromptBorderColor: tcell.ColorMediumAquamarine,
		UnreadColor:       tcell.ColorLimeGreen,
		OnlineColor:       tcell.ColorLimeGreen,
		TickColor:         tcell.ColorGray,
		TickReadColor:     tcell.ColorDeepSkyBlue,
		OwnMessageColor:   tcell.ColorPaleGreen,
		AttachmentColor:   tcell.ColorKhaki,
	}
}

// ColorName returns the tview color tag value for c: its name when tcell
// knows one, hex otherwise.
func ColorName(c tcell.Color) string {
	for name, val := range tcell.ColorNames {
		if val == c {
			return name
		}
	}
	return fmt.Sprintf("#%06x", c.Hex())
}
