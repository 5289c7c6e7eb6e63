package ui

import "charm.land/lipgloss/v2"

type Theme struct {
	Header       lipgloss.Style
	Status       lipgloss.Style
	Rule         lipgloss.Style
	StepTitle    lipgloss.Style
	StepBody     lipgloss.Style
	Overlay      lipgloss.Style
	OverlayTitle lipgloss.Style
	Accent       lipgloss.Style
	Pass         lipgloss.Style
	Fail         lipgloss.Style
	Pending      lipgloss.Style
	Muted        lipgloss.Style
	Info         lipgloss.Style
	Stick        lipgloss.Style
	Ghost        lipgloss.Style
	Target       lipgloss.Style
	Cursor       lipgloss.Style
}

// palette names colors by what they paint on the table. Values are hex.
type palette struct {
	table  string // screen background bars
	felt   string // status bar
	chalk  string // ordinary text
	wood   string // a stick in place
	char   string // an empty slot
	flame  string // the slot the tutorial points at
	ember  string // sticks in hand, pending state
	smoke  string // secondary text
	ok     string
	bad    string
	border lipgloss.Border
}

func ThemeForVariant(variant string) Theme {
	switch variant {
	case "cozy_clean":
		return themeFrom(palette{
			table: "#2A2320", felt: "#3A302A", chalk: "#F6EFE6",
			wood: "#E3B778", char: "#5A4A3E", flame: "#F08A4B",
			ember: "#F2C36B", smoke: "#B8A898",
			ok: "#8CC79A", bad: "#D9776E",
			border: lipgloss.RoundedBorder(),
		})
	case "retro_terminal":
		return themeFrom(palette{
			table: "#0B1409", felt: "#16261A", chalk: "#CFF5C8",
			wood: "#B6F0A8", char: "#24472B", flame: "#F5E17A",
			ember: "#E5D47A", smoke: "#6F9B72",
			ok: "#9CF5A2", bad: "#FF6B6B",
			border: lipgloss.DoubleBorder(),
		})
	default:
		return themeFrom(palette{
			table: "#14100E", felt: "#2B1D17", chalk: "#FFF4E6",
			wood: "#F4C77D", char: "#4D3B30", flame: "#FF5A36",
			ember: "#FFB347", smoke: "#A8968A",
			ok: "#6EE7A0", bad: "#FF6F6F",
			border: lipgloss.ThickBorder(),
		})
	}
}

func themeFrom(p palette) Theme {
	fg := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	bar := func(bg string) lipgloss.Style {
		return fg(p.chalk).Background(lipgloss.Color(bg)).Padding(0, 1)
	}
	return Theme{
		Header:    bar(p.table).Bold(true),
		Status:    bar(p.felt),
		Rule:      fg(p.char),
		StepTitle: fg(p.ember).Bold(true),
		StepBody:  fg(p.chalk),
		Overlay: fg(p.chalk).
			Background(lipgloss.Color(p.table)).
			BorderStyle(p.border).
			BorderForeground(lipgloss.Color(p.wood)).
			Padding(1, 2),
		OverlayTitle: fg(p.wood).Bold(true),
		Accent:       fg(p.flame).Bold(true),
		Pass:         fg(p.ok).Bold(true),
		Fail:         fg(p.bad).Bold(true),
		Pending:      fg(p.ember),
		Muted:        fg(p.smoke),
		Info:         fg(p.chalk),
		Stick:        fg(p.wood).Bold(true),
		Ghost:        fg(p.char),
		Target:       fg(p.flame).Bold(true).Underline(true),
		Cursor:       fg(p.flame).Bold(true),
	}
}
