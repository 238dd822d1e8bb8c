// Package status turns evaluator answers into the storefront badge and keeps it fresh.
package status

const (
	openDot    = "rgba(34,197,94,.95)"
	openHalo   = "0 0 0 4px rgba(34,197,94,.18)"
	closedDot  = "rgba(244,63,94,.95)"
	closedHalo = "0 0 0 4px rgba(244,63,94,.18)"
)

// Badge is what the header pill and the hours section show.
type Badge struct {
	Open       bool   `json:"open"`
	Text       string `json:"badge"`
	OpenText   string `json:"open_text"`
	DotColor   string `json:"dot_color"`
	DotShadow  string `json:"dot_shadow"`
	NextChange string `json:"next_change,omitempty"`
}

// Compose builds the badge copy. next is only used when ok is true.
func Compose(open bool, next string, ok bool) Badge {
	b := Badge{Open: open}
	if ok {
		b.NextChange = next
	}

	if open {
		b.Text, b.OpenText = "Geöffnet", "Aktuell geöffnet"
		b.DotColor, b.DotShadow = openDot, openHalo
	} else {
		b.Text, b.OpenText = "Geschlossen", "Aktuell geschlossen"
		b.DotColor, b.DotShadow = closedDot, closedHalo
	}

	if ok {
		b.Text += " – nächster Wechsel: " + next
		b.OpenText += " · nächster Wechsel: " + next
	}
	return b
}
