// Package links builds the storefront's outbound URLs and contact texts.
package links

import (
	"strings"
	"time"

	"kiosk/internal/config"
)

const (
	mapsBase       = "https://www.google.com/maps?q="
	whatsAppBase   = "https://wa.me/"
	placeholderURL = "#"

	phonePendingText = "Telefon folgt"

	// CopiedNote is shown after the address was copied to the clipboard.
	CopiedNote = "Adresse kopiert ✅"
	// CopyFailedNote is shown when the clipboard is not writable.
	CopyFailedNote = "Kopieren nicht möglich – bitte manuell markieren."
	// CopyNoteDuration is how long a copy note stays visible.
	CopyNoteDuration = 2200 * time.Millisecond
)

// Links are the hrefs and texts derived from the store identity.
type Links struct {
	Directions string `json:"directions"`
	Call       string `json:"call"`
	CallText   string `json:"call_text"`
	WhatsApp   string `json:"whatsapp"`
}

// MapEmbed describes the consent-gated map iframe.
type MapEmbed struct {
	Src            string `json:"src"`
	Title          string `json:"title"`
	Loading        string `json:"loading"`
	ReferrerPolicy string `json:"referrer_policy"`
}

// Build derives every outbound link for the store.
func Build(store config.StoreConfig) Links {
	return Links{
		Directions: DirectionsURL(store.MapsQuery),
		Call:       CallURL(store.Phone, store.ShowPhone),
		CallText:   CallText(store.Phone, store.ShowPhone),
		WhatsApp:   WhatsAppURL(store.WhatsApp),
	}
}

// DirectionsURL points at the map search for the configured query.
func DirectionsURL(mapsQuery string) string {
	return mapsBase + mapsQuery
}

// Embed returns the iframe attributes for the map. Callers only render it after consent.
func Embed(store config.StoreConfig) MapEmbed {
	return MapEmbed{
		Src:            mapsBase + store.MapsQuery + "&output=embed",
		Title:          "Karte: " + store.Address,
		Loading:        "lazy",
		ReferrerPolicy: "no-referrer-when-downgrade",
	}
}

// CallURL is a tel: URI, or "#" when the phone is hidden or missing.
func CallURL(phone string, show bool) string {
	if !show || strings.TrimSpace(phone) == "" {
		return placeholderURL
	}
	return "tel:" + phone
}

// CallText is the displayed phone number with the German country code split off.
func CallText(phone string, show bool) string {
	if !show {
		return phonePendingText
	}
	return strings.Replace(phone, "+49", "+49 ", 1)
}

// WhatsAppURL keeps only the digits of number; "#" when none remain.
func WhatsAppURL(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return placeholderURL
	}
	return whatsAppBase + digits
}
