package domain

import "strings"

// CustomerSource identifies the marketing channel that referred a visitor.
type CustomerSource string

// The fixed set of recognized customer sources.
const (
	SourceFacebook  CustomerSource = "facebook"
	SourceInstagram CustomerSource = "instagram"
	SourceWhatsApp  CustomerSource = "whatsapp"
	SourcePhoneCall CustomerSource = "phone call"
	SourceTikTok    CustomerSource = "tiktok"
	SourceGoogle    CustomerSource = "google"
	SourceWebsite   CustomerSource = "website"
	SourceOthers    CustomerSource = "others"
)

// NormalizeSource maps a raw utm_source value to a CustomerSource.
// Matching is case-insensitive and tolerates surrounding whitespace.
// Unrecognized non-empty values map to SourceOthers; the empty string maps
// to the empty CustomerSource so callers can distinguish "absent".
func NormalizeSource(raw string) CustomerSource {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return ""
	case "fb", "facebook":
		return SourceFacebook
	case "ig", "instagram":
		return SourceInstagram
	case "wa", "whatsapp":
		return SourceWhatsApp
	case "phone", "call", "phone call", "phonecall":
		return SourcePhoneCall
	case "tt", "tiktok":
		return SourceTikTok
	case "g", "google":
		return SourceGoogle
	default:
		return SourceOthers
	}
}

// IsValid reports whether s is one of the enumerated customer sources.
func (s CustomerSource) IsValid() bool {
	switch s {
	case SourceFacebook, SourceInstagram, SourceWhatsApp, SourcePhoneCall,
		SourceTikTok, SourceGoogle, SourceWebsite, SourceOthers:
		return true
	}
	return false
}

func (s CustomerSource) String() string {
	return string(s)
}
