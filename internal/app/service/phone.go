package service

import "strings"

// PhoneNone is stored verbatim when the owner declined to give contact info.
const PhoneNone = "NONE"

// SanitizePhone normalizes a raw phone input to an E.164-style value.
// Empty input stays empty; US numbers get a +1 prefix; anything already
// carrying a "+" passes through.
func SanitizePhone(raw string) string {
	if raw == "" {
		return ""
	}

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	stripped := digits.String()

	switch {
	case stripped == "":
		return ""
	case len(stripped) == 11 && strings.HasPrefix(stripped, "1"):
		return "+" + stripped
	case len(stripped) == 10:
		return "+1" + stripped
	case strings.HasPrefix(raw, "+"):
		return raw
	default:
		return "+" + stripped
	}
}

// normalizePhone applies SanitizePhone unless the NONE sentinel was supplied.
func normalizePhone(raw string) string {
	if raw == PhoneNone {
		return raw
	}
	return SanitizePhone(raw)
}
