package palette

import (
	"fmt"
	"strconv"
	"strings"
)

// Families lists the color families in the palette, in display order.
var Families = []string{"slate", "red", "amber", "green", "blue", "violet"}

// Shade bounds. Valid shades are 100, 200, ... 900.
const (
	MinShade  = 100
	MaxShade  = 900
	ShadeStep = 100
)

const (
	// DefaultTheme is the canonical theme token applied when a user has not
	// chosen one.
	DefaultTheme = "blue-500"

	// DefaultSurface is the canonical surface token applied when a user has
	// not chosen one.
	DefaultSurface = "slate-100"

	// DeprecatedTheme is the legacy theme token from before shaded tokens
	// existed. Stored values still holding it are rewritten by the backfill.
	DeprecatedTheme = "blue"
)

// familySet is the lookup form of Families.
var familySet = func() map[string]bool {
	m := make(map[string]bool, len(Families))
	for _, f := range Families {
		m[f] = true
	}
	return m
}()

// IsValid reports whether token is a well-formed palette token
// ("family-shade", e.g. "green-700"). Bare family names are legacy tokens
// and are not valid.
func IsValid(token string) bool {
	family, shade, ok := split(token)
	if !ok {
		return false
	}
	if !familySet[family] {
		return false
	}
	return shade >= MinShade && shade <= MaxShade && shade%ShadeStep == 0
}

// IsLegacy reports whether token is a bare family name from the pre-shade
// token vocabulary.
func IsLegacy(token string) bool {
	return familySet[token]
}

// Canonicalize maps a legacy bare-family token to its shaded replacement
// (the family's 500 shade). Valid tokens pass through unchanged.
// Returns false if token is neither valid nor legacy.
func Canonicalize(token string) (string, bool) {
	if IsValid(token) {
		return token, true
	}
	if IsLegacy(token) {
		return fmt.Sprintf("%s-%d", token, 500), true
	}
	return "", false
}

// Describe returns a human-readable description of the token format for
// error messages.
func Describe() string {
	return fmt.Sprintf("family-shade where family is one of [%s] and shade is %d-%d in steps of %d",
		strings.Join(Families, ", "), MinShade, MaxShade, ShadeStep)
}

// split parses "family-shade" into its parts.
func split(token string) (family string, shade int, ok bool) {
	idx := strings.LastIndex(token, "-")
	if idx <= 0 || idx == len(token)-1 {
		return "", 0, false
	}
	shade, err := strconv.Atoi(token[idx+1:])
	if err != nil {
		return "", 0, false
	}
	return token[:idx], shade, true
}
