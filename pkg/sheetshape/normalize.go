package sheetshape

import (
	"strings"

	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/models"
	"golang.org/x/text/unicode/norm"
)

// nullTokens are the text values read as missing. Matching is exact and
// case-sensitive.
var nullTokens = map[string]struct{}{
	"":     {},
	" ":    {},
	"N/A":  {},
	"n/a":  {},
	"NA":   {},
	"null": {},
	"NULL": {},
	"None": {},
	"-":    {},
}

// Flag tokens, compared after NFC normalization so a decomposed "Sí" matches.
var (
	flagTrue  = map[string]struct{}{"Sí": {}, "Si": {}, "X": {}, "1": {}}
	flagFalse = map[string]struct{}{"No": {}, "0": {}}
)

// IsNullToken reports whether s is one of the missing-value markers.
func IsNullToken(s string) bool {
	_, ok := nullTokens[s]
	return ok
}

// Normalize maps missing-value markers to null. Every other value, including
// numeric-looking text, is returned unchanged.
func Normalize(v models.Value) models.Value {
	if s, ok := v.Str(); ok && IsNullToken(s) {
		return models.Null()
	}
	return v
}

// NormalizeFlag converts a flag-column cell to a boolean. ok is false when v
// is not a recognized flag token; v is then returned unchanged so the caller
// can report it.
func NormalizeFlag(v models.Value) (out models.Value, ok bool) {
	v = Normalize(v)
	switch v.Kind() {
	case models.KindNull, models.KindBool:
		return v, true
	case models.KindNumber:
		n, _ := v.Float()
		switch n {
		case 1:
			return models.Bool(true), true
		case 0:
			return models.Bool(false), true
		}
	case models.KindText:
		s, _ := v.Str()
		s = norm.NFC.String(s)
		if _, hit := flagTrue[s]; hit {
			return models.Bool(true), true
		}
		if _, hit := flagFalse[s]; hit {
			return models.Bool(false), true
		}
	}
	return v, false
}

// columnKey is the form under which column names are compared: trimmed and
// NFC-normalized.
func columnKey(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
