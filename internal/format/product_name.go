// Package format holds the pure display-string transforms applied while
// normalizing upstream payloads: product name formatting and language code
// canonicalization. These functions are deterministic and never fail; bad
// input comes back unchanged or as a documented default.
package format

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

// sizeRE matches an embedded size token: a numeric value with an optional
// unit abbreviation. Upstream product names use both "." and "," decimal
// separators and any letter case for the unit.
var sizeRE = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(l|g|kg|dl|ml)?\b`)

var attributeSplitRE = regexp.MustCompile(`[\s,]+`)

// acronyms are kept fully uppercase by title casing.
var acronyms = map[string]struct{}{
	"UHT": {}, "ESL": {}, "AI": {}, "API": {}, "SKU": {}, "EAN": {}, "VAT": {},
}

// ProductName reformats a raw upstream product name for display.
//
// The raw form is "<name> <size> | <attr> <attr>", where the size token and
// the pipe-delimited attribute suffix are both optional. The result is
// "Title Cased Name <size><UNIT> (Attr, Attr)". A bare size value below 100
// with no unit defaults to liters, matching how the catalog abbreviates
// beverage volumes.
//
// Examples:
//
//	ProductName("Valio kevytmaito 1 | ESL")              // "Valio Kevytmaito 1L (ESL)"
//	ProductName("Valio vispikerma 1 | UHT laktoositon")  // "Valio Vispikerma 1L (UHT, Laktoositon)"
func ProductName(raw string) string {
	if raw == "" {
		return raw
	}

	main := raw
	attrs := ""
	if i := strings.IndexByte(raw, '|'); i >= 0 {
		main = strings.TrimSpace(raw[:i])
		attrs = strings.TrimSpace(raw[i+1:])
	} else {
		main = strings.TrimSpace(raw)
	}

	formatted := formatMainPart(main)
	if a := formatAttributes(attrs); a != "" {
		if formatted == "" {
			return a
		}
		return formatted + " " + a
	}
	return formatted
}

// formatMainPart title-cases the name and rewrites its first size token.
// Title casing runs first so it cannot lowercase the unit suffix appended
// here.
func formatMainPart(main string) string {
	if main == "" {
		return ""
	}
	main = toTitleCase(main)

	if m := sizeRE.FindStringSubmatch(main); m != nil {
		value := strings.ReplaceAll(m[1], ",", ".")
		unit := strings.ToLower(m[2])
		if unit == "" {
			if n, err := strconv.ParseFloat(value, 64); err == nil && n > 0 && n < 100 {
				unit = "l"
			}
		}
		size := strings.ReplaceAll(value, ".", ",") + strings.ToUpper(unit)
		main = strings.Replace(main, m[0], size, 1)
	}

	return main
}

// formatAttributes renders the pipe-suffix attribute list as "(A, B)".
func formatAttributes(attrs string) string {
	if attrs == "" {
		return ""
	}
	var out []string
	for _, part := range attributeSplitRE.Split(attrs, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, toTitleCase(part))
		}
	}
	if len(out) == 0 {
		return ""
	}
	return "(" + strings.Join(out, ", ") + ")"
}

// toTitleCase upper-cases the first rune of each word and lower-cases the
// rest, except for recognized acronyms, which stay fully uppercase.
func toTitleCase(s string) string {
	if s == "" {
		return s
	}
	words := strings.Fields(s)
	for i, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			words[i] = upper
			continue
		}
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// Language canonicalizes an upstream language string to a BCP-47 base code
// ("fi-FI" becomes "fi"). The call system reports Finnish by default, so
// unparseable or empty values fall back to "fi".
func Language(raw string) string {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "fi"
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "fi"
	}
	return base.String()
}
