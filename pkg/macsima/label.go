package macsima

import "strings"

// categoryPrefixes are the fixed tokens the instrument prepends to its
// categorical enum values.
var categoryPrefixes = map[string]struct{}{
	"ProtocolBlockType": {},
	"Magnification":     {},
	"ShapeType":         {},
	"AutofocusMethod":   {},
	"SampleType":        {},
	"FluorochromeType":  {},
	"ErasingMethod":     {},
}

// Label strips the categorical prefix from a raw enum value:
// "Magnification_20x" -> "20x". Values without a known prefix, including the
// empty string, are returned unchanged, so absent and null inputs are safe.
func Label(raw string) string {
	idx := strings.Index(raw, "_")
	if idx < 0 {
		return raw
	}
	if _, ok := categoryPrefixes[raw[:idx]]; !ok {
		return raw
	}

	return raw[idx+1:]
}
