// Package display provides human-readable names for machine codes.
//
// Rule: code is for machines, words are for humans.
// Use these functions in CLI output, logs, and summaries.
// Keep raw codes for file headers, map keys, and equality comparisons.
package display

import "strings"

// --- Index Orders ---

var indexOrders = map[string]string{
	"STRIP_THEN_PATCH": "Strip then patch",
	"PATCH_THEN_STRIP": "Patch then strip",
}

// IndexOrder returns the human-readable name for a patch index order.
// Unknown codes are returned as-is.
func IndexOrder(code string) string {
	if name, ok := indexOrders[code]; ok {
		return name
	}
	return code
}

// IndexOrderWithCode returns "Strip then patch (STRIP_THEN_PATCH)" format.
func IndexOrderWithCode(code string) string {
	if name, ok := indexOrders[code]; ok {
		return name + " (" + code + ")"
	}
	return code
}

// --- Color Spaces ---

var colorSpaces = map[string]string{
	"XYZ":  "CIE XYZ",
	"LAB":  "CIE L*a*b*",
	"RGB":  "RGB",
	"CMYK": "CMYK",
	"GRAY": "Grayscale",
	"K":    "Black only",
}

// ColorSpace returns the human-readable name for a color space code.
// "LAB" -> "CIE L*a*b*".
func ColorSpace(code string) string {
	if name, ok := colorSpaces[code]; ok {
		return name
	}
	return code
}

// ColorRep humanizes a CGATS COLOR_REP value.
// "iRGB" -> "RGB test chart", "iRGB_LAB" -> "RGB test chart / CIE L*a*b*".
func ColorRep(rep string) string {
	parts := strings.Split(rep, "_")
	for i, p := range parts {
		if name, ok := colorSpaces[p]; ok {
			parts[i] = name
			continue
		}
		if rest, ok := strings.CutPrefix(p, "i"); ok {
			if name, found := colorSpaces[rest]; found {
				parts[i] = name + " test chart"
			}
		}
	}
	return strings.Join(parts, " / ")
}

// --- Device Classes ---

var deviceClasses = map[string]string{
	"OUTPUT":  "Output device",
	"DISPLAY": "Display device",
	"INPUT":   "Input device",
}

// DeviceClass returns the human-readable name for an ICC device class code.
// "OUTPUT" -> "Output device".
func DeviceClass(code string) string {
	if name, ok := deviceClasses[code]; ok {
		return name
	}
	return code
}

// DeviceClassWithCode returns "Output device (OUTPUT)" format.
func DeviceClassWithCode(code string) string {
	if name, ok := deviceClasses[code]; ok {
		return name + " (" + code + ")"
	}
	return code
}

// --- Profiler Quality ---

var qualities = map[string]string{
	"l": "Low",
	"m": "Medium",
	"h": "High",
	"u": "Ultra",
}

// Quality returns the human-readable name for a profiler quality letter.
// "m" -> "Medium".
func Quality(code string) string {
	if name, ok := qualities[code]; ok {
		return name
	}
	return code
}

// QualityWithCode returns "Medium (m)" format for dual-audience contexts.
func QualityWithCode(code string) string {
	if name, ok := qualities[code]; ok {
		return name + " (" + code + ")"
	}
	return code
}

// --- Illuminants ---

var illuminants = map[string]string{
	"A":   "Incandescent",
	"C":   "Average daylight",
	"D50": "Daylight 5000K",
	"D55": "Daylight 5500K",
	"D65": "Daylight 6500K",
	"D75": "Daylight 7500K",
	"F5":  "Fluorescent daylight",
	"F8":  "Fluorescent D50 simulator",
	"F10": "Fluorescent TL85",
}

// Illuminant returns the human-readable name for a standard illuminant code.
// "D50" -> "Daylight 5000K".
func Illuminant(code string) string {
	if name, ok := illuminants[code]; ok {
		return name
	}
	return code
}

// IlluminantWithCode returns "Daylight 5000K (D50)" format.
func IlluminantWithCode(code string) string {
	if name, ok := illuminants[code]; ok {
		return name + " (" + code + ")"
	}
	return code
}
