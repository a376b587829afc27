package rules

import (
	"fmt"
	"unicode/utf8"

	"github.com/Primosic/validador-opin-2025/internal/model"
)

// Fallback sizes for fragments that carry no usable length information.
// Every field must resolve to a bounded size.
const (
	DefaultStringSize  = 100
	DefaultNumericSize = 10
	DefaultMinimalSize = 1
)

// TypeOf returns the fragment's declared type tag. Untyped fragments and
// fragments carrying only a reference classify as strings; references are
// never resolved to their target's type.
func TypeOf(frag *model.Fragment) model.Type {
	if frag.Type != "" {
		return model.Type(frag.Type)
	}

	return model.TypeString
}

// SizeOf derives the maximum size of a fragment:
//
//   - strings keep their declared maxLength; without one, the longest enum
//     literal rendered as text wins (a declared-empty enum yields 0) and an
//     unconstrained string falls back to DefaultStringSize
//   - integers and numbers always size to DefaultNumericSize
//   - everything else (boolean, array, object, unrecognized) sizes to
//     DefaultMinimalSize
func SizeOf(frag *model.Fragment) int {
	switch t := TypeOf(frag); {
	case t == model.TypeString:
		if frag.MaxLength != nil {
			return *frag.MaxLength
		}

		if frag.Enum != nil {
			return longestLiteral(frag.Enum)
		}

		return DefaultStringSize
	case t.Numeric():
		return DefaultNumericSize
	default:
		return DefaultMinimalSize
	}
}

func longestLiteral(enum []any) int {
	longest := 0

	for _, v := range enum {
		if n := utf8.RuneCountInString(fmt.Sprint(v)); n > longest {
			longest = n
		}
	}

	return longest
}
