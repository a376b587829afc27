package model

// Type is the closed set of schema type tags the engine reasons about.
// It is a string alias so a declared but unrecognized tag survives untouched
// all the way into the persisted rule.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Numeric reports whether t is one of the numeric type tags.
func (t Type) Numeric() bool {
	return t == TypeInteger || t == TypeNumber
}

// Fragment is one node of a schema tree: a type tag, its constraints and/or
// nested properties. A zero Fragment is valid and classifies as an
// unconstrained string.
type Fragment struct {
	// Type is the declared type tag. Empty when the source schema
	// declared none.
	Type string

	// MaxLength is the declared maximum length. Nil when absent; a
	// declared zero is meaningful and kept.
	MaxLength *int

	// Enum is the declared value list. Nil when absent; an empty
	// non-nil slice means the source declared `enum: []`.
	Enum []any

	Properties map[string]*Fragment
	Required   []string
	AllOf      []*Fragment

	// Ref points to another schema by name, e.g.
	// "#/components/schemas/Owner". Never resolved by the engine.
	Ref string

	// Items is the element schema of an array-typed fragment.
	Items *Fragment
}

// Document is the parsed representation of one source file: the schema
// mapping plus the optional document-level API name. It is produced once by
// the loader and read-only afterwards.
type Document struct {
	// Source is the path the document was loaded from. Category policies
	// classify the whole document by it.
	Source string

	// APIName is the document-level API name (OpenAPI info.title), empty
	// when the file declares none.
	APIName string

	Schemas map[string]*Fragment
}

// Property is one entry of a property snapshot.
type Property struct {
	Name     string
	Fragment *Fragment
}
