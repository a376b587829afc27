// Package ref interprets schema reference strings as they appear in OpenAPI
// documents, e.g. "#/components/schemas/Owner". References are only ever
// matched by name; the engine never resolves them.
package ref

import "strings"

// SchemaName returns the final path segment of a reference, which for
// component references is the schema name. A reference without a path
// separator is returned unchanged.
func SchemaName(ref string) string {
	if i := strings.LastIndexByte(ref, '/'); i != -1 {
		return ref[i+1:]
	}
	return ref
}

// PointsTo reports whether ref's target is the named schema.
func PointsTo(ref, name string) bool {
	return ref != "" && SchemaName(ref) == name
}
