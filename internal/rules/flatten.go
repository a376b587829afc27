package rules

import (
	"github.com/Primosic/validador-opin-2025/internal/maps"
	"github.com/Primosic/validador-opin-2025/internal/model"
	"github.com/Primosic/validador-opin-2025/internal/ptr"
	"github.com/Primosic/validador-opin-2025/internal/ref"
)

// EmbeddableShape is the schema whose fields are always inlined into
// referencing schemas instead of being persisted as a dataset of their own.
const EmbeddableShape = "AmountDetails"

// anchorProperty is the property of the embeddable shape whose sub-fields
// get flattened into the owning schema.
const anchorProperty = "amount"

// flattenDepth bounds how many property levels below the anchor are
// expanded. OPIN documents nest exactly two (amount -> unit -> code).
const flattenDepth = 2

// Flattener inlines the fields of a composed embeddable shape into the
// owning schema's property snapshot. Only allOf elements that reference the
// shape and carry an inline properties mapping take part; there are no
// general allOf merge semantics.
type Flattener struct {
	Shape    string
	Anchor   string
	MaxDepth int
}

// NewFlattener returns a Flattener for the OPIN amount shape.
func NewFlattener() *Flattener {
	return &Flattener{
		Shape:    EmbeddableShape,
		Anchor:   anchorProperty,
		MaxDepth: flattenDepth,
	}
}

// Flatten returns the fragment's property snapshot with the synthetic
// properties of composed embeddable shapes appended. Without an allOf the
// base snapshot is returned unchanged. The source fragment is never
// modified.
func (f *Flattener) Flatten(frag *model.Fragment) model.PropertySet {
	props := model.Snapshot(frag)

	for _, item := range frag.AllOf {
		if item == nil || item.Properties == nil || !ref.PointsTo(item.Ref, f.Shape) {
			continue
		}

		anchor := item.Properties[f.Anchor]
		if anchor == nil || anchor.Properties == nil {
			continue
		}

		props = f.expand(props, f.Anchor, anchor, 1)
	}

	return props
}

// expand appends one synthetic property per child of frag, named
// prefix_<child>, recursing into children that have properties of their own
// until the depth limit. Levels below the first are always typed string.
// Synthetic fragments carry only the classified type and size; enum lists do
// not survive flattening.
func (f *Flattener) expand(props model.PropertySet, prefix string, frag *model.Fragment, depth int) model.PropertySet {
	for _, name := range maps.SortedKeys(frag.Properties) {
		child := frag.Properties[name]
		if child == nil {
			continue
		}

		syntheticName := prefix + "_" + name

		typeTag := TypeOf(child)
		if depth > 1 {
			typeTag = model.TypeString
		}

		props = props.Add(syntheticName, &model.Fragment{
			Type:      string(typeTag),
			MaxLength: ptr.V(SizeOf(child)),
		})

		if depth < f.MaxDepth && child.Properties != nil {
			props = f.expand(props, syntheticName, child, depth+1)
		}
	}

	return props
}
