package rules

import (
	"slices"

	"github.com/Primosic/validador-opin-2025/internal/model"
	"github.com/Primosic/validador-opin-2025/internal/ptr"
	"github.com/Primosic/validador-opin-2025/internal/ref"
)

// PolicyField is the synthetic identifier injected into every schema of a
// restricted document. Restricted schemas relate to each other through this
// shared field instead of through cross-schema references.
const (
	PolicyField     = "policyId"
	PolicyFieldSize = 100
)

// injectPolicyField adds the policyId property to the snapshot and marks it
// required. Both steps are idempotent: a schema that already declares the
// field keeps its own declaration.
func injectPolicyField(props model.PropertySet, required []string) (model.PropertySet, []string) {
	props = props.Add(PolicyField, &model.Fragment{
		Type:      string(model.TypeString),
		MaxLength: ptr.V(PolicyFieldSize),
	})

	if !slices.Contains(required, PolicyField) {
		required = append(required, PolicyField)
	}

	return props, required
}

// droppedReference returns the cross-schema reference that disqualifies a
// restricted property from becoming a rule: a $ref to anything but the
// embeddable shape, or an array whose items carry such a $ref. Empty when
// the property may stay. The relationship those references express is
// represented by the shared policyId instead.
func droppedReference(frag *model.Fragment, shape string) string {
	if frag == nil {
		return ""
	}

	if frag.Ref != "" && !ref.PointsTo(frag.Ref, shape) {
		return frag.Ref
	}

	if model.Type(frag.Type) == model.TypeArray && frag.Items != nil &&
		frag.Items.Ref != "" && !ref.PointsTo(frag.Items.Ref, shape) {
		return frag.Items.Ref
	}

	return ""
}
