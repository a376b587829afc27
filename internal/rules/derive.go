package rules

import (
	"fmt"
	"slices"

	"github.com/Primosic/validador-opin-2025/internal/maps"
	"github.com/Primosic/validador-opin-2025/internal/model"
	"github.com/Primosic/validador-opin-2025/internal/ref"
	"go.uber.org/zap"
)

// Rule is one derived validation rule, ready for persistence.
type Rule struct {
	Field    string
	Type     model.Type
	Size     int
	Required bool

	// Enum carries the fragment's declared values through untouched.
	// Nil when the fragment declared none (or declared an empty list).
	Enum []any
}

// Deriver turns one schema fragment into its flat rule set.
type Deriver struct {
	flattener *Flattener
	log       *zap.SugaredLogger
}

func NewDeriver(flattener *Flattener, log *zap.SugaredLogger) *Deriver {
	return &Deriver{flattener: flattener, log: log}
}

// Derive produces the rules for one schema, in snapshot order. Restricted
// schemas get the policyId injection and lose cross-schema reference
// properties. A property that cannot be classified is logged and skipped;
// its siblings still derive. A caller that receives no rules should treat
// the schema as unprocessed.
func (d *Deriver) Derive(schemaName string, frag *model.Fragment, restricted bool) []Rule {
	if frag == nil {
		d.log.Errorw("schema has no definition", "schema", schemaName)
		return nil
	}

	props := d.flattener.Flatten(frag)
	required := slices.Clone(frag.Required)

	if restricted {
		props, required = injectPolicyField(props, required)
	}

	rules := make([]Rule, 0, len(props))

	for _, prop := range props {
		if restricted {
			if target := droppedReference(prop.Fragment, d.flattener.Shape); target != "" {
				d.log.Infow("dropping cross-reference property, related records link through policyId",
					"schema", schemaName, "property", prop.Name, "references", ref.SchemaName(target))
				continue
			}
		}

		rule, err := classify(prop)
		if err != nil {
			d.log.Errorw("failed to classify property",
				"schema", schemaName, "property", prop.Name, "error", err)
			continue
		}

		rule.Required = slices.Contains(required, prop.Name)
		rules = append(rules, rule)
	}

	return rules
}

// DeriveDocument derives the rule set of every schema in the document, keyed
// by schema name. In restricted documents the embeddable shape itself is left
// out because its fields are inlined into the schemas that reference it.
func (d *Deriver) DeriveDocument(doc *model.Document, restricted bool) map[string][]Rule {
	derived := make(map[string][]Rule, len(doc.Schemas))

	for _, name := range maps.SortedKeys(doc.Schemas) {
		if restricted && name == d.flattener.Shape {
			d.log.Infow("skipping embeddable schema, its fields are inlined into referencing datasets",
				"source", doc.Source, "schema", name)
			continue
		}

		derived[name] = d.Derive(name, doc.Schemas[name], restricted)
	}

	return derived
}

// classify derives the rule body of a single property.
func classify(prop model.Property) (Rule, error) {
	if prop.Fragment == nil {
		return Rule{}, fmt.Errorf(`property "%s" has no schema`, prop.Name)
	}

	rule := Rule{
		Field: prop.Name,
		Type:  TypeOf(prop.Fragment),
		Size:  SizeOf(prop.Fragment),
	}

	if len(prop.Fragment.Enum) > 0 {
		rule.Enum = slices.Clone(prop.Fragment.Enum)
	}

	return rule, nil
}
