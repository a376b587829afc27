package rules

import (
	"testing"

	assert "github.com/stretchr/testify/require"

	"github.com/Primosic/validador-opin-2025/internal/model"
	"github.com/Primosic/validador-opin-2025/internal/ptr"
)

// amountDetailsItem builds the allOf element OPIN premium schemas compose:
// a $ref to AmountDetails together with the inline amount shape.
func amountDetailsItem() *model.Fragment {
	return &model.Fragment{
		Ref: "#/components/schemas/AmountDetails",
		Properties: map[string]*model.Fragment{
			"amount": {
				Type: "object",
				Properties: map[string]*model.Fragment{
					"value": {Type: "string", MaxLength: ptr.V(16)},
					"unit": {
						Type: "object",
						Properties: map[string]*model.Fragment{
							"code":        {Type: "string", MaxLength: ptr.V(3)},
							"description": {Type: "string"},
						},
					},
				},
			},
		},
	}
}

func propsByName(props model.PropertySet) map[string]*model.Fragment {
	byName := make(map[string]*model.Fragment, len(props))
	for _, p := range props {
		byName[p.Name] = p.Fragment
	}
	return byName
}

func TestFlattenWithoutAllOf(t *testing.T) {
	frag := &model.Fragment{
		Type: "object",
		Properties: map[string]*model.Fragment{
			"b": {Type: "string"},
			"a": {Type: "integer"},
		},
	}

	props := NewFlattener().Flatten(frag)

	assert.Len(t, props, 2)
	assert.Equal(t, "a", props[0].Name)
	assert.Equal(t, "b", props[1].Name)
}

func TestFlattenEmbeddableShape(t *testing.T) {
	frag := &model.Fragment{
		Type: "object",
		Properties: map[string]*model.Fragment{
			"currency": {Type: "string", MaxLength: ptr.V(3)},
		},
		AllOf: []*model.Fragment{amountDetailsItem()},
	}

	props := NewFlattener().Flatten(frag)
	byName := propsByName(props)

	assert.Len(t, props, 5)
	assert.Contains(t, byName, "currency")

	value := byName["amount_value"]
	assert.NotNil(t, value)
	assert.Equal(t, "string", value.Type)
	assert.Equal(t, 16, *value.MaxLength)

	// The intermediate object child becomes a synthetic of its own.
	unit := byName["amount_unit"]
	assert.NotNil(t, unit)
	assert.Equal(t, "object", unit.Type)
	assert.Equal(t, DefaultMinimalSize, *unit.MaxLength)

	code := byName["amount_unit_code"]
	assert.NotNil(t, code)
	assert.Equal(t, "string", code.Type)
	assert.Equal(t, 3, *code.MaxLength)

	desc := byName["amount_unit_description"]
	assert.NotNil(t, desc)
	assert.Equal(t, "string", desc.Type)
	assert.Equal(t, DefaultStringSize, *desc.MaxLength)
}

func TestFlattenForcesStringBelowFirstLevel(t *testing.T) {
	frag := &model.Fragment{
		AllOf: []*model.Fragment{{
			Ref: "#/components/schemas/AmountDetails",
			Properties: map[string]*model.Fragment{
				"amount": {
					Properties: map[string]*model.Fragment{
						"unit": {
							Properties: map[string]*model.Fragment{
								"scale": {Type: "integer"},
							},
						},
					},
				},
			},
		}},
	}

	byName := propsByName(NewFlattener().Flatten(frag))

	// First level keeps the declared type, the level below is forced to
	// string but still sizes from its own declaration.
	scale := byName["amount_unit_scale"]
	assert.NotNil(t, scale)
	assert.Equal(t, "string", scale.Type)
	assert.Equal(t, DefaultNumericSize, *scale.MaxLength)
}

func TestFlattenStopsAtDepthLimit(t *testing.T) {
	frag := &model.Fragment{
		AllOf: []*model.Fragment{{
			Ref: "#/components/schemas/AmountDetails",
			Properties: map[string]*model.Fragment{
				"amount": {
					Properties: map[string]*model.Fragment{
						"unit": {
							Properties: map[string]*model.Fragment{
								"code": {
									Properties: map[string]*model.Fragment{
										"deep": {Type: "string"},
									},
								},
							},
						},
					},
				},
			},
		}},
	}

	byName := propsByName(NewFlattener().Flatten(frag))

	assert.Contains(t, byName, "amount_unit")
	assert.Contains(t, byName, "amount_unit_code")
	assert.NotContains(t, byName, "amount_unit_code_deep")
}

func TestFlattenIgnoresUnrelatedAllOf(t *testing.T) {
	frag := &model.Fragment{
		Properties: map[string]*model.Fragment{
			"id": {Type: "string"},
		},
		AllOf: []*model.Fragment{
			nil,
			// Reference without inline properties.
			{Ref: "#/components/schemas/AmountDetails"},
			// Inline properties without a reference.
			{Properties: map[string]*model.Fragment{"amount": {Properties: map[string]*model.Fragment{"value": {Type: "string"}}}}},
			// Reference to a different schema.
			{
				Ref:        "#/components/schemas/Owner",
				Properties: map[string]*model.Fragment{"amount": {Properties: map[string]*model.Fragment{"value": {Type: "string"}}}},
			},
			// Suffix almost matches but the path segment differs.
			{
				Ref:        "#/components/schemas/NotAmountDetails",
				Properties: map[string]*model.Fragment{"amount": {Properties: map[string]*model.Fragment{"value": {Type: "string"}}}},
			},
			// Matching reference without the anchor property.
			{
				Ref:        "#/components/schemas/AmountDetails",
				Properties: map[string]*model.Fragment{"total": {Properties: map[string]*model.Fragment{"value": {Type: "string"}}}},
			},
		},
	}

	props := NewFlattener().Flatten(frag)

	assert.Len(t, props, 1)
	assert.Equal(t, "id", props[0].Name)
}

func TestFlattenKeepsDeclaredPropertyOnCollision(t *testing.T) {
	frag := &model.Fragment{
		Properties: map[string]*model.Fragment{
			"amount_value": {Type: "integer"},
		},
		AllOf: []*model.Fragment{{
			Ref: "#/components/schemas/AmountDetails",
			Properties: map[string]*model.Fragment{
				"amount": {
					Properties: map[string]*model.Fragment{
						"value": {Type: "string", MaxLength: ptr.V(16)},
					},
				},
			},
		}},
	}

	byName := propsByName(NewFlattener().Flatten(frag))

	assert.Equal(t, "integer", byName["amount_value"].Type)
}

func TestFlattenSizesSyntheticsLikeDeclaredFields(t *testing.T) {
	// A numeric amount value gets the numeric default; a currency code gets
	// its longest enum literal.
	frag := &model.Fragment{
		Type: "object",
		AllOf: []*model.Fragment{{
			Ref: "#/components/schemas/AmountDetails",
			Properties: map[string]*model.Fragment{
				"amount": {
					Type: "object",
					Properties: map[string]*model.Fragment{
						"value": {Type: "number"},
						"unit": {
							Type: "object",
							Properties: map[string]*model.Fragment{
								"code": {Type: "string", Enum: []any{"USD", "BRL"}},
							},
						},
					},
				},
			},
		}},
	}

	byName := propsByName(NewFlattener().Flatten(frag))

	assert.Equal(t, "number", byName["amount_value"].Type)
	assert.Equal(t, DefaultNumericSize, *byName["amount_value"].MaxLength)

	assert.Equal(t, "string", byName["amount_unit_code"].Type)
	assert.Equal(t, 3, *byName["amount_unit_code"].MaxLength)
}

func TestFlattenDoesNotModifySource(t *testing.T) {
	frag := &model.Fragment{
		Properties: map[string]*model.Fragment{
			"currency": {Type: "string"},
		},
		AllOf: []*model.Fragment{amountDetailsItem()},
	}

	_ = NewFlattener().Flatten(frag)

	assert.Len(t, frag.Properties, 1)
	assert.Contains(t, frag.Properties, "currency")
}
