package rules

import (
	"testing"

	assert "github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Primosic/validador-opin-2025/internal/model"
	"github.com/Primosic/validador-opin-2025/internal/ptr"
)

func newTestDeriver() *Deriver {
	return NewDeriver(NewFlattener(), zap.NewNop().Sugar())
}

func rulesByField(list []Rule) map[string]Rule {
	byField := make(map[string]Rule, len(list))
	for _, r := range list {
		byField[r.Field] = r
	}
	return byField
}

func TestDeriveBasicSchema(t *testing.T) {
	frag := &model.Fragment{
		Type: "object",
		Properties: map[string]*model.Fragment{
			"status":    {Type: "string", Enum: []any{"ACTIVE", "CANCELLED"}},
			"productId": {Type: "string", MaxLength: ptr.V(40)},
			"premium":   {Type: "number"},
			"active":    {Type: "boolean"},
		},
		Required: []string{"productId", "status"},
	}

	list := newTestDeriver().Derive("Quote", frag, false)
	assert.Len(t, list, 4)

	// Rules come out in property name order.
	assert.Equal(t, "active", list[0].Field)
	assert.Equal(t, "premium", list[1].Field)
	assert.Equal(t, "productId", list[2].Field)
	assert.Equal(t, "status", list[3].Field)

	byField := rulesByField(list)

	productID := byField["productId"]
	assert.Equal(t, model.TypeString, productID.Type)
	assert.Equal(t, 40, productID.Size)
	assert.True(t, productID.Required)
	assert.Nil(t, productID.Enum)

	status := byField["status"]
	assert.Equal(t, model.TypeString, status.Type)
	assert.Equal(t, 9, status.Size)
	assert.True(t, status.Required)
	assert.Equal(t, []any{"ACTIVE", "CANCELLED"}, status.Enum)

	premium := byField["premium"]
	assert.Equal(t, model.TypeNumber, premium.Type)
	assert.Equal(t, DefaultNumericSize, premium.Size)
	assert.False(t, premium.Required)

	active := byField["active"]
	assert.Equal(t, model.TypeBoolean, active.Type)
	assert.Equal(t, DefaultMinimalSize, active.Size)
}

func TestDeriveNilSchema(t *testing.T) {
	assert.Nil(t, newTestDeriver().Derive("Broken", nil, false))
}

func TestDeriveSkipsMalformedProperty(t *testing.T) {
	frag := &model.Fragment{
		Properties: map[string]*model.Fragment{
			"good": {Type: "string"},
			"bad":  nil,
		},
	}

	list := newTestDeriver().Derive("Quote", frag, false)

	assert.Len(t, list, 1)
	assert.Equal(t, "good", list[0].Field)
}

func TestDeriveEmptyEnumStaysOutOfRule(t *testing.T) {
	frag := &model.Fragment{
		Properties: map[string]*model.Fragment{
			"kind": {Type: "string", Enum: []any{}},
		},
	}

	list := newTestDeriver().Derive("Quote", frag, false)

	assert.Len(t, list, 1)
	assert.Nil(t, list[0].Enum)
	assert.Equal(t, 0, list[0].Size)
}

func TestDeriveInjectsPolicyField(t *testing.T) {
	frag := &model.Fragment{
		Properties: map[string]*model.Fragment{
			"coverage": {Type: "string", MaxLength: ptr.V(20)},
		},
	}

	byField := rulesByField(newTestDeriver().Derive("Policy", frag, true))
	assert.Len(t, byField, 2)

	policy := byField[PolicyField]
	assert.Equal(t, model.TypeString, policy.Type)
	assert.Equal(t, PolicyFieldSize, policy.Size)
	assert.True(t, policy.Required)
}

func TestDeriveKeepsDeclaredPolicyField(t *testing.T) {
	frag := &model.Fragment{
		Properties: map[string]*model.Fragment{
			"policyId": {Type: "string", MaxLength: ptr.V(40)},
		},
	}

	byField := rulesByField(newTestDeriver().Derive("Policy", frag, true))

	policy := byField["policyId"]
	assert.Equal(t, 40, policy.Size)
	assert.True(t, policy.Required)
}

func TestDeriveDropsCrossReferencesWhenRestricted(t *testing.T) {
	frag := &model.Fragment{
		Properties: map[string]*model.Fragment{
			"owner":     {Ref: "#/components/schemas/Owner"},
			"claims":    {Type: "array", Items: &model.Fragment{Ref: "#/components/schemas/Claim"}},
			"premiums":  {Type: "array", Items: &model.Fragment{Ref: "#/components/schemas/AmountDetails"}},
			"statusRef": {Type: "string"},
		},
	}

	byField := rulesByField(newTestDeriver().Derive("Policy", frag, true))

	assert.NotContains(t, byField, "owner")
	assert.NotContains(t, byField, "claims")

	// A reference to the embeddable shape is not a cross-schema link.
	assert.Contains(t, byField, "premiums")
	assert.Contains(t, byField, "statusRef")
	assert.Contains(t, byField, PolicyField)
}

func TestDeriveKeepsCrossReferencesWhenUnrestricted(t *testing.T) {
	frag := &model.Fragment{
		Properties: map[string]*model.Fragment{
			"owner": {Ref: "#/components/schemas/Owner"},
		},
	}

	byField := rulesByField(newTestDeriver().Derive("Resource", frag, false))

	owner := byField["owner"]
	assert.Equal(t, model.TypeString, owner.Type)
	assert.Equal(t, DefaultStringSize, owner.Size)
}

func TestDeriveResourceSchema(t *testing.T) {
	// The resources document is restricted by file name, not content: its
	// owner reference collapses into the shared policy identifier.
	frag := &model.Fragment{
		Type: "object",
		Properties: map[string]*model.Fragment{
			"resourceId": {Type: "string", MaxLength: ptr.V(36)},
			"owner":      {Ref: "#/components/schemas/Owner"},
			"status":     {Type: "string", Enum: []any{"AVAILABLE", "UNAVAILABLE"}},
		},
		Required: []string{"resourceId"},
	}

	list := newTestDeriver().Derive("Resource", frag, true)
	byField := rulesByField(list)

	assert.Len(t, list, 3)
	assert.NotContains(t, byField, "owner")
	assert.True(t, byField["resourceId"].Required)
	assert.True(t, byField[PolicyField].Required)
	assert.False(t, byField["status"].Required)
}

func TestDeriveFlattensComposedPremium(t *testing.T) {
	frag := &model.Fragment{
		Type: "object",
		Properties: map[string]*model.Fragment{
			"paymentDate": {Type: "string", MaxLength: ptr.V(10)},
		},
		Required: []string{"paymentDate"},
		AllOf:    []*model.Fragment{amountDetailsItem()},
	}

	byField := rulesByField(newTestDeriver().Derive("Premium", frag, true))

	assert.Contains(t, byField, "amount_value")
	assert.Contains(t, byField, "amount_unit_code")
	assert.Equal(t, model.TypeString, byField["amount_unit_code"].Type)
	assert.Equal(t, 3, byField["amount_unit_code"].Size)

	// Synthetic fields are never required.
	assert.False(t, byField["amount_value"].Required)
	assert.True(t, byField["paymentDate"].Required)
}

func TestDeriveDocument(t *testing.T) {
	doc := &model.Document{
		Source: "specs/insurance_auto.yaml",
		Schemas: map[string]*model.Fragment{
			"AmountDetails": {Type: "object"},
			"Policy": {
				Properties: map[string]*model.Fragment{
					"coverage": {Type: "string"},
				},
			},
		},
	}

	derived := newTestDeriver().DeriveDocument(doc, true)

	assert.Len(t, derived, 1)
	assert.NotContains(t, derived, "AmountDetails")
	assert.Contains(t, derived, "Policy")
}

func TestDeriveDocumentKeepsEmbeddableWhenUnrestricted(t *testing.T) {
	doc := &model.Document{
		Source: "specs/quote_auto.yaml",
		Schemas: map[string]*model.Fragment{
			"AmountDetails": {
				Properties: map[string]*model.Fragment{
					"amount": {Type: "object"},
				},
			},
		},
	}

	derived := newTestDeriver().DeriveDocument(doc, false)

	assert.Contains(t, derived, "AmountDetails")
	assert.Len(t, derived["AmountDetails"], 1)
}
