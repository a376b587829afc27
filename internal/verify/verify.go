// Package verify audits the persisted rule hierarchy against the rules that
// derivation produces from the same documents today. It never writes.
package verify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Primosic/validador-opin-2025/internal/maps"
	"github.com/Primosic/validador-opin-2025/internal/model"
	"github.com/Primosic/validador-opin-2025/internal/rules"
	"github.com/Primosic/validador-opin-2025/internal/store"
)

// Reader is the read side of the store needed to audit persisted rules.
type Reader interface {
	GroupByName(ctx context.Context, name string) (*store.Group, error)
	DatasetsByGroup(ctx context.Context, groupID int64) ([]store.Dataset, error)
	RulesByDataset(ctx context.Context, datasetID int64) ([]store.RuleRow, error)
}

// Verifier re-derives the expected rules of each document and diffs them
// against the persisted hierarchy.
type Verifier struct {
	reader   Reader
	category rules.Category
	deriver  *rules.Deriver
	log      *zap.SugaredLogger
}

func New(reader Reader, category rules.Category, deriver *rules.Deriver, log *zap.SugaredLogger) *Verifier {
	return &Verifier{
		reader:   reader,
		category: category,
		deriver:  deriver,
		log:      log,
	}
}

// Document audits one document, appending findings to the report. A missing
// group is a finding, not an error; errors are reserved for store failures.
func (v *Verifier) Document(ctx context.Context, doc *model.Document, fallbackGroup string, report *Report) error {
	group := doc.APIName
	if group == "" {
		group = fallbackGroup
	}

	restricted := v.category.Restricted(doc.Source)
	expected := v.deriver.DeriveDocument(doc, restricted)

	report.Documents++

	g, err := v.reader.GroupByName(ctx, group)
	if store.IsNotFound(err) {
		report.Add(Finding{Kind: KindMissingGroup, Group: group})
		return nil
	}
	if err != nil {
		return fmt.Errorf(`failed to look up group "%s": %w`, group, err)
	}

	datasets, err := v.reader.DatasetsByGroup(ctx, g.ID)
	if err != nil {
		return fmt.Errorf(`failed to list datasets of group "%s": %w`, group, err)
	}

	byName := make(map[string]store.Dataset, len(datasets))
	for _, d := range datasets {
		byName[d.Name] = d
	}

	for _, name := range maps.SortedKeys(expected) {
		ds, ok := byName[name]
		if !ok {
			report.Add(Finding{Kind: KindMissingDataset, Group: group, Dataset: name})
			continue
		}

		rows, err := v.reader.RulesByDataset(ctx, ds.ID)
		if err != nil {
			return fmt.Errorf(`failed to list rules of dataset "%s": %w`, name, err)
		}

		v.compareRules(group, name, expected[name], rows, report)
	}

	for _, d := range datasets {
		if _, ok := expected[d.Name]; !ok {
			report.Add(Finding{Kind: KindStaleDataset, Group: group, Dataset: d.Name})
		}
	}

	v.log.Infow("document audited", "source", doc.Source, "group", group, "schemas", len(expected))
	return nil
}

func (v *Verifier) compareRules(group, dataset string, want []rules.Rule, got []store.RuleRow, report *Report) {
	byField := make(map[string]store.RuleRow, len(got))
	for _, row := range got {
		byField[row.Field] = row
	}

	seen := make(map[string]bool, len(want))
	for _, rule := range want {
		seen[rule.Field] = true

		row, ok := byField[rule.Field]
		if !ok {
			report.Add(Finding{Kind: KindMissingRule, Group: group, Dataset: dataset, Field: rule.Field})
			continue
		}

		if detail := diffRule(rule, row); detail != "" {
			report.Add(Finding{
				Kind:    KindRuleMismatch,
				Group:   group,
				Dataset: dataset,
				Field:   rule.Field,
				Detail:  detail,
			})
		}
	}

	for _, row := range got {
		if !seen[row.Field] {
			report.Add(Finding{Kind: KindStaleRule, Group: group, Dataset: dataset, Field: row.Field})
		}
	}
}

func diffRule(want rules.Rule, got store.RuleRow) string {
	var diffs []string

	if got.Type != string(want.Type) {
		diffs = append(diffs, fmt.Sprintf(`type "%s", expected "%s"`, got.Type, want.Type))
	}
	if got.Size != want.Size {
		diffs = append(diffs, fmt.Sprintf("size %d, expected %d", got.Size, want.Size))
	}
	if got.Required != want.Required {
		diffs = append(diffs, fmt.Sprintf("required %t, expected %t", got.Required, want.Required))
	}
	if !enumEqual(got.Enum, want.Enum) {
		diffs = append(diffs, "enum values differ")
	}

	return strings.Join(diffs, "; ")
}

// enumEqual compares enum values by their printed form. Values round-trip
// through YAML on one side and JSONB on the other, so numeric types differ
// even when the values agree.
func enumEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if fmt.Sprint(a[i]) != fmt.Sprint(b[i]) {
			return false
		}
	}
	return true
}
