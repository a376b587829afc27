package store

import (
	"context"
	"encoding/json"
	"fmt"
)

const groupByNameSQL = `
SELECT id, nome
FROM grupos
WHERE nome = $1`

// GroupByName looks up an API group. Returns ErrNotFound when no group with
// that name has been persisted.
func (s *DB) GroupByName(ctx context.Context, name string) (*Group, error) {
	var g Group
	err := s.db.QueryRowContext(ctx, groupByNameSQL, name).Scan(&g.ID, &g.Name)
	if err != nil {
		return nil, fmt.Errorf(`failed to read group "%s": %w`, name, ConvertError(err))
	}
	return &g, nil
}

const datasetsByGroupSQL = `
SELECT id, grupo_id, nome
FROM conjuntos_dados
WHERE grupo_id = $1
ORDER BY nome`

// DatasetsByGroup lists every dataset persisted under the group.
func (s *DB) DatasetsByGroup(ctx context.Context, groupID int64) ([]Dataset, error) {
	rows, err := s.db.QueryContext(ctx, datasetsByGroupSQL, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to read datasets of group %d: %w", groupID, ConvertError(err))
	}
	defer rows.Close()

	var datasets []Dataset
	for rows.Next() {
		var d Dataset
		if err := rows.Scan(&d.ID, &d.GroupID, &d.Name); err != nil {
			return nil, fmt.Errorf("failed to scan dataset row: %w", err)
		}
		datasets = append(datasets, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read datasets of group %d: %w", groupID, ConvertError(err))
	}
	return datasets, nil
}

const rulesByDatasetSQL = `
SELECT id, conjunto_id, campo, tipo, tamanho, obrigatorio, valores_enum
FROM regras_validacao
WHERE conjunto_id = $1
ORDER BY campo`

// RulesByDataset lists every validation rule persisted under the dataset.
func (s *DB) RulesByDataset(ctx context.Context, datasetID int64) ([]RuleRow, error) {
	rows, err := s.db.QueryContext(ctx, rulesByDatasetSQL, datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules of dataset %d: %w", datasetID, ConvertError(err))
	}
	defer rows.Close()

	var rules []RuleRow
	for rows.Next() {
		var (
			r    RuleRow
			enum []byte
		)
		if err := rows.Scan(&r.ID, &r.DatasetID, &r.Field, &r.Type, &r.Size, &r.Required, &enum); err != nil {
			return nil, fmt.Errorf("failed to scan rule row: %w", err)
		}
		if enum != nil {
			if err := json.Unmarshal(enum, &r.Enum); err != nil {
				return nil, fmt.Errorf(`failed to unmarshal enum values of rule "%s": %w`, r.Field, err)
			}
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rules of dataset %d: %w", datasetID, ConvertError(err))
	}
	return rules, nil
}
