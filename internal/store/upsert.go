package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Primosic/validador-opin-2025/internal/rules"
)

const upsertGroupSQL = `
INSERT INTO grupos (nome)
VALUES ($1)
ON CONFLICT (nome) DO UPDATE SET atualizado_em = NOW()
RETURNING id`

// UpsertGroup creates the API group or reuses the existing row with the same
// name, returning its id either way.
func (s *DB) UpsertGroup(ctx context.Context, name string) (int64, error) {
	var id int64
	if err := s.db.QueryRowContext(ctx, upsertGroupSQL, name).Scan(&id); err != nil {
		return 0, fmt.Errorf(`failed to upsert group "%s": %w`, name, ConvertError(err))
	}
	return id, nil
}

const upsertDatasetSQL = `
INSERT INTO conjuntos_dados (grupo_id, nome)
VALUES ($1, $2)
ON CONFLICT (grupo_id, nome) DO UPDATE SET atualizado_em = NOW()
RETURNING id`

// UpsertDataset creates the dataset under the given group or reuses the
// existing row with the same name.
func (s *DB) UpsertDataset(ctx context.Context, name string, groupID int64) (int64, error) {
	var id int64
	if err := s.db.QueryRowContext(ctx, upsertDatasetSQL, groupID, name).Scan(&id); err != nil {
		return 0, fmt.Errorf(`failed to upsert dataset "%s": %w`, name, ConvertError(err))
	}
	return id, nil
}

const upsertRuleSQL = `
INSERT INTO regras_validacao (conjunto_id, campo, tipo, tamanho, obrigatorio, valores_enum)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (conjunto_id, campo) DO UPDATE SET
	tipo = EXCLUDED.tipo,
	tamanho = EXCLUDED.tamanho,
	obrigatorio = EXCLUDED.obrigatorio,
	valores_enum = EXCLUDED.valores_enum,
	atualizado_em = NOW()
RETURNING id`

// UpsertRule writes the rule for (dataset, field), overwriting the stored
// type, size, required flag and enum values when the field already exists.
func (s *DB) UpsertRule(ctx context.Context, datasetID int64, rule rules.Rule) (int64, error) {
	enum, err := marshalEnum(rule.Enum)
	if err != nil {
		return 0, fmt.Errorf(`failed to upsert rule "%s": %w`, rule.Field, err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx, upsertRuleSQL,
		datasetID, rule.Field, string(rule.Type), rule.Size, rule.Required, enum).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf(`failed to upsert rule "%s": %w`, rule.Field, ConvertError(err))
	}
	return id, nil
}

// marshalEnum renders enum values as JSON for the JSONB column. Rules without
// accepted values store NULL rather than an empty array.
func marshalEnum(enum []any) (any, error) {
	if len(enum) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(enum)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal enum values: %w", err)
	}
	return data, nil
}
