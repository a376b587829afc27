package rules

import (
	"context"

	"github.com/Primosic/validador-opin-2025/internal/maps"
	"github.com/Primosic/validador-opin-2025/internal/model"
	"go.uber.org/zap"
)

// Store is the persistence collaborator: three idempotent create-or-reuse
// operations keyed by natural identity, each returning the row's identifier.
// Re-running an operation with the same key must converge on the same row.
type Store interface {
	UpsertGroup(ctx context.Context, name string) (int64, error)
	UpsertDataset(ctx context.Context, name string, groupID int64) (int64, error)
	UpsertRule(ctx context.Context, datasetID int64, rule Rule) (int64, error)
}

// Processor drives derivation and persistence for whole documents.
type Processor struct {
	store    Store
	category Category
	deriver  *Deriver
	log      *zap.SugaredLogger
}

func NewProcessor(store Store, category Category, deriver *Deriver, log *zap.SugaredLogger) *Processor {
	return &Processor{
		store:    store,
		category: category,
		deriver:  deriver,
		log:      log,
	}
}

// Process persists the validation rules of every schema in the document and
// reports whether at least one schema produced rules. Failures never escape:
// every error, including a panic, is logged with the document's source and
// collapses into a false outcome.
func (p *Processor) Process(ctx context.Context, doc *model.Document, fallbackGroup string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Errorw("panic while processing document", "source", doc.Source, "panic", r)
			ok = false
		}
	}()

	if len(doc.Schemas) == 0 {
		p.log.Warnw("no schemas found in document", "source", doc.Source)
		return false
	}

	group := doc.APIName
	if group == "" {
		group = fallbackGroup
	} else {
		p.log.Infow("using API name declared by the document", "source", doc.Source, "group", group)
	}

	groupID, err := p.store.UpsertGroup(ctx, group)
	if err != nil {
		p.log.Errorw("failed to persist group", "source", doc.Source, "group", group, "error", err)
		return false
	}

	p.log.Infow("group persisted", "group", group, "id", groupID)

	restricted := p.category.Restricted(doc.Source)
	derived := p.deriver.DeriveDocument(doc, restricted)
	processed := 0

	for _, name := range maps.SortedKeys(derived) {
		datasetID, err := p.store.UpsertDataset(ctx, name, groupID)
		if err != nil {
			p.log.Errorw("failed to persist dataset", "source", doc.Source, "schema", name, "error", err)
			return false
		}

		persisted := 0
		for _, rule := range derived[name] {
			if _, err := p.store.UpsertRule(ctx, datasetID, rule); err != nil {
				p.log.Errorw("failed to persist rule",
					"source", doc.Source, "schema", name, "field", rule.Field, "error", err)
				continue
			}

			persisted++
		}

		if persisted > 0 {
			processed++
			p.log.Infow("schema processed", "schema", name, "rules", persisted)
		}
	}

	if processed == 0 {
		p.log.Warnw("no schema produced any rule", "source", doc.Source)
		return false
	}

	p.log.Infow("document processed", "source", doc.Source, "group", group, "schemas", processed)
	return true
}
