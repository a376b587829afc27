package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Primosic/validador-opin-2025/internal/model/openapi"
	"github.com/Primosic/validador-opin-2025/internal/rules"
	"github.com/Primosic/validador-opin-2025/internal/store"
)

var syncCmd = &cobra.Command{
	Use:   "sync [dir]",
	Short: "Derive validation rules and persist them",
	Long: `Read every OpenAPI document in the specs directory, derive field
validation rules and upsert them into the database. An explicit directory
argument overrides the configured specs_dir.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		dir := cfg.SpecsDir
		if len(args) > 0 {
			dir = args[0]
		}

		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		outcome, err := runSync(cmd.Context(), dir, db, log)
		if err != nil {
			return err
		}

		printSyncOutcome(outcome)
		if outcome.Failed > 0 {
			return fmt.Errorf("%d of %d documents failed", outcome.Failed, outcome.Documents)
		}
		return nil
	},
}

// syncOutcome summarizes one pass over the specs directory.
type syncOutcome struct {
	Documents int
	Processed int
	Failed    int
}

// runSync processes every document under dir. A document that cannot even be
// read counts as failed, same as one the processor rejects.
func runSync(ctx context.Context, dir string, db *store.DB, log *zap.SugaredLogger) (syncOutcome, error) {
	var outcome syncOutcome

	files, err := openapi.FindDocuments(dir)
	if err != nil {
		return outcome, err
	}
	if len(files) == 0 {
		return outcome, fmt.Errorf(`no YAML documents found in "%s"`, dir)
	}

	processor := rules.NewProcessor(db, rules.InsuranceCategory{}, rules.NewDeriver(rules.NewFlattener(), log), log)

	for _, file := range files {
		outcome.Documents++

		doc, err := openapi.ReadDocument(file)
		if err != nil {
			log.Errorw("failed to read document", "file", file, "error", err)
			outcome.Failed++
			continue
		}

		if processor.Process(ctx, doc, openapi.FallbackAPIName(file)) {
			outcome.Processed++
		} else {
			outcome.Failed++
		}
	}

	return outcome, nil
}

func printSyncOutcome(o syncOutcome) {
	color.New(color.FgGreen, color.Bold).Printf("✓ %d/%d documents processed\n", o.Processed, o.Documents)
	if o.Failed > 0 {
		color.New(color.FgRed, color.Bold).Printf("✗ %d documents failed\n", o.Failed)
	}
}
