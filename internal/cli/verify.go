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
	"github.com/Primosic/validador-opin-2025/internal/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Audit persisted rules against the current documents",
	Long: `Re-derive the rules of every OpenAPI document in the specs directory
and compare them with what the database holds. Nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		report, err := runVerify(cmd.Context(), cfg.SpecsDir, db, log)
		if err != nil {
			return err
		}

		printReport(report)
		if !report.OK() {
			return fmt.Errorf("%d divergences found", len(report.Problems()))
		}
		return nil
	},
}

func runVerify(ctx context.Context, dir string, db *store.DB, log *zap.SugaredLogger) (*verify.Report, error) {
	files, err := openapi.FindDocuments(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf(`no YAML documents found in "%s"`, dir)
	}

	verifier := verify.New(db, rules.InsuranceCategory{}, rules.NewDeriver(rules.NewFlattener(), log), log)

	report := &verify.Report{}
	for _, file := range files {
		doc, err := openapi.ReadDocument(file)
		if err != nil {
			return nil, fmt.Errorf(`failed to read document "%s": %w`, file, err)
		}

		if err := verifier.Document(ctx, doc, openapi.FallbackAPIName(file), report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func printReport(r *verify.Report) {
	for _, f := range r.Findings {
		if f.Informational() {
			color.New(color.FgYellow).Printf("  ~ %s\n", f)
		} else {
			color.New(color.FgRed).Printf("  ✗ %s\n", f)
		}
	}

	if r.OK() {
		color.New(color.FgGreen, color.Bold).Printf("✓ %d documents verified\n", r.Documents)
	}
}
