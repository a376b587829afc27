package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Primosic/validador-opin-2025/internal/schedule"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run sync and verify on a schedule",
	Long: `Process the specs directory immediately and then at every
schedule.interval, until interrupted.`,
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

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runner := schedule.NewRunner(cfg.Schedule.Interval, func(ctx context.Context, runID string) error {
			outcome, err := runSync(ctx, cfg.SpecsDir, db, log)
			if err != nil {
				return err
			}

			report, err := runVerify(ctx, cfg.SpecsDir, db, log)
			if err != nil {
				return err
			}

			log.Infow("cycle finished", "run", runID,
				"documents", outcome.Documents, "processed", outcome.Processed,
				"failed", outcome.Failed, "findings", len(report.Findings))
			return nil
		}, log)

		err = runner.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}
