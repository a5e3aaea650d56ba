package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harborcase/govern/pkg/reconcile"
	gormstore "github.com/harborcase/govern/pkg/store/gorm"
)

var reconcileScheduled bool

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile [org-id]",
	Short: "Recount denormalized usage and member counters",
	Long: `Recount tag usage and group member counters from their source rows,
correcting any drift.

With an org id, reconciles that organization; without one, reconciles all.
With --schedule, keeps running on the configured cron schedule until
interrupted.

Example:
  governctl reconcile
  governctl reconcile org-42
  governctl reconcile --schedule`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			fail("Failed to initialize: %v", err)
		}
		defer a.Close()

		r := reconcile.NewReconciler(gormstore.NewReconcileStore(a.db), a.gateway, a.log)

		if reconcileScheduled {
			if len(args) > 0 {
				fail("--schedule reconciles all organizations; drop the org id")
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if err := r.Schedule(ctx, a.cfg.ReconcileSchedule); err != nil && err != context.Canceled {
				fail("Scheduler failed: %v", err)
			}
			return
		}

		var report reconcile.Report
		if len(args) > 0 {
			report, err = r.RunOrg(context.Background(), args[0])
		} else {
			report, err = r.RunAll(context.Background())
		}
		if err != nil {
			fail("Reconciliation failed: %v", err)
		}

		fmt.Printf("Reconciled %d orgs: %d tag counters corrected, %d group counters corrected\n",
			report.OrgsVisited, report.TagsCorrected, report.GroupsCorrected)
	},
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcileScheduled, "schedule", false,
		"run on the configured cron schedule until interrupted")
	rootCmd.AddCommand(reconcileCmd)
}
