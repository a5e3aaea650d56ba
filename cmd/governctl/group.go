package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harborcase/govern/pkg/groups"
	gormstore "github.com/harborcase/govern/pkg/store/gorm"
)

// groupCmd represents the group command
var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage asset groups",
	Long:  `Manage a tenant's asset group hierarchy.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'group' requires a subcommand (recompute)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var groupRecomputeCmd = &cobra.Command{
	Use:   "recompute <org-id> [group-id]",
	Short: "Re-evaluate dynamic group membership",
	Long: `Re-evaluate the membership rules of dynamic groups.

With a group id, recomputes that group; without one, recomputes every
dynamic group in the organization.

Example:
  governctl group recompute org-42
  governctl group recompute org-42 7b2e...`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			fail("Failed to initialize: %v", err)
		}
		defer a.Close()

		svc := groups.NewService(gormstore.NewGroupsStore(a.db), a.gateway, a.log)
		ctx := context.Background()

		if len(args) == 2 {
			count, err := svc.RecomputeDynamicGroup(ctx, args[0], args[1])
			if err != nil {
				fail("Recompute failed: %v", err)
			}
			fmt.Printf("Group %s now has %d members\n", args[1], count)
			return
		}

		recomputed, err := svc.RecomputeAllDynamicGroups(ctx, args[0])
		if err != nil {
			fail("Recompute failed: %v", err)
		}
		fmt.Printf("Recomputed %d dynamic groups\n", recomputed)
	},
}

func init() {
	groupCmd.AddCommand(groupRecomputeCmd)
	rootCmd.AddCommand(groupCmd)
}
