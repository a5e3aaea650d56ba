package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	gormstore "github.com/harborcase/govern/pkg/store/gorm"
	"github.com/harborcase/govern/pkg/tags"
)

// tagCmd represents the tag command
var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
	Long:  `Manage a tenant's tag vocabulary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'tag' requires a subcommand (merge)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var tagMergeBy string

var tagMergeCmd = &cobra.Command{
	Use:   "merge <org-id> <source-tag-id> <target-tag-id>",
	Short: "Merge one tag into another",
	Long: `Merge the source tag into the target tag.

All associations of the source tag are repointed to the target; entities
already carrying both tags keep a single association. The source tag is
deleted and the merge is recorded for audit.

Example:
  governctl tag merge org-42 1f3a... 9c0d... --by ops@example.com`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			fail("Failed to initialize: %v", err)
		}
		defer a.Close()

		svc := tags.NewService(gormstore.NewTagsStore(a.db), a.gateway, a.log)
		result, err := svc.Merge(context.Background(), args[0], args[1], args[2], tagMergeBy)
		if err != nil {
			fail("Merge failed: %v", err)
		}

		fmt.Printf("Merged into %q: %d associations repointed, %d duplicates dropped, usage now %d\n",
			result.Target.Name, result.Repointed, result.DroppedDuplicates, result.Target.UsageCount)
	},
}

func init() {
	tagMergeCmd.Flags().StringVar(&tagMergeBy, "by", "", "operator recorded in the merge audit entry")
	tagCmd.AddCommand(tagMergeCmd)
	rootCmd.AddCommand(tagCmd)
}
