package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/harborcase/govern/pkg/effective"
	gormstore "github.com/harborcase/govern/pkg/store/gorm"
)

// defaultsCmd represents the defaults command
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Manage system-level default tag sets",
	Long:  `Manage the system-level default tag set templates.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'defaults' requires a subcommand (load, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var defaultsLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load default tag sets from a template file",
	Long: `Load default tag set templates from a YAML file.

Sets are upserted by name, so re-loading an edited file updates the
existing templates in place.

Example:
  governctl defaults load ./defaults.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			fail("Failed to initialize: %v", err)
		}
		defer a.Close()

		written, err := effective.LoadDefaultsFile(context.Background(),
			gormstore.NewConfigStore(a.db), a.log, args[0])
		if err != nil {
			fail("Load failed: %v", err)
		}
		fmt.Printf("Loaded %d default tag sets\n", written)
	},
}

var defaultsWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a template file and reload it on change",
	Long: `Watch a default tag set template file and reload it whenever it is
modified.

Example:
  governctl defaults watch ./defaults.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchDefaults(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch defaults: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	defaultsCmd.AddCommand(defaultsLoadCmd)
	defaultsCmd.AddCommand(defaultsWatchCmd)
	rootCmd.AddCommand(defaultsCmd)
}

func watchDefaults(filename string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	st := gormstore.NewConfigStore(a.db)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filename); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", filename, err)
	}

	fmt.Printf("Watching %s for default tag set changes\n", filename)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fmt.Printf("[%s] File modified, reloading defaults...\n", time.Now().Format(time.RFC3339))

				written, err := effective.LoadDefaultsFile(context.Background(), st, a.log, filename)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error loading defaults: %v\n", err)
				} else {
					fmt.Printf("Loaded %d default tag sets\n", written)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}
