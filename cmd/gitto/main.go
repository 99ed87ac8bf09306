// cmd/gitto/main.go
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gitto/internal/repo"
	"gitto/internal/watch"
)

var rootCmd = &cobra.Command{
	Use:   "gitto",
	Short: "Gitto is a minimal content-addressed version control system",
	Long: `Gitto tracks whole-file snapshots in a content-addressed object store,
stages them through an index, and links them into a linear commit history.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func openRepo() (*repo.Repository, error) {
	root, err := repo.FindRoot(".")
	if err != nil {
		return nil, err
	}
	return repo.Open(root)
}

func init() {
	var initCmd = &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new Gitto repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("creating %s: %w", dir, err)
			}

			root, err := repo.Init(dir)
			if err != nil {
				return err
			}

			fmt.Println("Initialized empty Gitto repository in", root)
			return nil
		},
	}

	var addCmd = &cobra.Command{
		Use:   "add <paths...>",
		Short: "Add file(s) to the staging area",
		Long:  `Stages the specified files for the next commit. Use '.' to stage all changed and untracked files.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			result, err := r.Add(args)
			if err != nil {
				return err
			}

			for _, path := range result.Added {
				fmt.Printf("'%s' added to staging area\n", path)
			}
			for _, path := range result.AlreadyStaged {
				fmt.Printf("'%s' already added to staging area\n", path)
			}
			return nil
		},
	}

	var staged bool
	var restoreCmd = &cobra.Command{
		Use:   "restore <paths...>",
		Short: "Restore file(s) to their last committed content",
		Long:  `Rewrites tracked files with changes back to the last commit. With --staged, removes files from the staging area instead.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			if staged {
				result, err := r.Unstage(args)
				if err != nil {
					return err
				}
				for _, path := range result.Removed {
					fmt.Printf("'%s' unstaged\n", path)
				}
				for _, path := range result.NotStaged {
					fmt.Printf("'%s' is not in the staging area\n", path)
				}
				return nil
			}

			result, err := r.Restore(args)
			if err != nil {
				return err
			}
			for _, path := range result.Restored {
				fmt.Printf("'%s' restored to last commit version\n", path)
			}
			for _, path := range result.NoChanges {
				fmt.Printf("'%s' has no changes to be restored\n", path)
			}
			for _, path := range result.NotTracked {
				fmt.Printf("'%s' is not being tracked\n", path)
			}
			return nil
		},
	}
	restoreCmd.Flags().BoolVar(&staged, "staged", false, "unstage the given file(s)")

	var commitCmd = &cobra.Command{
		Use:   "commit <message>",
		Short: "Commit staged changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			c, err := r.Commit(args[0])
			if err != nil {
				return err
			}

			fmt.Println("Commit successfully created with commit hash:", c.Digest)
			return nil
		},
	}

	var logCmd = &cobra.Command{
		Use:   "log",
		Short: "Show commit log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			history, err := r.Log()
			if err != nil {
				return err
			}
			if len(history) == 0 {
				fmt.Println("Gitto repository does not have any commits yet")
				return nil
			}

			yellow := color.New(color.FgYellow)
			for _, c := range history {
				when, err := c.Time()
				if err != nil {
					return err
				}
				yellow.Printf("Commit:\t%s\n", c.Digest)
				fmt.Printf("Date:\t%s\n\n\t%s\n\n", when.Format("02 Jan 2006  15:04:05 -0700"), c.Message)
			}
			return nil
		},
	}

	var showDiffCmd = &cobra.Command{
		Use:   "show-diff <commit-hash>",
		Short: "Show changes a commit introduced over its parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			report, err := r.ShowDiff(args[0])
			if err != nil {
				return err
			}
			if report.FirstCommit {
				fmt.Println("First commit")
				return nil
			}

			printDiffReport(report)
			return nil
		},
	}

	var statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show the working tree status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			state, err := r.Status()
			if err != nil {
				return err
			}

			printStatus(state)
			return nil
		},
	}

	var reflogCmd = &cobra.Command{
		Use:   "reflog",
		Short: "List recorded HEAD movements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			entries, err := r.Reflog()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("Reflog is empty")
				return nil
			}

			for _, e := range entries {
				fmt.Printf("%s  %s  %s\n",
					e.Commit[:8],
					e.RecordedAt.Local().Format("02 Jan 2006 15:04:05"),
					e.Message)
			}
			return nil
		},
	}

	var watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Watch the working tree and log classification changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			w, err := watch.New(r, r.Logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Println("Watching", r.Root, "(interrupt to stop)")
			return w.Run(ctx)
		},
	}

	rootCmd.AddCommand(initCmd, addCmd, restoreCmd, commitCmd, logCmd, showDiffCmd, statusCmd, reflogCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
