// Command launchtrack is the operational CLI of the tracker core: it opens
// the configured store and exposes backup management and read-only summaries.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"launchcore/internal/blob"
	"launchcore/internal/core"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment wins over file values.
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	store, err := core.OpenPersistentStore(core.NewDefaultRulesEngine())
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	svc := core.NewService(store, core.WithLogger(core.NewZerologLogger(logger)))

	root := newRootCmd(svc)
	return root.Execute()
}

func newRootCmd(svc *core.Service) *cobra.Command {
	root := &cobra.Command{
		Use:           "launchtrack",
		Short:         "Product launch tracker core",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newBackupCmd(svc),
		newStatsCmd(svc),
		newGroupsCmd(svc),
		newProjectsCmd(svc),
		newArchiveCmd(),
	)
	return root
}

func newBackupCmd(svc *core.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage snapshot backups",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Write a timestamped backup of the current snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, err := svc.CreateBackup()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.FileName)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			backups, err := svc.ListBackups()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, b := range backups {
				fmt.Fprintf(w, "%s\t%s\n", b.FileName, b.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore <file_name>",
		Short: "Restore the snapshot from a named backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := svc.RestoreBackup(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %s\n", info.FileName)
			return nil
		},
	})

	return cmd
}

func newStatsCmd(svc *core.Service) *cobra.Command {
	var includeArchived bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print a dashboard summary of the tracker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dash := svc.BuildDashboard(core.DashboardOptions{IncludeArchived: includeArchived})
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "projects: %d active, %d closed, %d archived\n",
				dash.Statuses.Active, dash.Statuses.Closed, dash.Statuses.Archived)
			for _, g := range dash.Groups {
				risk := ""
				if g.Risk {
					risk = " [at risk]"
				}
				fmt.Fprintf(out, "  %s: %d active project(s)%s\n", g.Name, g.ActiveProjects, risk)
			}
			if len(dash.Upcoming) > 0 {
				fmt.Fprintln(out, "upcoming:")
				for _, item := range dash.Upcoming {
					fmt.Fprintf(out, "  %s / %s (%s) in %d day(s)\n",
						item.ProjectName, item.Title, item.Kind, item.DaysDelta)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&includeArchived, "include-archived", false, "include archived projects and groups")
	return cmd
}

func newGroupsCmd(svc *core.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List product groups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, g := range svc.ListGroups() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", g.ID, g.Name, g.Status)
			}
			return w.Flush()
		},
	}
}

func newProjectsCmd(svc *core.Service) *cobra.Command {
	var groupID string
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			projects := svc.ListProjects()
			if groupID != "" {
				projects = svc.ListProjectsByGroup(groupID)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, p := range projects {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Brand, p.Status)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&groupID, "group", "", "filter by product group id")
	return cmd
}

func newArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "List backups mirrored to the configured blob archive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := blob.Open(cmd.Context())
			if err != nil {
				return err
			}
			infos, err := store.List(cmd.Context(), "backups/")
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%d\t%s\n", info.Key, info.Size, info.LastModified.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}
