package main

import (
	"defects-register/models"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newVesselsCmd(a *app) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "vessels",
		Short: "List the vessels assigned to a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			vessels, err := a.backend.vessels.Assigned(cmd.Context(), user)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(vessels) == 0 {
				fmt.Fprintln(out, "No vessels assigned")
				return nil
			}

			tw := newTable(out)
			tw.AppendHeader(table.Row{"ID", "Name"})
			for _, v := range vessels {
				tw.AppendRow(table.Row{v.ID, v.Name})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	var (
		filters filterFlags
		top     int
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print defect statistics for the filtered view",
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, now, err := filters.criteria(time.Now())
			if err != nil {
				return err
			}
			if top <= 0 {
				top = a.config.ReportTopN
			}
			stats, err := a.backend.reports.Stats(cmd.Context(), filters.user, criteria, now, top)
			if err != nil {
				return err
			}
			renderStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
	filters.register(cmd)
	cmd.Flags().IntVar(&top, "top", 0, "number of equipment groups to show (default from config)")
	return cmd
}

func renderStats(out io.Writer, stats *models.DefectStats) {
	summary := newTable(out)
	summary.SetTitle("Summary")
	summary.AppendRows([]table.Row{
		{"Total defects", stats.Total},
		{"Critical defects", fmt.Sprintf("%d (%.1f%%)", stats.Critical, stats.CriticalPercentage)},
	})
	summary.Render()

	status := newTable(out)
	status.SetTitle("By status")
	status.AppendHeader(table.Row{"Status", "Count", "Share"})
	for _, s := range stats.Status {
		status.AppendRow(table.Row{s.Label, s.Count, fmt.Sprintf("%.1f%%", s.Percentage)})
	}
	status.Render()

	equipment := newTable(out)
	equipment.SetTitle("By equipment")
	equipment.AppendHeader(table.Row{"Equipment", "Count"})
	for _, e := range stats.Equipment {
		equipment.AppendRow(table.Row{e.Name, e.Count})
	}
	equipment.Render()

	t := stats.Trend
	trend := newTable(out)
	trend.SetTitle(fmt.Sprintf("Closure trend (%d day window, reference %s)", t.WindowDays, t.ReferenceDate))
	trend.AppendHeader(table.Row{"Period", "Reported", "Closed", "Rate"})
	trend.AppendRows([]table.Row{
		{"Current", t.CurrentTotal, t.CurrentClosed, fmt.Sprintf("%.1f%%", t.CurrentRate)},
		{"Previous", t.PreviousTotal, t.PreviousClosed, fmt.Sprintf("%.1f%%", t.PreviousRate)},
	})
	trend.AppendFooter(table.Row{"Delta", "", "", fmt.Sprintf("%+.1f", t.Delta)})
	trend.Render()
}

func newExportCmd(a *app) *cobra.Command {
	var (
		filters filterFlags
		outDir  string
	)
	cmd := &cobra.Command{
		Use:       "export csv|pdf",
		Short:     "Export the filtered defect list as CSV or PDF",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"csv", "pdf"},
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, now, err := filters.criteria(time.Now())
			if err != nil {
				return err
			}

			var artifact *models.Artifact
			switch strings.ToLower(args[0]) {
			case "csv":
				artifact, err = a.backend.reports.ExportCSV(cmd.Context(), filters.user, criteria, now)
			case "pdf":
				artifact, err = a.backend.reports.ExportPDF(cmd.Context(), filters.user, criteria, now)
			}
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			path := filepath.Join(outDir, artifact.Filename)
			if err := os.WriteFile(path, artifact.Body, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s (%d bytes)\n", path, len(artifact.Body))
			if artifact.ArchiveKey != "" {
				fmt.Fprintf(out, "Archived as %s\n", artifact.ArchiveKey)
			}
			return nil
		},
	}
	filters.register(cmd)
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	return cmd
}

func newUsersCmd(a *app) *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "Manage register users",
	}

	var (
		email, password, username string
		firstName, lastName, role string
		vessels                   []string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a user and optionally assign vessels (id=name)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			assignments, err := parseAssignments(vessels)
			if err != nil {
				return err
			}

			user, err := a.backend.auth.Register(cmd.Context(), &models.User{
				Email:     email,
				Username:  username,
				FirstName: firstName,
				LastName:  lastName,
				Role:      models.UserRole(role),
			}, password)
			if err != nil {
				return err
			}

			for _, assignment := range assignments {
				assignment.UserID = user.ID
				assignment.AssignedBy = "defectctl"
				if err := a.backend.assignments.AssignVessel(cmd.Context(), assignment); err != nil {
					return fmt.Errorf("user %s created but assigning %s failed: %w", user.ID, assignment.VesselID, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s) with %d vessel(s)\n", user.ID, user.Email, len(assignments))
			return nil
		},
	}
	flags := add.Flags()
	flags.StringVar(&email, "email", "", "login email")
	flags.StringVar(&password, "password", "", "initial password (min 8 characters)")
	flags.StringVar(&username, "username", "", "display username")
	flags.StringVar(&firstName, "first-name", "", "first name")
	flags.StringVar(&lastName, "last-name", "", "last name")
	flags.StringVar(&role, "role", string(models.UserRoleCrew), "crew, superintendent or admin")
	flags.StringArrayVar(&vessels, "vessel", nil, "vessel assignment as id=name (repeatable)")
	_ = add.MarkFlagRequired("email")
	_ = add.MarkFlagRequired("password")

	users.AddCommand(add)
	return users
}

// parseAssignments turns id=name pairs into assignment rows
func parseAssignments(values []string) ([]*models.UserVessel, error) {
	out := make([]*models.UserVessel, 0, len(values))
	for _, value := range values {
		id, name, ok := strings.Cut(value, "=")
		id, name = strings.TrimSpace(id), strings.TrimSpace(name)
		if !ok || id == "" || name == "" {
			return nil, fmt.Errorf("invalid vessel assignment %q, expected id=name", value)
		}
		out = append(out, &models.UserVessel{VesselID: id, VesselName: name})
	}
	return out, nil
}

func newTable(out io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	return tw
}
