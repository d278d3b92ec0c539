package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Organiser commands",
	}

	cmd.AddCommand(newAdminDashboardCmd())
	cmd.AddCommand(newAdminExportCmd())

	return cmd
}

func newAdminDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the ranking and check-in history",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AdminDashboard

			if err := client.Get("/api/v1/admin/dashboard", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAdminExportCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the check-in history as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := client.GetRaw("/api/v1/admin/export.csv")
			if err != nil {
				return err
			}

			if outFile == "" {
				fmt.Print(string(data))
				return nil
			}

			if err := os.WriteFile(outFile, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outFile, err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Exported to %s", outFile))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "file", "f", "", "Write CSV to file instead of stdout")

	return cmd
}
