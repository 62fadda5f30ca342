package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/pdf"
)

var (
	reportUser   string
	reportDate   string
	reportSimple bool
	reportPDFOut string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a daily productivity report",
	Long: `Generate (or fetch) the productivity report for a date.

The first generation for a date freezes the report; repeating the
command returns the stored record. --simple skips the AI summary and
always uses the built-in template.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportUser, "user", "", "User id")
	reportCmd.Flags().StringVar(&reportDate, "date", "", "Date, YYYY-MM-DD (default today)")
	reportCmd.Flags().BoolVar(&reportSimple, "simple", false, "Skip the AI summary provider")
	reportCmd.Flags().StringVar(&reportPDFOut, "pdf", "", "Write the report as a PDF to this path")
	_ = reportCmd.MarkFlagRequired("user")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	date, err := resolveDate(reportDate, a.sched.Zone())
	if err != nil {
		return err
	}

	generate := a.reports.Generate
	if reportSimple {
		generate = a.reports.GenerateSimple
	}
	rep, err := generate(cmd.Context(), reportUser, date)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	if reportPDFOut != "" {
		data, err := pdf.Render(rep)
		if err != nil {
			return fmt.Errorf("render pdf: %w", err)
		}
		if err := os.WriteFile(reportPDFOut, data, 0644); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		fmt.Printf("Wrote %s\n", reportPDFOut)
		return nil
	}

	fmt.Print(renderReport(rep))
	return nil
}
