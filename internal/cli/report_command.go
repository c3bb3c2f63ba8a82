package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"timeledger/internal/export"
	"timeledger/internal/services"
)

type reportOptions struct {
	user       string
	reportType string
	filter     string
	from       string
	to         string
	format     string
	output     string
}

func (r *RootCommand) newReportCommand() *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export a billing report",
		Long: `Generate a report over a user's time entries and export it as CSV or JSON.

Types: all, by-client, by-project
Filters: all, today, this-week, this-month, this-year, custom (with --from/--to)

Examples:
  timeledger report --user dev@example.com
  timeledger report --user dev@example.com --type by-project --filter this-month --format json
  timeledger report --user dev@example.com --filter custom --from 2024-03-01 --to 2024-03-31 --output march.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runReport(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.user, "user", "", "Email address of the report owner")
	flags.StringVar(&opts.reportType, "type", string(services.ReportTypeAll), "Report type")
	flags.StringVar(&opts.filter, "filter", string(services.DateFilterAll), "Date filter")
	flags.StringVar(&opts.from, "from", "", "Start date for the custom filter (YYYY-MM-DD or RFC 3339)")
	flags.StringVar(&opts.to, "to", "", "End date for the custom filter, inclusive")
	flags.StringVar(&opts.format, "format", string(export.FormatCSV), "Output format: csv or json")
	flags.StringVarP(&opts.output, "output", "o", "", "Write to a file instead of standard output")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func (r *RootCommand) runReport(cmd *cobra.Command, opts *reportOptions) error {
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	req, err := services.NewReportRequest(opts.reportType, opts.filter, opts.from, opts.to, r.config.Location())
	if err != nil {
		return err
	}

	repo, container, err := r.openServices()
	if err != nil {
		return err
	}
	defer repo.Close()

	ctx, cancel := r.commandContext(cmd)
	defer cancel()

	userID, err := lookupUser(ctx, repo, opts.user)
	if err != nil {
		return err
	}

	report, err := container.ReportingService.GenerateReport(ctx, userID, req)
	if err != nil {
		return r.errors.Handle("generate report", err)
	}

	var out io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := export.Write(out, format, report.Rows); err != nil {
		return r.errors.Handle("export report", err)
	}

	if opts.output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d rows to %s (%.2f hours, %.2f billed)\n",
			len(report.Rows), opts.output, report.Totals.Hours, report.Totals.Billing)
	}
	return nil
}
