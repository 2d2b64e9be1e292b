package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/ledwall/internal/estimator"
	"github.com/Simplici0/ledwall/internal/pricing"
	"github.com/Simplici0/ledwall/internal/report"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatXLSX  = "xlsx"
)

type estimateOptions struct {
	columns    int
	rows       int
	quantity   int
	mode       string
	rate       float64
	controller float64
	shipping   float64
	extras     string
	policy     string
	tier       string
	adminKey   string
	format     string
	out        string
}

func newEstimateCmd(a *app) *cobra.Command {
	o := &estimateOptions{}

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the price of an LED wall",
		Long: `Compute a quote for one wall size and order quantity.

Flags that are not given fall back to the configured form defaults
(DEFAULT_COLUMNS, DEFAULT_ROWS, ...). Extras are "Label:Cost" items
separated by ';' or newlines.

Examples:
  ledwall estimate --columns 10 --rows 3 --qty 13
  ledwall estimate --tier "Level C" --admin-key $ADMIN_KEY
  ledwall estimate --policy transparent --extras "Spares:300;Rails:200"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runEstimate(cmd, o)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&o.columns, "columns", 10, "cabinets across (0.5 m each)")
	flags.IntVar(&o.rows, "rows", 3, "cabinets down (0.5 m each)")
	flags.IntVarP(&o.quantity, "qty", "q", 1, "screens to order")
	flags.StringVar(&o.mode, "mode", string(pricing.ModeTiered), "pricing mode (tiered, custom)")
	flags.Float64Var(&o.rate, "rate", 3400, "custom $/m² used with --mode custom")
	flags.Float64Var(&o.controller, "controller", 325, "controller cost per screen")
	flags.Float64Var(&o.shipping, "shipping", 15, "shipping/duty percent (transparent policy)")
	flags.StringVar(&o.extras, "extras", "", "extras as Label:Cost items (transparent policy)")
	flags.StringVar(&o.policy, "policy", "", "pricing policy (transparent, masked); default from config")
	flags.StringVar(&o.tier, "tier", "", "project tier (needs --admin-key unless tier selection is open)")
	flags.StringVar(&o.adminKey, "admin-key", "", "admin key that unlocks tier selection and detail")
	flags.StringVarP(&o.format, "format", "f", formatTable, "output format (table, json, xlsx)")
	flags.StringVarP(&o.out, "out", "o", "", "write output to a file instead of stdout (required for xlsx)")

	return cmd
}

func (a *app) runEstimate(cmd *cobra.Command, o *estimateOptions) error {
	req, err := o.request(cmd, a.cfg.Defaults.Request())
	if err != nil {
		return err
	}

	format := strings.ToLower(o.format)
	if format != formatTable && format != formatJSON && format != formatXLSX {
		return fmt.Errorf("unknown format %q (want table, json or xlsx)", o.format)
	}
	if format == formatXLSX && o.out == "" {
		return fmt.Errorf("--out is required for xlsx output")
	}

	cfg := *a.cfg
	if o.policy != "" {
		cfg.Pricing.Policy = o.policy
	}
	est, err := cfg.NewEstimator()
	if err != nil {
		return err
	}

	res, err := est.Estimate(req)
	if err != nil {
		return err
	}
	a.log.Debug("estimate computed",
		zap.String("policy", string(res.Variant)),
		zap.String("level", res.Level.String()),
		zap.Int("cabinets", res.Breakdown.Cabinets),
		zap.Float64("grand_total", res.Breakdown.GrandTotal))

	if format == formatXLSX {
		body, err := report.XLSX(report.Rows(res))
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.out, body, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", o.out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", o.out)
		return nil
	}

	write := func(w io.Writer) error {
		if format == formatJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(report.NewEstimate(res))
		}
		return writeTable(w, report.Rows(res))
	}

	if o.out == "" {
		return write(cmd.OutOrStdout())
	}
	return writeFile(o.out, write)
}

// writeFile creates path and hands it to write. Close errors are returned too.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// request overlays the flags the user actually set onto the configured defaults.
func (o *estimateOptions) request(cmd *cobra.Command, req estimator.Request) (estimator.Request, error) {
	flags := cmd.Flags()

	if flags.Changed("columns") {
		req.Columns = o.columns
	}
	if flags.Changed("rows") {
		req.Rows = o.rows
	}
	if flags.Changed("qty") {
		req.Quantity = o.quantity
	}
	if flags.Changed("mode") {
		mode, err := pricing.ParseMode(o.mode)
		if err != nil {
			return req, err
		}
		req.Mode = mode
	}
	if flags.Changed("rate") {
		req.CustomRate = o.rate
	}
	if flags.Changed("controller") {
		req.ControllerCost = o.controller
	}
	if flags.Changed("shipping") {
		req.ShippingPct = o.shipping
	}
	if flags.Changed("extras") {
		req.Extras = pricing.ParseExtras(strings.ReplaceAll(o.extras, ";", "\n"))
	}
	req.Tier = o.tier
	req.Credential = o.adminKey

	return req, nil
}

func writeTable(w io.Writer, rows []report.Row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tVALUE")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row.Metric, row.Value)
	}
	return tw.Flush()
}
