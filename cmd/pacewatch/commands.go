package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/janekbaraniewski/pacewatch/internal/config"
	"github.com/janekbaraniewski/pacewatch/internal/core"
	"github.com/janekbaraniewski/pacewatch/internal/export"
	"github.com/janekbaraniewski/pacewatch/internal/pipeline"
	"github.com/janekbaraniewski/pacewatch/internal/tui"
	"github.com/janekbaraniewski/pacewatch/internal/version"
	"github.com/spf13/cobra"
)

const defaultSQLitePath = "pacewatch.db"

type reportFlags struct {
	start     string
	end       string
	grain     string
	selection string
	query     string
	names     []string
}

func (f *reportFlags) register(cmd *cobra.Command) {
	fl := cmd.PersistentFlags()
	fl.StringVar(&f.start, "start", "", "report start date (YYYY-MM-DD, default first of the month)")
	fl.StringVar(&f.end, "end", "", "report end date (YYYY-MM-DD, default yesterday)")
	fl.StringVar(&f.grain, "grain", "", "table grain: campaign or account (default from settings)")
	fl.StringVar(&f.selection, "select", "", "chart selection: portfolio, account:<name> or campaign:<id>")
	fl.StringVar(&f.query, "filter", "", "case-insensitive text filter over account and campaign names")
	fl.StringSliceVar(&f.names, "name", nil, "only show these entity names at the chosen grain (repeatable)")
}

func (f reportFlags) options(cfg config.Config, now time.Time) (pipeline.Options, error) {
	rng, err := resolveRange(f.start, f.end, now)
	if err != nil {
		return pipeline.Options{}, err
	}

	grain := cfg.Grain()
	switch core.Grain(f.grain) {
	case "":
	case core.GrainCampaign, core.GrainAccount:
		grain = core.Grain(f.grain)
	default:
		return pipeline.Options{}, fmt.Errorf("invalid grain %q: want campaign or account", f.grain)
	}

	sel := core.ParseSelection(f.selection)
	if s := strings.TrimSpace(f.selection); s != "" && s != string(core.SelectPortfolio) && sel.Kind == core.SelectPortfolio {
		return pipeline.Options{}, fmt.Errorf("invalid selection %q: want portfolio, account:<name> or campaign:<id>", f.selection)
	}

	return pipeline.Options{
		Range:     rng,
		Grain:     grain,
		Names:     f.names,
		Query:     f.query,
		Selection: sel,
	}, nil
}

// resolveRange fills a missing bound from the other one: a lone end starts on
// the first of its month, a lone start ends at its month end or yesterday.
func resolveRange(start, end string, now time.Time) (core.DateRange, error) {
	def := core.DefaultDateRange(now)
	switch {
	case start == "" && end == "":
		return def, nil
	case start == "":
		e, err := time.Parse(core.DateLayout, end)
		if err != nil {
			return core.DateRange{}, fmt.Errorf("parsing end date %q: %w", end, err)
		}
		start = core.MonthStart(e).Format(core.DateLayout)
	case end == "":
		s, err := time.Parse(core.DateLayout, start)
		if err != nil {
			return core.DateRange{}, fmt.Errorf("parsing start date %q: %w", start, err)
		}
		e := core.MonthEnd(s)
		if e.After(def.End) && !s.After(def.End) {
			e = def.End
		}
		end = e.Format(core.DateLayout)
	}
	return core.ParseDateRange(start, end)
}

func newRootCommand(a *app) *cobra.Command {
	var flags reportFlags

	root := &cobra.Command{
		Use:          "pacewatch",
		Short:        "pacewatch is a terminal dashboard for MicroAd campaign budget pacing.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.settings()
			opts, err := flags.options(cfg, a.now())
			if err != nil {
				return err
			}
			return runDashboard(cmd.Context(), a, opts, cfg.UI.FetchOnStart)
		},
	}
	flags.register(root)

	root.AddCommand(
		newReportCommand(a, &flags),
		newExportCommand(a, &flags),
		newVersionCommand(),
	)
	return root
}

func (a *app) runReport(cmd *cobra.Command, flags *reportFlags) (pipeline.Result, error) {
	opts, err := flags.options(a.settings(), a.now())
	if err != nil {
		return pipeline.Result{}, err
	}
	payload, err := a.fetch(cmd.Context(), opts.Range)
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("fetching report: %w", err)
	}
	return pipeline.Run(payload, opts), nil
}

func newReportCommand(a *app, flags *reportFlags) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the pacing summary and table once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.runReport(cmd, flags)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(res, width))
			return err
		},
	}
	cmd.Flags().IntVar(&width, "width", 120, "layout width for the summary cards")
	return cmd
}

func newExportCommand(a *app, flags *reportFlags) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the pacing report to SQLite or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.runReport(cmd, flags)
			if err != nil {
				return err
			}
			switch format {
			case "sqlite":
				path := out
				if path == "" {
					path = defaultSQLitePath
				}
				id, err := export.SQLite(cmd.Context(), path, res)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote report %d (%d rows) to %s\n", id, len(res.Rows), path)
				return nil
			case "json":
				return writeJSON(cmd.OutOrStdout(), out, res)
			default:
				return fmt.Errorf("invalid format %q: want sqlite or json", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "sqlite", "output format: sqlite or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (sqlite default "+defaultSQLitePath+", json default stdout)")
	return cmd
}

func writeJSON(stdout io.Writer, path string, res pipeline.Result) error {
	if path == "" || path == "-" {
		return export.JSON(stdout, res)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.JSON(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "pacewatch "+version.String())
		},
	}
}
