package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/monex/internal/config"
	"github.com/example/monex/internal/logging"
	"github.com/example/monex/internal/report"
	"github.com/example/monex/pkg/aggregate"
	"github.com/example/monex/pkg/month"
	"github.com/example/monex/pkg/statement"
)

type globalOptions struct {
	configPath string
	logLevel   string
	format     string
}

// env is what every report command needs once flags are parsed
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	format report.Format
}

// errOutsideMonth rejects rows from another month under --strict
var errOutsideMonth = errors.New("transaction dated outside requested month")

type reportOptions struct {
	month  string
	strict bool
}

type renderFunc func(w io.Writer, res *aggregate.Result, cfg *config.Config) error

func setup(opts *globalOptions) (*env, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, format: format}, nil
}

func newReportCmd(opts *globalOptions, use, short string, render renderFunc) *cobra.Command {
	ro := &reportOptions{}

	cmd := &cobra.Command{
		Use:   use + " [statement.csv]",
		Short: short,
		Long: short + `.

Without a file argument the statement is read from <data_dir>/<Month>.csv.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}
			defer e.logger.Sync() //nolint:errcheck // stderr sync fails on some terminals

			res, err := e.analyse(cmd.Name(), ro, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if e.format == report.FormatJSON {
				return report.JSON(out, res)
			}
			return render(out, res, e.cfg)
		},
	}
	cmd.Flags().StringVarP(&ro.month, "month", "m", "", "month name or number (e.g. July or 7)")
	cmd.Flags().BoolVar(&ro.strict, "strict", false, "reject transactions dated in another month instead of warning")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

func (e *env) analyse(command string, ro *reportOptions, args []string) (*aggregate.Result, error) {
	m, err := month.Parse(ro.month)
	if err != nil {
		return nil, err
	}

	path := statement.MonthFile(e.cfg.DataDir, m)
	if len(args) == 1 {
		path = args[0]
	}
	log := e.logger.With(
		zap.String(logging.FieldCommand, command),
		zap.String(logging.FieldMonth, m.Name),
		zap.String(logging.FieldFile, path))

	list, err := statement.ReadFile(path, e.cfg.StatementOptions())
	if err != nil {
		log.Error("failed to read statement", zap.Error(err))
		return nil, err
	}
	log.Info("statement loaded", zap.Int(logging.FieldRows, list.Total))

	for _, t := range list.Transactions {
		if int(t.Date.Month()) == m.Number {
			continue
		}
		if ro.strict {
			return nil, fmt.Errorf("%w: %s on %s (%s)", errOutsideMonth, t.Category, t.Date.Format("02-01-2006"), m.Name)
		}
		log.Warn(errOutsideMonth.Error(),
			zap.String(logging.FieldID, t.ID),
			zap.Time(logging.FieldDate, t.Date),
			zap.String(logging.FieldCategory, t.Category))
	}

	agg := aggregate.New(aggregate.WithIncomeCategory(e.cfg.IncomeCategory))
	res, err := agg.Aggregate(list.Transactions, m)
	if err != nil {
		log.Error("aggregation failed", zap.Error(err))
		return nil, fmt.Errorf("aggregate %s: %w", path, err)
	}
	log.Debug("aggregation done",
		zap.Int(logging.FieldCategories, len(res.Categories)),
		zap.String(logging.FieldTotalExpense, res.TotalExpense.String()))
	return res, nil
}

func renderSummary(w io.Writer, res *aggregate.Result, cfg *config.Config) error {
	return report.Summary(w, res, cfg.Currency)
}

func renderTrend(w io.Writer, res *aggregate.Result, cfg *config.Config) error {
	return report.Trend(w, res, cfg.Currency)
}

func renderCounts(w io.Writer, res *aggregate.Result, _ *config.Config) error {
	return report.Counts(w, res)
}

func newMonthsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "List the month table used for day counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, m := range month.All() {
				if _, err := fmt.Fprintf(out, "%2d  %-10s %d\n", m.Number, m.Name, m.Days); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
