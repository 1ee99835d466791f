// Package main provides the CLI entry point for sheetshape.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetshape-go/internal/config"
	"github.com/ukaji3/sheetshape-go/internal/logging"
	"github.com/ukaji3/sheetshape-go/internal/metrics"
	"github.com/ukaji3/sheetshape-go/internal/metrics/promtext"
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape"
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/output"
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/tools"
	"go.uber.org/zap"
)

// errFailedResult is returned when --fail-on-error is set and the tool
// reported an error. The JSON body has already been written.
var errFailedResult = errors.New("operation reported an error")

type app struct {
	cfg config.Config

	outputPath      string
	pretty          bool
	failOnError     bool
	sheet           string
	headerRow       int
	maxRows         int
	metricsTextfile string
	pushgateway     string

	log     *zap.Logger
	service *tools.Service
}

func main() {
	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd, a := newRootCmd(cfg)
	err = rootCmd.ExecuteContext(ctx)
	a.close()
	if err != nil {
		if !errors.Is(err, errFailedResult) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config) (*cobra.Command, *app) {
	a := &app{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:   "sheetshape",
		Short: "Infer, extract and clean tables from spreadsheet files",
		Long: `sheetshape finds the header row and columns of messy spreadsheets,
extracts their tables, reports data quality and cleans them. Results are
printed as JSON.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := rootCmd.PersistentFlags()
	config.BindFlags(pf, &a.cfg)
	pf.StringVarP(&a.outputPath, "output", "o", "", "Output file path (default: stdout)")
	pf.BoolVar(&a.pretty, "pretty", false, "Pretty-print JSON output")
	pf.BoolVar(&a.failOnError, "fail-on-error", false, "Exit non-zero when the result status is error")
	pf.StringVar(&a.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this textfile on exit")
	pf.StringVar(&a.pushgateway, "pushgateway", "", "Push Prometheus metrics to this Pushgateway URL on exit")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List spreadsheet files in the working directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.emit(cmd, a.service.ListFiles())
			},
		},
		&cobra.Command{
			Use:   "analyze <file>",
			Short: "Infer the structure of every sheet",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.emit(cmd, a.service.AnalyzeStructure(cmd.Context(), args[0]))
			},
		},
		a.tableCmd("extract <file>", "Extract a table with its quality report", cobra.ExactArgs(1),
			func(cmd *cobra.Command, req tools.ExtractRequest, args []string) result {
				return a.service.Extract(cmd.Context(), req)
			}),
		a.tableCmd("clean <file>", "Extract and clean a table", cobra.ExactArgs(1),
			func(cmd *cobra.Command, req tools.ExtractRequest, args []string) result {
				return a.service.Clean(cmd.Context(), req)
			}),
		a.tableCmd("profile <file>", "Profile the columns of a cleaned table", cobra.ExactArgs(1),
			func(cmd *cobra.Command, req tools.ExtractRequest, args []string) result {
				return a.service.Profile(cmd.Context(), req)
			}),
		a.tableCmd("unique <file> <column>", "List the distinct values of a column", cobra.ExactArgs(2),
			func(cmd *cobra.Command, req tools.ExtractRequest, args []string) result {
				return a.service.UniqueValues(cmd.Context(), req, args[1])
			}),
		a.tableCmd("filter <file> <column> <value>", "Return the rows whose column equals value", cobra.ExactArgs(3),
			func(cmd *cobra.Command, req tools.ExtractRequest, args []string) result {
				return a.service.FilterByValue(cmd.Context(), req, args[1], args[2])
			}),
		&cobra.Command{
			Use:   "extract-all <file>",
			Short: "Extract, validate and clean every valid sheet",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.emit(cmd, a.service.ExtractAll(cmd.Context(), args[0]))
			},
		},
	)

	return rootCmd, a
}

// tableCmd builds a subcommand that reads one table selected by the shared
// --sheet, --header-row and --max-rows flags.
func (a *app) tableCmd(use, short string, args cobra.PositionalArgs,
	run func(*cobra.Command, tools.ExtractRequest, []string) result) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.emit(cmd, run(cmd, a.request(args[0]), args))
		},
	}
	cmd.Flags().StringVar(&a.sheet, "sheet", "", "Sheet name (default: first sheet)")
	cmd.Flags().IntVar(&a.headerRow, "header-row", -1, "0-based header row (-1 = detect)")
	cmd.Flags().IntVar(&a.maxRows, "max-rows", 0, "Maximum data rows (0 = configured default, -1 = all)")
	return cmd
}

func (a *app) request(filename string) tools.ExtractRequest {
	req := tools.ExtractRequest{
		Filename: filename,
		Sheet:    a.sheet,
		MaxRows:  a.maxRows,
	}
	if a.headerRow >= 0 {
		row := a.headerRow
		req.HeaderRow = &row
	}
	return req
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logging.New(a.cfg.LogLevel, a.cfg.Debug)
	if err != nil {
		return err
	}
	a.log = log

	if a.metricsTextfile != "" || a.pushgateway != "" {
		backend, err := promtext.NewBackend(promtext.Options{
			TextfilePath: a.metricsTextfile,
			GatewayURL:   a.pushgateway,
		})
		if err != nil {
			return err
		}
		metrics.SetBackend(backend)
	}

	engine := sheetshape.New(a.cfg.EngineOptions(), sheetshape.WithLogger(log))
	a.service = tools.NewService(a.cfg.ServiceConfig(), engine, log)
	log.Debug("configured", zap.String("dir", a.cfg.ExcelDir), zap.String("command", cmd.Name()))
	return nil
}

// close flushes metrics and logs. It is safe to call when setup never ran.
func (a *app) close() {
	if a.log == nil {
		return
	}
	if err := metrics.Flush(); err != nil {
		a.log.Warn("metrics flush failed", zap.Error(err))
	}
	_ = a.log.Sync()
}

type result interface {
	OK() bool
}

func (a *app) emit(cmd *cobra.Command, res result) error {
	jsonData, err := output.ToJSON(res, a.pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if a.outputPath != "" {
		if err := os.WriteFile(a.outputPath, append(jsonData, '\n'), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	}

	if !res.OK() && a.failOnError {
		return errFailedResult
	}
	return nil
}
