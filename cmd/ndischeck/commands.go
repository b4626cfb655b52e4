package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ndisfraud/internal/app"
	"ndisfraud/internal/config"
	"ndisfraud/internal/csvexport"
	"ndisfraud/internal/domain"
	"ndisfraud/internal/logging"
	"ndisfraud/internal/service"
	"ndisfraud/internal/tools"
)

// cli carries state shared by every subcommand.
type cli struct {
	verbose bool
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "ndischeck",
		Short:         "Check NDIS invoices and support items against the price guide",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if c.verbose {
				cfg.Log.Level = "debug"
			}
			logger, err := logging.New(cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.cfg = cfg
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.existsCmd(), c.pricingCmd(), c.oldPricingCmd(), c.analyzeCmd())
	return root
}

func (c *cli) existsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists CODE",
		Short: "Check whether a support item exists in the active schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.LoadVerifier(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v.ItemExists(args[0]))
		},
	}
}

func (c *cli) pricingCmd() *cobra.Command {
	var location string
	cmd := &cobra.Command{
		Use:   "pricing CODE PRICE",
		Short: "Validate a unit price against the schedule for a location tier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := tools.ParsePrice(args[1])
			if err != nil {
				return fmt.Errorf("%w: %q", domain.ErrInvalidPrice, args[1])
			}
			v, err := app.LoadVerifier(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v.ItemPricing(args[0], price, location))
		},
	}
	cmd.Flags().StringVarP(&location, "location", "l", string(domain.LocationStandard), "location tier: standard, remote, very_remote")
	return cmd
}

func (c *cli) oldPricingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "old-pricing CODE",
		Short: "Classify an item against the active and inactive schedules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.LoadVerifier(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v.OldPricingCheck(args[0]))
		},
	}
}

func (c *cli) analyzeCmd() *cobra.Command {
	var (
		agentKind string
		trace     string
	)
	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Run an invoice file through a fraud detection agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if agentKind != "" && !domain.AgentKind(agentKind).Valid() {
				return fmt.Errorf("%w: %q", domain.ErrUnknownAgent, agentKind)
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading invoice: %w", err)
			}

			application, err := app.Build(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return err
			}
			analysis, err := application.Analysis.Analyze(cmd.Context(), service.AnalyzeInput{
				Filename: filepath.Base(args[0]),
				Data:     data,
				Agent:    domain.AgentKind(agentKind),
			})
			if err != nil {
				return err
			}

			if trace != "" {
				if trace == "auto" {
					trace = csvexport.BuildFilename(filepath.Base(args[0]), time.Now())
				}
				if err := writeTrace(trace, analysis); err != nil {
					return err
				}
				c.logger.Info("tool-call trace written", zap.String("path", trace), zap.Int("calls", len(analysis.ToolCalls)))
			}
			return printJSON(cmd.OutOrStdout(), analysis)
		},
	}
	cmd.Flags().StringVarP(&agentKind, "agent", "a", "", "agent: line_verifier, pricing_verifier, basic (default from config)")
	cmd.Flags().StringVar(&trace, "trace", "", `write the tool-call trail as CSV to this path ("auto" derives a name)`)
	return cmd
}

func writeTrace(path string, analysis *domain.Analysis) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trace file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(csvexport.BOM); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	w := csvexport.NewWriter(f)
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	if err := w.WriteAnalysis(analysis); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	return f.Close()
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
