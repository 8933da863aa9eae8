// Package probecli implements the hidprobe command line tool.
package probecli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/virtinput/hidprobe/hiddesc"
	"github.com/virtinput/hidprobe/internal/contract"
	"github.com/virtinput/hidprobe/internal/srcscan"
)

func Main(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd.ExecuteContext(ctx)
}

func NewRootCmd() *cobra.Command {
	var (
		logger   *zap.Logger
		logLevel string
	)
	rootCmd := &cobra.Command{
		Use:   "hidprobe",
		Short: "Inspect HID report descriptors of synthesized input devices",
		Long: `hidprobe interprets raw HID report descriptor bytes: it classifies each
top-level Application collection (keyboard / mouse / tablet) and derives exact
per-Report-ID byte lengths for Input, Output and Feature reports, so the
numbers a driver declares at compile time can be cross-checked.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, err := zapcore.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		loggerConfig := zap.NewDevelopmentConfig()
		loggerConfig.Level = zap.NewAtomicLevelAt(level)
		loggerConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err = loggerConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		return nil
	}
	loggerProvider := func() *zap.Logger { return logger }
	rootCmd.AddCommand(NewClassify())
	rootCmd.AddCommand(NewReportSizes())
	rootCmd.AddCommand(NewCheck(loggerProvider))
	return rootCmd
}

// readDescriptor loads descriptor bytes from a file, optionally extracting a
// named byte-array initializer when the file is driver source text.
func readDescriptor(path, extract string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if extract == "" {
		return raw, nil
	}
	return srcscan.ExtractByteArray(string(raw), extract)
}

func printJSON(cmd *cobra.Command, v any) error {
	jsonB, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonB))
	return nil
}

func NewClassify() *cobra.Command {
	var extract string
	cmd := &cobra.Command{
		Use:   "classify <descriptor>",
		Short: "Classify the device kind of a report descriptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := readDescriptor(args[0], extract)
			if err != nil {
				return err
			}
			summary := hiddesc.Classify(desc)
			return printJSON(cmd, struct {
				Class   string                        `json:"class"`
				Summary hiddesc.ClassificationSummary `json:"summary"`
			}{
				Class:   summary.Class().String(),
				Summary: summary,
			})
		},
	}
	cmd.Flags().StringVar(&extract, "extract", "", "extract the named C byte-array initializer instead of reading raw bytes")
	return cmd
}

type reportSizesEntry struct {
	ID            uint8 `json:"id"`
	InputLength   int   `json:"inputLength"`
	OutputLength  int   `json:"outputLength"`
	FeatureLength int   `json:"featureLength"`
}

func NewReportSizes() *cobra.Command {
	var extract string
	cmd := &cobra.Command{
		Use:   "report-sizes <descriptor>",
		Short: "Derive per-Report-ID byte lengths from a report descriptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := readDescriptor(args[0], extract)
			if err != nil {
				return err
			}
			sizes, err := hiddesc.MeasureReports(desc)
			if err != nil {
				return err
			}
			ids := sizes.ReportIDs()
			reports := make([]reportSizesEntry, 0, len(ids))
			for _, id := range ids {
				reports = append(reports, reportSizesEntry{
					ID:            id,
					InputLength:   sizes.Length(hiddesc.ReportInput, id),
					OutputLength:  sizes.Length(hiddesc.ReportOutput, id),
					FeatureLength: sizes.Length(hiddesc.ReportFeature, id),
				})
			}
			return printJSON(cmd, struct {
				ReportIDUsed     bool               `json:"reportIdUsed"`
				Reports          []reportSizesEntry `json:"reports"`
				MaxInputLength   int                `json:"maxInputLength"`
				MaxOutputLength  int                `json:"maxOutputLength"`
				MaxFeatureLength int                `json:"maxFeatureLength"`
			}{
				ReportIDUsed:     sizes.ReportIDUsed(),
				Reports:          reports,
				MaxInputLength:   sizes.MaxLength(hiddesc.ReportInput),
				MaxOutputLength:  sizes.MaxLength(hiddesc.ReportOutput),
				MaxFeatureLength: sizes.MaxLength(hiddesc.ReportFeature),
			})
		},
	}
	cmd.Flags().StringVar(&extract, "extract", "", "extract the named C byte-array initializer instead of reading raw bytes")
	return cmd
}

func NewCheck(logger func() *zap.Logger) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "check <contract.yml>",
		Short: "Cross-check declared descriptor constants against derived values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger().Named("contract")
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if !watch {
				return runCheck(cmd.Context(), path, log)
			}
			return watchCheck(cmd.Context(), path, log)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "re-run the check whenever the contract file changes")
	return cmd
}

func runCheck(ctx context.Context, path string, log *zap.Logger) error {
	c, err := contract.Load(path)
	if err != nil {
		return err
	}
	if err := contract.Check(ctx, c, filepath.Dir(path), log); err != nil {
		return err
	}
	log.Info("contract in sync", zap.Int("devices", len(c.Devices)))
	return nil
}

// watchCheck re-runs the contract whenever the file changes. Check failures
// are logged instead of terminating, so the watch survives edit cycles.
func watchCheck(ctx context.Context, path string, log *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()
	// Watch the directory: editors replace files on save, which would drop
	// a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	run := func() {
		if err := runCheck(ctx, path, log); err != nil {
			log.Error("contract check failed", zap.Error(err))
		}
	}
	run()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Debug("contract changed, re-checking", zap.String("file", event.Name))
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher error", zap.Error(err))
		}
	}
}
