package contract

import (
	"context"
	"fmt"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/virtinput/hidprobe/hiddesc"
)

// Check verifies every device in the contract, concurrently. The returned
// error aggregates every mismatch across all devices; a nil error means the
// declared constants and the descriptors agree.
func Check(ctx context.Context, c *Contract, baseDir string, log *zap.Logger) error {
	results := xsync.NewMapOf[string, error]()
	group, ctx := errgroup.WithContext(ctx)
	for _, dev := range c.Devices {
		dev := dev
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results.Store(dev.Name, CheckDevice(dev, baseDir, log))
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	// Deterministic report order regardless of goroutine scheduling.
	var failed []string
	results.Range(func(name string, err error) bool {
		if err != nil {
			failed = append(failed, name)
		}
		return true
	})
	sort.Strings(failed)

	var combined error
	for _, name := range failed {
		err, _ := results.Load(name)
		combined = multierr.Append(combined, err)
	}
	return combined
}

// CheckDevice verifies one device and aggregates all of its mismatches, so a
// single run surfaces every drifted constant instead of the first one.
func CheckDevice(dev Device, baseDir string, log *zap.Logger) error {
	desc, err := ReadDescriptor(dev, baseDir)
	if err != nil {
		return err
	}

	var failures error
	if dev.DescriptorLength != nil && len(desc) != *dev.DescriptorLength {
		failures = multierr.Append(failures, fmt.Errorf(
			"%s: descriptor length mismatch: declared %d, actual %d",
			dev.Name, *dev.DescriptorLength, len(desc)))
	}

	if dev.Class != "" {
		want, err := ParseClass(dev.Class)
		if err != nil {
			return multierr.Append(failures, fmt.Errorf("%s: %w", dev.Name, err))
		}
		summary := hiddesc.Classify(desc)
		if got := summary.Class(); got != want {
			failures = multierr.Append(failures, fmt.Errorf(
				"%s: class mismatch: declared %s, classified %s", dev.Name, want, got))
		}
	}

	sizes, err := hiddesc.MeasureReports(desc)
	if err != nil {
		return multierr.Append(failures, fmt.Errorf("%s: %w", dev.Name, err))
	}
	for _, report := range dev.Reports {
		failures = multierr.Append(failures,
			checkLength(dev.Name, sizes, hiddesc.ReportInput, report.ID, report.InputLength))
		failures = multierr.Append(failures,
			checkLength(dev.Name, sizes, hiddesc.ReportOutput, report.ID, report.OutputLength))
		failures = multierr.Append(failures,
			checkLength(dev.Name, sizes, hiddesc.ReportFeature, report.ID, report.FeatureLength))
	}

	if failures == nil {
		log.Debug("device in sync",
			zap.String("device", dev.Name),
			zap.Int("descriptorBytes", len(desc)),
			zap.Uint8s("reportIDs", sizes.ReportIDs()))
	} else {
		log.Warn("device out of sync",
			zap.String("device", dev.Name),
			zap.Int("mismatches", len(multierr.Errors(failures))))
	}
	return failures
}

func checkLength(device string, sizes *hiddesc.ReportSizes, t hiddesc.ReportType, id uint8, want *int) error {
	if want == nil {
		return nil
	}
	if got := sizes.Length(t, id); got != *want {
		return fmt.Errorf("%s: report %d %s length mismatch: declared %d, derived %d",
			device, id, t, *want, got)
	}
	return nil
}
