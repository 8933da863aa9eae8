package hiddesc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtinput/hidprobe/hidsynth"
)

func TestMeasureReportsWithReportID(t *testing.T) {
	desc := hidsynth.Descriptor(
		hidsynth.ReportID(3),
		hidsynth.ReportSize(8),
		hidsynth.ReportCount(5),
		hidsynth.Input{Flags: hidsynth.FlagVariable},
	)
	sizes, err := MeasureReports(desc)
	require.NoError(t, err)

	assert.True(t, sizes.ReportIDUsed())
	assert.Equal(t, uint64(40), sizes.Bits(ReportInput, 3))
	// 5 data bytes plus the leading Report ID byte.
	assert.Equal(t, 6, sizes.Length(ReportInput, 3))
	assert.Equal(t, []uint8{3}, sizes.ReportIDs())
}

func TestMeasureReportsWithoutReportID(t *testing.T) {
	desc := hidsynth.Descriptor(
		hidsynth.ReportSize(8),
		hidsynth.ReportCount(1),
		hidsynth.Input{Flags: hidsynth.FlagVariable},
	)
	sizes, err := MeasureReports(desc)
	require.NoError(t, err)

	assert.False(t, sizes.ReportIDUsed())
	assert.Equal(t, 1, sizes.Length(ReportInput, 0))
	assert.Equal(t, 1, sizes.MaxLength(ReportInput))
	assert.Equal(t, 0, sizes.Length(ReportOutput, 0))
	assert.Equal(t, 0, sizes.MaxLength(ReportFeature))
}

func TestMeasureReportsAllDirections(t *testing.T) {
	desc := hidsynth.Descriptor(
		hidsynth.ReportID(1),
		hidsynth.ReportSize(8),
		hidsynth.ReportCount(2),
		hidsynth.Input{Flags: hidsynth.FlagVariable},
		hidsynth.ReportCount(1),
		hidsynth.Output{Flags: hidsynth.FlagVariable},
		hidsynth.ReportCount(3),
		hidsynth.Feature{Flags: hidsynth.FlagVariable},
	)
	sizes, err := MeasureReports(desc)
	require.NoError(t, err)

	assert.Equal(t, uint64(16), sizes.Bits(ReportInput, 1))
	assert.Equal(t, uint64(8), sizes.Bits(ReportOutput, 1))
	assert.Equal(t, uint64(24), sizes.Bits(ReportFeature, 1))
	assert.Equal(t, 3, sizes.Length(ReportInput, 1))
	assert.Equal(t, 2, sizes.Length(ReportOutput, 1))
	assert.Equal(t, 4, sizes.Length(ReportFeature, 1))
}

func TestMeasureReportsFlatAcrossCollections(t *testing.T) {
	// Collection nesting is invisible to size accounting: both inputs land
	// in the same Report ID bucket.
	desc := hidsynth.Descriptor(
		hidsynth.UsagePage(UsagePageGenericDesktop),
		hidsynth.Usage(UsageKeyboard),
		hidsynth.ReportID(7),
		hidsynth.Collection{Kind: hidsynth.CollectionApplication, Items: []hidsynth.Item{
			hidsynth.ReportSize(8),
			hidsynth.ReportCount(1),
			hidsynth.Input{Flags: hidsynth.FlagVariable},
			hidsynth.Collection{Kind: hidsynth.CollectionLogical, Items: []hidsynth.Item{
				hidsynth.ReportCount(2),
				hidsynth.Input{Flags: hidsynth.FlagVariable},
			}},
		}},
	)
	sizes, err := MeasureReports(desc)
	require.NoError(t, err)
	assert.Equal(t, uint64(24), sizes.Bits(ReportInput, 7))
}

func TestMeasureReportsPushPop(t *testing.T) {
	desc := hidsynth.Descriptor(
		hidsynth.ReportSize(16),
		hidsynth.ReportCount(1),
		hidsynth.Push{},
		hidsynth.ReportSize(8),
		hidsynth.Input{Flags: hidsynth.FlagVariable}, // 8 bits
		hidsynth.Pop{},
		hidsynth.Input{Flags: hidsynth.FlagVariable}, // 16 bits again
	)
	sizes, err := MeasureReports(desc)
	require.NoError(t, err)
	assert.Equal(t, uint64(24), sizes.Bits(ReportInput, 0))
}

func TestMeasureReportsStackUnderflow(t *testing.T) {
	desc := hidsynth.Descriptor(
		hidsynth.ReportSize(8),
		hidsynth.ReportCount(1),
		hidsynth.Pop{},
		hidsynth.Input{Flags: hidsynth.FlagVariable},
	)
	sizes, err := MeasureReports(desc)
	require.ErrorIs(t, err, ErrStackUnderflow)
	assert.Nil(t, sizes)
}

func TestMeasureReportsTruncated(t *testing.T) {
	desc := hidsynth.Descriptor(
		hidsynth.ReportSize(8),
		hidsynth.ReportCount(2),
		hidsynth.Input{Flags: hidsynth.FlagVariable},
	)
	// Append an item truncated mid payload: the scan halts without error and
	// the totals reflect only the complete prefix.
	truncated := append(desc, 0x96, 0xFF) // Report Count promising 2 bytes
	sizes, err := MeasureReports(truncated)
	require.NoError(t, err)
	assert.Equal(t, uint64(16), sizes.Bits(ReportInput, 0))
}

func TestMeasureReportsLongItemTransparent(t *testing.T) {
	plain := hidsynth.Descriptor(
		hidsynth.ReportSize(8),
		hidsynth.ReportCount(1),
		hidsynth.Input{Flags: hidsynth.FlagVariable},
		hidsynth.Input{Flags: hidsynth.FlagVariable},
	)
	withLong := hidsynth.Descriptor(
		hidsynth.ReportSize(8),
		hidsynth.ReportCount(1),
		hidsynth.Input{Flags: hidsynth.FlagVariable},
		hidsynth.LongItem{Tag: 0x42, Data: []byte{0xDE, 0xAD, 0xBE}},
		hidsynth.Input{Flags: hidsynth.FlagVariable},
	)
	want, err := MeasureReports(plain)
	require.NoError(t, err)
	got, err := MeasureReports(withLong)
	require.NoError(t, err)
	assert.Equal(t, want.Bits(ReportInput, 0), got.Bits(ReportInput, 0))
}

func TestMeasureReportsMaxLength(t *testing.T) {
	desc := hidsynth.Descriptor(
		hidsynth.ReportID(1),
		hidsynth.ReportSize(8),
		hidsynth.ReportCount(2),
		hidsynth.Input{Flags: hidsynth.FlagVariable},
		hidsynth.ReportID(2),
		hidsynth.ReportCount(5),
		hidsynth.Input{Flags: hidsynth.FlagVariable},
	)
	sizes, err := MeasureReports(desc)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 2}, sizes.ReportIDs())
	assert.Equal(t, 6, sizes.MaxLength(ReportInput))
	assert.Equal(t, 3, sizes.Length(ReportInput, 1))
	assert.Equal(t, 0, sizes.MaxLength(ReportOutput))
}

func TestMeasureReportsCannedDevices(t *testing.T) {
	tests := []struct {
		name      string
		desc      []byte
		id        uint8
		inputLen  int
		outputLen int
	}{
		{"keyboard", hidsynth.KeyboardDescriptor(), hidsynth.KeyboardReportID, 9, 2},
		{"consumer", hidsynth.KeyboardDescriptor(), hidsynth.ConsumerReportID, 2, 0},
		{"mouse", hidsynth.MouseDescriptor(), hidsynth.MouseReportID, 6, 0},
		{"tablet", hidsynth.TabletDescriptor(), hidsynth.TabletReportID, 6, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sizes, err := MeasureReports(tc.desc)
			require.NoError(t, err)
			assert.True(t, sizes.ReportIDUsed())
			assert.Equal(t, tc.inputLen, sizes.Length(ReportInput, tc.id))
			assert.Equal(t, tc.outputLen, sizes.Length(ReportOutput, tc.id))
		})
	}
}
