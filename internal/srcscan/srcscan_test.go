package srcscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const driverSource = `
/* Report descriptor for the synthesized keyboard.
 * Layout: // this slash must not eat the next line.
 */
static const UCHAR KeyboardReportDescriptor[] = {
    0x05, 0x01, // Usage Page (Generic Desktop)
    0x09, 0x06, // Usage (Keyboard)
    0xA1, 0x01, // Collection (Application)
    0xC0,       // End Collection
};

static const UCHAR BadDescriptor[4] = {
    0x05, SOME_MACRO, 0xA1, 0x01,
};

static const UCHAR HugeDescriptor[] = { 0x100 };
`

func TestStripComments(t *testing.T) {
	out := StripComments("a /* x\n// y */ b // tail\nc")
	assert.Equal(t, "a  b \nc", out)
}

func TestExtractByteArray(t *testing.T) {
	bytes, err := ExtractByteArray(driverSource, "KeyboardReportDescriptor")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x05, 0x01, 0x09, 0x06, 0xA1, 0x01, 0xC0}, bytes)
}

func TestExtractByteArrayErrors(t *testing.T) {
	_, err := ExtractByteArray(driverSource, "MissingDescriptor")
	assert.ErrorContains(t, err, "no byte array initializer")

	_, err = ExtractByteArray(driverSource, "BadDescriptor")
	assert.ErrorContains(t, err, "not an integer literal")

	_, err = ExtractByteArray(driverSource, "HugeDescriptor")
	assert.ErrorContains(t, err, "does not fit in a byte")

	_, err = ExtractByteArray("static const UCHAR X[] = { 0x01, ", "X")
	assert.ErrorContains(t, err, "unterminated")
}
