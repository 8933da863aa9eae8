package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/virtinput/hidprobe/hiddesc"
	"github.com/virtinput/hidprobe/hidsynth"
)

const testContract = `
devices:
  - name: keyboard
    descriptor: keyboard.desc
    class: keyboard
    descriptorLength: 104
    reports:
      - id: 1
        inputLength: 9
        outputLength: 2
      - id: 3
        inputLength: 2
  - name: mouse
    descriptor: mouse.desc
    class: mouse
    descriptorLength: 57
    reports:
      - id: 2
        inputLength: 6
        outputLength: 0
  - name: tablet
    descriptor: tablet.c
    extract: TabletReportDescriptor
    class: tablet
    descriptorLength: 47
    reports:
      - id: 4
        inputLength: 6
`

func writeContractFixture(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keyboard.desc"), hidsynth.KeyboardDescriptor(), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mouse.desc"), hidsynth.MouseDescriptor(), 0o644))

	var src strings.Builder
	src.WriteString("static const UCHAR TabletReportDescriptor[] = {\n")
	for _, b := range hidsynth.TabletDescriptor() {
		fmt.Fprintf(&src, "0x%02X, ", b)
	}
	src.WriteString("\n}; // 47 bytes")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tablet.c"), []byte(src.String()), 0o644))

	path := filepath.Join(dir, "contract.yml")
	require.NoError(t, os.WriteFile(path, []byte(testContract), 0o644))
	return path, dir
}

func TestCheckInSync(t *testing.T) {
	path, dir := writeContractFixture(t)
	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Devices, 3)

	err = Check(context.Background(), c, dir, zap.NewNop())
	assert.NoError(t, err)
}

func TestCheckReportsEveryMismatch(t *testing.T) {
	path, dir := writeContractFixture(t)
	c, err := Load(path)
	require.NoError(t, err)

	// Drift the keyboard expectations: class, descriptor length and one
	// report length. All three must be reported in a single run.
	c.Devices[0].Class = "mouse"
	wrongLen := 100
	c.Devices[0].DescriptorLength = &wrongLen
	wrongInput := 8
	c.Devices[0].Reports[0].InputLength = &wrongInput

	err = Check(context.Background(), c, dir, zap.NewNop())
	require.Error(t, err)
	errs := multierr.Errors(err)
	assert.Len(t, errs, 3)
	assert.ErrorContains(t, err, "descriptor length mismatch: declared 100, actual 104")
	assert.ErrorContains(t, err, "class mismatch: declared mouse, classified keyboard")
	assert.ErrorContains(t, err, "report 1 input length mismatch: declared 8, derived 9")
}

func TestCheckMissingDescriptorFile(t *testing.T) {
	path, dir := writeContractFixture(t)
	c, err := Load(path)
	require.NoError(t, err)
	c.Devices[1].Descriptor = "nope.desc"

	err = Check(context.Background(), c, dir, zap.NewNop())
	require.Error(t, err)
	assert.ErrorContains(t, err, `device "mouse"`)
}

func TestLoadValidation(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	_, err := Load(write("empty.yml", "devices: []"))
	assert.ErrorContains(t, err, "declares no devices")

	_, err = Load(write("noname.yml", "devices:\n  - descriptor: a.desc"))
	assert.ErrorContains(t, err, "has no name")

	_, err = Load(write("dup.yml", `
devices:
  - name: a
    descriptor: a.desc
  - name: a
    descriptor: b.desc
`))
	assert.ErrorContains(t, err, "duplicate device name")

	_, err = Load(write("badclass.yml", `
devices:
  - name: a
    descriptor: a.desc
    class: gamepad
`))
	assert.ErrorContains(t, err, `unknown device class "gamepad"`)
}

func TestParseClass(t *testing.T) {
	for _, class := range []hiddesc.DeviceClass{
		hiddesc.ClassUnknown,
		hiddesc.ClassKeyboard,
		hiddesc.ClassMouse,
		hiddesc.ClassTablet,
		hiddesc.ClassAmbiguous,
	} {
		got, err := ParseClass(class.String())
		require.NoError(t, err)
		assert.Equal(t, class, got)
	}
	_, err := ParseClass("joystick")
	assert.Error(t, err)
}
