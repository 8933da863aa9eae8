package hidsynth

// Canned descriptors for the synthesized virtio-style input devices. Byte
// lengths and report layouts match the Win7 virtio-input driver tables:
// keyboard 104 bytes (boot keyboard report ID 1, consumer control report
// ID 3), mouse 57 bytes (report ID 2), tablet 47 bytes (report ID 4).

const (
	KeyboardReportID = 1
	MouseReportID    = 2
	ConsumerReportID = 3
	TabletReportID   = 4
)

// KeyboardDescriptor returns the keyboard descriptor: a boot-protocol
// keyboard collection (8 modifier bits, 1 reserved byte, 5 LED bits + 3 pad,
// 6 key slots) plus a consumer-control collection with 8 media-key bits.
// Input report 9 bytes, output report 2 bytes, consumer input 2 bytes (all
// including the Report ID prefix).
func KeyboardDescriptor() []byte {
	return Descriptor(
		UsagePage(0x01), // Generic Desktop
		Usage(0x06),     // Keyboard
		Collection{Kind: CollectionApplication, Items: []Item{
			ReportID(KeyboardReportID),
			UsagePage(0x07), // Keyboard/Keypad
			UsageMinimum(0xE0),
			UsageMaximum(0xE7),
			LogicalMinimum(0),
			LogicalMaximum(1),
			ReportSize(1),
			ReportCount(8),
			Input{Flags: FlagVariable}, // modifiers
			ReportCount(1),
			ReportSize(8),
			Input{Flags: FlagConstant}, // reserved byte
			ReportCount(5),
			ReportSize(1),
			UsagePage(0x08), // LEDs
			UsageMinimum(0x01),
			UsageMaximum(0x05),
			LogicalMinimum(0),
			LogicalMaximum(1),
			Output{Flags: FlagVariable}, // LED states
			ReportCount(1),
			ReportSize(3),
			Output{Flags: FlagConstant}, // LED padding
			ReportCount(6),
			ReportSize(8),
			LogicalMinimum(0),
			LogicalMaximum(101),
			UsagePage(0x07),
			UsageMinimum(0x00),
			UsageMaximum(0x65),
			Input{}, // key array
		}},
		UsagePage(0x0C), // Consumer
		Usage(0x01),     // Consumer Control
		Collection{Kind: CollectionApplication, Items: []Item{
			ReportID(ConsumerReportID),
			LogicalMinimum(0),
			LogicalMaximum(1),
			ReportSize(1),
			ReportCount(8),
			Usage(0xE9), // Volume Up
			Usage(0xEA), // Volume Down
			Usage(0xE2), // Mute
			Usage(0xCD), // Play/Pause
			Usage(0xB5), // Scan Next Track
			Usage(0xB6), // Scan Previous Track
			Usage(0xB7), // Stop
			Usage(0xB8), // Eject
			Input{Flags: FlagVariable},
		}},
	)
}

// MouseDescriptor returns the relative mouse descriptor: 8 buttons, relative
// X/Y/wheel and a Consumer AC Pan byte for horizontal scrolling. Input
// report 6 bytes: [id][buttons][x][y][wheel][pan].
func MouseDescriptor() []byte {
	return Descriptor(
		UsagePage(0x01), // Generic Desktop
		Usage(0x02),     // Mouse
		Collection{Kind: CollectionApplication, Items: []Item{
			Usage(0x01), // Pointer
			Collection{Kind: CollectionPhysical, Items: []Item{
				ReportID(MouseReportID),
				UsagePage(0x09), // Buttons
				UsageMinimum(0x01),
				UsageMaximum(0x08),
				LogicalMinimum(0),
				LogicalMaximum(1),
				ReportSize(1),
				ReportCount(8),
				Input{Flags: FlagVariable}, // buttons
				UsagePage(0x01),
				Usage(0x30), // X
				Usage(0x31), // Y
				Usage(0x38), // Wheel
				LogicalMinimum(-127),
				LogicalMaximum(127),
				ReportSize(8),
				ReportCount(3),
				Input{Flags: FlagVariable | FlagRelative},
				UsagePage(0x0C), // Consumer
				Usage(0x0238),   // AC Pan
				ReportCount(1),
				Input{Flags: FlagVariable | FlagRelative},
			}},
		}},
	)
}

// TabletDescriptor returns the absolute pointer descriptor: 8 buttons and
// 16-bit absolute X/Y, authored under a Mouse usage the way the driver table
// is. Input report 6 bytes: [id][buttons][x lo][x hi][y lo][y hi].
func TabletDescriptor() []byte {
	return Descriptor(
		UsagePage(0x01), // Generic Desktop
		Usage(0x02),     // Mouse
		Collection{Kind: CollectionApplication, Items: []Item{
			Usage(0x01), // Pointer
			Collection{Kind: CollectionPhysical, Items: []Item{
				ReportID(TabletReportID),
				UsagePage(0x09), // Buttons
				UsageMinimum(0x01),
				UsageMaximum(0x08),
				LogicalMinimum(0),
				LogicalMaximum(1),
				ReportCount(8),
				ReportSize(1),
				Input{Flags: FlagVariable}, // buttons
				UsagePage(0x01),
				Usage(0x30), // X
				Usage(0x31), // Y
				LogicalMinimum(0),
				LogicalMaximum(32767),
				ReportSize(16),
				ReportCount(2),
				Input{Flags: FlagVariable},
			}},
		}},
	)
}
