// Package contract cross-checks interpreter output against independently
// declared constants. A YAML contract lists, per synthesized device, the
// expected device class and the expected descriptor/report byte lengths that
// the driver declares at compile time; Check re-derives every number from
// the descriptor bytes and reports drift.
package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"

	"github.com/virtinput/hidprobe/hiddesc"
	"github.com/virtinput/hidprobe/internal/srcscan"
)

// Contract is the top-level YAML document.
type Contract struct {
	Devices []Device `json:"devices"`
}

// Device declares the expectations for one descriptor.
type Device struct {
	Name string `json:"name"`
	// Descriptor is the path to the descriptor, relative to the contract
	// file: raw bytes, or source text when Extract is set.
	Descriptor string `json:"descriptor"`
	// Extract names a C byte-array initializer to pull out of the
	// descriptor file instead of reading it as raw bytes.
	Extract string `json:"extract,omitempty"`

	// Class is the expected device label (keyboard/mouse/tablet/...).
	// Empty skips the classification check.
	Class string `json:"class,omitempty"`
	// DescriptorLength is the expected total byte length; nil skips.
	DescriptorLength *int `json:"descriptorLength,omitempty"`

	Reports []ReportExpectation `json:"reports,omitempty"`
}

// ReportExpectation pins the byte length of one Report ID. Nil lengths are
// unchecked; zero is a real expectation (report absent).
type ReportExpectation struct {
	ID            uint8 `json:"id"`
	InputLength   *int  `json:"inputLength,omitempty"`
	OutputLength  *int  `json:"outputLength,omitempty"`
	FeatureLength *int  `json:"featureLength,omitempty"`
}

// Load reads and validates a contract file.
func Load(path string) (*Contract, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("contract: %w", err)
	}
	var c Contract
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("contract: failed to parse %s: %w", path, err)
	}
	if len(c.Devices) == 0 {
		return nil, fmt.Errorf("contract: %s declares no devices", path)
	}
	seen := make(map[string]struct{}, len(c.Devices))
	for i, dev := range c.Devices {
		if dev.Name == "" {
			return nil, fmt.Errorf("contract: device %d has no name", i)
		}
		if _, dup := seen[dev.Name]; dup {
			return nil, fmt.Errorf("contract: duplicate device name %q", dev.Name)
		}
		seen[dev.Name] = struct{}{}
		if dev.Descriptor == "" {
			return nil, fmt.Errorf("contract: device %q has no descriptor path", dev.Name)
		}
		if dev.Class != "" {
			if _, err := ParseClass(dev.Class); err != nil {
				return nil, fmt.Errorf("contract: device %q: %w", dev.Name, err)
			}
		}
	}
	return &c, nil
}

// ParseClass maps a contract label to a DeviceClass.
func ParseClass(s string) (hiddesc.DeviceClass, error) {
	for _, class := range []hiddesc.DeviceClass{
		hiddesc.ClassUnknown,
		hiddesc.ClassKeyboard,
		hiddesc.ClassMouse,
		hiddesc.ClassTablet,
		hiddesc.ClassAmbiguous,
	} {
		if class.String() == s {
			return class, nil
		}
	}
	return hiddesc.ClassUnknown, fmt.Errorf("unknown device class %q", s)
}

// ReadDescriptor loads the descriptor bytes for a device, extracting them
// from source text when the device asks for it.
func ReadDescriptor(dev Device, baseDir string) ([]byte, error) {
	path := dev.Descriptor
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("contract: device %q: %w", dev.Name, err)
	}
	if dev.Extract == "" {
		return raw, nil
	}
	desc, err := srcscan.ExtractByteArray(string(raw), dev.Extract)
	if err != nil {
		return nil, fmt.Errorf("contract: device %q: %w", dev.Name, err)
	}
	return desc, nil
}
