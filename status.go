package goobd

import (
	"fmt"
	"sort"
	"strings"
)

// IgnitionType separates the two readiness monitor layouts of mode 01
// PID 01.
type IgnitionType int

const (
	IgnitionSpark IgnitionType = iota
	IgnitionCompression
)

func (i IgnitionType) String() string {
	if i == IgnitionCompression {
		return "compression"
	}
	return "spark"
}

// MonitorStatus is one readiness monitor's availability and completion.
type MonitorStatus struct {
	Available bool
	Complete  bool
}

// StatusResult is the decoded mode 01 PID 01 readiness frame.
type StatusResult struct {
	MIL      bool
	DTCCount uint8
	Ignition IgnitionType
	Tests    map[string]MonitorStatus
}

func (s *StatusResult) String() string {
	var out strings.Builder
	fmt.Fprintf(&out, "MIL: %v, DTCs: %d, ignition: %s", s.MIL, s.DTCCount, s.Ignition)
	names := make([]string, 0, len(s.Tests))
	for name := range s.Tests {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := s.Tests[name]
		fmt.Fprintf(&out, "\n  %-28s available: %-5v complete: %v", name, t.Available, t.Complete)
	}
	return out.String()
}

// Base monitors present on every vehicle, bits 0-2 of byte B for
// availability, bits 4-6 for completion (a set bit means complete).
var baseMonitors = []string{
	"MISFIRE_MONITORING",
	"FUEL_SYSTEM_MONITORING",
	"COMPONENT_MONITORING",
}

// Spark ignition monitors, bits 0-7 of bytes C (availability) and D
// (completion, a set bit means complete).
var sparkMonitors = []string{
	"CATALYST_MONITORING",
	"HEATED_CATALYST_MONITORING",
	"EVAPORATIVE_SYSTEM_MONITORING",
	"SECONDARY_AIR_SYSTEM_MONITORING",
	"",
	"OXYGEN_SENSOR_MONITORING",
	"OXYGEN_SENSOR_HEATER_MONITORING",
	"EGR_VVT_SYSTEM_MONITORING",
}

// Compression ignition monitors.
var compressionMonitors = []string{
	"NMHC_CATALYST_MONITORING",
	"NOX_SCR_AFTERTREATMENT_MONITORING",
	"",
	"BOOST_PRESSURE_MONITORING",
	"",
	"EXHAUST_GAS_SENSOR_MONITORING",
	"PM_FILTER_MONITORING",
	"EGR_VVT_SYSTEM_MONITORING",
}

// decodeStatus parses the four byte readiness frame. Bit 7 of byte A is
// the MIL, the low seven bits the stored DTC count. Bit 3 of byte B
// selects compression ignition.
func decodeStatus(p []byte) (*StatusResult, error) {
	if len(p) < 4 {
		return nil, fmt.Errorf("%w: status wants 4 bytes, got %d", ErrInsufficientData, len(p))
	}
	a, b, c, d := p[0], p[1], p[2], p[3]

	status := &StatusResult{
		MIL:      a&0x80 != 0,
		DTCCount: a & 0x7F,
		Ignition: IgnitionSpark,
		Tests:    make(map[string]MonitorStatus),
	}
	if b&0x08 != 0 {
		status.Ignition = IgnitionCompression
	}

	for i, name := range baseMonitors {
		status.Tests[name] = MonitorStatus{
			Available: b&(1<<uint(i)) != 0,
			Complete:  b&(1<<uint(i+4)) != 0,
		}
	}

	monitors := sparkMonitors
	if status.Ignition == IgnitionCompression {
		monitors = compressionMonitors
	}
	for i, name := range monitors {
		if name == "" {
			continue
		}
		status.Tests[name] = MonitorStatus{
			Available: c&(1<<uint(i)) != 0,
			Complete:  d&(1<<uint(i)) != 0,
		}
	}
	return status, nil
}
