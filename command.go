package goobd

import (
	"fmt"
	"strings"
)

// Command is the wire string of an OBD request, e.g. "010C" for engine
// speed. The catalogue maps each command to its Spec.
type Command string

// Service returns the request mode byte, 0 for AT commands.
func (c Command) Service() byte {
	if strings.HasPrefix(string(c), "AT") {
		return 0
	}
	if len(c) < 2 {
		return 0
	}
	b, err := hexToBytes(string(c[:2]))
	if err != nil {
		return 0
	}
	return b[0]
}

// PID returns the parameter id byte of a mode 01/02/06/09 command.
func (c Command) PID() byte {
	if len(c) < 4 {
		return 0
	}
	b, err := hexToBytes(string(c[2:4]))
	if err != nil {
		return 0
	}
	return b[0]
}

// Decoder names the pure function that turns response bytes into a
// typed value.
type Decoder int

const (
	DecoderNone Decoder = iota
	DecoderRaw
	DecoderPIDSupport
	DecoderStatus
	DecoderSingleDTC
	DecoderDTCList
	DecoderFuelStatus
	DecoderAirStatus
	DecoderFuelType
	DecoderOBDCompliance
	DecoderO2SensorsPresent
	DecoderPercent
	DecoderPercentCentered
	DecoderTemp
	DecoderCatTemp
	DecoderPressure
	DecoderFuelPressure
	DecoderFuelRailPressure
	DecoderFuelRailGauge
	DecoderEvapPressure
	DecoderEvapPressureAlt
	DecoderEvapPressureWide
	DecoderRPM
	DecoderSpeed
	DecoderTimingAdvance
	DecoderInjectionTiming
	DecoderMAF
	DecoderMAFMax
	DecoderSensorVoltage
	DecoderSensorVoltageWide
	DecoderCurrentCentered
	DecoderModuleVoltage
	DecoderAbsoluteLoad
	DecoderEquivRatio
	DecoderSeconds
	DecoderMinutes
	DecoderDistance
	DecoderCount
	DecoderFuelRate
	DecoderEncodedString
	DecoderCVN
	DecoderMonitorTest
	DecoderUAS
)

// Spec describes one catalogue entry.
type Spec struct {
	Command   Command
	Desc      string
	ShortDesc string
	// Bytes is the fixed width of the value in a mode 01 response,
	// 0 for variable length replies.
	Bytes   int
	Decoder Decoder
	// UASID selects the SAE J1979 scaling entry for DecoderUAS.
	UASID byte
	// Live marks values worth polling continuously.
	Live bool
	Min  float64
	Max  float64
}

// Lookup resolves a wire string to its Spec.
func Lookup(cmd Command) (Spec, error) {
	if spec, ok := catalogue[cmd]; ok {
		return spec, nil
	}
	return Spec{}, fmt.Errorf("unknown command %q", string(cmd))
}

// Commands returns every catalogue entry.
func Commands() []Spec {
	out := make([]Spec, 0, len(catalogue))
	for _, spec := range catalogue {
		out = append(out, spec)
	}
	return out
}

// SupportGetters returns the chained supported-PID bitmap commands in
// probe order.
func SupportGetters() []Spec {
	var out []Spec
	for _, cmd := range supportGetterOrder {
		out = append(out, catalogue[cmd])
	}
	return out
}

// MonitorCommand builds the mode 06 request for an on-board monitor id.
// Results decode with DecoderMonitorTest.
func MonitorCommand(mid byte) Spec {
	return Spec{
		Command:   Command(fmt.Sprintf("06%02X", mid)),
		Desc:      fmt.Sprintf("On-board monitor results, MID %02X", mid),
		ShortDesc: fmt.Sprintf("Monitor %02X", mid),
		Decoder:   DecoderMonitorTest,
	}
}

// ValueKind discriminates the decoded result.
type ValueKind int

const (
	KindNone ValueKind = iota
	KindMeasurement
	KindStatus
	KindTroubleCodes
	KindMonitorTests
	KindString
	KindBitmap
	KindRaw
)

// Value is the decoded result of one command.
type Value struct {
	Kind        ValueKind
	Measurement Measurement
	Status      *StatusResult
	Codes       []TroubleCode
	Tests       []MonitorTest
	Text        string
	Bitmap      uint32
	Raw         []byte
}

func (v *Value) String() string {
	switch v.Kind {
	case KindMeasurement:
		return fmt.Sprintf("%.2f %s", v.Measurement.Value, v.Measurement.Unit)
	case KindStatus:
		return v.Status.String()
	case KindTroubleCodes:
		var codes []string
		for _, c := range v.Codes {
			codes = append(codes, c.Code)
		}
		return strings.Join(codes, ", ")
	case KindString:
		return v.Text
	case KindBitmap:
		return fmt.Sprintf("%032b", v.Bitmap)
	case KindRaw:
		return fmt.Sprintf("% X", v.Raw)
	default:
		return ""
	}
}
