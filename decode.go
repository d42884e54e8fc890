package goobd

import (
	"fmt"
	"math"
)

// Decode runs the spec's decoder over the value bytes of a response.
// The payload excludes the service response byte and the PID echo.
// Decoders are pure: no I/O, no state, never NaN or infinity.
func Decode(spec Spec, payload []byte, system UnitSystem) (*Value, error) {
	if spec.Bytes > 0 && len(payload) < spec.Bytes {
		return nil, fmt.Errorf("%w: %s wants %d bytes, got %d", ErrInsufficientData, spec.Command, spec.Bytes, len(payload))
	}
	fn, ok := decoders[spec.Decoder]
	if !ok {
		return nil, &UnsupportedDecoderError{Decoder: spec.Decoder}
	}
	value, err := fn(spec, payload)
	if err != nil {
		return nil, err
	}
	if value.Kind == KindMeasurement {
		m := value.Measurement
		if math.IsNaN(m.Value) || math.IsInf(m.Value, 0) {
			return nil, fmt.Errorf("%w: %s decoded to %v", ErrOutOfRange, spec.Command, m.Value)
		}
		if spec.Min != 0 || spec.Max != 0 {
			if m.Value < spec.Min || m.Value > spec.Max {
				return nil, fmt.Errorf("%w: %s value %v outside [%v, %v]", ErrOutOfRange, spec.Command, m.Value, spec.Min, spec.Max)
			}
		}
		value.Measurement = m.Convert(system)
	}
	return value, nil
}

type decodeFunc func(Spec, []byte) (*Value, error)

var decoders = map[Decoder]decodeFunc{
	DecoderNone: func(_ Spec, p []byte) (*Value, error) {
		return &Value{Kind: KindNone, Raw: p}, nil
	},
	DecoderRaw: func(_ Spec, p []byte) (*Value, error) {
		return &Value{Kind: KindRaw, Raw: p}, nil
	},
	DecoderPIDSupport: func(_ Spec, p []byte) (*Value, error) {
		return &Value{Kind: KindBitmap, Bitmap: be32(p)}, nil
	},
	DecoderStatus: func(_ Spec, p []byte) (*Value, error) {
		status, err := decodeStatus(p)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: KindStatus, Status: status}, nil
	},
	DecoderSingleDTC: func(_ Spec, p []byte) (*Value, error) {
		code := DecodeDTC(p[0], p[1])
		if code.Code == "" {
			return &Value{Kind: KindTroubleCodes}, nil
		}
		return &Value{Kind: KindTroubleCodes, Codes: []TroubleCode{code}}, nil
	},
	DecoderDTCList: func(_ Spec, p []byte) (*Value, error) {
		return &Value{Kind: KindTroubleCodes, Codes: DecodeDTCList(p)}, nil
	},
	DecoderFuelStatus: func(_ Spec, p []byte) (*Value, error) {
		return &Value{Kind: KindString, Text: fuelStatusName(p[0])}, nil
	},
	DecoderAirStatus: func(_ Spec, p []byte) (*Value, error) {
		return &Value{Kind: KindString, Text: airStatusName(p[0])}, nil
	},
	DecoderFuelType: func(_ Spec, p []byte) (*Value, error) {
		return &Value{Kind: KindString, Text: fuelTypeName(p[0])}, nil
	},
	DecoderOBDCompliance: func(_ Spec, p []byte) (*Value, error) {
		return &Value{Kind: KindString, Text: obdComplianceName(p[0])}, nil
	},
	DecoderO2SensorsPresent: func(_ Spec, p []byte) (*Value, error) {
		return &Value{Kind: KindBitmap, Bitmap: uint32(p[0])}, nil
	},
	DecoderPercent: measure(func(p []byte) (float64, Unit) {
		return float64(p[0]) * 100 / 255, UnitPercent
	}),
	DecoderPercentCentered: measure(func(p []byte) (float64, Unit) {
		return (float64(p[0]) - 128) * 100 / 128, UnitPercent
	}),
	DecoderTemp: measure(func(p []byte) (float64, Unit) {
		return float64(p[0]) - 40, UnitCelsius
	}),
	DecoderCatTemp: measure(func(p []byte) (float64, Unit) {
		return float64(be16(p))/10 - 40, UnitCelsius
	}),
	DecoderPressure: measure(func(p []byte) (float64, Unit) {
		return float64(p[0]), UnitKpa
	}),
	DecoderFuelPressure: measure(func(p []byte) (float64, Unit) {
		return float64(p[0]) * 3, UnitKpa
	}),
	DecoderFuelRailPressure: measure(func(p []byte) (float64, Unit) {
		return float64(be16(p)) * 0.079, UnitKpa
	}),
	DecoderFuelRailGauge: measure(func(p []byte) (float64, Unit) {
		return float64(be16(p)) * 10, UnitKpa
	}),
	DecoderEvapPressure: measure(func(p []byte) (float64, Unit) {
		return float64(int16(be16(p))) / 4, UnitPa
	}),
	DecoderEvapPressureAlt: measure(func(p []byte) (float64, Unit) {
		return float64(be16(p)) / 1000, UnitKpa
	}),
	DecoderEvapPressureWide: measure(func(p []byte) (float64, Unit) {
		return float64(be16(p)) - 32767, UnitPa
	}),
	DecoderRPM: measure(func(p []byte) (float64, Unit) {
		return float64(be16(p)) / 4, UnitRPM
	}),
	DecoderSpeed: measure(func(p []byte) (float64, Unit) {
		return float64(p[0]), UnitKmh
	}),
	DecoderTimingAdvance: measure(func(p []byte) (float64, Unit) {
		return float64(p[0])/2 - 64, UnitDegree
	}),
	DecoderInjectionTiming: measure(func(p []byte) (float64, Unit) {
		return float64(be16(p))/128 - 210, UnitDegree
	}),
	DecoderMAF: measure(func(p []byte) (float64, Unit) {
		return float64(be16(p)) / 100, UnitGramsPerSec
	}),
	DecoderMAFMax: measure(func(p []byte) (float64, Unit) {
		return float64(p[0]) * 10, UnitGramsPerSec
	}),
	DecoderSensorVoltage: measure(func(p []byte) (float64, Unit) {
		return float64(p[0]) / 200, UnitVolt
	}),
	DecoderSensorVoltageWide: measure(func(p []byte) (float64, Unit) {
		return float64(be16(p[2:])) * 8 / 65535, UnitVolt
	}),
	DecoderCurrentCentered: measure(func(p []byte) (float64, Unit) {
		return float64(be16(p[2:]))/256 - 128, UnitMilliAmp
	}),
	DecoderModuleVoltage: measure(func(p []byte) (float64, Unit) {
		return float64(be16(p)) / 1000, UnitVolt
	}),
	DecoderAbsoluteLoad: measure(func(p []byte) (float64, Unit) {
		return float64(be16(p)) * 100 / 255, UnitPercent
	}),
	DecoderEquivRatio: measure(func(p []byte) (float64, Unit) {
		return float64(be16(p)) * 2 / 65535, UnitRatio
	}),
	DecoderSeconds: measure(func(p []byte) (float64, Unit) {
		return float64(be16(p)), UnitSecond
	}),
	DecoderMinutes: measure(func(p []byte) (float64, Unit) {
		return float64(be16(p)), UnitMinute
	}),
	DecoderDistance: measure(func(p []byte) (float64, Unit) {
		return float64(be16(p)), UnitKilometer
	}),
	DecoderCount: measure(func(p []byte) (float64, Unit) {
		return float64(p[0]), UnitCount
	}),
	DecoderFuelRate: measure(func(p []byte) (float64, Unit) {
		return float64(be16(p)) / 20, UnitLiterPerHour
	}),
	DecoderEncodedString: func(_ Spec, p []byte) (*Value, error) {
		return &Value{Kind: KindString, Text: decodeASCII(p)}, nil
	},
	DecoderCVN: func(_ Spec, p []byte) (*Value, error) {
		var text string
		// Replies lead with a record count when the byte count is not a
		// multiple of four.
		for i := len(p) % 4; i+4 <= len(p); i += 4 {
			if text != "" {
				text += " "
			}
			text += fmt.Sprintf("%02X%02X%02X%02X", p[i], p[i+1], p[i+2], p[i+3])
		}
		return &Value{Kind: KindString, Text: text}, nil
	},
	DecoderMonitorTest: func(_ Spec, p []byte) (*Value, error) {
		tests, err := decodeMonitorTests(p)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: KindMonitorTests, Tests: tests}, nil
	},
	DecoderUAS: func(spec Spec, p []byte) (*Value, error) {
		m, err := decodeUAS(spec.UASID, be16(p))
		if err != nil {
			return nil, err
		}
		return &Value{Kind: KindMeasurement, Measurement: m}, nil
	},
}

func measure(fn func([]byte) (float64, Unit)) decodeFunc {
	return func(_ Spec, p []byte) (*Value, error) {
		value, unit := fn(p)
		return &Value{Kind: KindMeasurement, Measurement: Measurement{Value: value, Unit: unit}}, nil
	}
}

func be16(p []byte) uint16 {
	return uint16(p[0])<<8 | uint16(p[1])
}

func be32(p []byte) uint32 {
	return uint32(p[0])<<24 | uint32(p[1])<<16 | uint32(p[2])<<8 | uint32(p[3])
}

// decodeASCII keeps printable characters, dropping NULs and other
// control bytes ECUs pad identification strings with.
func decodeASCII(p []byte) string {
	out := make([]byte, 0, len(p))
	for _, b := range p {
		if b >= 0x20 && b < 0x7F {
			out = append(out, b)
		}
	}
	return string(out)
}

// MonitorTest is one mode 06 on-board monitor result.
type MonitorTest struct {
	MID    byte
	TID    byte
	Value  Measurement
	Min    Measurement
	Max    Measurement
	Passed bool
}

// decodeMonitorTests parses the CAN mode 06 reply layout: repeating
// nine byte records of MID, TID, UAS id and three 16 bit words.
func decodeMonitorTests(p []byte) ([]MonitorTest, error) {
	var tests []MonitorTest
	for i := 0; i+9 <= len(p); i += 9 {
		uasID := p[i+2]
		value, err := decodeUAS(uasID, be16(p[i+3:]))
		if err != nil {
			continue
		}
		min, _ := decodeUAS(uasID, be16(p[i+5:]))
		max, _ := decodeUAS(uasID, be16(p[i+7:]))
		tests = append(tests, MonitorTest{
			MID:    p[i],
			TID:    p[i+1],
			Value:  value,
			Min:    min,
			Max:    max,
			Passed: value.Value >= min.Value && value.Value <= max.Value,
		})
	}
	if len(tests) == 0 {
		return nil, ErrInsufficientData
	}
	return tests, nil
}

func fuelStatusName(b byte) string {
	switch b {
	case 1 << 0:
		return "Open loop due to insufficient engine temperature"
	case 1 << 1:
		return "Closed loop, using oxygen sensor feedback"
	case 1 << 2:
		return "Open loop due to engine load or fuel cut"
	case 1 << 3:
		return "Open loop due to system failure"
	case 1 << 4:
		return "Closed loop, using at least one oxygen sensor but there is a fault"
	default:
		return fmt.Sprintf("Unknown fuel system status %02X", b)
	}
}

func airStatusName(b byte) string {
	switch b {
	case 1 << 0:
		return "Upstream"
	case 1 << 1:
		return "Downstream of catalytic converter"
	case 1 << 2:
		return "From the outside atmosphere or off"
	case 1 << 3:
		return "Pump commanded on for diagnostics"
	default:
		return fmt.Sprintf("Unknown secondary air status %02X", b)
	}
}

func fuelTypeName(b byte) string {
	names := []string{
		"Not available",
		"Gasoline",
		"Methanol",
		"Ethanol",
		"Diesel",
		"LPG",
		"CNG",
		"Propane",
		"Electric",
		"Bifuel running Gasoline",
		"Bifuel running Methanol",
		"Bifuel running Ethanol",
		"Bifuel running LPG",
		"Bifuel running CNG",
		"Bifuel running Propane",
		"Bifuel running Electricity",
		"Bifuel running electric and combustion engine",
		"Hybrid gasoline",
		"Hybrid Ethanol",
		"Hybrid Diesel",
		"Hybrid Electric",
		"Hybrid running electric and combustion engine",
		"Hybrid Regenerative",
		"Bifuel running diesel",
	}
	if int(b) < len(names) {
		return names[b]
	}
	return fmt.Sprintf("Unknown fuel type %02X", b)
}

func obdComplianceName(b byte) string {
	names := map[byte]string{
		0x01: "OBD-II as defined by the CARB",
		0x02: "OBD as defined by the EPA",
		0x03: "OBD and OBD-II",
		0x04: "OBD-I",
		0x05: "Not OBD compliant",
		0x06: "EOBD (Europe)",
		0x07: "EOBD and OBD-II",
		0x08: "EOBD and OBD",
		0x09: "EOBD, OBD and OBD II",
		0x0A: "JOBD (Japan)",
		0x0B: "JOBD and OBD II",
		0x0C: "JOBD and EOBD",
		0x0D: "JOBD, EOBD, and OBD II",
		0x11: "EMD",
		0x12: "EMD+",
		0x13: "HD OBD-C",
		0x14: "HD OBD",
		0x15: "WWH OBD",
		0x17: "HD EOBD-I",
		0x18: "HD EOBD-I N",
		0x19: "HD EOBD-II",
		0x1A: "HD EOBD-II N",
		0x1C: "OBDBr-1",
		0x1D: "OBDBr-2",
		0x1E: "KOBD",
		0x1F: "IOBD I",
		0x20: "IOBD II",
		0x21: "HD EOBD-IV",
	}
	if name, ok := names[b]; ok {
		return name
	}
	return fmt.Sprintf("Unknown OBD compliance %02X", b)
}
