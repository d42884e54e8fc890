package goobd

import (
	"fmt"
	"strings"
)

// TroubleCode is one diagnostic trouble code as reported by mode 03/07.
type TroubleCode struct {
	Code        string
	Raw         uint16
	Description string
}

// How to read DTC codes
//
//	B0 B1    First DTC character
//	-- --    -------------------
//	 0  0    P - Powertrain
//	 0  1    C - Chassis
//	 1  0    B - Body
//	 1  1    U - Network
//
// The next two bits form the first digit, the remaining 12 bits the
// last three hex digits.
var dtcLetters = [4]byte{'P', 'C', 'B', 'U'}

// DecodeDTC decodes a 2-byte DTC value (A,B) into a code like "P0133".
// Both bytes zero means "no code" and yields an empty Code.
func DecodeDTC(a, b byte) TroubleCode {
	if a == 0 && b == 0 {
		return TroubleCode{}
	}
	raw := uint16(a)<<8 | uint16(b)
	code := fmt.Sprintf("%c%d%03X", dtcLetters[a>>6], (a>>4)&0x03, raw&0x0FFF)
	return TroubleCode{
		Code:        code,
		Raw:         raw,
		Description: dtcDescriptions[code],
	}
}

// EncodeDTC is the inverse of DecodeDTC.
func EncodeDTC(code string) (uint16, error) {
	if len(code) != 5 {
		return 0, fmt.Errorf("malformed trouble code %q", code)
	}
	var letter uint16
	switch code[0] {
	case 'P':
		letter = 0
	case 'C':
		letter = 1
	case 'B':
		letter = 2
	case 'U':
		letter = 3
	default:
		return 0, fmt.Errorf("malformed trouble code %q", code)
	}
	if code[1] < '0' || code[1] > '3' {
		return 0, fmt.Errorf("malformed trouble code %q", code)
	}
	digit := uint16(code[1] - '0')
	var rest uint16
	for i := 2; i < 5; i++ {
		n, ok := hexNibble(code[i])
		if !ok {
			return 0, fmt.Errorf("malformed trouble code %q", code)
		}
		rest = rest<<4 | uint16(n)
	}
	return letter<<14 | digit<<12 | rest, nil
}

// DecodeDTCList parses the byte pairs of a mode 03/07 reply. All-zero
// pairs are terminators, padding bytes after them are ignored.
func DecodeDTCList(p []byte) []TroubleCode {
	var codes []TroubleCode
	for i := 0; i+2 <= len(p); i += 2 {
		code := DecodeDTC(p[i], p[i+1])
		if code.Code == "" {
			break
		}
		codes = append(codes, code)
	}
	return codes
}

// Descriptions for the common generic codes. Manufacturer specific
// codes resolve to an empty description.
var dtcDescriptions = map[string]string{
	"P0100": "Mass Air Flow Circuit Malfunction",
	"P0101": "Mass Air Flow Circuit Range/Performance",
	"P0102": "Mass Air Flow Circuit Low Input",
	"P0103": "Mass Air Flow Circuit High Input",
	"P0110": "Intake Air Temperature Circuit Malfunction",
	"P0112": "Intake Air Temperature Circuit Low Input",
	"P0113": "Intake Air Temperature Circuit High Input",
	"P0115": "Engine Coolant Temperature Circuit Malfunction",
	"P0117": "Engine Coolant Temperature Circuit Low Input",
	"P0118": "Engine Coolant Temperature Circuit High Input",
	"P0120": "Throttle Position Sensor Circuit Malfunction",
	"P0121": "Throttle Position Sensor Range/Performance",
	"P0122": "Throttle Position Sensor Circuit Low Input",
	"P0123": "Throttle Position Sensor Circuit High Input",
	"P0125": "Insufficient Coolant Temperature for Closed Loop",
	"P0128": "Coolant Thermostat Below Regulating Temperature",
	"P0130": "O2 Sensor Circuit Malfunction (Bank 1 Sensor 1)",
	"P0131": "O2 Sensor Circuit Low Voltage (Bank 1 Sensor 1)",
	"P0132": "O2 Sensor Circuit High Voltage (Bank 1 Sensor 1)",
	"P0133": "O2 Sensor Circuit Slow Response (Bank 1 Sensor 1)",
	"P0134": "O2 Sensor Circuit No Activity (Bank 1 Sensor 1)",
	"P0135": "O2 Sensor Heater Circuit Malfunction (Bank 1 Sensor 1)",
	"P0141": "O2 Sensor Heater Circuit Malfunction (Bank 1 Sensor 2)",
	"P0171": "System Too Lean (Bank 1)",
	"P0172": "System Too Rich (Bank 1)",
	"P0174": "System Too Lean (Bank 2)",
	"P0175": "System Too Rich (Bank 2)",
	"P0300": "Random/Multiple Cylinder Misfire Detected",
	"P0301": "Cylinder 1 Misfire Detected",
	"P0302": "Cylinder 2 Misfire Detected",
	"P0303": "Cylinder 3 Misfire Detected",
	"P0304": "Cylinder 4 Misfire Detected",
	"P0305": "Cylinder 5 Misfire Detected",
	"P0306": "Cylinder 6 Misfire Detected",
	"P0325": "Knock Sensor 1 Circuit Malfunction",
	"P0335": "Crankshaft Position Sensor A Circuit Malfunction",
	"P0340": "Camshaft Position Sensor Circuit Malfunction",
	"P0401": "Exhaust Gas Recirculation Flow Insufficient",
	"P0402": "Exhaust Gas Recirculation Flow Excessive",
	"P0420": "Catalyst System Efficiency Below Threshold (Bank 1)",
	"P0430": "Catalyst System Efficiency Below Threshold (Bank 2)",
	"P0440": "Evaporative Emission Control System Malfunction",
	"P0441": "Evaporative Emission Control System Incorrect Purge Flow",
	"P0442": "Evaporative Emission Control System Leak Detected (Small)",
	"P0443": "Evaporative Emission Control System Purge Control Valve Circuit",
	"P0446": "Evaporative Emission Control System Vent Control Circuit",
	"P0455": "Evaporative Emission Control System Leak Detected (Large)",
	"P0500": "Vehicle Speed Sensor Malfunction",
	"P0505": "Idle Control System Malfunction",
	"P0506": "Idle Control System RPM Lower Than Expected",
	"P0507": "Idle Control System RPM Higher Than Expected",
	"P0560": "System Voltage Malfunction",
	"P0562": "System Voltage Low",
	"P0563": "System Voltage High",
	"P0600": "Serial Communication Link Malfunction",
	"P0601": "Internal Control Module Memory Check Sum Error",
	"P0700": "Transmission Control System Malfunction",
	"P0705": "Transmission Range Sensor Circuit Malfunction",
	"P0715": "Input/Turbine Speed Sensor Circuit Malfunction",
	"P0720": "Output Speed Sensor Circuit Malfunction",
	"P0740": "Torque Converter Clutch Circuit Malfunction",
	"P0750": "Shift Solenoid A Malfunction",
	"U0001": "High Speed CAN Communication Bus",
	"U0100": "Lost Communication With ECM/PCM",
	"U0101": "Lost Communication With TCM",
	"U0121": "Lost Communication With ABS Module",
	"U0140": "Lost Communication With Body Control Module",
	"U0155": "Lost Communication With Instrument Cluster",
}

func (t TroubleCode) String() string {
	if t.Description == "" {
		return t.Code
	}
	return t.Code + " - " + t.Description
}

// IsPowertrain reports whether the code belongs to the engine or
// transmission domain.
func (t TroubleCode) IsPowertrain() bool {
	return strings.HasPrefix(t.Code, "P")
}
