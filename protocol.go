package goobd

import "fmt"

// Protocol is one of the in-vehicle protocols the ELM327 can bridge.
type Protocol int

const (
	ProtocolAuto Protocol = iota
	ProtocolJ1850PWM
	ProtocolJ1850VPW
	ProtocolISO9141
	ProtocolKWPSlow
	ProtocolKWPFast
	ProtocolCAN11_500
	ProtocolCAN29_500
	ProtocolCAN11_250
	ProtocolCAN29_250
	ProtocolJ1939
	ProtocolUnknown
)

// elmID returns the single hex digit the adapter uses for the protocol.
func (p Protocol) elmID() string {
	switch p {
	case ProtocolAuto:
		return "0"
	case ProtocolJ1850PWM:
		return "1"
	case ProtocolJ1850VPW:
		return "2"
	case ProtocolISO9141:
		return "3"
	case ProtocolKWPSlow:
		return "4"
	case ProtocolKWPFast:
		return "5"
	case ProtocolCAN11_500:
		return "6"
	case ProtocolCAN29_500:
		return "7"
	case ProtocolCAN11_250:
		return "8"
	case ProtocolCAN29_250:
		return "9"
	case ProtocolJ1939:
		return "A"
	default:
		return ""
	}
}

// SetCommand returns the ATSP command selecting the protocol.
func (p Protocol) SetCommand() string {
	return "ATSP" + p.elmID()
}

// IsCAN reports whether responses arrive in ISO 15765 framing.
func (p Protocol) IsCAN() bool {
	switch p {
	case ProtocolCAN11_500, ProtocolCAN29_500, ProtocolCAN11_250, ProtocolCAN29_250, ProtocolJ1939:
		return true
	}
	return false
}

// Extended reports whether the protocol uses 29 bit arbitration ids.
func (p Protocol) Extended() bool {
	return p == ProtocolCAN29_500 || p == ProtocolCAN29_250 || p == ProtocolJ1939
}

func (p Protocol) String() string {
	switch p {
	case ProtocolAuto:
		return "Auto"
	case ProtocolJ1850PWM:
		return "SAE J1850 PWM (41.6 kbaud)"
	case ProtocolJ1850VPW:
		return "SAE J1850 VPW (10.4 kbaud)"
	case ProtocolISO9141:
		return "ISO 9141-2 (5 baud init)"
	case ProtocolKWPSlow:
		return "ISO 14230-4 KWP (5 baud init)"
	case ProtocolKWPFast:
		return "ISO 14230-4 KWP (fast init)"
	case ProtocolCAN11_500:
		return "ISO 15765-4 CAN (11 bit ID, 500 kbaud)"
	case ProtocolCAN29_500:
		return "ISO 15765-4 CAN (29 bit ID, 500 kbaud)"
	case ProtocolCAN11_250:
		return "ISO 15765-4 CAN (11 bit ID, 250 kbaud)"
	case ProtocolCAN29_250:
		return "ISO 15765-4 CAN (29 bit ID, 250 kbaud)"
	case ProtocolJ1939:
		return "SAE J1939 CAN (29 bit ID, 250 kbaud)"
	default:
		return "Unknown"
	}
}

// ProtocolFromELM maps an ATDPN reply digit to a Protocol. The adapter
// prefixes the digit with 'A' when it was found by auto search.
func ProtocolFromELM(s string) (Protocol, error) {
	if len(s) > 1 && (s[0] == 'A' || s[0] == 'a') {
		s = s[1:]
	}
	if len(s) != 1 {
		return ProtocolUnknown, fmt.Errorf("%w: %q", ErrUnknownProtocol, s)
	}
	switch s[0] {
	case '1':
		return ProtocolJ1850PWM, nil
	case '2':
		return ProtocolJ1850VPW, nil
	case '3':
		return ProtocolISO9141, nil
	case '4':
		return ProtocolKWPSlow, nil
	case '5':
		return ProtocolKWPFast, nil
	case '6':
		return ProtocolCAN11_500, nil
	case '7':
		return ProtocolCAN29_500, nil
	case '8':
		return ProtocolCAN11_250, nil
	case '9':
		return ProtocolCAN29_250, nil
	case 'A', 'a':
		return ProtocolJ1939, nil
	case '0':
		return ProtocolAuto, nil
	}
	return ProtocolUnknown, fmt.Errorf("%w: %q", ErrUnknownProtocol, s)
}

// manualProbeOrder is the sequence tried when auto detection fails,
// legacy protocols first, then the four CAN variants.
var manualProbeOrder = []Protocol{
	ProtocolJ1850PWM,
	ProtocolJ1850VPW,
	ProtocolISO9141,
	ProtocolKWPSlow,
	ProtocolKWPFast,
	ProtocolCAN11_500,
	ProtocolCAN29_500,
	ProtocolCAN11_250,
	ProtocolCAN29_250,
}
