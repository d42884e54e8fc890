package goobd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ECU identifies a bus endpoint. For legacy protocols the id is the low
// three bits of the source address byte, for CAN it is derived from the
// arbitration id via the session's ECU map.
type ECU int

const (
	ECUUnknown ECU = iota
	ECUEngine
	ECUTransmission
)

func (e ECU) String() string {
	switch e {
	case ECUEngine:
		return "engine"
	case ECUTransmission:
		return "transmission"
	default:
		return "unknown"
	}
}

// legacyFrame is one line of adapter output on a non-CAN protocol after
// hex cleanup: priority, receiver, transmitter, payload.
type legacyFrame struct {
	Priority byte
	RxID     byte
	TxID     byte
	Payload  []byte
}

// canFrame is one line of adapter output on an ISO 15765 protocol.
type canFrame struct {
	ArbID   uint32
	Payload []byte // PCI byte onward
}

// Message is a reassembled logical response from a single ECU. Data[0]
// is the service response byte (request service + 0x40).
type Message struct {
	ECU  ECU
	TxID uint32
	Data []byte
}

var (
	green  = color.New(color.FgGreen).SprintfFunc()
	yellow = color.New(color.FgHiBlue).SprintfFunc()
)

func (m *Message) String() string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf("0x%03X", m.TxID) + " || ")
	out.WriteString(m.ECU.String() + " || ")
	var hexView strings.Builder
	for i, b := range m.Data {
		hexView.WriteString(fmt.Sprintf("%02X", b))
		if i != len(m.Data)-1 {
			hexView.WriteString(" ")
		}
	}
	out.WriteString(hexView.String())
	return out.String()
}

func (m *Message) ColorString() string {
	var out strings.Builder
	out.WriteString(green("0x%03X", m.TxID) + " || ")
	out.WriteString(m.ECU.String() + " || ")
	var hexView strings.Builder
	for i, b := range m.Data {
		hexView.WriteString(fmt.Sprintf("%02X", b))
		if i != len(m.Data)-1 {
			hexView.WriteString(" ")
		}
	}
	out.WriteString(yellow("%s", hexView.String()))
	return out.String()
}

// cleanHexLine uppercases a response line, strips whitespace and search
// noise and returns it only if it is plausible frame hex of at least
// minLen characters.
func cleanHexLine(line string, minLen int) (string, bool) {
	s := strings.ToUpper(line)
	s = strings.ReplaceAll(s, "SEARCHING...", "")
	var b strings.Builder
	for _, r := range s {
		if r == ' ' || r == '\t' {
			continue
		}
		b.WriteRune(r)
	}
	s = b.String()
	if len(s) < minLen || len(s)%2 != 0 {
		return "", false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'F') {
			return "", false
		}
	}
	return s, true
}

func hexToBytes(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd length hex %q", s)
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		hi, ok1 := hexNibble(s[i*2])
		lo, ok2 := hexNibble(s[i*2+1])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("invalid hex %q", s)
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}
