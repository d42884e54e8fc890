package goobd

import (
	"fmt"
	"sort"
)

const (
	legacyMinHex         = 12
	legacyMinHexEmulator = 4
	legacyMaxFrameBytes  = 12
	legacyMinFrameBytes  = 4
)

// legacyParser reassembles responses on SAE J1850, ISO 9141-2 and
// ISO 14230-4. Each response line carries a three byte header
// (priority, receiver, transmitter) followed by the message bytes.
type legacyParser struct {
	// emulator accepts sequence-less 4/5 byte payloads emitted by some
	// software emulators. Never enable against real hardware.
	emulator bool
	// checksum drops the trailing byte of every frame. Some adapters
	// append the J1850 CRC when headers are on.
	checksum bool
	ecuMap   map[uint32]ECU
}

// SetECUMap installs the transmitter id to ECU mapping learned from the
// first 0100 reply.
func (p *legacyParser) SetECUMap(m map[uint32]ECU) {
	p.ecuMap = m
}

func newLegacyParser(cfg *Config) *legacyParser {
	return &legacyParser{
		emulator: cfg.EmulatorMode,
		checksum: cfg.LegacyChecksum,
	}
}

func (p *legacyParser) minHex() int {
	if p.emulator {
		return legacyMinHexEmulator
	}
	return legacyMinHex
}

// Parse turns raw adapter lines into one Message per responding ECU.
func (p *legacyParser) Parse(lines []string) ([]*Message, error) {
	groups := make(map[byte][]*legacyFrame)
	var order []byte
	for _, line := range lines {
		hexLine, ok := cleanHexLine(line, p.minHex())
		if !ok {
			continue
		}
		f, err := p.parseFrame(hexLine)
		if err != nil {
			continue
		}
		if _, seen := groups[f.TxID]; !seen {
			order = append(order, f.TxID)
		}
		groups[f.TxID] = append(groups[f.TxID], f)
	}
	if len(groups) == 0 {
		return nil, ErrNoData
	}

	var messages []*Message
	for _, tx := range order {
		data, err := p.assemble(groups[tx])
		if err != nil {
			return nil, err
		}
		messages = append(messages, &Message{
			ECU:  p.ecuFor(tx),
			TxID: uint32(tx),
			Data: data,
		})
	}
	return messages, nil
}

func (p *legacyParser) parseFrame(hexLine string) (*legacyFrame, error) {
	b, err := hexToBytes(hexLine)
	if err != nil {
		return nil, err
	}
	if p.checksum && len(b) > legacyMinFrameBytes {
		b = b[:len(b)-1]
	}
	if len(b) < legacyMinFrameBytes || len(b) > legacyMaxFrameBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortFrame, len(b))
	}
	return &legacyFrame{
		Priority: b[0],
		RxID:     b[1],
		TxID:     b[2] & 0x07,
		Payload:  b[3:],
	}, nil
}

// assemble merges the frames of one ECU into the logical message,
// keeping the service response byte in front.
func (p *legacyParser) assemble(frames []*legacyFrame) ([]byte, error) {
	if len(frames) == 1 {
		payload := frames[0].Payload
		if payload[0] == 0x43 {
			// Mode 3 replies carry no count byte on legacy buses,
			// synthesize one so the DTC decoder sees CAN-shaped data.
			out := append([]byte{0x43, 0x00}, payload[1:]...)
			return out, nil
		}
		out := make([]byte, len(payload))
		copy(out, payload)
		return out, nil
	}

	if frames[0].Payload[0] == 0x43 {
		out := []byte{0x43, 0x00}
		for _, f := range frames {
			out = append(out, f.Payload[1:]...)
		}
		return out, nil
	}

	if p.emulator && p.sequenceless(frames) {
		var out []byte
		for _, f := range frames {
			out = append(out, f.Payload...)
		}
		return out, nil
	}

	// Generic multi-frame: byte 2 of each payload is the order byte,
	// frames must be contiguous starting at 1.
	for _, f := range frames {
		if len(f.Payload) < 3 {
			return nil, fmt.Errorf("%w: multi-frame payload %d bytes", ErrShortFrame, len(f.Payload))
		}
	}
	sorted := make([]*legacyFrame, len(frames))
	copy(sorted, frames)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Payload[2] < sorted[j].Payload[2]
	})
	for i, f := range sorted {
		if int(f.Payload[2]) != i+1 {
			return nil, fmt.Errorf("%w: got order byte %d, want %d", ErrBadSequence, f.Payload[2], i+1)
		}
	}
	out := make([]byte, 0, len(sorted)*4+2)
	out = append(out, sorted[0].Payload[0], sorted[0].Payload[1])
	for _, f := range sorted {
		out = append(out, f.Payload[3:]...)
	}
	return out, nil
}

// sequenceless reports the emulator quirk: every payload is exactly 4 or
// exactly 5 bytes and carries no order byte.
func (p *legacyParser) sequenceless(frames []*legacyFrame) bool {
	size := len(frames[0].Payload)
	if size != 4 && size != 5 {
		return false
	}
	for _, f := range frames[1:] {
		if len(f.Payload) != size {
			return false
		}
	}
	return true
}

func (p *legacyParser) ecuFor(tx byte) ECU {
	if p.ecuMap != nil {
		if ecu, ok := p.ecuMap[uint32(tx)]; ok {
			return ecu
		}
	}
	switch tx {
	case 0:
		return ECUEngine
	case 1:
		return ECUTransmission
	default:
		return ECUUnknown
	}
}
