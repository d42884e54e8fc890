package goobd

import (
	"fmt"
)

const canMinHex = 6

// PCI frame types of ISO 15765-2.
const (
	pciSingleFrame      = 0x0
	pciFirstFrame       = 0x1
	pciConsecutiveFrame = 0x2
	pciFlowControl      = 0x3
)

// canParser reassembles ISO 15765-4 responses. Lines are the
// arbitration id (3 hex digits for 11 bit, 8 or 6 for 29 bit) followed
// by the PCI byte and data.
type canParser struct {
	extended bool
	ecuMap   map[uint32]ECU
}

func newCANParser(protocol Protocol) *canParser {
	return &canParser{extended: protocol.Extended()}
}

// SetECUMap installs the arbitration id to ECU mapping learned from the
// first 0100 reply.
func (p *canParser) SetECUMap(m map[uint32]ECU) {
	p.ecuMap = m
}

// Parse turns raw adapter lines into one Message per responding ECU.
func (p *canParser) Parse(lines []string) ([]*Message, error) {
	groups := make(map[uint32][]*canFrame)
	var order []uint32
	for _, line := range lines {
		hexLine, ok := cleanHexLine(line, canMinHex)
		if !ok {
			// 11 bit headers make for an odd digit count, retry padded.
			hexLine, ok = cleanHexLine("0"+line, canMinHex)
			if !ok {
				continue
			}
		}
		f, err := p.parseFrame(hexLine)
		if err != nil {
			continue
		}
		if _, seen := groups[f.ArbID]; !seen {
			order = append(order, f.ArbID)
		}
		groups[f.ArbID] = append(groups[f.ArbID], f)
	}
	if len(groups) == 0 {
		return nil, ErrNoData
	}

	var messages []*Message
	for _, id := range order {
		data, err := p.assemble(groups[id])
		if err != nil {
			return nil, err
		}
		if data == nil {
			continue // flow control only
		}
		messages = append(messages, &Message{
			ECU:  p.ecuFor(id),
			TxID: id,
			Data: data,
		})
	}
	if len(messages) == 0 {
		return nil, ErrNoData
	}
	return messages, nil
}

func (p *canParser) ecuFor(id uint32) ECU {
	if p.ecuMap != nil {
		if ecu, ok := p.ecuMap[id]; ok {
			return ecu
		}
	}
	// Physical reply ids per ISO 15765-4: 7E8 is the engine controller,
	// 7E9 the transmission.
	switch id {
	case 0x7E8, 0x18DAF110:
		return ECUEngine
	case 0x7E9, 0x18DAF118:
		return ECUTransmission
	}
	if p.ecuMap == nil {
		return ECUEngine
	}
	return ECUUnknown
}

// parseFrame splits arbitration id from payload. 29 bit firmwares emit
// either 8 or 6 hex digit ids, accept both: the 8 digit split is taken
// when the byte after it carries a PCI type 0-3, otherwise the 6 digit
// split. A line is rejected only when neither split leaves whole payload
// bytes.
func (p *canParser) parseFrame(hexLine string) (*canFrame, error) {
	idLen := 4
	if p.extended {
		switch {
		case len(hexLine) > 8 && (len(hexLine)-8)%2 == 0 && hexLine[8] >= '0' && hexLine[8] <= '3':
			idLen = 8
		case len(hexLine) > 6 && (len(hexLine)-6)%2 == 0:
			idLen = 6
		default:
			return nil, fmt.Errorf("%w: %q", ErrShortFrame, hexLine)
		}
	}
	if len(hexLine) <= idLen || (len(hexLine)-idLen)%2 != 0 {
		return nil, fmt.Errorf("%w: %q", ErrShortFrame, hexLine)
	}
	var id uint32
	for i := 0; i < idLen; i++ {
		n, _ := hexNibble(hexLine[i])
		id = id<<4 | uint32(n)
	}
	payload, err := hexToBytes(hexLine[idLen:])
	if err != nil {
		return nil, err
	}
	return &canFrame{ArbID: id, Payload: payload}, nil
}

// assemble reassembles one ECU's frames. Returns nil data when the
// group held only flow control frames.
func (p *canParser) assemble(frames []*canFrame) ([]byte, error) {
	var first *canFrame
	var consecutive []*canFrame
	for _, f := range frames {
		if len(f.Payload) == 0 {
			return nil, ErrShortFrame
		}
		switch f.Payload[0] >> 4 {
		case pciSingleFrame:
			length := int(f.Payload[0] & 0x0F)
			if length == 0 || length > len(f.Payload)-1 {
				return nil, fmt.Errorf("%w: single frame length %d with %d data bytes", ErrShortFrame, length, len(f.Payload)-1)
			}
			// Compound mode 01 requests make the adapter emit answers
			// past the declared length, keep every byte on the line.
			out := make([]byte, len(f.Payload)-1)
			copy(out, f.Payload[1:])
			return out, nil
		case pciFirstFrame:
			first = f
		case pciConsecutiveFrame:
			consecutive = append(consecutive, f)
		case pciFlowControl:
			// The adapter handles flow control, nothing to do.
		default:
			return nil, fmt.Errorf("unknown PCI type %X", f.Payload[0]>>4)
		}
	}

	if first == nil {
		if len(consecutive) > 0 {
			return nil, fmt.Errorf("%w: consecutive frames without first frame", ErrBadSequence)
		}
		return nil, nil
	}
	if len(first.Payload) < 2 {
		return nil, ErrShortFrame
	}
	total := int(first.Payload[0]&0x0F)<<8 | int(first.Payload[1])
	out := make([]byte, 0, total)
	out = append(out, first.Payload[2:]...)

	// Sequence numbers start at 1 after the first frame and wrap F->0.
	want := byte(1)
	for _, f := range consecutive {
		seq := f.Payload[0] & 0x0F
		if seq != want {
			return nil, fmt.Errorf("%w: got sequence %X, want %X", ErrBadSequence, seq, want)
		}
		out = append(out, f.Payload[1:]...)
		want = (want + 1) & 0x0F
	}
	if len(out) < total {
		return nil, fmt.Errorf("%w: reassembled %d of %d bytes", ErrShortFrame, len(out), total)
	}
	return out[:total], nil
}
