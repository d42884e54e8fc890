package goobd

import (
	"context"
	"fmt"
	"math/bits"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// OBDInfo is what connecting to a vehicle learned.
type OBDInfo struct {
	VIN           string
	Version       string
	Voltage       float64
	Protocol      Protocol
	SupportedPIDs map[Command]struct{}
	ECUMap        map[uint32]ECU
}

// frameParser is either the legacy or the CAN wire format parser.
type frameParser interface {
	Parse(lines []string) ([]*Message, error)
	SetECUMap(map[uint32]ECU)
}

// positive mode 01 PID 00 response, with or without spaces.
var probeOK = regexp.MustCompile(`41\s*00`)

// ELM327 drives the adapter itself: reset and setup, protocol
// negotiation, ECU mapping and vehicle identification.
type ELM327 struct {
	session   *Session
	transport Transport
	cfg       *Config

	parser    frameParser
	protocol  Protocol
	info      OBDInfo
	cached100 []string
}

func NewELM327(transport Transport, cfg *Config) *ELM327 {
	c := cfg.withDefaults()
	return &ELM327{
		session:   NewSession(transport, c),
		transport: transport,
		cfg:       c,
	}
}

// Initialize resets the adapter, negotiates the vehicle protocol and
// collects the vehicle identity. The transport must be connected.
func (e *ELM327) Initialize(ctx context.Context) error {
	// Reset first, the banner is discarded and failure tolerated: some
	// clones answer the reset with line noise.
	e.session.Command(ctx, "ATZ")
	if err := e.sleep(ctx, e.cfg.ResetDelay); err != nil {
		return err
	}

	for _, cmd := range []string{
		"ATE0", // echo off
		"ATL0", // linefeeds off
		"ATS0", // spaces off
		"ATH1", // headers on, required for ECU demultiplexing
	} {
		lines, err := e.session.Command(ctx, cmd)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrAdapterInit, cmd, err)
		}
		if len(lines) > 0 && !strings.Contains(strings.ToUpper(lines[0]), "OK") {
			return fmt.Errorf("%w: %s answered %q", ErrAdapterInit, cmd, lines[0])
		}
		if err := e.sleep(ctx, e.cfg.InitDelay); err != nil {
			return err
		}
	}

	if err := e.detectProtocol(ctx); err != nil {
		return err
	}

	if lines, err := e.session.Command(ctx, "ATI"); err == nil && len(lines) > 0 {
		e.info.Version = lines[0]
	}
	if lines, err := e.session.Command(ctx, "ATRV"); err == nil && len(lines) > 0 {
		if v, err := strconv.ParseFloat(strings.TrimSuffix(strings.ToUpper(lines[0]), "V"), 64); err == nil {
			e.info.Voltage = v
		}
	}

	e.buildECUMap()
	e.readVIN(ctx)
	e.discoverPIDs(ctx)

	e.transport.setState(StateConnectedToVehicle)
	return nil
}

func (e *ELM327) Info() OBDInfo {
	return e.info
}

func (e *ELM327) Protocol() Protocol {
	return e.protocol
}

func (e *ELM327) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// detectProtocol walks preferred -> auto -> manual probing until a 0100
// request gets a positive answer.
func (e *ELM327) detectProtocol(ctx context.Context) error {
	if p := e.cfg.Protocol; p != ProtocolAuto && p != ProtocolUnknown {
		if ok, err := e.probe(ctx, p); err == nil && ok {
			e.useProtocol(p)
			return nil
		}
	}

	if ok, err := e.probe(ctx, ProtocolAuto); err == nil && ok {
		// The adapter searched on its own, ask what it settled on.
		lines, err := e.session.Command(ctx, "ATDPN")
		if err != nil || len(lines) == 0 {
			return fmt.Errorf("%w: ATDPN after successful auto probe: %v", ErrNoProtocolFound, err)
		}
		p, err := ProtocolFromELM(strings.TrimSpace(lines[0]))
		if err != nil {
			return err
		}
		e.useProtocol(p)
		return nil
	}

	for _, p := range manualProbeOrder {
		if ok, err := e.probe(ctx, p); err == nil && ok {
			e.useProtocol(p)
			return nil
		}
	}
	return ErrNoProtocolFound
}

// probe selects a protocol and verifies the vehicle answers 0100.
func (e *ELM327) probe(ctx context.Context, p Protocol) (bool, error) {
	set, err := e.session.Command(ctx, p.SetCommand())
	if err != nil {
		return false, err
	}
	if len(set) > 0 && !strings.Contains(strings.ToUpper(set[0]), "OK") {
		return false, nil
	}
	if err := e.sleep(ctx, e.cfg.InitDelay); err != nil {
		return false, err
	}
	lines, err := e.session.Command(ctx, "0100")
	if err != nil {
		return false, nil
	}
	for _, line := range lines {
		if probeOK.MatchString(strings.ToUpper(line)) {
			e.cached100 = lines
			return true, nil
		}
	}
	return false, nil
}

func (e *ELM327) useProtocol(p Protocol) {
	e.protocol = p
	e.info.Protocol = p
	if p.IsCAN() {
		e.parser = newCANParser(p)
	} else {
		e.parser = newLegacyParser(e.cfg)
	}
	if e.cfg.Debug {
		e.cfg.OnMessage("protocol: " + p.String())
	}
}

// buildECUMap assigns ECU roles from the cached 0100 reply. A single
// responder is the engine. With several, transmitter 0/1 win, else the
// ECU with the most supported PIDs is taken for the engine.
func (e *ELM327) buildECUMap() {
	e.info.ECUMap = make(map[uint32]ECU)
	messages, err := e.parser.Parse(e.cached100)
	if err != nil || len(messages) == 0 {
		return
	}
	if len(messages) == 1 {
		e.info.ECUMap[messages[0].TxID] = ECUEngine
		e.parser.SetECUMap(e.info.ECUMap)
		return
	}

	var hasZero bool
	for _, m := range messages {
		if m.TxID == 0 {
			hasZero = true
		}
	}
	if hasZero {
		for _, m := range messages {
			switch m.TxID {
			case 0:
				e.info.ECUMap[m.TxID] = ECUEngine
			case 1:
				e.info.ECUMap[m.TxID] = ECUTransmission
			default:
				e.info.ECUMap[m.TxID] = ECUUnknown
			}
		}
		e.parser.SetECUMap(e.info.ECUMap)
		return
	}

	best, bestBits := messages[0], -1
	for _, m := range messages {
		n := 0
		if len(m.Data) >= 6 {
			n = bits.OnesCount32(be32(m.Data[2:6]))
		}
		if n > bestBits {
			best, bestBits = m, n
		}
	}
	for _, m := range messages {
		if m == best {
			e.info.ECUMap[m.TxID] = ECUEngine
		} else {
			e.info.ECUMap[m.TxID] = ECUTransmission
		}
	}
	e.parser.SetECUMap(e.info.ECUMap)
}

// readVIN asks mode 09 PID 02 and keeps the result only when it looks
// like a real VIN: exactly 17 characters of [0-9A-Z]. Anything else
// leaves the VIN unknown, which is not fatal.
func (e *ELM327) readVIN(ctx context.Context) {
	messages, err := e.request(ctx, "0902")
	if err != nil || len(messages) == 0 {
		return
	}
	data := messages[0].Data
	if len(data) < 2 || data[0] != 0x49 || data[1] != 0x02 {
		return
	}
	rest := data[2:]
	var vin strings.Builder
	for _, b := range rest {
		if b >= '0' && b <= '9' || b >= 'A' && b <= 'Z' {
			vin.WriteByte(b)
		}
	}
	if vin.Len() == 17 {
		e.info.VIN = vin.String()
	}
}

// discoverPIDs walks the chained supported-PID bitmaps. The union over
// every responding ECU is kept, the getters themselves are not.
func (e *ELM327) discoverPIDs(ctx context.Context) {
	e.info.SupportedPIDs = make(map[Command]struct{})
	getters := make(map[Command]struct{}, len(supportGetterOrder))
	for _, g := range supportGetterOrder {
		getters[g] = struct{}{}
	}

	chain := true
	lastService := byte(0)
	for _, getter := range supportGetterOrder {
		service := getter.Service()
		if service != lastService {
			chain = true
			lastService = service
		}
		if !chain {
			continue
		}
		chain = false

		messages, err := e.request(ctx, string(getter))
		if err != nil {
			continue
		}
		base := getter.PID()
		for _, m := range messages {
			if len(m.Data) < 6 {
				continue
			}
			bitmap := be32(m.Data[2:6])
			for k := 0; k < 32; k++ {
				if bitmap&(1<<uint(31-k)) == 0 {
					continue
				}
				pid := int(base) + k + 1
				if pid > 0xFF {
					continue
				}
				cmd := Command(fmt.Sprintf("%02X%02X", service, pid))
				if _, isGetter := getters[cmd]; isGetter {
					continue
				}
				e.info.SupportedPIDs[cmd] = struct{}{}
			}
			// A set last bit chains discovery into the next window.
			if bitmap&1 != 0 {
				chain = true
			}
		}
	}
}

// request sends an OBD command and parses the reply into messages.
func (e *ELM327) request(ctx context.Context, cmd string) ([]*Message, error) {
	lines, err := e.session.Command(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrNoData
	}
	return e.parser.Parse(lines)
}
