package goobd

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Client is the public face of the library: one connected adapter, one
// vehicle.
type Client struct {
	transport Transport
	cfg       *Config
	elm       *ELM327
}

// Connect opens the transport, initializes the adapter and negotiates
// the vehicle protocol. The configuration is captured for the lifetime
// of the client, it is never read from global state.
func Connect(ctx context.Context, transport Transport, cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := &Client{
		transport: transport,
		cfg:       cfg.withDefaults(),
	}

	connectCtx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	defer cancel()
	if err := transport.Connect(connectCtx); err != nil {
		transport.setState(StateDisconnected)
		return nil, err
	}

	c.elm = NewELM327(transport, c.cfg)
	if err := c.elm.Initialize(ctx); err != nil {
		transport.Close()
		return nil, err
	}
	return c, nil
}

// Disconnect closes the transport. The client is unusable afterwards.
func (c *Client) Disconnect() error {
	return c.transport.Close()
}

// Info returns what connecting learned about adapter and vehicle.
func (c *Client) Info() OBDInfo {
	return c.elm.Info()
}

// States delivers every connection state transition.
func (c *Client) States() <-chan ConnectionState {
	return c.transport.States()
}

// Events delivers transport diagnostics.
func (c *Client) Events() <-chan Event {
	return c.transport.Events()
}

// SupportedPIDs returns the commands the vehicle announced support for.
func (c *Client) SupportedPIDs() map[Command]struct{} {
	out := make(map[Command]struct{}, len(c.elm.info.SupportedPIDs))
	for cmd := range c.elm.info.SupportedPIDs {
		out[cmd] = struct{}{}
	}
	return out
}

// SendCommand runs one catalogue command and decodes the reply.
func (c *Client) SendCommand(ctx context.Context, cmd Command) (*Value, error) {
	spec, err := Lookup(cmd)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(string(cmd), "AT") {
		lines, err := c.elm.session.Command(ctx, string(cmd))
		if err != nil {
			return nil, &CommandError{Command: string(cmd), Err: err}
		}
		return &Value{Kind: KindString, Text: strings.Join(lines, " ")}, nil
	}

	messages, err := c.elm.request(ctx, string(cmd))
	if err != nil {
		return nil, &CommandError{Command: string(cmd), Err: err}
	}
	if len(messages) == 0 {
		return nil, ErrNoData
	}
	payload, err := servicePayload(spec, messages[0].Data)
	if err != nil {
		return nil, &CommandError{Command: string(cmd), Err: err}
	}
	value, err := Decode(spec, payload, c.cfg.Units)
	if err != nil {
		return nil, &CommandError{Command: string(cmd), Err: err}
	}
	return value, nil
}

// servicePayload strips the service response byte, PID echo and count
// prefixes so the decoder sees value bytes only.
func servicePayload(spec Spec, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrNoData
	}
	service := spec.Command.Service()
	if data[0] != service+0x40 {
		return nil, fmt.Errorf("%w: service %02X answered %02X", ErrNoData, service, data[0])
	}
	switch service {
	case 0x03, 0x07:
		// Service byte then DTC count, pairs follow.
		if len(data) < 2 {
			return nil, ErrShortFrame
		}
		return data[2:], nil
	case 0x04:
		return nil, nil
	case 0x06:
		return data[1:], nil
	default:
		if len(data) < 2 || data[1] != spec.Command.PID() {
			return nil, fmt.Errorf("%w: wrong PID echo", ErrNoData)
		}
		// Identification strings may lead with a record count byte, the
		// ASCII decoder drops it with the rest of the non-printables.
		return data[2:], nil
	}
}

// RequestPIDs asks for a list of mode 01 PIDs in batched requests and
// returns whatever decoded.
func (c *Client) RequestPIDs(ctx context.Context, commands ...Command) (map[Command]Measurement, error) {
	var specs []Spec
	for _, cmd := range commands {
		spec, err := Lookup(cmd)
		if err != nil {
			return nil, err
		}
		if spec.Command.Service() != 0x01 || spec.Bytes == 0 {
			return nil, fmt.Errorf("command %q cannot be batched", cmd)
		}
		specs = append(specs, spec)
	}
	result := make(map[Command]Measurement, len(specs))
	for start := 0; start < len(specs); start += maxBatchPIDs {
		end := start + maxBatchPIDs
		if end > len(specs) {
			end = len(specs)
		}
		batch := specs[start:end]
		messages, err := c.elm.request(ctx, batchCommand(batch))
		if err != nil {
			return nil, &CommandError{Command: batchCommand(batch), Err: err}
		}
		extractBatch(messages, batch, c.cfg, result)
	}
	return result, nil
}

// ContinuousUpdates polls the given PIDs and streams snapshots until
// the poller is stopped or the context ends.
func (c *Client) ContinuousUpdates(ctx context.Context, commands []Command, strategy PollStrategy) (*Poller, error) {
	poller, err := newPoller(c.elm, c.cfg, commands, strategy)
	if err != nil {
		return nil, err
	}
	poller.start(ctx)
	return poller, nil
}

// ScanTroubleCodes reads stored codes from every responding ECU.
func (c *Client) ScanTroubleCodes(ctx context.Context) (map[ECU][]TroubleCode, error) {
	return c.scanCodes(ctx, "03", 0x43)
}

// ScanPendingTroubleCodes reads codes from the current or last
// completed drive cycle.
func (c *Client) ScanPendingTroubleCodes(ctx context.Context) (map[ECU][]TroubleCode, error) {
	return c.scanCodes(ctx, "07", 0x47)
}

func (c *Client) scanCodes(ctx context.Context, cmd string, response byte) (map[ECU][]TroubleCode, error) {
	messages, err := c.elm.request(ctx, cmd)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			return map[ECU][]TroubleCode{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrScanFailed, err)
	}
	out := make(map[ECU][]TroubleCode)
	for _, m := range messages {
		if len(m.Data) < 2 || m.Data[0] != response {
			continue
		}
		codes := DecodeDTCList(m.Data[2:])
		if len(codes) > 0 {
			out[m.ECU] = append(out[m.ECU], codes...)
		}
	}
	return out, nil
}

// ClearTroubleCodes erases stored codes and turns the MIL off.
func (c *Client) ClearTroubleCodes(ctx context.Context) error {
	lines, err := c.elm.session.Command(ctx, "04")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrClearFailed, err)
	}
	for _, line := range lines {
		upper := strings.ToUpper(line)
		if strings.Contains(upper, "44") || strings.Contains(upper, "OK") {
			return nil
		}
	}
	if len(lines) == 0 {
		// NO DATA still means the ECU took the clear on some vehicles.
		return nil
	}
	return ErrClearFailed
}

// Status reads the mode 01 PID 01 readiness frame.
func (c *Client) Status(ctx context.Context) (*StatusResult, error) {
	value, err := c.SendCommand(ctx, CmdStatus)
	if err != nil {
		return nil, err
	}
	if value.Kind != KindStatus {
		return nil, ErrNoData
	}
	return value.Status, nil
}

// VIN returns the vehicle identification number learned at connect,
// empty when the vehicle did not provide a valid one.
func (c *Client) VIN() string {
	return c.elm.info.VIN
}

// BatteryVoltage reads the adapter's supply voltage measurement.
func (c *Client) BatteryVoltage(ctx context.Context) (float64, error) {
	lines, err := c.elm.session.Command(ctx, "ATRV")
	if err != nil || len(lines) == 0 {
		return 0, ErrNoData
	}
	var v float64
	if _, err := fmt.Sscanf(strings.ToUpper(lines[0]), "%fV", &v); err != nil {
		return 0, ErrNoData
	}
	return v, nil
}
