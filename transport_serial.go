package goobd

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.bug.st/serial"
)

func init() {
	if err := RegisterTransport(&TransportInfo{
		Name:               "serial",
		Description:        "ELM327 on a serial port (USB or RFCOMM)",
		RequiresSerialPort: true,
		New:                NewSerialTransport,
	}); err != nil {
		panic(err)
	}
}

var _ Transport = (*SerialTransport)(nil)

type SerialTransport struct {
	BaseTransport
	port serial.Port
}

func NewSerialTransport(cfg *Config) (Transport, error) {
	return &SerialTransport{
		BaseTransport: NewBaseTransport("serial", cfg),
	}, nil
}

func (t *SerialTransport) Connect(ctx context.Context) error {
	t.setState(StateConnecting)
	mode := &serial.Mode{
		BaudRate: t.cfg.PortBaudrate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(t.cfg.Port, mode)
	if err != nil {
		t.setState(StateDisconnected)
		return fmt.Errorf("%w: com port %q: %v", ErrConnectFailed, t.cfg.Port, err)
	}
	if err := p.SetReadTimeout(10 * time.Millisecond); err != nil {
		p.Close()
		t.setState(StateDisconnected)
		return err
	}
	p.ResetOutputBuffer()
	p.ResetInputBuffer()
	t.port = p
	t.setState(StateConnectedToAdapter)
	return nil
}

func (t *SerialTransport) Write(ctx context.Context, p []byte) error {
	if t.port == nil {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.port.Write(p); err != nil {
		return fmt.Errorf("failed to write to com port: %w", err)
	}
	return nil
}

func (t *SerialTransport) ReadUntilPrompt(ctx context.Context) ([]byte, error) {
	if t.port == nil {
		return nil, ErrNotConnected
	}
	buff := bytes.NewBuffer(nil)
	readBuffer := make([]byte, 64)
	for {
		select {
		case <-ctx.Done():
			return buff.Bytes(), ctx.Err()
		case <-t.closeChan:
			return buff.Bytes(), ErrNotConnected
		default:
		}
		n, err := t.port.Read(readBuffer)
		if err != nil {
			return buff.Bytes(), fmt.Errorf("failed to read com port: %w", err)
		}
		if n == 0 {
			continue
		}
		for _, b := range readBuffer[:n] {
			buff.WriteByte(b)
			if b == prompt {
				return buff.Bytes(), nil
			}
		}
	}
}

func (t *SerialTransport) Close() error {
	t.close()
	if t.port != nil {
		t.port.ResetOutputBuffer()
		t.port.ResetInputBuffer()
		err := t.port.Close()
		t.port = nil
		return err
	}
	return nil
}
