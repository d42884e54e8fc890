package goobd

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"
)

func init() {
	if err := RegisterTransport(&TransportInfo{
		Name:               "tcp",
		Description:        "ELM327 WiFi adapter over TCP",
		RequiresSerialPort: false,
		New:                NewTCPTransport,
	}); err != nil {
		panic(err)
	}
}

var _ Transport = (*TCPTransport)(nil)

type TCPTransport struct {
	BaseTransport
	conn net.Conn
}

func NewTCPTransport(cfg *Config) (Transport, error) {
	return &TCPTransport{
		BaseTransport: NewBaseTransport("tcp", cfg),
	}, nil
}

func (t *TCPTransport) Connect(ctx context.Context) error {
	t.setState(StateConnecting)
	d := net.Dialer{Timeout: t.cfg.ConnectTimeout}
	conn, err := d.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", t.cfg.Host, t.cfg.TCPPort))
	if err != nil {
		t.setState(StateDisconnected)
		return fmt.Errorf("%w: %v", ErrConnectFailed, err)
	}
	t.conn = conn
	t.setState(StateConnectedToAdapter)
	return nil
}

func (t *TCPTransport) Write(ctx context.Context, p []byte) error {
	if t.conn == nil {
		return ErrNotConnected
	}
	if deadline, ok := ctx.Deadline(); ok {
		t.conn.SetWriteDeadline(deadline)
	} else {
		t.conn.SetWriteDeadline(time.Time{})
	}
	if _, err := t.conn.Write(p); err != nil {
		return fmt.Errorf("failed to write to adapter: %w", err)
	}
	return nil
}

func (t *TCPTransport) ReadUntilPrompt(ctx context.Context) ([]byte, error) {
	if t.conn == nil {
		return nil, ErrNotConnected
	}
	if deadline, ok := ctx.Deadline(); ok {
		t.conn.SetReadDeadline(deadline)
	} else {
		t.conn.SetReadDeadline(time.Time{})
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
		n, err := t.conn.Read(readBuffer)
		if err != nil {
			if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
				return buff.Bytes(), context.DeadlineExceeded
			}
			return buff.Bytes(), fmt.Errorf("failed to read from adapter: %w", err)
		}
		for _, b := range readBuffer[:n] {
			buff.WriteByte(b)
			if b == prompt {
				return buff.Bytes(), nil
			}
		}
	}
}

func (t *TCPTransport) Close() error {
	t.close()
	if t.conn != nil {
		err := t.conn.Close()
		t.conn = nil
		return err
	}
	return nil
}
