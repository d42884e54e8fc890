package goobd

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// prompt is the byte the adapter emits when it is ready for the next
// command. Every response ends with it.
const prompt = 0x3E

const cr = 0x0D

// Transport is a byte oriented bidirectional channel to the adapter.
// Implementations only move bytes, the Session above them owns framing,
// serialization and retries.
type Transport interface {
	Name() string
	Connect(ctx context.Context) error
	// Write sends raw bytes to the adapter.
	Write(ctx context.Context, p []byte) error
	// ReadUntilPrompt consumes and returns bytes up to and including
	// exactly one prompt byte.
	ReadUntilPrompt(ctx context.Context) ([]byte, error)
	Close() error
	// States delivers every connection state transition. The initial
	// value is StateDisconnected.
	States() <-chan ConnectionState
	Events() <-chan Event
	// setState lets the session drive the adapter/vehicle readiness
	// transitions the transport cannot observe itself.
	setState(ConnectionState)
}

type TransportInfo struct {
	Name               string
	Description        string
	RequiresSerialPort bool
	New                func(*Config) (Transport, error)
}

func (t *TransportInfo) String() string {
	return fmt.Sprintf("%s | %s, requires serial port: %v", t.Name, t.Description, t.RequiresSerialPort)
}

var transportMap = make(map[string]*TransportInfo)

func RegisterTransport(info *TransportInfo) error {
	if _, found := transportMap[info.Name]; found {
		return fmt.Errorf("transport %s already registered", info.Name)
	}
	transportMap[info.Name] = info
	return nil
}

// NewTransport looks a transport up by name, case insensitive.
func NewTransport(name string, cfg *Config) (Transport, error) {
	for k, info := range transportMap {
		if strings.EqualFold(k, name) {
			return info.New(cfg)
		}
	}
	return nil, fmt.Errorf("unknown transport %q", name)
}

func ListTransportNames() []string {
	var out []string
	for name := range transportMap {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i]) < strings.ToLower(out[j]) })
	return out
}

func ListTransports() []TransportInfo {
	var out []TransportInfo
	for _, info := range transportMap {
		out = append(out, *info)
	}
	return out
}
