//go:build ble
// +build ble

package goobd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"tinygo.org/x/bluetooth"
)

var btAdapter = bluetooth.DefaultAdapter

func init() {
	if err := RegisterTransport(&TransportInfo{
		Name:               "ble",
		Description:        "ELM327 Bluetooth Low Energy adapter",
		RequiresSerialPort: false,
		New:                NewBLETransport,
	}); err != nil {
		panic(err)
	}
}

// Known adapter GATT layouts. Veepeak exposes a single characteristic
// for both directions, OBDLink CX and VGate use separate read/write
// characteristics.
var bleProfiles = []struct {
	service     bluetooth.UUID
	read, write bluetooth.UUID
}{
	{bluetooth.New16BitUUID(0xFFE0), bluetooth.New16BitUUID(0xFFE1), bluetooth.New16BitUUID(0xFFE1)},
	{bluetooth.New16BitUUID(0xFFF0), bluetooth.New16BitUUID(0xFFF1), bluetooth.New16BitUUID(0xFFF2)},
	{bluetooth.New16BitUUID(0x18F0), bluetooth.New16BitUUID(0x2AF0), bluetooth.New16BitUUID(0x2AF1)},
}

var _ Transport = (*BLETransport)(nil)

type BLETransport struct {
	BaseTransport
	device   bluetooth.Device
	tx, rx   bluetooth.DeviceCharacteristic
	incoming chan byte
}

func NewBLETransport(cfg *Config) (Transport, error) {
	if err := btAdapter.Enable(); err != nil {
		return nil, fmt.Errorf("failed to enable bluetooth adapter: %w", err)
	}
	return &BLETransport{
		BaseTransport: NewBaseTransport("ble", cfg),
		incoming:      make(chan byte, 4096),
	}, nil
}

func (t *BLETransport) Connect(ctx context.Context) error {
	t.setState(StateConnecting)
	dev, err := t.connectDevice(ctx)
	if err != nil {
		t.setState(StateDisconnected)
		return err
	}
	t.device = dev

	if err := t.resolveCharacteristics(); err != nil {
		t.device.Disconnect()
		t.setState(StateDisconnected)
		return err
	}

	if err := t.rx.EnableNotifications(func(buf []byte) {
		for _, b := range buf {
			select {
			case t.incoming <- b:
			default:
				t.Error(ErrDroppedLine)
			}
		}
	}); err != nil {
		t.device.Disconnect()
		t.setState(StateDisconnected)
		return fmt.Errorf("failed to enable notifications: %w", err)
	}

	t.setState(StateConnectedToAdapter)
	return nil
}

func (t *BLETransport) connectDevice(ctx context.Context) (bluetooth.Device, error) {
	t.cfg.OnMessage("scanning for adapter")
	ch := make(chan bluetooth.ScanResult, 1)
	start := time.Now()
	if err := btAdapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
		if time.Since(start) > t.cfg.ConnectTimeout {
			adapter.StopScan()
			return
		}
		// Non-negative RSSI is bogus advertisement data.
		if result.RSSI >= 0 {
			return
		}
		for _, p := range bleProfiles {
			if result.HasServiceUUID(p.service) {
				t.cfg.OnMessage(fmt.Sprintf("found device: %s 📶 %d", result.LocalName(), result.RSSI))
				adapter.StopScan()
				ch <- result
				return
			}
		}
	}); err != nil {
		return bluetooth.Device{}, fmt.Errorf("%w: %v", ErrConnectFailed, err)
	}

	select {
	case d := <-ch:
		device, err := btAdapter.Connect(d.Address, bluetooth.ConnectionParams{})
		if err != nil {
			return bluetooth.Device{}, fmt.Errorf("failed to connect to %s: %w", d.LocalName(), err)
		}
		return device, nil
	case <-ctx.Done():
		return bluetooth.Device{}, ctx.Err()
	default:
		return bluetooth.Device{}, errors.New("did not find any suitable device")
	}
}

// resolveCharacteristics walks the known profiles first. Failing those,
// it takes the first discovered service that has characteristics: a lone
// characteristic serves both directions, otherwise the first one reads
// and the second one writes. Characteristic properties are not checked.
func (t *BLETransport) resolveCharacteristics() error {
	for _, p := range bleProfiles {
		svcs, err := t.device.DiscoverServices([]bluetooth.UUID{p.service})
		if err != nil || len(svcs) == 0 {
			continue
		}
		chars, err := svcs[0].DiscoverCharacteristics(nil)
		if err != nil {
			continue
		}
		var haveRead, haveWrite bool
		for _, char := range chars {
			if char.UUID() == p.read {
				t.rx = char
				haveRead = true
			}
			if char.UUID() == p.write {
				t.tx = char
				haveWrite = true
			}
		}
		if haveRead && haveWrite {
			return nil
		}
	}
	return t.resolveFallback()
}

func (t *BLETransport) resolveFallback() error {
	svcs, err := t.device.DiscoverServices(nil)
	if err != nil {
		return fmt.Errorf("failed to discover services: %w", err)
	}
	for _, svc := range svcs {
		chars, err := svc.DiscoverCharacteristics(nil)
		if err != nil {
			continue
		}
		switch len(chars) {
		case 0:
			continue
		case 1:
			// Veepeak style: a lone characteristic serves both
			// directions.
			t.rx = chars[0]
			t.tx = chars[0]
			return nil
		default:
			t.rx = chars[0]
			t.tx = chars[1]
			return nil
		}
	}
	return errors.New("failed to find rx/tx characteristics")
}

func (t *BLETransport) Write(ctx context.Context, p []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.tx.Write(p); err != nil {
		return fmt.Errorf("failed to write characteristic: %w", err)
	}
	return nil
}

func (t *BLETransport) ReadUntilPrompt(ctx context.Context) ([]byte, error) {
	buff := bytes.NewBuffer(nil)
	for {
		select {
		case <-ctx.Done():
			return buff.Bytes(), ctx.Err()
		case <-t.closeChan:
			return buff.Bytes(), ErrNotConnected
		case b := <-t.incoming:
			buff.WriteByte(b)
			if b == prompt {
				return buff.Bytes(), nil
			}
		}
	}
}

func (t *BLETransport) Close() error {
	t.close()
	return t.device.Disconnect()
}
