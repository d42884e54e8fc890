package goobd

import (
	"context"
	"testing"
)

func newTestClient(t *testing.T, mock *MockTransport, cfg *Config) *Client {
	t.Helper()
	client, err := Connect(context.Background(), mock, cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { client.Disconnect() })
	return client
}

func TestClientSendCommandSpeed(t *testing.T) {
	cfg := testConfig()
	mock := newVehicleMock(cfg)
	mock.Reply("010D", "7E8 03 41 0D 32")
	client := newTestClient(t, mock, cfg)

	value, err := client.SendCommand(context.Background(), CmdSpeed)
	if err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}
	if value.Kind != KindMeasurement {
		t.Fatalf("SendCommand() kind = %v", value.Kind)
	}
	if value.Measurement.Value != 50 || value.Measurement.Unit != UnitKmh {
		t.Errorf("SendCommand() = %v %v, want 50 km/h", value.Measurement.Value, value.Measurement.Unit)
	}
}

func TestClientRequestPIDsBatch(t *testing.T) {
	cfg := testConfig()
	mock := newVehicleMock(cfg)
	mock.Reply("010C0D", "7E8 04 41 0C 0F A0 0D 32")
	client := newTestClient(t, mock, cfg)

	values, err := client.RequestPIDs(context.Background(), CmdRPM, CmdSpeed)
	if err != nil {
		t.Fatalf("RequestPIDs() error = %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("RequestPIDs() = %v, want 2 values", values)
	}
	if rpm := values[CmdRPM]; rpm.Value != 1000 || rpm.Unit != UnitRPM {
		t.Errorf("rpm = %+v, want 1000 rpm", rpm)
	}
	if speed := values[CmdSpeed]; speed.Value != 50 || speed.Unit != UnitKmh {
		t.Errorf("speed = %+v, want 50 km/h", speed)
	}
}

// A batch answer cut short after the first PID echo decodes nothing and
// is not an error, and decoded keys never leave the requested set.
func TestClientRequestPIDsPartial(t *testing.T) {
	cfg := testConfig()
	mock := newVehicleMock(cfg)
	mock.Reply("010C0D", "7E8 02 41 0C")
	client := newTestClient(t, mock, cfg)

	values, err := client.RequestPIDs(context.Background(), CmdRPM, CmdSpeed)
	if err != nil {
		t.Fatalf("RequestPIDs() error = %v", err)
	}
	if len(values) != 0 {
		t.Errorf("RequestPIDs() = %v, want nothing decodable", values)
	}
}

func TestClientScanTroubleCodes(t *testing.T) {
	cfg := testConfig()
	mock := newVehicleMock(cfg)
	mock.Reply("03", "7E8 04 43 01 01 33")
	client := newTestClient(t, mock, cfg)

	codes, err := client.ScanTroubleCodes(context.Background())
	if err != nil {
		t.Fatalf("ScanTroubleCodes() error = %v", err)
	}
	engine := codes[ECUEngine]
	if len(engine) != 1 || engine[0].Code != "P0133" {
		t.Fatalf("ScanTroubleCodes() = %v, want [P0133]", codes)
	}
}

func TestClientScanTroubleCodesEmpty(t *testing.T) {
	cfg := testConfig()
	mock := newVehicleMock(cfg)
	mock.Reply("03", "NO DATA")
	client := newTestClient(t, mock, cfg)

	codes, err := client.ScanTroubleCodes(context.Background())
	if err != nil {
		t.Fatalf("ScanTroubleCodes() error = %v", err)
	}
	if len(codes) != 0 {
		t.Errorf("ScanTroubleCodes() = %v, want empty", codes)
	}
}

func TestClientClearTroubleCodes(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		wantErr bool
	}{
		{name: "positive response", reply: "7E8 01 44"},
		{name: "ok", reply: "OK"},
		{name: "no data tolerated", reply: "NO DATA"},
		{name: "garbage", reply: "7F 04 11", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			mock := newVehicleMock(cfg)
			mock.Reply("04", tt.reply)
			client := newTestClient(t, mock, cfg)

			err := client.ClearTroubleCodes(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("ClearTroubleCodes() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClientStatus(t *testing.T) {
	cfg := testConfig()
	mock := newVehicleMock(cfg)
	mock.Reply("0101", "7E8 06 41 01 82 07 E5 00")
	client := newTestClient(t, mock, cfg)

	status, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !status.MIL || status.DTCCount != 2 {
		t.Errorf("Status() = %+v, want MIL on with 2 codes", status)
	}
}

func TestClientBatteryVoltage(t *testing.T) {
	cfg := testConfig()
	mock := newVehicleMock(cfg)
	client := newTestClient(t, mock, cfg)

	v, err := client.BatteryVoltage(context.Background())
	if err != nil {
		t.Fatalf("BatteryVoltage() error = %v", err)
	}
	if v != 12.3 {
		t.Errorf("BatteryVoltage() = %v, want 12.3", v)
	}
}

func TestClientStateStream(t *testing.T) {
	cfg := testConfig()
	mock := newVehicleMock(cfg)
	client := newTestClient(t, mock, cfg)

	want := []ConnectionState{
		StateDisconnected,
		StateConnecting,
		StateConnectedToAdapter,
		StateConnectedToVehicle,
	}
	for _, state := range want {
		got := <-client.States()
		if got != state {
			t.Fatalf("state = %v, want %v", got, state)
		}
	}
}

func TestClientVIN(t *testing.T) {
	cfg := testConfig()
	mock := newVehicleMock(cfg)
	client := newTestClient(t, mock, cfg)

	if vin := client.VIN(); vin != "1G1JC5444R7252367" {
		t.Errorf("VIN() = %q", vin)
	}
}
