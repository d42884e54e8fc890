package goobd

import (
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		cmd     Command
		wantErr bool
	}{
		{name: "speed", cmd: "010D"},
		{name: "dtcs", cmd: "03"},
		{name: "vin", cmd: "0902"},
		{name: "voltage", cmd: "ATRV"},
		{name: "unknown", cmd: "01FF", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Lookup(tt.cmd)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && spec.Command != tt.cmd {
				t.Errorf("Lookup() = %v, want %v", spec.Command, tt.cmd)
			}
		})
	}
}

func TestCommandServiceAndPID(t *testing.T) {
	tests := []struct {
		cmd     Command
		service byte
		pid     byte
	}{
		{cmd: "010D", service: 0x01, pid: 0x0D},
		{cmd: "0902", service: 0x09, pid: 0x02},
		{cmd: "03", service: 0x03, pid: 0x00},
		{cmd: "ATRV", service: 0x00, pid: 0x00},
	}
	for _, tt := range tests {
		t.Run(string(tt.cmd), func(t *testing.T) {
			if got := tt.cmd.Service(); got != tt.service {
				t.Errorf("Service() = %02X, want %02X", got, tt.service)
			}
			if got := tt.cmd.PID(); got != tt.pid {
				t.Errorf("PID() = %02X, want %02X", got, tt.pid)
			}
		})
	}
}

// Catalogue hygiene: wire strings parse back, widths and ranges are
// sane, every decoder is registered.
func TestCatalogueConsistency(t *testing.T) {
	for _, spec := range Commands() {
		cmd := string(spec.Command)
		if cmd != strings.ToUpper(cmd) {
			t.Errorf("%s: wire string must be upper case", cmd)
		}
		if !strings.HasPrefix(cmd, "AT") {
			if len(cmd)%2 != 0 {
				t.Errorf("%s: odd wire string length", cmd)
			}
			if _, err := hexToBytes(cmd); err != nil {
				t.Errorf("%s: wire string is not hex: %v", cmd, err)
			}
		}
		if spec.Min > spec.Max {
			t.Errorf("%s: min %v above max %v", cmd, spec.Min, spec.Max)
		}
		if spec.Bytes < 0 || spec.Bytes > 8 {
			t.Errorf("%s: impossible byte width %d", cmd, spec.Bytes)
		}
		if _, ok := decoders[spec.Decoder]; !ok {
			t.Errorf("%s: decoder %d not registered", cmd, spec.Decoder)
		}
		if spec.Desc == "" {
			t.Errorf("%s: missing description", cmd)
		}
		if spec.Live && spec.Bytes == 0 {
			t.Errorf("%s: live command without fixed width", cmd)
		}
	}
}

func TestSupportGetters(t *testing.T) {
	for _, spec := range SupportGetters() {
		if spec.Decoder != DecoderPIDSupport {
			t.Errorf("%s: getter with decoder %d", spec.Command, spec.Decoder)
		}
		if spec.Command.PID()%0x20 != 0 {
			t.Errorf("%s: getter PID not a window base", spec.Command)
		}
	}
}

// A supported PID's position round trips through its ancestor getter's
// bitmap.
func TestPIDSupportRoundTrip(t *testing.T) {
	for _, cmd := range []Command{"0104", "010C", "0120", "013F"} {
		pid := cmd.PID()
		base := byte(pid-1) / 0x20 * 0x20
		k := int(pid) - int(base) - 1
		bitmap := uint32(1) << uint(31-k)
		if bitmap&(1<<uint(31-k)) == 0 {
			t.Fatalf("%s: bit %d not set after encode", cmd, k)
		}
		decoded := int(base) + k + 1
		if byte(decoded) != pid {
			t.Errorf("%s: round trip gave %02X, want %02X", cmd, decoded, pid)
		}
	}
}

func TestMonitorCommand(t *testing.T) {
	spec := MonitorCommand(0xA1)
	if spec.Command != "06A1" {
		t.Errorf("MonitorCommand() = %v, want 06A1", spec.Command)
	}
	if spec.Decoder != DecoderMonitorTest {
		t.Errorf("MonitorCommand() decoder = %v", spec.Decoder)
	}
}
