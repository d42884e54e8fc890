package goobd

import (
	"math"
	"testing"
)

func TestDecodeMeasurements(t *testing.T) {
	tests := []struct {
		name     string
		cmd      Command
		payload  []byte
		want     float64
		wantUnit Unit
	}{
		{name: "speed", cmd: "010D", payload: []byte{0x32}, want: 50, wantUnit: UnitKmh},
		{name: "rpm", cmd: "010C", payload: []byte{0x0F, 0xA0}, want: 1000, wantUnit: UnitRPM},
		{name: "coolant", cmd: "0105", payload: []byte{0x7B}, want: 83, wantUnit: UnitCelsius},
		{name: "load", cmd: "0104", payload: []byte{0xFF}, want: 100, wantUnit: UnitPercent},
		{name: "trim centered zero", cmd: "0106", payload: []byte{0x80}, want: 0, wantUnit: UnitPercent},
		{name: "trim centered min", cmd: "0106", payload: []byte{0x00}, want: -100, wantUnit: UnitPercent},
		{name: "fuel pressure", cmd: "010A", payload: []byte{0x64}, want: 300, wantUnit: UnitKpa},
		{name: "map", cmd: "010B", payload: []byte{0x64}, want: 100, wantUnit: UnitKpa},
		{name: "timing advance", cmd: "010E", payload: []byte{0x80}, want: 0, wantUnit: UnitDegree},
		{name: "maf", cmd: "0110", payload: []byte{0x01, 0xF4}, want: 5, wantUnit: UnitGramsPerSec},
		{name: "o2 voltage", cmd: "0114", payload: []byte{0x64, 0x80}, want: 0.5, wantUnit: UnitVolt},
		{name: "run time", cmd: "011F", payload: []byte{0x00, 0x3C}, want: 60, wantUnit: UnitSecond},
		{name: "evap pressure signed", cmd: "0132", payload: []byte{0xFF, 0xFC}, want: -1, wantUnit: UnitPa},
		{name: "module voltage", cmd: "0142", payload: []byte{0x30, 0x39}, want: 12.345, wantUnit: UnitVolt},
		{name: "cat temp", cmd: "013C", payload: []byte{0x0D, 0xAC}, want: 310, wantUnit: UnitCelsius},
		{name: "equiv ratio max", cmd: "0144", payload: []byte{0xFF, 0xFF}, want: 2, wantUnit: UnitRatio},
		{name: "fuel rate", cmd: "015E", payload: []byte{0x00, 0x64}, want: 5, wantUnit: UnitLiterPerHour},
		{name: "injection timing", cmd: "015D", payload: []byte{0x69, 0x00}, want: 0, wantUnit: UnitDegree},
		{name: "max maf", cmd: "0150", payload: []byte{0x19, 0x00, 0x00, 0x00}, want: 250, wantUnit: UnitGramsPerSec},
		{name: "evap wide zero", cmd: "0154", payload: []byte{0x7F, 0xFF}, want: 0, wantUnit: UnitPa},
		{name: "secondary o2 trim", cmd: "0155", payload: []byte{0x80, 0x80}, want: 0, wantUnit: UnitPercent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Lookup(tt.cmd)
			if err != nil {
				t.Fatalf("Lookup(%s) error = %v", tt.cmd, err)
			}
			got, err := Decode(spec, tt.payload, UnitMetric)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got.Kind != KindMeasurement {
				t.Fatalf("Decode() kind = %v, want measurement", got.Kind)
			}
			if math.Abs(got.Measurement.Value-tt.want) > 1e-9 {
				t.Errorf("Decode() value = %v, want %v", got.Measurement.Value, tt.want)
			}
			if got.Measurement.Unit != tt.wantUnit {
				t.Errorf("Decode() unit = %v, want %v", got.Measurement.Unit, tt.wantUnit)
			}
		})
	}
}

func TestDecodeImperialConversion(t *testing.T) {
	spec, _ := Lookup(CmdSpeed)
	got, err := Decode(spec, []byte{0x64}, UnitImperial)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Measurement.Unit != UnitMph {
		t.Errorf("Decode() unit = %v, want mph", got.Measurement.Unit)
	}
	if math.Abs(got.Measurement.Value-62.1371) > 0.001 {
		t.Errorf("Decode() value = %v, want 62.1371", got.Measurement.Value)
	}
}

func TestDecodeInsufficientBytes(t *testing.T) {
	spec, _ := Lookup(CmdRPM)
	if _, err := Decode(spec, []byte{0x0F}, UnitMetric); err == nil {
		t.Fatal("Decode() expected error for short payload")
	}
}

func TestDecodeUnsupportedDecoder(t *testing.T) {
	spec := Spec{Command: "0105", Bytes: 1, Decoder: Decoder(9999)}
	if _, err := Decode(spec, []byte{0x00}, UnitMetric); err == nil {
		t.Fatal("Decode() expected error for unknown decoder")
	}
}

// Any payload of the declared width either decodes inside [min, max] or
// errors. Never a panic, never NaN or infinity.
func TestDecodeTotality(t *testing.T) {
	patterns := [][]byte{
		{0x00, 0x00, 0x00, 0x00},
		{0xFF, 0xFF, 0xFF, 0xFF},
		{0x80, 0x80, 0x80, 0x80},
		{0x01, 0xFE, 0x7F, 0xAA},
	}
	for _, spec := range Commands() {
		if spec.Bytes == 0 {
			continue
		}
		for _, pattern := range patterns {
			payload := pattern[:spec.Bytes]
			got, err := Decode(spec, payload, UnitMetric)
			if err != nil {
				continue
			}
			if got.Kind != KindMeasurement {
				continue
			}
			v := got.Measurement.Value
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("%s: decoded % X to %v", spec.Command, payload, v)
			}
		}
	}
}

func TestDecodeEncodedString(t *testing.T) {
	spec, _ := Lookup(CmdCalibrationID)
	got, err := Decode(spec, []byte{0x01, 'J', 'M', 'B', '*', '3', '6', '7', '6', '1', '5', '0', '0', 0x00, 0x00}, UnitMetric)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Text != "JMB*36761500" {
		t.Errorf("Decode() text = %q, want %q", got.Text, "JMB*36761500")
	}
}

func TestDecodeCVN(t *testing.T) {
	spec, _ := Lookup(CmdCVN)
	got, err := Decode(spec, []byte{0x01, 0x17, 0x91, 0xBC, 0x82}, UnitMetric)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Text != "1791BC82" {
		t.Errorf("Decode() text = %q, want %q", got.Text, "1791BC82")
	}
}

func TestDecodeMonitorTests(t *testing.T) {
	// MID 01, TID 01, UAS 0A, value 0x0220, min 0x0000, max 0x0384.
	payload := []byte{0x01, 0x01, 0x0A, 0x02, 0x20, 0x00, 0x00, 0x03, 0x84}
	got, err := Decode(MonitorCommand(0x01), payload, UnitMetric)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got.Tests) != 1 {
		t.Fatalf("Decode() returned %d tests, want 1", len(got.Tests))
	}
	test := got.Tests[0]
	if test.MID != 0x01 || test.TID != 0x01 {
		t.Errorf("Decode() mid/tid = %02X/%02X", test.MID, test.TID)
	}
	if !test.Passed {
		t.Error("Decode() test should pass, value inside limits")
	}
}

func TestPIDSupportBitmap(t *testing.T) {
	spec, _ := Lookup(CmdPIDSupport1)
	got, err := Decode(spec, []byte{0xBE, 0x3E, 0xB8, 0x11}, UnitMetric)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Kind != KindBitmap {
		t.Fatalf("Decode() kind = %v, want bitmap", got.Kind)
	}
	if got.Bitmap != 0xBE3EB811 {
		t.Errorf("Decode() bitmap = %08X, want BE3EB811", got.Bitmap)
	}
}
