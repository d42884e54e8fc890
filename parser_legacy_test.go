package goobd

import (
	"bytes"
	"errors"
	"testing"
)

func TestLegacyParserSingleFrame(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		want    []byte
		wantECU ECU
		wantErr bool
	}{
		{
			name:    "speed",
			lines:   []string{"48 6B 10 41 0D 32"},
			want:    []byte{0x41, 0x0D, 0x32},
			wantECU: ECUEngine,
		},
		{
			name:    "mode 03 gets synthetic count byte",
			lines:   []string{"48 6B 10 43 01 33 00 00"},
			want:    []byte{0x43, 0x00, 0x01, 0x33, 0x00, 0x00},
			wantECU: ECUEngine,
		},
		{
			name:    "short line dropped",
			lines:   []string{"48 6B"},
			wantErr: true,
		},
		{
			name:    "noise only",
			lines:   []string{"BUS INIT: ERROR"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newLegacyParser(DefaultConfig())
			got, err := p.Parse(tt.lines)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != 1 {
				t.Fatalf("Parse() returned %d messages, want 1", len(got))
			}
			if !bytes.Equal(got[0].Data, tt.want) {
				t.Errorf("Parse() data = % X, want % X", got[0].Data, tt.want)
			}
			if got[0].ECU != tt.wantECU {
				t.Errorf("Parse() ecu = %v, want %v", got[0].ECU, tt.wantECU)
			}
		})
	}
}

func TestLegacyParserMultiFrame(t *testing.T) {
	p := newLegacyParser(DefaultConfig())
	got, err := p.Parse([]string{
		"48 6B 10 49 02 01 00 00 00 31",
		"48 6B 10 49 02 02 44 34 47 50",
		"48 6B 10 49 02 03 30 30 52 35",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []byte{0x49, 0x02, 0x00, 0x00, 0x00, 0x31, 0x44, 0x34, 0x47, 0x50, 0x30, 0x30, 0x52, 0x35}
	if !bytes.Equal(got[0].Data, want) {
		t.Errorf("Parse() data = % X, want % X", got[0].Data, want)
	}
}

func TestLegacyParserMultiFrameOutOfOrder(t *testing.T) {
	// Arrival order does not matter, the order byte does.
	p := newLegacyParser(DefaultConfig())
	got, err := p.Parse([]string{
		"48 6B 10 49 02 02 44 34 47 50",
		"48 6B 10 49 02 01 00 00 00 31",
		"48 6B 10 49 02 03 30 30 52 35",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []byte{0x49, 0x02, 0x00, 0x00, 0x00, 0x31, 0x44, 0x34, 0x47, 0x50, 0x30, 0x30, 0x52, 0x35}
	if !bytes.Equal(got[0].Data, want) {
		t.Errorf("Parse() data = % X, want % X", got[0].Data, want)
	}
}

func TestLegacyParserBadOrder(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{
			name: "first order byte not one",
			lines: []string{
				"48 6B 10 49 02 02 44 34 47 50",
				"48 6B 10 49 02 03 30 30 52 35",
			},
		},
		{
			name: "gap in order bytes",
			lines: []string{
				"48 6B 10 49 02 01 00 00 00 31",
				"48 6B 10 49 02 03 30 30 52 35",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newLegacyParser(DefaultConfig())
			if _, err := p.Parse(tt.lines); !errors.Is(err, ErrBadSequence) {
				t.Fatalf("Parse() error = %v, want bad sequence", err)
			}
		})
	}
}

func TestLegacyParserMode03MultiFrame(t *testing.T) {
	p := newLegacyParser(DefaultConfig())
	got, err := p.Parse([]string{
		"48 6B 10 43 01 33 01 34 01 35",
		"48 6B 10 43 01 36 00 00 00 00",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []byte{0x43, 0x00, 0x01, 0x33, 0x01, 0x34, 0x01, 0x35, 0x01, 0x36, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(got[0].Data, want) {
		t.Errorf("Parse() data = % X, want % X", got[0].Data, want)
	}
}

func TestLegacyParserEmulatorQuirk(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmulatorMode = true
	p := newLegacyParser(cfg)
	// Sequence-less 4 byte payloads concatenate in arrival order.
	got, err := p.Parse([]string{
		"48 6B 10 49 02 01 31",
		"48 6B 10 47 31 4A 43",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []byte{0x49, 0x02, 0x01, 0x31, 0x47, 0x31, 0x4A, 0x43}
	if !bytes.Equal(got[0].Data, want) {
		t.Errorf("Parse() data = % X, want % X", got[0].Data, want)
	}

	// The same input is a sequence error with the quirk off.
	if _, err := newLegacyParser(DefaultConfig()).Parse([]string{
		"48 6B 10 49 02 01 31",
		"48 6B 10 47 31 4A 43",
	}); err == nil {
		t.Fatal("Parse() expected error without emulator mode")
	}
}

func TestLegacyParserMultiECU(t *testing.T) {
	p := newLegacyParser(DefaultConfig())
	got, err := p.Parse([]string{
		"48 6B 10 41 0D 32",
		"48 6B 11 41 0D 00",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Parse() returned %d messages, want 2", len(got))
	}
	if got[0].ECU != ECUEngine || got[1].ECU != ECUTransmission {
		t.Errorf("Parse() ecus = %v, %v; want engine, transmission", got[0].ECU, got[1].ECU)
	}
}

func TestLegacyParserChecksumMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LegacyChecksum = true
	p := newLegacyParser(cfg)
	got, err := p.Parse([]string{"48 6B 10 41 0D 32 A7"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []byte{0x41, 0x0D, 0x32}
	if !bytes.Equal(got[0].Data, want) {
		t.Errorf("Parse() data = % X, want % X", got[0].Data, want)
	}
}
