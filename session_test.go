package goobd

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.ResetDelay = time.Millisecond
	cfg.InitDelay = time.Millisecond
	cfg.CommandTimeout = time.Second
	cfg.ConnectTimeout = time.Second
	return cfg
}

func TestSessionCommand(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		wantLines int
		wantErr   bool
	}{
		{name: "data", reply: "41 0D 32", wantLines: 1},
		{name: "multi line", reply: "41 0D 32\r41 0D 33", wantLines: 2},
		{name: "no data is success", reply: "NO DATA", wantLines: 0},
		{name: "searching only", reply: "SEARCHING...", wantLines: 0},
		{name: "unknown command", reply: "?", wantErr: true},
		{name: "unable to connect", reply: "SEARCHING...\rUNABLE TO CONNECT", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			mock := NewMockTransport(cfg)
			mock.Reply("010D", tt.reply)
			s := NewSession(mock, cfg)

			lines, err := s.Command(context.Background(), "010D")
			if tt.wantErr {
				var ire *InvalidResponseError
				if !errors.As(err, &ire) {
					t.Fatalf("Command() error = %v, want invalid response", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Command() error = %v", err)
			}
			if len(lines) != tt.wantLines {
				t.Errorf("Command() = %d lines, want %d", len(lines), tt.wantLines)
			}
		})
	}
}

func TestSessionRetryOnLinkError(t *testing.T) {
	cfg := testConfig()
	mock := NewMockTransport(cfg)
	mock.Reply("010D", "CAN ERROR")
	mock.Reply("010D", "41 0D 32")
	s := NewSession(mock, cfg)

	lines, err := s.Command(context.Background(), "010D")
	if err != nil {
		t.Fatalf("Command() error = %v", err)
	}
	if len(lines) != 1 || lines[0] != "41 0D 32" {
		t.Errorf("Command() = %v", lines)
	}
	if got := len(mock.Sent()); got != 2 {
		t.Errorf("sent %d commands, want 2 (one retry)", got)
	}
}

func TestSessionNoRetryOnInvalidResponse(t *testing.T) {
	cfg := testConfig()
	mock := NewMockTransport(cfg)
	mock.Reply("010D", "?")
	mock.Reply("010D", "41 0D 32")
	s := NewSession(mock, cfg)

	if _, err := s.Command(context.Background(), "010D"); err == nil {
		t.Fatal("Command() expected error")
	}
	if got := len(mock.Sent()); got != 1 {
		t.Errorf("sent %d commands, want 1 (no retry)", got)
	}
}

func TestSessionRetryExhausted(t *testing.T) {
	cfg := testConfig()
	cfg.Retries = 2
	mock := NewMockTransport(cfg)
	mock.Reply("010D", "STOPPED")
	s := NewSession(mock, cfg)

	_, err := s.Command(context.Background(), "010D")
	var le *LinkError
	if !errors.As(err, &le) {
		t.Fatalf("Command() error = %v, want link error", err)
	}
	if got := len(mock.Sent()); got != 2 {
		t.Errorf("sent %d commands, want 2", got)
	}
}

func TestSessionBusy(t *testing.T) {
	cfg := testConfig()
	mock := NewMockTransport(cfg)
	s := NewSession(mock, cfg)

	s.semChan <- token{}
	defer func() { <-s.semChan }()

	if _, err := s.Command(context.Background(), "010D"); !errors.Is(err, ErrAdapterBusy) {
		t.Fatalf("Command() error = %v, want adapter busy", err)
	}
}

func TestSessionEchoStripped(t *testing.T) {
	cfg := testConfig()
	mock := NewMockTransport(cfg)
	mock.Reply("010D", "010D\r41 0D 32")
	s := NewSession(mock, cfg)

	lines, err := s.Command(context.Background(), "010D")
	if err != nil {
		t.Fatalf("Command() error = %v", err)
	}
	if len(lines) != 1 || lines[0] != "41 0D 32" {
		t.Errorf("Command() = %v, echo should be stripped", lines)
	}
}

// The adapter stays usable after a cancelled exchange: the session
// drains to the next prompt and the following command succeeds.
func TestSessionUsableAfterCancel(t *testing.T) {
	cfg := testConfig()
	mock := NewMockTransport(cfg)
	mock.Reply("010D", "41 0D 32")
	s := NewSession(mock, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Command(ctx, "010C"); err == nil {
		t.Fatal("Command() with cancelled context expected error")
	}

	lines, err := s.Command(context.Background(), "010D")
	if err != nil {
		t.Fatalf("Command() after cancel error = %v", err)
	}
	if len(lines) != 1 {
		t.Errorf("Command() = %v", lines)
	}
}
