package goobd

import (
	"context"
	"testing"
	"time"
)

func TestPollerBatched(t *testing.T) {
	cfg := testConfig()
	cfg.PollInterval = 10 * time.Millisecond
	mock := newVehicleMock(cfg)
	mock.Reply("010C0D", "7E8 04 41 0C 0F A0 0D 32")
	client := newTestClient(t, mock, cfg)

	poller, err := client.ContinuousUpdates(context.Background(), []Command{CmdRPM, CmdSpeed}, PollBatched)
	if err != nil {
		t.Fatalf("ContinuousUpdates() error = %v", err)
	}
	defer poller.Stop()

	select {
	case snapshot := <-poller.Snapshots():
		if rpm := snapshot[CmdRPM]; rpm.Value != 1000 {
			t.Errorf("rpm = %+v, want 1000", rpm)
		}
		if speed := snapshot[CmdSpeed]; speed.Value != 50 {
			t.Errorf("speed = %+v, want 50", speed)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot within a second")
	}
}

func TestPollerSequential(t *testing.T) {
	cfg := testConfig()
	cfg.PollInterval = 10 * time.Millisecond
	mock := newVehicleMock(cfg)
	mock.Reply("010C", "7E8 04 41 0C 0F A0")
	mock.Reply("010D", "7E8 03 41 0D 32")
	client := newTestClient(t, mock, cfg)

	poller, err := client.ContinuousUpdates(context.Background(), []Command{CmdRPM, CmdSpeed}, PollSequential)
	if err != nil {
		t.Fatalf("ContinuousUpdates() error = %v", err)
	}
	defer poller.Stop()

	select {
	case snapshot := <-poller.Snapshots():
		if len(snapshot) != 2 {
			t.Errorf("snapshot = %v, want rpm and speed", snapshot)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot within a second")
	}
}

// A batch splits at the six PID ceiling of an ELM327 v1.x request.
func TestPollerBatchChunking(t *testing.T) {
	cfg := testConfig()
	specs := []Spec{}
	for _, c := range []Command{"0104", "0105", "0106", "0107", "010B", "010C", "010D"} {
		spec, err := Lookup(c)
		if err != nil {
			t.Fatal(err)
		}
		specs = append(specs, spec)
	}
	p := &Poller{cfg: cfg, specs: specs}
	batches := p.batches()
	if len(batches) != 2 {
		t.Fatalf("batches = %d, want 2", len(batches))
	}
	if got := batchCommand(batches[0]); got != "01040506070B0C" {
		t.Errorf("batch 1 = %q", got)
	}
	if got := batchCommand(batches[1]); got != "010D" {
		t.Errorf("batch 2 = %q", got)
	}
}

func TestPollerRejectsNonLivePIDs(t *testing.T) {
	cfg := testConfig()
	mock := newVehicleMock(cfg)
	client := newTestClient(t, mock, cfg)

	if _, err := client.ContinuousUpdates(context.Background(), []Command{CmdDTCs}, PollBatched); err == nil {
		t.Fatal("ContinuousUpdates() expected error for mode 03")
	}
	if _, err := client.ContinuousUpdates(context.Background(), nil, PollBatched); err == nil {
		t.Fatal("ContinuousUpdates() expected error for empty list")
	}
}

// Stopping the stream mid poll leaves the adapter usable: the next
// plain request succeeds.
func TestPollerStopThenRequest(t *testing.T) {
	cfg := testConfig()
	cfg.PollInterval = time.Millisecond
	mock := newVehicleMock(cfg)
	mock.Reply("010C0D", "7E8 04 41 0C 0F A0 0D 32")
	mock.Reply("010D", "7E8 03 41 0D 32")
	client := newTestClient(t, mock, cfg)

	poller, err := client.ContinuousUpdates(context.Background(), []Command{CmdRPM, CmdSpeed}, PollBatched)
	if err != nil {
		t.Fatalf("ContinuousUpdates() error = %v", err)
	}
	<-poller.Snapshots()
	poller.Stop()

	if _, ok := <-poller.Snapshots(); ok {
		// Drain until closed, Stop guarantees closure.
		for range poller.Snapshots() {
		}
	}

	values, err := client.RequestPIDs(context.Background(), CmdSpeed)
	if err != nil {
		t.Fatalf("RequestPIDs() after Stop error = %v", err)
	}
	if speed := values[CmdSpeed]; speed.Value != 50 {
		t.Errorf("speed = %+v, want 50", speed)
	}
}

func TestAdaptiveClamp(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want time.Duration
	}{
		{name: "below floor", in: time.Millisecond, want: adaptiveFloor},
		{name: "within", in: 400 * time.Millisecond, want: 400 * time.Millisecond},
		{name: "above cap", in: 5 * time.Second, want: adaptiveCap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampDuration(tt.in, adaptiveFloor, adaptiveCap); got != tt.want {
				t.Errorf("clampDuration(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
