package goobd

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Snapshot is one round of polled values keyed by command.
type Snapshot map[Command]Measurement

// A single ELM327 v1.x request carries at most six mode 01 PIDs.
const maxBatchPIDs = 6

// PollStrategy selects how subscribed PIDs are put on the wire.
type PollStrategy int

const (
	// PollBatched packs the subscription into compound mode 01
	// requests, one exchange per round. Default.
	PollBatched PollStrategy = iota
	// PollSequential asks one PID per exchange. Only useful against
	// transports that fake full duplex, like the mock.
	PollSequential
)

const (
	adaptiveSafetyFactor = 1.2
	adaptiveFloor        = 50 * time.Millisecond
	adaptiveCap          = 2 * time.Second
)

// Poller schedules batches of PID requests against the half duplex
// link and emits per round snapshots.
type Poller struct {
	elm      *ELM327
	cfg      *Config
	strategy PollStrategy

	specs     []Spec
	snapshots chan Snapshot

	cancel context.CancelFunc
	done   chan struct{}
}

func newPoller(elm *ELM327, cfg *Config, commands []Command, strategy PollStrategy) (*Poller, error) {
	var specs []Spec
	for _, cmd := range commands {
		spec, err := Lookup(cmd)
		if err != nil {
			return nil, err
		}
		if spec.Command.Service() != 0x01 || spec.Bytes == 0 {
			return nil, fmt.Errorf("command %q cannot be polled", cmd)
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("nothing to poll")
	}
	return &Poller{
		elm:      elm,
		cfg:      cfg,
		strategy: strategy,
		specs:    specs,
		done:     make(chan struct{}),
	}, nil
}

// Snapshots delivers one map per polling round. The channel closes when
// the poller stops, on Stop or when the context given to
// ContinuousUpdates ends. A failed request only skips its round, it does
// not close the channel.
func (p *Poller) Snapshots() <-chan Snapshot {
	return p.snapshots
}

// Stop cancels the in-flight command and ends the stream. The session
// drains to the next prompt so the adapter stays usable.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	<-p.done
}

func (p *Poller) start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.snapshots = make(chan Snapshot, 4)
	go p.run(ctx)
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)
	defer close(p.snapshots)

	interval := p.cfg.PollInterval
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		start := time.Now()
		snapshot := p.round(ctx)
		if ctx.Err() != nil {
			return
		}
		if len(snapshot) > 0 {
			select {
			case p.snapshots <- snapshot:
			default:
				// A slow consumer drops rounds, never blocks the link.
			}
		}

		if p.cfg.AdaptivePolling {
			elapsed := time.Duration(float64(time.Since(start)) * adaptiveSafetyFactor)
			interval = clampDuration(elapsed, adaptiveFloor, adaptiveCap)
		} else {
			interval = p.cfg.PollInterval
		}
		timer.Reset(interval)
	}
}

func (p *Poller) round(ctx context.Context) Snapshot {
	snapshot := make(Snapshot, len(p.specs))
	switch p.strategy {
	case PollSequential:
		for _, spec := range p.specs {
			messages, err := p.elm.request(ctx, string(spec.Command))
			if err != nil {
				continue
			}
			p.extract(messages, []Spec{spec}, snapshot)
		}
	default:
		for _, batch := range p.batches() {
			messages, err := p.elm.request(ctx, batchCommand(batch))
			if err != nil {
				continue
			}
			p.extract(messages, batch, snapshot)
		}
	}
	return snapshot
}

func (p *Poller) batches() [][]Spec {
	var out [][]Spec
	for start := 0; start < len(p.specs); start += maxBatchPIDs {
		end := start + maxBatchPIDs
		if end > len(p.specs) {
			end = len(p.specs)
		}
		out = append(out, p.specs[start:end])
	}
	return out
}

func batchCommand(batch []Spec) string {
	var b strings.Builder
	b.WriteString("01")
	for _, spec := range batch {
		fmt.Fprintf(&b, "%02X", spec.Command.PID())
	}
	return b.String()
}

func (p *Poller) extract(messages []*Message, batch []Spec, snapshot Snapshot) {
	extractBatch(messages, batch, p.cfg, snapshot)
}

// extractBatch walks the first message's payload, peeling each
// requested PID's fixed width in order. Bad or missing PIDs are
// skipped, their siblings still decode.
func extractBatch(messages []*Message, batch []Spec, cfg *Config, snapshot Snapshot) {
	if len(messages) == 0 {
		return
	}
	data := messages[0].Data
	if len(data) == 0 || data[0] != 0x41 {
		return
	}
	idx := 1
	for _, spec := range batch {
		if idx >= len(data) || data[idx] != spec.Command.PID() {
			continue
		}
		idx++
		if idx+spec.Bytes > len(data) {
			break
		}
		payload := data[idx : idx+spec.Bytes]
		idx += spec.Bytes

		value, err := Decode(spec, payload, cfg.Units)
		if err != nil {
			if cfg.Debug {
				cfg.OnMessage(fmt.Sprintf("decode %s: %v", spec.Command, err))
			}
			continue
		}
		if value.Kind == KindMeasurement {
			snapshot[spec.Command] = value.Measurement
		}
	}
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
