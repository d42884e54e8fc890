package goobd

import "time"

// Config is the immutable configuration captured at Connect. Nothing in
// the library reads process wide state.
type Config struct {
	Debug bool

	// Serial transport
	Port         string
	PortBaudrate int

	// TCP transport
	Host    string
	TCPPort int

	// Preferred in-vehicle protocol, ProtocolAuto to let the adapter search.
	Protocol Protocol

	// Unit system applied to measurements at the decode boundary.
	Units UnitSystem

	// Timeouts and pacing
	ConnectTimeout time.Duration
	CommandTimeout time.Duration
	ResetDelay     time.Duration
	InitDelay      time.Duration
	Retries        uint

	// PollInterval is the minimum spacing between polling batches.
	PollInterval time.Duration
	// AdaptivePolling derives the next interval from the last batch's
	// elapsed time instead of the fixed PollInterval.
	AdaptivePolling bool

	// EmulatorMode accepts the sequence-less legacy multi-frame quirk of
	// some software emulators. Leave off against real hardware.
	EmulatorMode bool
	// LegacyChecksum drops the trailing checksum byte some adapters
	// append to legacy frames when headers are on.
	LegacyChecksum bool

	// OnMessage receives human readable progress lines, mostly for CLIs.
	OnMessage func(string)
}

// DefaultConfig returns the settings that work with most ELM327 v1.x
// clones out of the box.
func DefaultConfig() *Config {
	return &Config{
		Port:           "",
		PortBaudrate:   38400,
		Host:           "192.168.0.10",
		TCPPort:        35000,
		Protocol:       ProtocolAuto,
		Units:          UnitMetric,
		ConnectTimeout: 10 * time.Second,
		CommandTimeout: 5 * time.Second,
		ResetDelay:     1 * time.Second,
		InitDelay:      20 * time.Millisecond,
		Retries:        3,
		PollInterval:   300 * time.Millisecond,
	}
}

func (c *Config) withDefaults() *Config {
	out := *c
	def := DefaultConfig()
	if out.PortBaudrate == 0 {
		out.PortBaudrate = def.PortBaudrate
	}
	if out.TCPPort == 0 {
		out.TCPPort = def.TCPPort
	}
	if out.ConnectTimeout == 0 {
		out.ConnectTimeout = def.ConnectTimeout
	}
	if out.CommandTimeout == 0 {
		out.CommandTimeout = def.CommandTimeout
	}
	if out.ResetDelay == 0 {
		out.ResetDelay = def.ResetDelay
	}
	if out.InitDelay == 0 {
		out.InitDelay = def.InitDelay
	}
	if out.Retries == 0 {
		out.Retries = def.Retries
	}
	if out.PollInterval == 0 {
		out.PollInterval = def.PollInterval
	}
	if out.OnMessage == nil {
		out.OnMessage = func(string) {}
	}
	return &out
}
