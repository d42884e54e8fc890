package goobd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	retry "github.com/avast/retry-go"
)

type token struct{}

const drainGrace = 500 * time.Millisecond

// Session frames transport bytes into command/response exchanges
// terminated by the adapter prompt. At most one command is in flight,
// a second caller gets ErrAdapterBusy instead of queueing.
type Session struct {
	transport Transport
	cfg       *Config
	semChan   chan token
}

func NewSession(transport Transport, cfg *Config) *Session {
	return &Session{
		transport: transport,
		cfg:       cfg.withDefaults(),
		semChan:   make(chan token, 1),
	}
}

// Command sends one command and returns the cleaned response lines.
// Timeouts and link errors are retried with backoff, invalid responses
// are not.
func (s *Session) Command(ctx context.Context, cmd string) ([]string, error) {
	select {
	case s.semChan <- token{}:
	default:
		return nil, ErrAdapterBusy
	}
	defer func() { <-s.semChan }()

	var lines []string
	err := retry.Do(func() error {
		var err error
		lines, err = s.exchange(ctx, cmd)
		return err
	},
		retry.Context(ctx),
		retry.Attempts(s.cfg.Retries),
		retry.Delay(50*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var te *TimeoutError
			var le *LinkError
			return errors.As(err, &te) || errors.As(err, &le)
		}),
		retry.OnRetry(func(n uint, err error) {
			if s.cfg.Debug {
				s.cfg.OnMessage(fmt.Sprintf("retry #%d %s: %v", n+1, cmd, err))
			}
		}),
	)
	return lines, err
}

func (s *Session) exchange(ctx context.Context, cmd string) ([]string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, s.cfg.CommandTimeout)
	defer cancel()

	if s.cfg.Debug {
		s.cfg.OnMessage("<o> " + cmd)
	}
	if err := s.transport.Write(cmdCtx, []byte(cmd+"\r")); err != nil {
		if ctx.Err() == nil {
			// An I/O failure takes the link down for good.
			s.transport.Close()
		}
		return nil, err
	}

	raw, err := s.transport.ReadUntilPrompt(cmdCtx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.drain()
			return nil, ErrCancelled
		}
		if errors.Is(err, context.DeadlineExceeded) {
			s.drain()
			return nil, &TimeoutError{Timeout: s.cfg.CommandTimeout.Milliseconds(), Command: cmd}
		}
		s.transport.Close()
		return nil, err
	}
	return s.splitResponse(cmd, raw)
}

// drain consumes transport bytes up to the next prompt so an abandoned
// command cannot poison the following one. Forces a disconnect when the
// adapter stays silent past the grace timeout.
func (s *Session) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainGrace)
	defer cancel()
	if _, err := s.transport.ReadUntilPrompt(ctx); err != nil {
		s.transport.Close()
	}
}

func (s *Session) splitResponse(cmd string, raw []byte) ([]string, error) {
	text := strings.TrimSuffix(string(raw), ">")
	var lines []string
	for _, line := range strings.FieldsFunc(text, func(r rune) bool { return r == '\r' || r == '\n' }) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		// ATE0 only takes effect after its own exchange, drop echoes.
		if strings.ReplaceAll(upper, " ", "") == strings.ToUpper(strings.ReplaceAll(cmd, " ", "")) {
			continue
		}
		if upper == "SEARCHING..." {
			continue
		}
		if s.cfg.Debug {
			s.cfg.OnMessage("<i> " + line)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, nil
	}

	first := strings.ToUpper(lines[0])
	switch {
	case strings.Contains(first, "NO DATA"):
		return nil, nil
	case first == "?", strings.Contains(first, "UNABLE TO CONNECT"):
		return nil, &InvalidResponseError{Line: lines[0]}
	case strings.Contains(first, "STOPPED"),
		strings.Contains(first, "BUS INIT: ERROR"),
		strings.Contains(first, "BUS ERROR"),
		strings.Contains(first, "CAN ERROR"),
		strings.Contains(first, "FB ERROR"),
		strings.Contains(first, "DATA ERROR"):
		return nil, &LinkError{Kind: lines[0]}
	}
	return lines, nil
}
