package goobd

import (
	"log"
	"path/filepath"
	"runtime"
	"sync"
)

// BaseTransport carries the channel plumbing shared by every transport.
type BaseTransport struct {
	name string
	cfg  *Config

	stateMu   sync.Mutex
	state     ConnectionState
	stateChan chan ConnectionState

	evtChan chan Event

	closeOnce sync.Once
	closeChan chan struct{}
}

func NewBaseTransport(name string, cfg *Config) BaseTransport {
	b := BaseTransport{
		name:      name,
		cfg:       cfg.withDefaults(),
		state:     StateDisconnected,
		stateChan: make(chan ConnectionState, 16),
		evtChan:   make(chan Event, 100),
		closeChan: make(chan struct{}),
	}
	b.stateChan <- StateDisconnected
	return b
}

// Name returns the transport name.
func (base *BaseTransport) Name() string {
	return base.name
}

func (base *BaseTransport) States() <-chan ConnectionState {
	return base.stateChan
}

func (base *BaseTransport) Events() <-chan Event {
	return base.evtChan
}

func (base *BaseTransport) setState(s ConnectionState) {
	base.stateMu.Lock()
	defer base.stateMu.Unlock()
	if base.state == s {
		return
	}
	base.state = s
	select {
	case base.stateChan <- s:
	default:
		log.Printf("state channel full, dropping %s", s)
	}
}

// State returns the last published connection state.
func (base *BaseTransport) State() ConnectionState {
	base.stateMu.Lock()
	defer base.stateMu.Unlock()
	return base.state
}

func (base *BaseTransport) close() {
	base.closeOnce.Do(func() {
		close(base.closeChan)
	})
	base.setState(StateDisconnected)
}

func (base *BaseTransport) sendEvent(eventType EventType, details string) {
	select {
	case base.evtChan <- Event{Type: eventType, Details: details}:
	default:
		_, file, no, ok := runtime.Caller(1)
		if ok {
			log.Printf("%s#%d event channel full: %s\n", filepath.Base(file), no, details)
		} else {
			log.Printf("event channel full: %s", details)
		}
	}
}

// Send an error event
func (base *BaseTransport) Error(err error) {
	base.sendEvent(EventTypeError, err.Error())
}

// Send a warning event
func (base *BaseTransport) Warn(warn string) {
	base.sendEvent(EventTypeWarning, warn)
}

// Send an info event
func (base *BaseTransport) Info(info string) {
	base.sendEvent(EventTypeInfo, info)
}

// Send a debug event
func (base *BaseTransport) Debug(debug string) {
	base.sendEvent(EventTypeDebug, debug)
}
