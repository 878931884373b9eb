package entities

import (
	"sync"
	"time"
)

// Phase is one of the three states of a tracked remote operation.
type Phase string

const (
	PhaseStart   Phase = "start"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// OperationState is the observable state of one named operation.
type OperationState struct {
	Loading     bool
	InFlight    int
	LastPhase   Phase
	LastError   error
	LastPayload any
	UpdatedAt   time.Time
}

// Tracker keeps per-name loading state so concurrent operations with different
// names never collide.
type Tracker struct {
	mu     sync.RWMutex
	states map[string]*OperationState
	bus    *Bus
}

// NewTracker creates a tracker that reports loading changes on the given bus.
func NewTracker(bus *Bus) *Tracker {
	return &Tracker{states: make(map[string]*OperationState), bus: bus}
}

// Start marks one more operation of the given name as in flight.
func (t *Tracker) Start(name string) {
	t.transition(name, PhaseStart, nil, nil)
}

// Succeed records the payload of a finished operation.
func (t *Tracker) Succeed(name string, payload any) {
	t.transition(name, PhaseSuccess, payload, nil)
}

// Fail records the failure of a finished operation.
func (t *Tracker) Fail(name string, err error) {
	t.transition(name, PhaseError, nil, err)
}

// State returns a snapshot of the named operation.
func (t *Tracker) State(name string) OperationState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if state, ok := t.states[name]; ok {
		return *state
	}
	return OperationState{}
}

// Loading reports whether any operation of the given name is in flight.
func (t *Tracker) Loading(name string) bool {
	return t.State(name).Loading
}

// Reset forgets every operation state.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states = make(map[string]*OperationState)
}

func (t *Tracker) transition(name string, phase Phase, payload any, err error) {
	t.mu.Lock()
	state, ok := t.states[name]
	if !ok {
		state = &OperationState{}
		t.states[name] = state
	}
	if phase == PhaseStart {
		state.InFlight++
	} else if state.InFlight > 0 {
		state.InFlight--
	}
	state.Loading = state.InFlight > 0
	state.LastPhase = phase
	state.UpdatedAt = time.Now()
	switch phase {
	case PhaseSuccess:
		state.LastPayload = payload
		state.LastError = nil
	case PhaseError:
		state.LastError = err
	case PhaseStart:
	}
	event := Event{Kind: EventLoadingChanged, Operation: name, Phase: phase, Loading: state.Loading}
	if err != nil {
		event.Error = err.Error()
	}
	t.mu.Unlock()

	t.bus.Publish(event)
}
