package mapstore

import (
	"sync"

	"go.uber.org/zap"
)

// Store holds the current MapState and applies dispatched actions atomically.
type Store struct {
	mu          sync.Mutex
	state       MapState
	subscribers map[int]func(MapState)
	nextSubID   int
	logger      *zap.Logger
}

// NewStore creates a store seeded with initial, which must be valid.
func NewStore(initial MapState, logger *zap.Logger) (*Store, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		state:       initial.Clone(),
		subscribers: make(map[int]func(MapState)),
		logger:      logger,
	}, nil
}

// State returns a copy of the current state.
func (s *Store) State() MapState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch reduces action into the state and notifies subscribers. A failed
// reduction leaves the state untouched and notifies nobody.
func (s *Store) Dispatch(action Action) error {
	s.mu.Lock()
	next, err := Reduce(s.state, action)
	if err != nil {
		s.mu.Unlock()
		s.logger.Debug("action rejected", zap.String("action", action.Type()), zap.Error(err))
		return err
	}
	s.state = next
	subs := make([]func(MapState), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	s.logger.Debug("action applied", zap.String("action", action.Type()), zap.Ints("layerOrder", next.LayerOrder))
	for _, fn := range subs {
		fn(next.Clone())
	}
	return nil
}

// Subscribe registers fn to receive every new state. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(MapState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}
