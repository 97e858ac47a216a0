package store

// Observer is notified after the store changes outside the observer's
// control, e.g. when a pull merges server rows.
type Observer func()

// OnChange registers an observer. Registration order is notification
// order.
func (s *Store) OnChange(obs Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, obs)
}

// NotifyChanged invokes every registered observer synchronously.
func (s *Store) NotifyChanged() {
	s.mu.Lock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, obs := range observers {
		obs()
	}
}
