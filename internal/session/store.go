package session

import "sync"

// Store holds the active sessions, one per authenticated subject.
// Sessions live for the lifetime of the process; there is no background
// expiry, the collection is simply re-bootstrapped on the next request
// after a restart.
type Store struct {
	mu    sync.Mutex
	byUID map[string]*Session
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{byUID: make(map[string]*Session)}
}

// Get returns the session for uid, creating it on first use.
func (st *Store) Get(uid string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.byUID[uid]
	if !ok {
		s = New(uid)
		st.byUID[uid] = s
	}
	return s
}

// Drop discards the session for uid, forcing a fresh bootstrap on the
// next request. Used when the account is deleted.
func (st *Store) Drop(uid string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.byUID, uid)
}
