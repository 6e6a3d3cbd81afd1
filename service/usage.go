package service

import "sync"

// UsageStore keeps operation counters per namespace.
type UsageStore struct {
	mu   sync.RWMutex
	byNS map[string]*Usage
}

func NewUsageStore() *UsageStore { return &UsageStore{byNS: map[string]*Usage{}} }

// Update applies fn to the counters of ns under the store lock.
func (u *UsageStore) Update(ns string, fn func(usage *Usage)) {
	if ns == "" {
		ns = "default"
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	usage, ok := u.byNS[ns]
	if !ok {
		usage = &Usage{Namespace: ns}
		u.byNS[ns] = usage
	}
	fn(usage)
}

// Get returns a copy of the counters of ns.
func (u *UsageStore) Get(ns string) Usage {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if usage, ok := u.byNS[ns]; ok {
		return *usage
	}
	return Usage{Namespace: ns}
}

// Clear drops the counters of ns and reports whether any existed.
func (u *UsageStore) Clear(ns string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.byNS[ns]
	delete(u.byNS, ns)
	return ok
}
