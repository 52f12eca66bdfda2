package router

// Waiters returns the number of callers waiting for the in-flight execution.
func (r *Router) Waiters(key string) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	if e, ok := r.inflight[key]; ok {
		return e.waiters
	}
	return 0
}
