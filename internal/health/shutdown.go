package health

import "sync/atomic"

var ready atomic.Bool

func init() { ready.Store(true) }

// SetReady flips the process-wide readiness gate. Graceful shutdown flips
// it off before draining so load balancers stop routing new traffic.
func SetReady(v bool) { ready.Store(v) }

// Ready reports the current readiness gate state.
func IsReady() bool { return ready.Load() }
