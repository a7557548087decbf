// Package circuitbreaker guards a flaky dependency across repeated calls.
//
// A breaker has three states:
//
//   - CLOSED: calls pass through
//   - OPEN: the dependency failed too often, calls are skipped
//   - HALF-OPEN: the cooldown elapsed and one trial call is let through
//
// The monitor wraps the hosting panel refresh in a breaker so that a dead
// panel is not hit on every cycle in watch mode:
//
//	cb := circuitbreaker.NewCircuitBreaker(3, time.Hour)
//	err := cb.Do(func() error {
//	    _, err := merger.Refresh(ctx, state, now)
//	    return err
//	})
//	if errors.Is(err, circuitbreaker.ErrOpen) {
//	    // refresh skipped this cycle
//	}
package circuitbreaker
