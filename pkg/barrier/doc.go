// Package barrier provides a reusable rendezvous barrier.
//
// A Barrier blocks a fixed number of participants until all of them have
// arrived, runs one aggregation action on the last arriving participant,
// and then releases the whole cohort at once. A completed cycle advances
// the barrier's generation, so the same instance can synchronize the same
// cohort repeatedly.
//
// If the action fails, or a participant's context is cancelled while it is
// arriving or waiting, the barrier breaks: every current and future waiter
// of that generation fails with types.ErrBrokenBarrier instead of being
// left waiting for a cohort that can never complete. A broken barrier stays
// broken until Reset is called.
package barrier
