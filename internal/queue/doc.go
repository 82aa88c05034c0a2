// Package queue provides the bounded FIFO that connects pipeline stages.
//
// A Bounded queue has a fixed capacity and blocks producers while full and
// consumers while empty. Stop wakes every waiter on both sides:
//
//   - Push and PushBatch return without enqueuing once stopped.
//   - PopBatch keeps draining items that are already queued, then returns nil.
//
// The stop flag lives under the same mutex as the wait predicates, so a
// waiter can never miss a Stop issued between its predicate check and its
// call to Wait.
package queue
