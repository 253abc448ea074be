package store

import "context"

// startWorkers launches the outbound push workers. Pushes from successive
// mutations are independent tasks: they may complete out of call order, and
// the remote store's final state after a rapid burst is not guaranteed to
// match the final local state. No per-record version is attached.
//
// pushQ is never closed. Workers exit on the closed signal after draining
// whatever is still queued, so a mutation racing Close can always send
// safely.
func (s *Store) startWorkers(n int) {
	for i := 0; i < n; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case task := <-s.pushQ:
					s.runPush(task)
				case <-s.closed:
					for {
						select {
						case task := <-s.pushQ:
							s.runPush(task)
						default:
							return
						}
					}
				}
			}
		}()
	}
}

// enqueuePush hands a remote push to the worker pool without ever blocking
// the mutating caller: when the queue is full the task spills into its own
// goroutine instead of waiting. Spilled tasks are not tracked by Close; they
// are fire-and-forget like every other push.
func (s *Store) enqueuePush(name string, fn func(ctx context.Context) error) {
	task := pushTask{name: name, fn: fn}

	select {
	case <-s.closed:
		return
	default:
	}

	select {
	case s.pushQ <- task:
	default:
		go s.runPush(task)
	}
}

// runPush executes one push. Failures are logged and absorbed; they are never
// retried automatically and never surface to the caller of the mutation.
func (s *Store) runPush(task pushTask) {
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	if err := task.fn(ctx); err != nil {
		s.log.Error(ctx, "cloud push failed", "op", task.name, "error", err)
	}
}
