package render

import "sync"

// queue is a FIFO of tasks submitted by any goroutine
// and run by the render goroutine before a draw.
type queue struct {
	mu    sync.Mutex
	tasks []func()
}

func (q *queue) push(task func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
}

// take removes and returns all queued tasks in submission order.
func (q *queue) take() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	tasks := q.tasks
	q.tasks = nil
	return tasks
}

// drain runs every task queued so far. Tasks queued while draining
// wait for the next call.
func (q *queue) drain() int {
	tasks := q.take()
	for _, task := range tasks {
		task()
	}
	return len(tasks)
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
