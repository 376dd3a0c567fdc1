package assets

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spaghettifunk/anima-shell/engine/core"
)

// JobTask is a unit of background work. Run executes on a worker; the
// callbacks run on whichever goroutine calls JobSystem.Update.
type JobTask struct {
	Run        func() (interface{}, error)
	OnComplete func(result interface{})
	OnFailure  func(err error)
}

type jobResult struct {
	task   JobTask
	result interface{}
	err    error
}

// JobSystem is a fixed pool of workers fed from a buffered queue. Finished
// jobs are parked until Update hands them back to the main thread.
type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup

	mu       sync.RWMutex
	closed   bool
	finished []jobResult
	resultMu sync.Mutex
}

var (
	ErrNoWorkers           = errors.New("attempting to create worker pool with less than 1 worker")
	ErrNegativeChannelSize = errors.New("attempting to create worker pool with a negative channel size")
	ErrJobSystemClosed     = errors.New("job system is shut down")
)

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
	}
	js.start()
	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				result, err := js.run(job)
				js.resultMu.Lock()
				js.finished = append(js.finished, jobResult{task: job, result: result, err: err})
				js.resultMu.Unlock()
			}
		}()
	}
}

func (js *JobSystem) run(job JobTask) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job.Run()
}

// Submit queues a job, blocking while the queue is full.
func (js *JobSystem) Submit(jt JobTask) error {
	js.mu.RLock()
	defer js.mu.RUnlock()
	if js.closed {
		return ErrJobSystemClosed
	}
	js.jobQueue <- jt
	return nil
}

// Update runs the callbacks of every job finished since the last call and
// returns how many there were. Should happen once an update cycle.
func (js *JobSystem) Update() int {
	js.resultMu.Lock()
	done := js.finished
	js.finished = nil
	js.resultMu.Unlock()

	for _, r := range done {
		if r.err != nil {
			if r.task.OnFailure != nil {
				r.task.OnFailure(r.err)
			} else {
				core.LogError("job failed: %s", r.err)
			}
			continue
		}
		if r.task.OnComplete != nil {
			r.task.OnComplete(r.result)
		}
	}
	return len(done)
}

// Shutdown stops accepting jobs and waits for the queued ones to finish.
// Their callbacks are dropped.
func (js *JobSystem) Shutdown() error {
	js.mu.Lock()
	if js.closed {
		js.mu.Unlock()
		return nil
	}
	js.closed = true
	close(js.jobQueue)
	js.mu.Unlock()

	js.wg.Wait()
	js.resultMu.Lock()
	js.finished = nil
	js.resultMu.Unlock()
	return nil
}
