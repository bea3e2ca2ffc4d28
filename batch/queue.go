// queue.go - run tango jobs concurrently
// Copyright (C) 2016  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package batch runs the processing of several input files with a
// bounded number of workers.
package batch

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrQueueClosed is returned for jobs submitted after .Finish() was
// called.
var ErrQueueClosed = errors.New("queue closed")

const queueLength = 1

// Job processes one input file and returns the name of the output
// file.  The output name is empty if no output was written.
type Job func(ctx context.Context, inputName string) (string, error)

// Result describes the outcome of one job.
type Result struct {
	InputName  string
	OutputName string
	Err        error
}

// Queue runs jobs using at most a fixed number of concurrent workers.
type Queue struct {
	ctx        context.Context
	maxWorkers int

	mu      sync.Mutex
	jobs    chan *jobSpec
	workers *sync.WaitGroup
	done    chan struct{}
}

type jobSpec struct {
	InputName string
	Run       Job
	Result    chan<- *Result
}

// NewQueue creates a new queue which runs at most maxWorkers jobs at
// the same time.  Jobs which have not started when ctx is cancelled
// report the context error.
func NewQueue(ctx context.Context, maxWorkers int) *Queue {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	q := &Queue{
		ctx:        ctx,
		maxWorkers: maxWorkers,
		jobs:       make(chan *jobSpec, queueLength),
		workers:    &sync.WaitGroup{},
		done:       make(chan struct{}),
	}
	go q.scheduler(q.jobs)
	return q
}

// Submit adds a new job to the queue.  The result can be read from
// the returned channel, once the job is complete.
func (q *Queue) Submit(inputName string, run Job) <-chan *Result {
	c := make(chan *Result, 1)
	job := &jobSpec{
		InputName: inputName,
		Run:       run,
		Result:    c,
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.jobs == nil {
		c <- &Result{InputName: inputName, Err: ErrQueueClosed}
		return c
	}
	q.jobs <- job
	return c
}

// Finish must be called after the last job has been submitted to the
// queue.  The function waits until all jobs are complete and then shuts
// down the queue.
func (q *Queue) Finish() {
	q.mu.Lock()
	if q.jobs != nil {
		close(q.jobs)
		q.jobs = nil
	}
	q.mu.Unlock()

	<-q.done
	q.workers.Wait()
}

func (q *Queue) scheduler(jobs <-chan *jobSpec) {
	defer close(q.done)

	workers := make(chan int, q.maxWorkers)
	for i := 0; i < q.maxWorkers; i++ {
		workers <- i
	}

	for job := range jobs {
		worker := <-workers
		q.workers.Add(1)
		go func(job *jobSpec) {
			res := q.process(job)
			workers <- worker
			if res.Err != nil {
				log.Debug().Int("worker", worker).Str("file", job.InputName).
					Err(res.Err).Msg("job failed")
			}
			job.Result <- res
			q.workers.Done()
		}(job)
	}
}

func (q *Queue) process(job *jobSpec) *Result {
	res := &Result{InputName: job.InputName}
	err := q.ctx.Err()
	if err != nil {
		res.Err = err
		return res
	}
	res.OutputName, res.Err = job.Run(q.ctx, job.InputName)
	return res
}

// Wait collects the results from the given channels, in order.
func Wait(results []<-chan *Result) []*Result {
	res := make([]*Result, len(results))
	for i, c := range results {
		res[i] = <-c
	}
	return res
}
