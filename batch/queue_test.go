// queue_test.go -
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

package batch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue(t *testing.T) {
	const maxWorkers = 3
	var running, peak atomic.Int32
	job := func(ctx context.Context, inputName string) (string, error) {
		n := running.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		running.Add(-1)
		if inputName == "bad" {
			return "", errors.New("broken")
		}
		return inputName + ".out", nil
	}

	q := NewQueue(context.Background(), maxWorkers)
	var results []<-chan *Result
	var names []string
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("in%d", i)
		if i == 7 {
			name = "bad"
		}
		names = append(names, name)
		results = append(results, q.Submit(name, job))
	}
	q.Finish()

	res := Wait(results)
	require.Len(t, res, len(names))
	for i, r := range res {
		assert.Equal(t, names[i], r.InputName)
		if r.InputName == "bad" {
			assert.EqualError(t, r.Err, "broken")
			assert.Empty(t, r.OutputName)
		} else {
			assert.NoError(t, r.Err)
			assert.Equal(t, names[i]+".out", r.OutputName)
		}
	}
	assert.LessOrEqual(t, peak.Load(), int32(maxWorkers))
	assert.GreaterOrEqual(t, peak.Load(), int32(1))
}

func TestQueueSingleJob(t *testing.T) {
	job := func(ctx context.Context, inputName string) (string, error) {
		return inputName + ".out", nil
	}
	for i := 0; i < 50; i++ {
		finished := make(chan *Result, 1)
		go func() {
			q := NewQueue(context.Background(), 1)
			c := q.Submit("x", job)
			q.Finish()
			finished <- <-c
		}()
		select {
		case res := <-finished:
			require.NoError(t, res.Err)
			assert.Equal(t, "x.out", res.OutputName)
		case <-time.After(5 * time.Second):
			t.Fatalf("queue %d did not finish", i)
		}
	}
}

func TestQueueCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	q := NewQueue(ctx, 2)
	c := q.Submit("x", func(context.Context, string) (string, error) {
		called = true
		return "", nil
	})
	q.Finish()

	res := <-c
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.False(t, called)
}

func TestQueueClosed(t *testing.T) {
	q := NewQueue(context.Background(), 0)
	q.Finish()
	res := <-q.Submit("late", nil)
	assert.ErrorIs(t, res.Err, ErrQueueClosed)
}
