package workerpool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RunJobs(t *testing.T) {
	pool := New(4)
	defer pool.Stop()

	var completed int32
	jobs := make([]Job, 0, 12)
	for i := 0; i < 12; i++ {
		jobs = append(jobs, func() error {
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&completed, 1)
			return nil
		})
	}

	pool.Add(jobs)
	require.NoError(t, pool.Wait())
	require.EqualValues(t, 12, atomic.LoadInt32(&completed))
}

func Test_AddBlocking(t *testing.T) {
	pool := New(3)
	defer pool.Stop()

	var jobs []Job
	var completed int32
	for i := 0; i < 30; i++ {
		jobs = append(jobs, func() error {
			atomic.AddInt32(&completed, 1)
			return nil
		})
	}

	pool.AddBlocking(jobs)
	require.NoError(t, pool.Wait())
	require.EqualValues(t, len(jobs), completed)
}

func Test_FirstErrorWins(t *testing.T) {
	pool := New(2)
	defer pool.Stop()

	var jobs []Job
	jobs = append(jobs, func() error { return nil })
	jobs = append(jobs, func() error { return assert.AnError })
	jobs = append(jobs, func() error { return nil })

	pool.Add(jobs)
	assert.Equal(t, assert.AnError, pool.Wait())
}

func Test_StopWait(t *testing.T) {
	pool := New(2)

	var started int32
	jobs := make([]Job, 0, 20)
	for i := 0; i < 20; i++ {
		jobs = append(jobs, func() error {
			atomic.AddInt32(&started, 1)
			time.Sleep(50 * time.Millisecond)
			return nil
		})
	}

	pool.Add(jobs)
	<-time.After(30 * time.Millisecond)
	pool.Stop()
	require.NoError(t, pool.Wait())
	assert.Less(t, int(atomic.LoadInt32(&started)), 20)
}
