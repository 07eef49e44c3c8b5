package worker

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_RunsAllTasks(t *testing.T) {
	p := NewPool(4)

	var done atomic.Int64
	for i := 0; i < 100; i++ {
		p.Submit(func() { done.Add(1) })
	}
	p.Stop()

	assert.Equal(t, int64(100), done.Load())
}

func TestPool_ZeroWorkersStillWorks(t *testing.T) {
	p := NewPool(0)

	var ran atomic.Bool
	p.Submit(func() { ran.Store(true) })
	p.Stop()

	assert.True(t, ran.Load())
}
