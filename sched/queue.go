// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sched

import "container/heap"

// taskQueue is a max-heap of tasks by cost. Ties go to the lower
// module index. It is not safe for concurrent use.
type taskQueue []Task

func newTaskQueue(tasks []Task) *taskQueue {
	q := make(taskQueue, len(tasks))
	copy(q, tasks)
	heap.Init(&q)
	return &q
}

// pop removes and returns the most expensive task.
func (q *taskQueue) pop() (Task, bool) {
	if q.Len() == 0 {
		return Task{}, false
	}
	return heap.Pop(q).(Task), true
}

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].Cost != q[j].Cost {
		return q[i].Cost > q[j].Cost
	}
	return q[i].Index < q[j].Index
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(Task)) }

func (q *taskQueue) Pop() any {
	old := *q
	t := old[len(old)-1]
	*q = old[:len(old)-1]
	return t
}
