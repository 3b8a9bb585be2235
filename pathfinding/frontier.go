package pathfinding

import "container/heap"

// frontierEntry is immutable once pushed. seq breaks priority ties so equal
// priorities pop in insertion order.
type frontierEntry struct {
	priority int
	seq      uint64
	handle   int
}

// entryQueue implements heap.Interface as a min-heap on (priority, seq).
type entryQueue []frontierEntry

func (q entryQueue) Len() int { return len(q) }

func (q entryQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return q[i].seq < q[j].seq
}

func (q entryQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *entryQueue) Push(x any) { *q = append(*q, x.(frontierEntry)) }

func (q *entryQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}

// frontier is the open list of a single search.
type frontier struct {
	queue entryQueue
	seq   uint64
}

func (f *frontier) push(priority, handle int) {
	heap.Push(&f.queue, frontierEntry{priority: priority, seq: f.seq, handle: handle})
	f.seq++
}

func (f *frontier) pop() frontierEntry {
	return heap.Pop(&f.queue).(frontierEntry)
}

func (f *frontier) len() int { return f.queue.Len() }
