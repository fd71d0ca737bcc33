/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package schedule

// WorkQueue hands out a fixed set of addresses to concurrent workers. It is
// filled and closed up front, so Next never blocks.
type WorkQueue struct {
	ch chan Address
}

func NewWorkQueue(addrs []Address) *WorkQueue {
	ch := make(chan Address, len(addrs))
	for _, a := range addrs {
		ch <- a
	}
	close(ch)

	return &WorkQueue{ch: ch}
}

// Next returns the next address, or false once the queue is exhausted.
func (q *WorkQueue) Next() (Address, bool) {
	a, ok := <-q.ch
	return a, ok
}

// Len is the number of addresses not yet handed out.
func (q *WorkQueue) Len() int {
	return len(q.ch)
}
