// Package bus implements the process-wide priority message bus: a
// heap ordered by descending priority, drained periodically to every
// subscribed client. Grounded on `original_source/physim-core/src/messages.rs`
// (`MessageBus`'s `BinaryHeap<Message>`, `MessagePriority`'s six levels,
// `MessageClient::recv_message`'s self-id skip); the heap.Interface
// shape itself follows the pack's dijkstra priority queue
// (katalvlaran-lvlath/dijkstra/dijkstra.go's nodePQ), and the
// ticker-driven drain loop follows the teacher's
// internal/scheduler.Service.Start.
package bus

import (
	"container/heap"
	"strconv"
	"sync"

	"github.com/physim/physim/internal/metrics"
)

// Priority orders message delivery: higher values drain first. Mirrors
// the original's MessagePriority enum (Background..Critical).
type Priority int

const (
	PriorityBackground Priority = iota
	PriorityLow
	PriorityNormal
	PriorityHigh
	PriorityRealTime
	PriorityCritical
)

// Message is one posted event: a sender id, a priority, a topic the
// payload is about, and an arbitrary payload.
type Message struct {
	SenderID string
	Priority Priority
	Topic    string
	Payload  interface{}

	seq int64 // insertion order, for stable priority ties
}

// Client receives drained messages. Drain skips delivering a message to
// a client whose id equals the message's sender id, matching spec.md
// §4.6's default delivery filter.
type Client interface {
	ID() string
	Receive(msg Message)
}

// NoopClient is embedded by elements that never need the bus; it
// satisfies element.MessageClient with a discard.
type NoopClient struct{}

func (NoopClient) Receive(Message) {}

type pqItem struct {
	msg Message
}

type messagePQ []pqItem

func (pq messagePQ) Len() int { return len(pq) }

func (pq messagePQ) Less(i, j int) bool {
	if pq[i].msg.Priority != pq[j].msg.Priority {
		return pq[i].msg.Priority > pq[j].msg.Priority
	}
	return pq[i].msg.seq < pq[j].msg.seq
}

func (pq messagePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *messagePQ) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }

func (pq *messagePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// Bus is a process-wide priority queue drained to subscribed clients. It
// is owned by whoever constructs it (the pipeline), not a singleton.
type Bus struct {
	mu      sync.Mutex
	queue   messagePQ
	clients []Client
	nextSeq int64
}

// New constructs an empty bus.
func New() *Bus {
	return &Bus{}
}

// Subscribe registers a client to receive drained messages.
func (b *Bus) Subscribe(c Client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients = append(b.clients, c)
}

// Post enqueues a message. Non-blocking from the caller's perspective.
func (b *Bus) Post(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	msg.seq = b.nextSeq
	b.nextSeq++
	heap.Push(&b.queue, pqItem{msg: msg})
	metrics.BusMessagesPublished.WithLabelValues(strconv.Itoa(int(msg.Priority))).Inc()
	metrics.BusQueueDepth.Set(float64(b.queue.Len()))
}

// Drain empties the queue in strictly descending priority order (FIFO
// within a priority level) and fans each message out to every
// subscribed client whose default filter does not skip it.
func (b *Bus) Drain() {
	b.mu.Lock()
	pending := make([]Message, 0, b.queue.Len())
	for b.queue.Len() > 0 {
		item := heap.Pop(&b.queue).(pqItem)
		pending = append(pending, item.msg)
	}
	clients := append([]Client(nil), b.clients...)
	metrics.BusQueueDepth.Set(0)
	b.mu.Unlock()

	for _, msg := range pending {
		for _, c := range clients {
			if c.ID() == msg.SenderID {
				continue
			}
			c.Receive(msg)
			metrics.BusMessagesDelivered.Inc()
		}
	}
}
