// Package sse implements a Server-Sent Events broker for generation updates.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// Event types emitted by the broker.
const (
	TypeGenerationCompleted = "generation.completed"
	TypeGenerationFailed    = "generation.failed"
	TypeOutputUpdated       = "output.updated"
)

// KeepAlive is how often an idle stream receives a comment line so that
// proxies do not time it out.
var KeepAlive = 15 * time.Second

// Event represents an SSE event to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Generation describes one finished (or refused) transform run.
type Generation struct {
	Destination string   `json:"destination"`
	Project     string   `json:"project,omitempty"`
	Files       int      `json:"files"`
	Preview     bool     `json:"preview"`
	Errors      []string `json:"errors,omitempty"`
}

// Failed reports whether the run produced errors.
func (g Generation) Failed() bool { return len(g.Errors) > 0 }

type subscription struct {
	ch    chan []byte
	types map[string]bool // nil accepts every type
}

func (s subscription) wants(typ string) bool {
	return s.types == nil || s.types[typ]
}

// Broker manages SSE client connections and broadcasts events.
//
// A single internal event loop owns the client set, the event id counter
// and the output throttle timestamp. Public methods talk to it through
// channels.
type Broker struct {
	outputMin time.Duration

	subscribeCh   chan subscription
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	generationCh  chan Generation
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a broker. outputThrottle bounds how often
// output.updated is emitted; non-positive values mean 2s.
func NewBroker(outputThrottle time.Duration) *Broker {
	if outputThrottle <= 0 {
		outputThrottle = 2 * time.Second
	}

	b := &Broker{
		outputMin:     outputThrottle,
		subscribeCh:   make(chan subscription),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		generationCh:  make(chan Generation, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

// frame encodes one event in the text/event-stream format.
func frame(id uint64, event Event) ([]byte, error) {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, "id: %d\nevent: %s\ndata: %s\n\n", id, event.Type, payload), nil
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]subscription)
	var (
		lastID     uint64
		lastOutput time.Time
	)

	broadcast := func(event Event) {
		lastID++
		raw, err := frame(lastID, event)
		if err != nil {
			return
		}
		for ch, sub := range clients {
			if !sub.wants(event.Type) {
				continue
			}
			select {
			case ch <- raw:
			default:
				// slow client; drop
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case sub := <-b.subscribeCh:
			clients[sub.ch] = sub

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			broadcast(event)

		case gen := <-b.generationCh:
			if gen.Failed() {
				broadcast(Event{Type: TypeGenerationFailed, Data: gen})
				continue
			}
			broadcast(Event{Type: TypeGenerationCompleted, Data: gen})

			// Previews leave the output directory untouched.
			if gen.Preview {
				continue
			}
			if now := time.Now(); now.Sub(lastOutput) >= b.outputMin {
				lastOutput = now
				broadcast(Event{Type: TypeOutputUpdated, Data: map[string]string{"project": gen.Project}})
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close stops the broker loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a client and returns its channel. With no types the
// client receives every event; otherwise only events of the listed types.
func (b *Broker) Subscribe(types ...string) chan []byte {
	sub := subscription{ch: make(chan []byte, 64)}
	if len(types) > 0 {
		sub.types = make(map[string]bool, len(types))
		for _, t := range types {
			sub.types[t] = true
		}
	}
	if b.closed.Load() {
		close(sub.ch)
		return sub.ch
	}

	select {
	case b.subscribeCh <- sub:
	case <-b.stopped:
		close(sub.ch)
	}
	return sub.ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an event to all connected clients.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- event:
	case <-b.stopped:
	}
}

// PublishGeneration reports a transform run. Successful non-preview runs
// are followed by a throttled output.updated event.
func (b *Broker) PublishGeneration(gen Generation) {
	if b.closed.Load() {
		return
	}
	select {
	case b.generationCh <- gen:
	case <-b.stopped:
	}
}

// ServeHTTP is the SSE endpoint handler (GET /api/events). The optional
// query parameter types=a,b restricts the stream to those event types.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	var types []string
	for _, t := range strings.Split(r.URL.Query().Get("types"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe(types...)
	defer b.Unsubscribe(ch)

	ticker := time.NewTicker(KeepAlive)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
