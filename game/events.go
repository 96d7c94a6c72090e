package game

import (
	"sync"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/google/uuid"
)

// Event types published by a Session.
const (
	EventMoved     = "moved"
	EventSolved    = "solved"
	EventFinished  = "finished"
	EventReset     = "reset"
	EventHighlight = "highlight"

	subscriberBuffer = 32
)

// Event is a change in a session that presentation layers may react to.
type Event struct {
	Type       string     `json:"type"`
	Move       *maze.Move `json:"move,omitempty"`
	Status     string     `json:"status,omitempty"`
	PathLength int        `json:"path_length,omitempty"`
	Steps      int        `json:"steps,omitempty"`
	Highlight  bool       `json:"highlight,omitempty"`
}

// State is a point-in-time view of a session.
type State struct {
	ID           uuid.UUID     `json:"id"`
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	Start        maze.Position `json:"start"`
	End          maze.Position `json:"end"`
	Position     maze.Position `json:"position"`
	Rows         []string      `json:"rows"`
	Highlight    bool          `json:"highlight"`
	Steps        int           `json:"steps"`
	Finished     bool          `json:"finished"`
	Visited      int           `json:"visited"`
	Explored     int           `json:"explored"`
	SolverStatus string        `json:"solver_status"`
	Optimal      int           `json:"optimal"`
}

// hub fans events out to subscribers without ever blocking the publisher.
type hub struct {
	subscribers map[int]chan Event
	next        int
	closed      bool
	sync.Mutex
}

func newHub() *hub {
	return &hub{subscribers: make(map[int]chan Event)}
}

func (h *hub) subscribe() (<-chan Event, func()) {
	h.Lock()
	defer h.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.next
	h.next++
	h.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.Lock()
			defer h.Unlock()
			if c, ok := h.subscribers[id]; ok {
				delete(h.subscribers, id)
				close(c)
			}
		})
	}
}

func (h *hub) publish(e Event) {
	h.Lock()
	defer h.Unlock()
	for _, ch := range h.subscribers {
		select {
		case ch <- e:
		default:
		}
	}
}

func (h *hub) close() {
	h.Lock()
	defer h.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, id)
	}
}
