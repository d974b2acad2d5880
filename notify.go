package main

import (
	"fmt"
	"net/http"
	"sync"
)

// Notifier is the in-process change channel: store mutations publish a
// topic, subscribed editors get a notify-only signal and re-fetch.
// Signals carry no payload and coalesce, so a burst of writes wakes a
// subscriber once.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]chan string
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string]map[int]chan string)}
}

// Subscribe registers interest in a topic. The returned cancel func
// must be called when the subscriber goes away.
func (n *Notifier) Subscribe(topics ...string) (<-chan string, func()) {
	ch := make(chan string, 1)

	n.mu.Lock()
	id := n.next
	n.next++
	for _, topic := range topics {
		if n.subs[topic] == nil {
			n.subs[topic] = make(map[int]chan string)
		}
		n.subs[topic][id] = ch
	}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		for _, topic := range topics {
			delete(n.subs[topic], id)
			if len(n.subs[topic]) == 0 {
				delete(n.subs, topic)
			}
		}
		n.mu.Unlock()
	}
	return ch, cancel
}

// Publish wakes every subscriber of the given topics. Never blocks: a
// subscriber that already has a pending signal is skipped.
func (n *Notifier) Publish(topics ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, topic := range topics {
		for _, ch := range n.subs[topic] {
			select {
			case ch <- topic:
			default:
			}
		}
	}
}

func reportTopic(siteID string) string {
	return "reports:" + siteID
}

const sitesTopic = "sites"

// eventsHandler streams change notifications over SSE. Every client
// gets the site-list topic; passing site_id adds that site's reports.
// The event names only the topic; clients re-fetch authoritative state.
func eventsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := activeUserID(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	topics := []string{sitesTopic}
	if siteID := r.URL.Query().Get("site_id"); siteID != "" {
		if !requireSiteOwner(w, siteID, userID) {
			return
		}
		topics = append(topics, reportTopic(siteID))
	}
	ch, cancel := notifier.Subscribe(topics...)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	logger.Debug().Strs("topics", topics).Msg("event stream opened")

	for {
		select {
		case <-r.Context().Done():
			return
		case topic := <-ch:
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", topic)
			flusher.Flush()
		}
	}
}
