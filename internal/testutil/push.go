package testutil

import (
	"context"
	"sync"
)

// Pushed - одно событие, отправленное через RecordingEmitter
type Pushed struct {
	Room    string
	Event   string
	Payload any
}

// RecordingEmitter запоминает push-события вместо отправки в хаб
type RecordingEmitter struct {
	mu     sync.Mutex
	events []Pushed
}

func (r *RecordingEmitter) Emit(_ context.Context, room, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Pushed{Room: room, Event: event, Payload: payload})
}

func (r *RecordingEmitter) All() []Pushed {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Pushed(nil), r.events...)
}

// To - события в комнату room с именем event
func (r *RecordingEmitter) To(room, event string) []Pushed {
	var out []Pushed
	for _, p := range r.All() {
		if p.Room == room && p.Event == event {
			out = append(out, p)
		}
	}
	return out
}

func (r *RecordingEmitter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
