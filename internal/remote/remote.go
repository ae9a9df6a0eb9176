// Package remote implements the interaction surfaces for a browser client.
// Every surface call becomes a render command broadcast on a stream topic,
// and user events posted back over HTTP are dispatched to the handlers the
// controller bound.
package remote

import (
	"context"
	"encoding/json"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
)

var (
	ErrNotBound         = errors.New("no handler bound for event", j.C("ERR_c0a83f5e1d9b4726"))
	ErrNoPendingRequest = errors.New("no geolocation request pending", j.C("ERR_947e2d6b0f3c8a15"))
)

// Render command types.
const (
	EventMapCenter          = "map.center"
	EventMapMarker          = "map.marker"
	EventFormOpen           = "form.open"
	EventFormClose          = "form.close"
	EventFormClear          = "form.clear"
	EventFormFocus          = "form.focus"
	EventFormField          = "form.field"
	EventAlert              = "alert"
	EventListEntry          = "list.entry"
	EventGeolocationRequest = "geolocation.request"
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Publisher is satisfied by *stream.Hub.
type Publisher interface {
	Broadcast(topic string, payload []byte)
}

// Channel sends render commands to every client of one topic.
type Channel struct {
	pub   Publisher
	topic string
}

func NewChannel(pub Publisher, topic string) Channel {
	return Channel{pub: pub, topic: topic}
}

func (c Channel) Topic() string { return c.topic }

func (c Channel) send(eventType string, payload interface{}) {
	if c.pub == nil {
		return
	}
	body, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		log.Error(context.Background(), errors.Wrap(err, "encode render command", j.MKV{"type": eventType}))
		return
	}
	c.pub.Broadcast(c.topic, body)
}

// Surfaces groups the remote surfaces of one workspace.
type Surfaces struct {
	Map         *Map
	Form        *Form
	List        *List
	Geolocation *Geolocation
}

func NewSurfaces(pub Publisher, topic string) *Surfaces {
	ch := NewChannel(pub, topic)
	return &Surfaces{
		Map:         &Map{ch: ch},
		Form:        &Form{ch: ch},
		List:        &List{ch: ch},
		Geolocation: &Geolocation{ch: ch},
	}
}
