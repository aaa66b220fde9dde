package pubsub

import (
	"encoding/json"
	"time"
)

type Fields map[string]interface{}

// Event kinds published on the bus.
const (
	KeyboardInput = "keyboard_input"
	Playback      = "playback"
)

type Event struct {
	Topic     string
	Timestamp time.Time
	Fields    Fields
}

func NewEvent(topic string, fields map[string]interface{}) *Event {
	timestamp := time.Now().UTC()
	if fields == nil {
		fields = Fields{}
	}
	if ts, ok := fields["timestamp"].(string); ok {
		delete(fields, "timestamp")
		timestamp, _ = time.Parse(TimeFormat, ts)
	}
	return &Event{Topic: topic, Timestamp: timestamp, Fields: fields}
}

// NewKeyEvent is a key press from any input source.
func NewKeyEvent(key string, source string) *Event {
	fields := Fields{
		"key":    key,
		"source": source,
	}
	return NewEvent(KeyboardInput, fields)
}

const TimeFormat = "2006-01-02 15:04:05.000000"

func (event *Event) Map() map[string]interface{} {
	data := make(map[string]interface{})
	data["topic"] = event.Topic
	data["timestamp"] = event.Timestamp.Format(TimeFormat)
	for k, v := range event.Fields {
		data[k] = v
	}
	return data
}

func (event *Event) Bytes() []byte {
	v, _ := json.Marshal(event.Map())
	return v
}

func (event *Event) String() string {
	return string(event.Bytes())
}

func (event *Event) StringField(name string) string {
	ret, _ := event.Fields[name].(string)
	return ret
}

// IntField returns a numeric field, and whether it was present.
func (event *Event) IntField(name string) (int64, bool) {
	switch v := event.Fields[name].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

func (event *Event) SetField(name string, value interface{}) {
	event.Fields[name] = value
}

func (event *Event) SetFields(fields map[string]interface{}) {
	for key, value := range fields {
		event.Fields[key] = value
	}
}

func (event *Event) Key() string {
	return event.StringField("key")
}

func (event *Event) Source() string {
	return event.StringField("source")
}

func Parse(msg string) *Event {
	// extract json
	var fields map[string]interface{}
	err := json.Unmarshal([]byte(msg), &fields)
	if err != nil {
		return nil
	}
	topic, ok := fields["topic"].(string)
	if !ok {
		return nil
	}
	delete(fields, "topic")
	return NewEvent(topic, fields)
}
