package pubsub

import "strings"

// PrefixTopic matches a topic and its subtopics, eg. "cast" matches
// "cast/sala".
type PrefixTopic struct {
	Prefix string
}

func Prefix(prefix string) *PrefixTopic {
	return &PrefixTopic{prefix}
}

func (t *PrefixTopic) Match(topic string) bool {
	return t.Prefix == topic || strings.HasPrefix(topic, t.Prefix+"/")
}

type AllTopic struct{}

func All() *AllTopic {
	return &AllTopic{}
}

func (t *AllTopic) Match(topic string) bool {
	return true
}

type ExactTopic struct {
	Exact string
}

func Exact(exact string) *ExactTopic {
	return &ExactTopic{exact}
}

func (t *ExactTopic) Match(topic string) bool {
	return t.Exact == topic
}

// ParseTopic reads a topic filter in mqtt notation: "#" matches everything,
// "media/#" matches media and its subtopics, anything else is exact.
func ParseTopic(filter string) Topic {
	switch {
	case filter == "#" || filter == "":
		return All()
	case strings.HasSuffix(filter, "/#"):
		return Prefix(strings.TrimSuffix(filter, "/#"))
	}
	return Exact(filter)
}

// ParseTopics parses each filter, defaulting to all topics when none are
// given.
func ParseTopics(filters []string) []Topic {
	if len(filters) == 0 {
		return []Topic{All()}
	}
	topics := make([]Topic, len(filters))
	for i, f := range filters {
		topics[i] = ParseTopic(f)
	}
	return topics
}
