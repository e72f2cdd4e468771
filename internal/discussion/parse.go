package discussion

import (
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"
)

var ErrUnknown = errors.New("unknown error")

// Course topics are listed courseware first, then the rest.
var courseTopicGroups = []string{"courseware_topics", "non_courseware_topics"}

// ParseTopic builds a Topic from a decoded JSON object. It reports false when
// the node has no string name.
func ParseTopic(node map[string]any) (Topic, bool) {
	name, ok := node["name"].(string)
	if !ok {
		return Topic{}, false
	}

	topic := Topic{ID: optionalString(node["id"]), Name: name}
	children, _ := node["children"].([]any)
	if len(children) > 0 {
		topic.Children = make([]Topic, 0, len(children))
	}
	for _, c := range children {
		child, ok := c.(map[string]any)
		if !ok {
			continue
		}
		childName, ok := child["name"].(string)
		if !ok {
			continue
		}
		topic.Children = append(topic.Children, Topic{ID: optionalString(child["id"]), Name: childName})
	}
	return topic, true
}

func optionalString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

func parseCourseTopics(data []byte) ([]Topic, error) {
	body := map[string]any{}
	if err := json.Unmarshal(data, &body); err != nil {
		logrus.WithError(err).Error("Failed to unmarshal course topics")
		return nil, ErrUnknown
	}

	topics := make([]Topic, 0)
	for _, group := range courseTopicGroups {
		nodes, _ := body[group].([]any)
		for _, n := range nodes {
			node, ok := n.(map[string]any)
			if !ok {
				continue
			}
			if topic, ok := ParseTopic(node); ok {
				topics = append(topics, topic)
			}
		}
	}
	return topics, nil
}

// ParseThread decodes a single thread record. A record without an id does not
// parse.
func ParseThread(data []byte) (*Thread, bool) {
	var thread Thread
	if err := json.Unmarshal(data, &thread); err != nil {
		logrus.WithError(err).Debug("thread record skipped")
		return nil, false
	}
	if thread.ID == "" {
		return nil, false
	}
	return &thread, true
}

// ParseComment decodes a single comment record along with its children.
// Children that do not parse are dropped.
func ParseComment(data []byte) (*Comment, bool) {
	var payload commentPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		logrus.WithError(err).Debug("comment record skipped")
		return nil, false
	}
	if payload.ID == "" {
		return nil, false
	}

	comment := payload.Comment
	for _, raw := range payload.Children {
		if child, ok := ParseComment(raw); ok {
			comment.Children = append(comment.Children, *child)
		}
	}
	return &comment, true
}

// parseResults returns the records of a list page. Valid JSON without a
// results array is an empty page.
func parseResults(data []byte) ([]json.RawMessage, error) {
	if !json.Valid(data) {
		logrus.Error("Failed to unmarshal results page")
		return nil, ErrUnknown
	}

	var page map[string]json.RawMessage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, nil
	}
	var results []json.RawMessage
	if err := json.Unmarshal(page["results"], &results); err != nil {
		return nil, nil
	}
	return results, nil
}

func parseThreads(data []byte) ([]Thread, error) {
	results, err := parseResults(data)
	if err != nil {
		return nil, err
	}
	threads := make([]Thread, 0, len(results))
	for _, raw := range results {
		if thread, ok := ParseThread(raw); ok {
			threads = append(threads, *thread)
		}
	}
	return threads, nil
}

func parseComments(data []byte) ([]Comment, error) {
	results, err := parseResults(data)
	if err != nil {
		return nil, err
	}
	comments := make([]Comment, 0, len(results))
	for _, raw := range results {
		if comment, ok := ParseComment(raw); ok {
			comments = append(comments, *comment)
		}
	}
	return comments, nil
}

func parseSingleThread(data []byte) (*Thread, error) {
	thread, ok := ParseThread(data)
	if !ok {
		return nil, ErrUnknown
	}
	return thread, nil
}

func parseSingleComment(data []byte) (*Comment, error) {
	comment, ok := ParseComment(data)
	if !ok {
		return nil, ErrUnknown
	}
	return comment, nil
}
