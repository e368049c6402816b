// Package mqtt defines the topic layout shared by the publisher and its consumers.
package mqtt

import (
	"fmt"
	"strings"
)

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "roadcast"

// Topics builds the topic names used by the publisher.
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	p := strings.Trim(t.Prefix, "/")
	if p == "" {
		return DefaultTopicPrefix
	}
	return p
}

// Prediction is the topic of finished prediction jobs for a road.
func (t Topics) Prediction(roadID int) string {
	return fmt.Sprintf("%s/roads/%d/predictions", t.prefix(), roadID)
}

// Status is the retained online/offline topic of the service.
func (t Topics) Status() string {
	return t.prefix() + "/status"
}
