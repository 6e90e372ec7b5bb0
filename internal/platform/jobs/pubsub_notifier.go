package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/pubsub"

	"github.com/localed/api/internal/services"
)

// PubSubContactNotifier publishes contact submission notifications to a Pub/Sub topic.
type PubSubContactNotifier struct {
	topic   *pubsub.Topic
	marshal func(any) ([]byte, error)
}

// NewPubSubContactNotifier constructs a Pub/Sub backed contact notifier.
func NewPubSubContactNotifier(topic *pubsub.Topic) (*PubSubContactNotifier, error) {
	if topic == nil {
		return nil, errors.New("pubsub contact notifier: topic is required")
	}
	return &PubSubContactNotifier{
		topic:   topic,
		marshal: json.Marshal,
	}, nil
}

// PublishContactNotification enqueues a notification message on the configured topic.
func (p *PubSubContactNotifier) PublishContactNotification(ctx context.Context, message services.ContactNotificationMessage) (string, error) {
	if p == nil || p.topic == nil {
		return "", errors.New("pubsub contact notifier: not initialised")
	}

	data, err := p.marshal(message)
	if err != nil {
		return "", fmt.Errorf("marshal contact notification: %w", err)
	}

	attrs := make(map[string]string)
	setAttr(attrs, "submissionId", message.SubmissionID)
	setAttr(attrs, "siteSlug", message.SiteSlug)

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: attrs,
	})

	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish contact notification: %w", err)
	}
	return id, nil
}

func setAttr(attrs map[string]string, key string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		attrs[key] = v
	}
}

var _ services.ContactNotifier = (*PubSubContactNotifier)(nil)
