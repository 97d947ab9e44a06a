package domain

import (
	"context"
	"encoding/json"

	"github.com/openfeed-lab/backend/pkg/pubsub"
	"github.com/openfeed-lab/backend/pkg/xcontext"
)

const notificationTopic = "notifications"

type notificationEvent struct {
	Type      string `json:"type"`
	ActorID   string `json:"actor_id"`
	UserID    string `json:"user_id,omitempty"`
	PostID    string `json:"post_id,omitempty"`
	CommentID int64  `json:"comment_id,omitempty"`
	Active    bool   `json:"active"`
}

// publishNotification is fire-and-forget. A broken broker must never fail the
// request that triggered the event.
func publishNotification(ctx context.Context, publisher pubsub.Publisher, ev notificationEvent) {
	if publisher == nil {
		return
	}

	b, err := json.Marshal(ev)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot marshal %s event: %v", ev.Type, err)
		return
	}

	pack := &pubsub.Pack{Key: []byte(ev.ActorID), Msg: b}
	if err := publisher.Publish(ctx, notificationTopic, pack); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish %s event: %v", ev.Type, err)
	}
}
