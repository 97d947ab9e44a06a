package pubsub

import "context"

type Publisher interface {
	Publish(context.Context, string, *Pack) error
	Stop(ctx context.Context) error
}

type Pack struct {
	Key []byte
	Msg []byte
}
