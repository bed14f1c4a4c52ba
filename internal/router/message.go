package router

import (
	"context"

	"github.com/awfufu/go-statbot/internal/llm"
)

// Sender is anything a reply can be delivered to.
type Sender interface {
	Send(ctx context.Context, text string) error
}

type Room interface {
	Sender
	Topic(ctx context.Context) (string, error)
}

type Contact interface {
	Sender
	Name() string
	Alias() string
}

// Message is one inbound chat event as seen by the router.
type Message interface {
	Talker() Contact
	To() string
	Text() string
	IsText() bool
	// Room returns nil for direct messages.
	Room() Room
	// MentionText returns the text with mention segments removed, or "" when
	// the transport cannot tell.
	MentionText(ctx context.Context) (string, error)
	// Self reports whether the bot account sent the message.
	Self() bool
}

type Completer interface {
	Reply(ctx context.Context, question string, kind llm.ServiceKind) (string, error)
}

// Dispatcher matches text against the keyword command table. An empty reply
// means no command answered.
type Dispatcher interface {
	Match(ctx context.Context, text, self string) (name, reply string, err error)
}

// Handler is implemented by Router and Sharding.
type Handler interface {
	Handle(ctx context.Context, msg Message) Outcome
}

var (
	_ Handler = (*Router)(nil)
	_ Handler = (*Sharding)(nil)
)
