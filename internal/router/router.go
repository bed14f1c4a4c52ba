package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// RouteAI marks replies produced by the completion service.
const RouteAI = "ai"

// Outcome describes how one event was handled. Route is the command name,
// RouteAI, or empty when nothing was sent.
type Outcome struct {
	Route string
	Reply string
	Err   error
}

type Router struct {
	cfg    *Config
	cmds   Dispatcher
	ai     Completer
	logger *log.Logger
}

func New(cfg *Config, cmds Dispatcher, ai Completer, logger *log.Logger) *Router {
	return &Router{
		cfg:    cfg,
		cmds:   cmds,
		ai:     ai,
		logger: logger.WithPrefix("router"),
	}
}

// Handle runs one message through filter, dispatch, fallback and emit.
// Failures are logged here and the event is dropped.
func (r *Router) Handle(ctx context.Context, msg Message) Outcome {
	out, err := r.route(ctx, msg)
	if err != nil {
		out.Err = err
		r.logger.Error("drop message", "from", msg.Talker().Name(), "text", preview(msg.Text()), "err", err)
	}
	return out
}

func (r *Router) route(ctx context.Context, msg Message) (Outcome, error) {
	talker := msg.Talker()
	in := Inbound{
		Name:   talker.Name(),
		Alias:  talker.Alias(),
		Text:   msg.Text(),
		IsText: msg.IsText(),
		Self:   msg.Self(),
	}

	room := msg.Room()
	if room != nil {
		topic, err := room.Topic(ctx)
		if err != nil {
			return Outcome{}, fmt.Errorf("room topic: %w", err)
		}
		in.HasRoom, in.Topic = true, topic
	}

	e := Classify(in, r.cfg)
	if !e.Eligible() {
		r.logger.Debug("ignore message", "from", in.Name, "room", in.Topic, "self", e.SelfEcho)
		return Outcome{}, nil
	}

	self := in.Alias
	if self == "" {
		self = in.Name
	}

	if e.Group {
		text := strings.TrimSpace(strings.Replace(in.Text, r.cfg.BotName, "", 1))
		return r.reply(ctx, msg, room, text, self)
	}
	return r.reply(ctx, msg, talker, strings.TrimSpace(in.Text), self)
}

func (r *Router) reply(ctx context.Context, msg Message, to Sender, text, self string) (Outcome, error) {
	name, reply, err := r.cmds.Match(ctx, text, self)
	if err != nil {
		return Outcome{Route: name}, fmt.Errorf("command %s: %w", name, err)
	}
	if reply != "" {
		r.logger.Debug("command matched", "cmd", name, "reply", preview(reply))
		return Outcome{Route: name, Reply: reply}, Emit(ctx, to, reply)
	}

	if !HasTrigger(text, r.cfg.Prefix) {
		return Outcome{}, nil
	}

	question := Question(text, r.cfg.Prefix)
	if msg.Room() != nil {
		mention, err := msg.MentionText(ctx)
		if err != nil {
			return Outcome{Route: RouteAI}, fmt.Errorf("mention text: %w", err)
		}
		if mention != "" {
			question = mention
		}
	}

	answer, err := r.ai.Reply(ctx, question, r.cfg.Service)
	if err != nil {
		return Outcome{Route: RouteAI}, fmt.Errorf("%s reply: %w", r.cfg.Service, err)
	}
	r.logger.Debug("ai answered", "service", r.cfg.Service, "question", preview(question), "reply", preview(answer))
	return Outcome{Route: RouteAI, Reply: answer}, Emit(ctx, to, answer)
}

const previewLen = 60

func preview(text string) string {
	runes := []rune(strings.ReplaceAll(text, "\n", " "))
	if len(runes) <= previewLen {
		return string(runes)
	}
	return string(runes[:previewLen]) + "..."
}
