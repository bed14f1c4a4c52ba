package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// EchoDelimiter separates quoted history from the new question in
// forwarded group messages.
const EchoDelimiter = "- - - - - - - - - - - - - - -"

const shardingSeparator = "\n ---------------- \n "

// Sharding hands every eligible message to the completion service without
// keyword matching.
type Sharding struct {
	cfg    *Config
	ai     Completer
	logger *log.Logger
}

func NewSharding(cfg *Config, ai Completer, logger *log.Logger) *Sharding {
	return &Sharding{
		cfg:    cfg,
		ai:     ai,
		logger: logger.WithPrefix("sharding"),
	}
}

func (s *Sharding) Handle(ctx context.Context, msg Message) Outcome {
	out, err := s.route(ctx, msg)
	if err != nil {
		out.Err = err
		s.logger.Error("drop message", "from", msg.Talker().Name(), "text", preview(msg.Text()), "err", err)
	}
	return out
}

func (s *Sharding) route(ctx context.Context, msg Message) (Outcome, error) {
	talker := msg.Talker()
	if msg.Self() || !msg.IsText() || talker.Name() == s.cfg.SystemAccount {
		return Outcome{}, nil
	}

	text := msg.Text()
	room := msg.Room()
	if room == nil {
		s.logger.Debug("direct delegation", "from", talker.Name())
		answer, err := s.ai.Reply(ctx, text, s.cfg.Service)
		if err != nil {
			return Outcome{Route: RouteAI}, fmt.Errorf("%s reply: %w", s.cfg.Service, err)
		}
		return Outcome{Route: RouteAI, Reply: answer}, Emit(ctx, talker, answer)
	}

	if !strings.Contains(text, s.cfg.BotName) {
		return Outcome{}, nil
	}
	cleaned := StripEcho(strings.Replace(text, s.cfg.BotName, "", 1))
	answer, err := s.ai.Reply(ctx, cleaned, s.cfg.Service)
	if err != nil {
		return Outcome{Route: RouteAI}, fmt.Errorf("%s reply: %w", s.cfg.Service, err)
	}
	reply := cleaned + shardingSeparator + answer
	return Outcome{Route: RouteAI, Reply: reply}, Emit(ctx, room, reply)
}

// StripEcho keeps only the text after the last EchoDelimiter.
func StripEcho(text string) string {
	if i := strings.LastIndex(text, EchoDelimiter); i >= 0 {
		return text[i+len(EchoDelimiter):]
	}
	return text
}
