package router

import (
	"strings"

	"github.com/awfufu/go-statbot/internal/llm"
)

// DefaultSystemAccount is the platform notice account ignored in sharding mode.
const DefaultSystemAccount = "微信团队"

type Config struct {
	BotName        string // mention marker, e.g. "@statbot"
	Prefix         string // AI trigger prefix, empty means every text
	AliasWhitelist map[string]struct{}
	RoomWhitelist  map[string]struct{}
	Service        llm.ServiceKind
	SystemAccount  string
}

// Inbound is the part of a message the access filter looks at.
type Inbound struct {
	Name    string
	Alias   string
	Text    string
	IsText  bool
	HasRoom bool
	Topic   string
	Self    bool // sent by the bot account, as reported by the transport
}

type Eligibility struct {
	SelfEcho bool
	Group    bool
	Direct   bool
}

func (e Eligibility) Eligible() bool {
	return !e.SelfEcho && (e.Group || e.Direct)
}

// Classify decides whether a message may be answered and in which context.
// Non-text messages are never eligible.
func Classify(in Inbound, cfg *Config) Eligibility {
	e := Eligibility{
		SelfEcho: in.Self || cfg.BotName == "@"+in.Alias || cfg.BotName == "@"+in.Name,
	}
	if !in.IsText {
		return e
	}

	if in.HasRoom {
		_, listed := cfg.RoomWhitelist[in.Topic]
		e.Group = listed && strings.Contains(in.Text, cfg.BotName)
	} else {
		_, byAlias := cfg.AliasWhitelist[in.Alias]
		_, byName := cfg.AliasWhitelist[in.Name]
		e.Direct = byAlias || byName
	}
	return e
}

// HasTrigger reports whether text asks for an AI answer.
func HasTrigger(text, prefix string) bool {
	return prefix == "" || strings.HasPrefix(text, prefix)
}

// Question removes the first occurrence of prefix from text.
func Question(text, prefix string) string {
	if prefix == "" {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(strings.Replace(text, prefix, "", 1))
}
