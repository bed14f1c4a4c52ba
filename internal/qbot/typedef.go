package qbot

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
)

type Options struct {
	Remote      string // NapCat forward HTTP address, e.g. http://127.0.0.1:3000
	Listen      string // reverse HTTP listen address for pushed events
	AccessToken string
	BotName     string // rendered in place of at-segments that target the bot
	SelfID      uint64 // bot account; taken from events when zero
}

type Client struct {
	opts       Options
	httpClient *http.Client
	server     *http.Server
	events     chan *Message
	logger     *log.Logger

	mu         sync.Mutex
	groupNames map[uint64]string
}

type MsgType int

const (
	Text    MsgType = 0
	At      MsgType = 1
	Face    MsgType = 2
	Image   MsgType = 3
	Record  MsgType = 4
	Reply   MsgType = 5
	File    MsgType = 6
	Forward MsgType = 7
	Json    MsgType = 8

	Other MsgType = -1
)

type MsgItem struct {
	Type    MsgType
	Content string
}

type Message struct {
	GroupID   uint64
	GroupName string
	UserID    uint64
	SelfID    uint64
	Nickname  string
	Card      string
	Role      string
	Time      uint64
	MsgID     uint64
	Raw       string
	Content   string
	Array     []MsgItem
}

type messageJson struct {
	MessageType string `json:"message_type"`
	SelfID      uint64 `json:"self_id"`
	UserID      uint64 `json:"user_id"`
	GroupID     uint64 `json:"group_id"`
	GroupName   string `json:"group_name"`
	Time        uint64 `json:"time"`
	MessageID   uint64 `json:"message_id"`
	Sender      struct {
		UserID   uint64 `json:"user_id"`
		Nickname string `json:"nickname"`
		Card     string `json:"card"`
		Role     string `json:"role"`
	} `json:"sender"`
	RawMessage string `json:"raw_message"`
	Message    []struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	} `json:"message"`
}

type cqRequest struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
}

type GroupInfo struct {
	GroupID        uint64 `json:"group_id"`
	GroupName      string `json:"group_name"`
	MemberCount    int32  `json:"member_count"`
	MaxMemberCount int32  `json:"max_member_count"`
}

type cqResponse struct {
	Status  string `json:"status"`
	Retcode int    `json:"retcode"`
	Data    struct {
		MessageId uint64 `json:"message_id"`
		GroupInfo
	} `json:"data"`
	Message string `json:"message"`
	Wording string `json:"wording"`
}
