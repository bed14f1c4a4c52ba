package qbot

import (
	"context"
	"strconv"

	"github.com/awfufu/go-statbot/internal/router"
)

// Event exposes a Message to the router.
type Event struct {
	c   *Client
	msg *Message
}

var _ router.Message = (*Event)(nil)

func (c *Client) Event(msg *Message) *Event {
	return &Event{c: c, msg: msg}
}

func (e *Event) Talker() router.Contact {
	return &contact{c: e.c, userID: e.msg.UserID, name: e.msg.Nickname, alias: e.msg.Card}
}

func (e *Event) To() string   { return strconv.FormatUint(e.msg.SelfID, 10) }
func (e *Event) Text() string { return e.msg.Content }
func (e *Event) IsText() bool { return e.msg.IsText() }
func (e *Event) Self() bool   { return e.msg.SelfID != 0 && e.msg.UserID == e.msg.SelfID }

func (e *Event) Room() router.Room {
	if e.msg.GroupID == 0 {
		return nil
	}
	return &room{c: e.c, groupID: e.msg.GroupID}
}

func (e *Event) MentionText(ctx context.Context) (string, error) {
	return e.msg.MentionText(), nil
}

type contact struct {
	c      *Client
	userID uint64
	name   string
	alias  string
}

func (u *contact) Name() string  { return u.name }
func (u *contact) Alias() string { return u.alias }

func (u *contact) Send(ctx context.Context, text string) error {
	_, err := u.c.SendPrivateMsg(ctx, u.userID, text)
	return err
}

type room struct {
	c       *Client
	groupID uint64
}

func (r *room) Topic(ctx context.Context) (string, error) {
	return r.c.GroupName(ctx, r.groupID)
}

func (r *room) Send(ctx context.Context, text string) error {
	_, err := r.c.SendGroupMsg(ctx, r.groupID, text)
	return err
}
