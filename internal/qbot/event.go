package qbot

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// parseContent flattens the segments into plain text. At-segments naming
// the bot become BotName so the mention marker survives.
func (c *Client) parseContent(items []MsgItem, selfID uint64) string {
	var sb strings.Builder
	self := strconv.FormatUint(selfID, 10)
	for _, item := range items {
		switch item.Type {
		case Text:
			sb.WriteString(item.Content)
		case At:
			if item.Content == self && c.opts.BotName != "" {
				sb.WriteString(c.opts.BotName)
			} else {
				sb.WriteString("@" + item.Content)
			}
		case Face:
			sb.WriteString("[CQ:face,id=" + item.Content + "]")
		case Image:
			sb.WriteString("[图片]")
		case Record:
			sb.WriteString("[语音]")
		case File:
			sb.WriteString("[文件]")
		case Forward:
			sb.WriteString("[合并转发]")
		case Json:
			sb.WriteString("[卡片消息]")
		}
	}
	return sb.String()
}

// idString reads an id that NapCat sends either as a string or a number.
func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	}
	return ""
}

func (c *Client) parseMsgJson(raw *messageJson) *Message {
	if raw == nil {
		return nil
	}
	userID := raw.Sender.UserID
	if userID == 0 {
		userID = raw.UserID
	}
	selfID := c.opts.SelfID
	if selfID == 0 {
		selfID = raw.SelfID
	}
	result := Message{
		GroupID:   raw.GroupID,
		GroupName: raw.GroupName,
		UserID:    userID,
		SelfID:    selfID,
		Nickname:  raw.Sender.Nickname,
		Card:      raw.Sender.Card,
		Role:      raw.Sender.Role,
		Time:      raw.Time,
		MsgID:     raw.MessageID,
		Raw:       raw.RawMessage,
	}
	for _, msg := range raw.Message {
		var jsonData map[string]any
		if err := json.Unmarshal(msg.Data, &jsonData); err != nil {
			c.logger.Warn("decode segment", "type", msg.Type, "err", err)
			continue
		}
		switch msg.Type {
		case "text":
			if text, ok := jsonData["text"].(string); ok {
				result.Array = append(result.Array, MsgItem{Type: Text, Content: text})
			}
		case "at":
			if qq := idString(jsonData["qq"]); qq != "" {
				result.Array = append(result.Array, MsgItem{Type: At, Content: qq})
			}
		case "face":
			if id := idString(jsonData["id"]); id != "" {
				result.Array = append(result.Array, MsgItem{Type: Face, Content: id})
			}
		case "image":
			url, _ := jsonData["url"].(string)
			result.Array = append(result.Array, MsgItem{Type: Image, Content: url})
		case "record":
			path, _ := jsonData["path"].(string)
			result.Array = append(result.Array, MsgItem{Type: Record, Content: path})
		case "reply":
			if id := idString(jsonData["id"]); id != "" {
				result.Array = append(result.Array, MsgItem{Type: Reply, Content: id})
			}
		case "file":
			result.Array = append(result.Array, MsgItem{Type: File, Content: string(msg.Data)})
		case "forward":
			result.Array = append(result.Array, MsgItem{Type: Forward, Content: string(msg.Data)})
		case "json":
			result.Array = append(result.Array, MsgItem{Type: Json, Content: string(msg.Data)})
		default:
			result.Array = append(result.Array, MsgItem{Type: Other, Content: string(msg.Data)})
		}
	}
	result.Content = c.parseContent(result.Array, selfID)
	return &result
}

func (c *Client) handleEvents(postType string, body []byte, jsonMap map[string]any) *Message {
	switch postType {
	case "meta_event":
		// heartbeat, lifecycle
	case "message":
		switch jsonMap["message_type"] {
		case "private", "group":
			msgJson := &messageJson{}
			if err := json.Unmarshal(body, msgJson); err != nil {
				c.logger.Warn("decode message event", "err", err)
				return nil
			}
			msg := c.parseMsgJson(msgJson)
			if msg != nil && msg.GroupID != 0 && msg.GroupName != "" {
				c.mu.Lock()
				c.groupNames[msg.GroupID] = msg.GroupName
				c.mu.Unlock()
			}
			return msg
		}
	}
	return nil
}

// IsText reports whether the message is plain chat text. Mentions, replies
// and inline faces still count as text.
func (m *Message) IsText() bool {
	hasText := false
	for _, item := range m.Array {
		switch item.Type {
		case Text:
			hasText = true
		case At, Reply, Face:
		default:
			return false
		}
	}
	return hasText
}

// MentionText joins the text segments only, dropping every mention.
func (m *Message) MentionText() string {
	var sb strings.Builder
	for _, item := range m.Array {
		if item.Type == Text {
			sb.WriteString(item.Content)
		}
	}
	return strings.TrimSpace(sb.String())
}
