package qbot

import (
	"context"
)

func (c *Client) SendPrivateMsg(ctx context.Context, userID uint64, message string) (uint64, error) {
	if message == "" {
		message = " "
	}
	req := cqRequest{
		Action: "send_private_msg",
		Params: map[string]any{
			"user_id":     userID,
			"message":     message,
			"auto_escape": true,
		},
	}
	resp, err := c.sendWithResponse(ctx, &req)
	if err != nil {
		return 0, err
	}
	c.logger.Debug("send-private", "user", userID, "len", len(message))
	return resp.Data.MessageId, nil
}

func (c *Client) SendGroupMsg(ctx context.Context, groupID uint64, message string) (uint64, error) {
	if message == "" {
		message = " "
	}
	req := cqRequest{
		Action: "send_group_msg",
		Params: map[string]any{
			"group_id":    groupID,
			"message":     message,
			"auto_escape": true,
		},
	}
	resp, err := c.sendWithResponse(ctx, &req)
	if err != nil {
		return 0, err
	}
	c.logger.Debug("send-group", "group", groupID, "len", len(message))
	return resp.Data.MessageId, nil
}

func (c *Client) GetGroupInfo(ctx context.Context, groupID uint64, noCache bool) (*GroupInfo, error) {
	req := cqRequest{
		Action: "get_group_info",
		Params: map[string]any{
			"group_id": groupID,
			"no_cache": noCache,
		},
	}
	resp, err := c.sendWithResponse(ctx, &req)
	if err != nil {
		return nil, err
	}
	return &resp.Data.GroupInfo, nil
}

// GroupName returns the cached group name, asking NapCat on first use.
func (c *Client) GroupName(ctx context.Context, groupID uint64) (string, error) {
	c.mu.Lock()
	name, ok := c.groupNames[groupID]
	c.mu.Unlock()
	if ok {
		return name, nil
	}

	info, err := c.GetGroupInfo(ctx, groupID, false)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.groupNames[groupID] = info.GroupName
	c.mu.Unlock()
	return info.GroupName, nil
}
