package qbot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const eventBuffer = 64

func NewClient(opts Options, logger *log.Logger) *Client {
	c := &Client{
		opts: opts,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		events:     make(chan *Message, eventBuffer),
		logger:     logger.WithPrefix("qbot"),
		groupNames: make(map[uint64]string),
	}
	c.server = &http.Server{
		Addr:         opts.Listen,
		Handler:      c.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return c
}

// Messages delivers every private and group message pushed by NapCat.
func (c *Client) Messages() <-chan *Message {
	return c.events
}

// Handler receives NapCat reverse HTTP pushes.
func (c *Client) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", c.handleHTTPEvent)
	return mux
}

// Run serves the reverse HTTP endpoint until ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	c.logger.Info("listening", "forward", c.opts.Remote, "reverse", "http://"+c.opts.Listen)

	errCh := make(chan error, 1)
	go func() {
		errCh <- c.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown reverse http: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("reverse http: %w", err)
	}
}

func (c *Client) handleHTTPEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		c.logger.Warn("read event body", "err", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	jsonMap := make(map[string]any)
	if err := json.Unmarshal(body, &jsonMap); err != nil {
		c.logger.Warn("decode event", "err", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if postType, ok := jsonMap["post_type"].(string); ok && postType != "" {
		if msg := c.handleEvents(postType, body, jsonMap); msg != nil {
			select {
			case c.events <- msg:
			case <-r.Context().Done():
				c.logger.Warn("event dropped", "msg_id", msg.MsgID)
			}
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (c *Client) sendRequest(ctx context.Context, req *cqRequest) (*http.Response, error) {
	jsonBytes, err := json.Marshal(req.Params)
	if err != nil {
		return nil, err
	}

	url := strings.TrimSuffix(c.opts.Remote, "/") + "/" + req.Action
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBytes))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.opts.AccessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.opts.AccessToken)
	}

	return c.httpClient.Do(httpReq)
}

func (c *Client) sendWithResponse(ctx context.Context, req *cqRequest) (*cqResponse, error) {
	resp, err := c.sendRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.Action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.Action, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: HTTP error %d: %s", req.Action, resp.StatusCode, string(body))
	}

	var cqResp cqResponse
	if err := json.Unmarshal(body, &cqResp); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", req.Action, err)
	}
	if cqResp.Status == "failed" || cqResp.Retcode != 0 {
		return nil, fmt.Errorf("%s: retcode %d: %s", req.Action, cqResp.Retcode, cqResp.Wording)
	}

	return &cqResp, nil
}
