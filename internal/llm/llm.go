package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ServiceKind selects which completion supplier answers a question.
type ServiceKind int

const (
	GPT ServiceKind = iota
	Kimi
)

const (
	defaultTimeout     = 60 * time.Second
	defaultTemperature = 0.6
)

var (
	ErrUnknownService = errors.New("unknown service kind")
	ErrNotConfigured  = errors.New("service not configured")
	ErrEmptyAnswer    = errors.New("completion returned no answer")
)

func (k ServiceKind) String() string {
	switch k {
	case GPT:
		return "gpt"
	case Kimi:
		return "kimi"
	}
	return fmt.Sprintf("ServiceKind(%d)", int(k))
}

// ParseServiceKind accepts the names used in config files and SERVICE_TYPE.
func ParseServiceKind(s string) (ServiceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gpt", "openai", "":
		return GPT, nil
	case "kimi", "moonshot":
		return Kimi, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownService, s)
}

// Supplier describes one OpenAI-compatible endpoint.
type Supplier struct {
	BaseURL string
	APIKey  string
	Model   string
	Prompt  string
	Proxy   string
	Timeout time.Duration
}

func defaultSupplier(kind ServiceKind) Supplier {
	switch kind {
	case GPT:
		return Supplier{BaseURL: "https://api.openai.com/v1", Model: "gpt-4o-mini"}
	case Kimi:
		return Supplier{BaseURL: "https://api.moonshot.cn/v1", Model: "moonshot-v1-8k"}
	}
	return Supplier{}
}

type supplierClient struct {
	client  openai.Client
	model   string
	prompt  string
	timeout time.Duration
}

// Client answers questions through the configured suppliers.
type Client struct {
	suppliers map[ServiceKind]*supplierClient
}

func New(suppliers map[ServiceKind]Supplier) (*Client, error) {
	c := &Client{suppliers: make(map[ServiceKind]*supplierClient, len(suppliers))}
	for kind, sup := range suppliers {
		sc, err := newSupplierClient(kind, sup)
		if err != nil {
			return nil, fmt.Errorf("supplier %s: %w", kind, err)
		}
		c.suppliers[kind] = sc
	}
	return c, nil
}

func newSupplierClient(kind ServiceKind, sup Supplier) (*supplierClient, error) {
	def := defaultSupplier(kind)
	if sup.BaseURL == "" {
		sup.BaseURL = def.BaseURL
	}
	if sup.Model == "" {
		sup.Model = def.Model
	}
	if sup.Timeout <= 0 {
		sup.Timeout = defaultTimeout
	}
	if sup.APIKey == "" {
		return nil, fmt.Errorf("api_key is empty")
	}

	opts := []option.RequestOption{
		option.WithBaseURL(sup.BaseURL),
		option.WithAPIKey(sup.APIKey),
		option.WithRequestTimeout(sup.Timeout),
	}
	if sup.Proxy != "" {
		proxyURL, err := url.Parse(sup.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy %q: %w", sup.Proxy, err)
		}
		opts = append(opts, option.WithHTTPClient(&http.Client{
			Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)},
		}))
	}

	return &supplierClient{
		client:  openai.NewClient(opts...),
		model:   sup.Model,
		prompt:  sup.Prompt,
		timeout: sup.Timeout,
	}, nil
}

// Reply sends question to the supplier selected by kind and returns the
// first choice unmodified.
func (c *Client) Reply(ctx context.Context, question string, kind ServiceKind) (string, error) {
	sc, ok := c.suppliers[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotConfigured, kind)
	}

	ctx, cancel := context.WithTimeout(ctx, sc.timeout)
	defer cancel()

	var messages []openai.ChatCompletionMessageParamUnion
	if sc.prompt != "" {
		messages = append(messages, openai.SystemMessage(sc.prompt))
	}
	messages = append(messages, openai.UserMessage(question))

	resp, err := sc.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       sc.model,
		Temperature: openai.Float(defaultTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("%s completion failed: %w", kind, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyAnswer
	}
	return resp.Choices[0].Message.Content, nil
}
