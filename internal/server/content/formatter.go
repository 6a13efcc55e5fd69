package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophpress/internal/logging"
)

// Formatter renders the HTML fragment stored with a post. Implementations
// must always return a usable fragment: rendering trouble is resolved
// internally with a fallback, never surfaced, so a post can always be
// saved.
type Formatter interface {
	Generate(ctx context.Context, site Site, title, content string, images []string) string
}

// APIFormatter asks an OpenAI-compatible chat-completions endpoint to
// format the post and falls back to a local plain rendering when the call
// fails or no endpoint is configured.
type APIFormatter struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
	logger   logging.Logger
}

func NewAPIFormatter(endpoint, model, apiKey string, timeout time.Duration, logger logging.Logger) *APIFormatter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &APIFormatter{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (f *APIFormatter) Generate(ctx context.Context, site Site, title, content string, images []string) string {
	if f.endpoint == "" {
		return FallbackHTML(content, images)
	}
	fragment, err := f.generate(ctx, site, title, content, images)
	if err != nil {
		f.logger.Warn(ctx, "formatter call failed, using fallback rendering", "site", site.Host, "error", err)
		return FallbackHTML(content, images)
	}
	return fragment
}

func (f *APIFormatter) generate(ctx context.Context, site Site, title, content string, images []string) (string, error) {
	prompt := fmt.Sprintf(
		"Format the following blog post as a clean HTML fragment (no <html> or <body> tags).\nSite: %s\nTitle: %s\nImages to include: %s\n\n%s",
		site.Title, title, strings.Join(images, ", "), content)

	body, err := json.Marshal(chatRequest{
		Model: f.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a blog layout engine. Reply with an HTML fragment only."},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if f.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.apiKey)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("formatter endpoint returned %s; body: %s", resp.Status, string(b))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode formatter response: %w", err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("formatter response has no content")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// FallbackHTML is the deterministic local rendering: escaped paragraphs
// preceded by the post's images.
func FallbackHTML(content string, images []string) string {
	var b strings.Builder
	for _, img := range images {
		fmt.Fprintf(&b, "<img src=\"%s\" alt=\"\">\n", html.EscapeString(img))
	}
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(para))
		b.WriteString("</p>\n")
	}
	return strings.TrimSpace(b.String())
}

var _ Formatter = (*APIFormatter)(nil)
