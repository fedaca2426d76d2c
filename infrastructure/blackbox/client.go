package blackbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"shirokane/domain/entities"
)

// replyPrefixes are persona prefixes the upstream model sometimes emits
// despite the prompt asking it not to.
var replyPrefixes = []string{"AI:", "Rinko:", "Bot:", "Shirokane Rinko:"}

// persona is prepended to every prompt so the model answers in character.
const persona = "Jawablah sebagai Shirokane Rinko dari BanG Dream! " +
	"Sifatmu pemalu, sopan, lembut, dan sering ragu-ragu saat berbicara. " +
	"Gunakan kata-kata pengisi seperti 'ano...', 'et-to...', atau 'uuh...' di awal kalimat untuk menunjukkan keraguan. " +
	"Gunakan bahasa Indonesia yang sopan dan natural, jangan kaku atau baku seperti robot. " +
	"Kamu suka bermain piano dan game online (Neo Fantasy Online). " +
	"Jangan gunakan awalan 'AI:', 'Rinko:', atau 'Bot:' dalam responmu. " +
	"Jika membahas game, kamu bisa sedikit lebih bersemangat tapi tetap sopan. "

// Client talks to the conversational AI proxy.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a chat client for the given proxy endpoint.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type apiResponse struct {
	Status   bool   `json:"status"`
	Message  string `json:"message"`
	ImageURL string `json:"image,omitempty"`
}

// Ask sends a prompt and maps the proxy's loosely-shaped answer onto a
// tagged reply. History, when non-empty, is prepended so the model sees
// the running conversation.
func (c *Client) Ask(ctx context.Context, query string, history []string) (entities.ChatReply, error) {
	full := query
	if len(history) > 0 {
		full = strings.Join(history, "\n") + "\n" + query + "\nRespond to the latest message."
	}

	endpoint := fmt.Sprintf("%s?text=%s&apikey=%s",
		c.baseURL, url.QueryEscape(persona+full), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return entities.EmptyReply(), fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entities.EmptyReply(), fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return entities.EmptyReply(), fmt.Errorf("failed to read chat response: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return entities.EmptyReply(), fmt.Errorf("failed to decode chat response: %w", err)
	}
	if !parsed.Status {
		return entities.EmptyReply(), fmt.Errorf("chat upstream reported failure")
	}

	text := stripPersonaPrefix(parsed.Message)
	switch {
	case text == "" && parsed.ImageURL == "":
		return entities.EmptyReply(), nil
	case parsed.ImageURL != "":
		return entities.TextAndImageReply(text, parsed.ImageURL), nil
	default:
		return entities.TextReply(text), nil
	}
}

func stripPersonaPrefix(message string) string {
	message = strings.TrimSpace(message)
	for _, prefix := range replyPrefixes {
		if strings.HasPrefix(message, prefix) {
			return strings.TrimSpace(message[len(prefix):])
		}
		lower := strings.ToLower(prefix)
		if strings.HasPrefix(message, lower) {
			return strings.TrimSpace(message[len(lower):])
		}
	}
	return message
}
