package stablehorde

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

	log "github.com/sirupsen/logrus"
)

// ErrGenerationTimeout reports that the polling loop exhausted its time
// budget before the job finished. Distinct from upstream errors so the
// caller can tell the user to simply retry.
var ErrGenerationTimeout = errors.New("image generation timed out")

const clientAgent = "ShirokaneBot:1.0"

// positive/negative prompt framing tuned for anime-style output.
const (
	promptPrefix = "masterpiece, best quality, ultra-detailed, anime style, "
	promptSuffix = ", beautiful detailed face, detailed eyes, vibrant colors, " +
		"soft lighting, professional anime artwork, clean lineart, high resolution"
	negativePrompt = "lowres, bad anatomy, bad hands, text, error, missing fingers, " +
		"extra digit, fewer digits, cropped, worst quality, low quality, " +
		"normal quality, jpeg artifacts, signature, watermark, username, " +
		"blurry, bad feet, nsfw, ugly, deformed"
)

// Progress reports the job's queue state during polling.
type Progress struct {
	QueuePosition int
	WaitTime      int
}

// Client drives asynchronous image generation jobs on a Stable Horde
// compatible API: submit, poll on a fixed interval, then download.
type Client struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	pollInterval time.Duration
	timeout      time.Duration
}

// NewClient creates a generation client. timeout bounds the whole
// submit-poll-download sequence.
func NewClient(baseURL, apiKey string, httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		httpClient:   httpClient,
		pollInterval: 5 * time.Second,
		timeout:      timeout,
	}
}

type submitRequest struct {
	Prompt string       `json:"prompt"`
	Params submitParams `json:"params"`
	Models []string     `json:"models"`
	NSFW   bool         `json:"nsfw"`
	Shared bool         `json:"shared"`
	R2     bool         `json:"r2"`
}

type submitParams struct {
	SamplerName string  `json:"sampler_name"`
	Steps       int     `json:"steps"`
	CFGScale    float64 `json:"cfg_scale"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	N           int     `json:"n"`
	Karras      bool    `json:"karras"`
}

type submitResponse struct {
	ID string `json:"id"`
}

type statusResponse struct {
	Done          bool         `json:"done"`
	Faulted       bool         `json:"faulted"`
	QueuePosition int          `json:"queue_position"`
	WaitTime      int          `json:"wait_time"`
	Generations   []generation `json:"generations"`
}

type generation struct {
	Img string `json:"img"`
}

// Generate produces one image for the description and returns the raw
// image bytes. onProgress, when non-nil, is called after each poll that
// does not complete the job.
func (c *Client) Generate(ctx context.Context, description string, onProgress func(Progress)) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	jobID, err := c.submit(ctx, description)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"jobID":  jobID,
		"prompt": description,
	}).Info("Submitted image generation job")

	imageURL, err := c.poll(ctx, jobID, onProgress)
	if err != nil {
		return nil, err
	}

	return c.download(ctx, imageURL)
}

func (c *Client) submit(ctx context.Context, description string) (string, error) {
	payload := submitRequest{
		Prompt: promptPrefix + description + promptSuffix + " ### " + negativePrompt,
		Params: submitParams{
			SamplerName: "k_euler_a",
			Steps:       30,
			CFGScale:    7.5,
			Width:       512,
			Height:      512,
			N:           1,
			Karras:      true,
		},
		Models: []string{"Anything V5"},
		Shared: true,
		R2:     true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate/async", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to submit generation job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return "", fmt.Errorf("generation submit rejected with status %d: %s", resp.StatusCode, text)
	}

	var parsed submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode submit response: %w", err)
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("generation submit returned no job ID")
	}

	return parsed.ID, nil
}

func (c *Client) poll(ctx context.Context, jobID string, onProgress func(Progress)) (string, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ErrGenerationTimeout
		case <-ticker.C:
		}

		status, err := c.status(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return "", ErrGenerationTimeout
			}
			// Transient poll failures are tolerated until the deadline.
			log.WithError(err).WithField("jobID", jobID).Warn("Generation status check failed")
			continue
		}

		if status.Faulted {
			return "", fmt.Errorf("generation job %s faulted upstream", jobID)
		}
		if status.Done {
			if len(status.Generations) == 0 || status.Generations[0].Img == "" {
				return "", fmt.Errorf("generation job %s finished without output", jobID)
			}
			return status.Generations[0].Img, nil
		}

		if onProgress != nil {
			onProgress(Progress{
				QueuePosition: status.QueuePosition,
				WaitTime:      status.WaitTime,
			})
		}
	}
}

func (c *Client) status(ctx context.Context, jobID string) (*statusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/generate/status/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create status request: %w", err)
	}
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status request returned %d", resp.StatusCode)
	}

	var parsed statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	return &parsed, nil
}

func (c *Client) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrGenerationTimeout
		}
		return nil, fmt.Errorf("failed to download generated image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read generated image: %w", err)
	}
	return data, nil
}

func (c *Client) setAuthHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Client-Agent", clientAgent)
}
