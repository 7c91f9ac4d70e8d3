package segment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ironsheep/floorplan-sandbox/internal/imaging"
)

// maxErrorBody bounds how much of a failed response is quoted in errors.
const maxErrorBody = 512

// HTTPClient calls a hosted image-segmentation model.
//
// The page image is sent as the raw request body. The model answers with a
// JSON array:
//
//	[{"label": "kitchen", "score": 0.93, "mask": "<base64 PNG>"}]
//
// Masks may be bare base64 or data URLs.
type HTTPClient struct {
	url    string
	token  string
	client *http.Client
}

// NewHTTPClient returns a client for the model endpoint at url. token, when
// non-empty, is sent as a bearer token.
func NewHTTPClient(url, token string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		url:   url,
		token: token,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type wireSegment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Mask  string  `json:"mask"`
}

// Segment posts image to the model and decodes the returned segments.
//
// Transport failures, non-2xx statuses and undecodable bodies are errors. A
// segment whose mask is not valid base64 keeps an empty Mask, so the caller
// drops just that segment.
func (c *HTTPClient) Segment(ctx context.Context, image []byte) ([]Segment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", http.DetectContentType(image))
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("segmentation failed with status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var wire []wireSegment
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	segments := make([]Segment, 0, len(wire))
	for _, w := range wire {
		mask, _, err := imaging.DecodeDataURL(w.Mask)
		if err != nil {
			mask = nil
		}
		segments = append(segments, Segment{
			Label: w.Label,
			Score: w.Score,
			Mask:  mask,
		})
	}
	return segments, nil
}
