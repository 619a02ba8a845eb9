// Package advisor is the boundary to the external language-model decision
// service. The simulation core never depends on it; the sidecar may wrap
// the client in a movement policy, and every failure path falls back to the
// engine's default heuristic behavior.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// BatchLimit is the maximum number of agents accepted per /batch call.
const BatchLimit = 10

type Client struct {
	base string
	hc   *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		base: baseURL,
		hc:   &http.Client{Timeout: timeout},
	}
}

// Health mirrors GET /health.
type Health struct {
	Status      string `json:"status"`
	Model       string `json:"model"`
	ModelLoaded bool   `json:"model_loaded"`
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/health", nil)
	if err != nil {
		return nil, err
	}
	var h Health
	if err := c.do(req, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// AgentContext is the per-agent situation sent for reasoning.
type AgentContext struct {
	ID           uint64  `json:"id"`
	Energy       float64 `json:"energy"`
	Status       string  `json:"status"`
	AgeTicks     uint64  `json:"age_ticks"`
	ResourceHere float64 `json:"resource_here"`
	NearbyAgents int     `json:"nearby_agents"`
}

// Decision is the structured action choice returned by the service.
type Decision struct {
	Action     string  `json:"action"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
}

type GenerateResult struct {
	Decision     Decision `json:"decision"`
	RawResponse  string   `json:"raw_response"`
	ResponseTime float64  `json:"response_time"`
}

// Generate mirrors POST /generate for a single agent.
func (c *Client) Generate(ctx context.Context, agent AgentContext) (*GenerateResult, error) {
	req, err := c.postJSON(ctx, "/generate", agent)
	if err != nil {
		return nil, err
	}
	var res GenerateResult
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GenerateBatch mirrors POST /batch for up to BatchLimit agents.
func (c *Client) GenerateBatch(ctx context.Context, agents []AgentContext) ([]GenerateResult, error) {
	if len(agents) > BatchLimit {
		return nil, fmt.Errorf("batch size %d exceeds limit %d", len(agents), BatchLimit)
	}
	req, err := c.postJSON(ctx, "/batch", map[string]any{"agents": agents})
	if err != nil {
		return nil, err
	}
	var res struct {
		Results []GenerateResult `json:"results"`
	}
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return res.Results, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Request, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("decision service: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
