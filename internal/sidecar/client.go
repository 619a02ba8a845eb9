package sidecar

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"ecosysx/internal/protocol"
)

// Client speaks the wire protocol from the host side over any
// writer/reader pair: the stdin/stdout pipes of a spawned sidecar process,
// or an in-process handler behind io.Pipe in tests. One request is in
// flight at a time.
type Client struct {
	w      io.Writer
	sc     *bufio.Scanner
	nextID uint64
}

func NewClient(w io.Writer, r io.Reader) *Client {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Client{w: w, sc: sc}
}

func (c *Client) roundTrip(req map[string]any) (*protocol.Response, error) {
	c.nextID++
	id := c.nextID
	req["id"] = id

	b, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	b = append(b, '\n')
	if _, err := c.w.Write(b); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	if !c.sc.Scan() {
		if err := c.sc.Err(); err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		return nil, io.ErrUnexpectedEOF
	}
	var resp protocol.Response
	if err := json.Unmarshal(c.sc.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	var gotID uint64
	if len(resp.ID) > 0 {
		if err := json.Unmarshal(resp.ID, &gotID); err == nil && gotID != id {
			return nil, fmt.Errorf("response id %d does not match request id %d", gotID, id)
		}
	}
	if resp.OK != nil && !*resp.OK {
		return nil, fmt.Errorf("engine error: %s", resp.Error)
	}
	return &resp, nil
}

func (c *Client) Init(cfg any, seed int64) error {
	_, err := c.roundTrip(map[string]any{"op": "init", "cfg": cfg, "seed": seed})
	return err
}

func (c *Client) Step(n int) (uint64, error) {
	resp, err := c.roundTrip(map[string]any{"op": "step", "n": n})
	if err != nil {
		return 0, err
	}
	if resp.Tick == nil {
		return 0, fmt.Errorf("step response missing tick")
	}
	return *resp.Tick, nil
}

func (c *Client) Snapshot(kind string) (*protocol.Snapshot, error) {
	req := map[string]any{"op": "snapshot"}
	if kind != "" {
		req["kind"] = kind
	}
	resp, err := c.roundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.Snapshot == nil {
		return nil, fmt.Errorf("snapshot response missing snapshot")
	}
	return resp.Snapshot, nil
}

func (c *Client) Stop() error {
	_, err := c.roundTrip(map[string]any{"op": "stop"})
	return err
}

func (c *Client) Info() (*protocol.ProviderInfo, error) {
	resp, err := c.roundTrip(map[string]any{"op": "info"})
	if err != nil {
		return nil, err
	}
	if resp.Provider == nil {
		return nil, fmt.Errorf("info response missing provider")
	}
	return resp.Provider, nil
}
