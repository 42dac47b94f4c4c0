// Package tasks talks to the off-chain airdrop tracker that gates a run.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
)

// SwapTask is the task flag that requires out-of-band authorization.
const SwapTask = "swap"

type UserInfo struct {
	Address    string `json:"address"`
	Points     int64  `json:"points"`
	Registered bool   `json:"registered"`
}

type TaskStatus struct {
	Tasks map[string]bool `json:"tasks"`
}

type authResp struct {
	URL string `json:"url"`
}

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

func (c *Client) UserInfo(ctx context.Context, addr common.Address) (UserInfo, error) {
	var out UserInfo
	err := c.get(ctx, "/user/"+addr.Hex(), &out)
	return out, err
}

func (c *Client) TaskStatus(ctx context.Context, addr common.Address) (TaskStatus, error) {
	var out TaskStatus
	err := c.get(ctx, "/tasks/"+addr.Hex(), &out)
	return out, err
}

func (c *Client) AuthURL(ctx context.Context, addr common.Address) (string, error) {
	var out authResp
	if err := c.get(ctx, "/auth/"+addr.Hex(), &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.URL) == "" {
		return "", errors.New("tasks: empty authorization url")
	}
	return out.URL, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("tasks: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("tasks: GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("tasks: GET %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("tasks: decode %s: %w", path, err)
	}
	c.log.Debug().Str("path", path).Msg("tasks api ok")
	return nil
}
