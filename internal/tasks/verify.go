package tasks

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Confirmer is asked to wait until the operator finished authorizing at url.
type Confirmer func(url string) error

// Verify is a proceed/abort gate. Any API failure aborts.
func (c *Client) Verify(ctx context.Context, addr common.Address, confirm Confirmer) (UserInfo, error) {
	user, err := c.UserInfo(ctx, addr)
	if err != nil {
		return UserInfo{}, fmt.Errorf("user info: %w", err)
	}
	c.log.Info().Str("address", addr.Hex()).Int64("points", user.Points).Bool("registered", user.Registered).Msg("tracker user")

	status, err := c.TaskStatus(ctx, addr)
	if err != nil {
		return user, fmt.Errorf("task status: %w", err)
	}
	if _, ok := status.Tasks[SwapTask]; !ok {
		return user, nil
	}

	url, err := c.AuthURL(ctx, addr)
	if err != nil {
		return user, fmt.Errorf("auth url: %w", err)
	}
	if confirm != nil {
		if err := confirm(url); err != nil {
			return user, fmt.Errorf("authorization: %w", err)
		}
	}
	return user, nil
}
