// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chaind/chaind/rpcserver"
	"github.com/chaind/chaind/wire"
	"github.com/gorilla/websocket"
)

// client talks to the HTTP interface of a chaind server.
type client struct {
	baseURL *url.URL
	http    *http.Client
}

// newClient returns a client for the server at baseURL.  A zero timeout
// disables request timeouts.
func newClient(baseURL *url.URL, timeout time.Duration) *client {
	return &client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// do sends a request and decodes the JSON response into result.  Any status
// other than expected is turned into an error carrying the server message.
func (c *client) do(ctx context.Context, method, path string, body io.Reader,
	expected int, result interface{}) (*http.Response, error) {

	req, err := http.NewRequestWithContext(ctx, method,
		c.baseURL.String()+path, body)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != expected {
		var errResult rpcserver.ErrorResult
		if json.Unmarshal(raw, &errResult) == nil && errResult.Error != "" {
			return nil, fmt.Errorf("%s: %s", resp.Status, errResult.Error)
		}
		return nil, fmt.Errorf("%s: %s", resp.Status,
			strings.TrimSpace(string(raw)))
	}

	if result != nil {
		if err := json.Unmarshal(raw, result); err != nil {
			return nil, fmt.Errorf("malformed response: %w", err)
		}
	}
	return resp, nil
}

// Status returns the status of the node.
func (c *client) Status(ctx context.Context) (*rpcserver.StatusResult, error) {
	var status rpcserver.StatusResult
	_, err := c.do(ctx, http.MethodGet, "/", nil, http.StatusOK, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// Mine requests a new block and waits until it is mined.
func (c *client) Mine(ctx context.Context) (*wire.Block, error) {
	var block wire.Block
	_, err := c.do(ctx, http.MethodGet, "/mine", nil, http.StatusCreated, &block)
	if err != nil {
		return nil, err
	}
	return &block, nil
}

// Queue adds a transaction carrying payload and returns it along with its
// location.
func (c *client) Queue(ctx context.Context, payload string) (*wire.Transaction, string, error) {
	var tx wire.Transaction
	resp, err := c.do(ctx, http.MethodPost, "/transactions",
		strings.NewReader(payload), http.StatusCreated, &tx)
	if err != nil {
		return nil, "", err
	}
	return &tx, resp.Header.Get("Location"), nil
}

// Pending returns the transactions waiting to be mined.
func (c *client) Pending(ctx context.Context) (*rpcserver.PendingResult, error) {
	var pending rpcserver.PendingResult
	_, err := c.do(ctx, http.MethodGet, "/transactions", nil, http.StatusOK,
		&pending)
	if err != nil {
		return nil, err
	}
	return &pending, nil
}

// Blocks returns the whole chain.
func (c *client) Blocks(ctx context.Context) (*rpcserver.BlocksResult, error) {
	var blocks rpcserver.BlocksResult
	_, err := c.do(ctx, http.MethodGet, "/blocks", nil, http.StatusOK, &blocks)
	if err != nil {
		return nil, err
	}
	return &blocks, nil
}

// Block returns the block with the passed index.
func (c *client) Block(ctx context.Context, index int64) (*wire.Block, error) {
	var block wire.Block
	path := "/blocks/" + strconv.FormatInt(index, 10)
	_, err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &block)
	if err != nil {
		return nil, err
	}
	return &block, nil
}

// event is a message of the server's event stream with the data left
// undecoded.
type event struct {
	Event string          `json:"event"`
	ID    int64           `json:"id"`
	Data  json.RawMessage `json:"data"`
}

// Watch streams chain events to handler until ctx is done, the server closes
// the stream, or handler returns an error.
func (c *client) Watch(ctx context.Context, handler func(*event) error) error {
	wsURL := *c.baseURL
	wsURL.Scheme = "ws"
	if c.baseURL.Scheme == "https" {
		wsURL.Scheme = "wss"
	}
	wsURL.Path += "/events"

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL.String(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Unblock the read below once the context is done.
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	for {
		var e event
		if err := conn.ReadJSON(&e); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure,
				websocket.CloseGoingAway) {

				return nil
			}
			return err
		}
		if err := handler(&e); err != nil {
			return err
		}
	}
}
