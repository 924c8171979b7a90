// Package client attaches language servers over stdio and exposes them as
// code-action providers.
package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"remedy/internal/jsonrpc"
)

// ErrConnClosed is returned for calls issued after the server went away.
var ErrConnClosed = errors.New("client: connection closed")

// NotifyHandler receives server notifications (publishDiagnostics and the
// like).
type NotifyHandler func(method string, params json.RawMessage)

// RequestHandler answers server-to-client requests such as
// workspace/applyEdit. Returning an error sends a JSON-RPC error reply.
type RequestHandler func(method string, params json.RawMessage) (any, error)

// Conn is one stdio JSON-RPC connection to a language server subprocess.
type Conn struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	reader *bufio.Reader

	sendMu sync.Mutex

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan *jsonrpc.Message
	closed  bool

	onNotify  NotifyHandler
	onRequest RequestHandler

	done chan struct{}
}

// Dial starts command and begins dispatching its replies. The server's
// stderr is passed through to ours; servers log startup noise there.
func Dial(command string, args []string, onNotify NotifyHandler, onRequest RequestHandler) (*Conn, error) {
	cmd := exec.Command(command, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("client: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("client: stdout pipe: %w", err)
	}
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("client: start %s: %w", command, err)
	}
	c := &Conn{
		cmd:       cmd,
		stdin:     stdin,
		reader:    bufio.NewReader(stdout),
		pending:   make(map[int64]chan *jsonrpc.Message),
		onNotify:  onNotify,
		onRequest: onRequest,
		done:      make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Call issues a request and blocks until the reply, ctx, or connection loss.
// A non-nil result receives the unmarshalled reply payload.
func (c *Conn) Call(ctx context.Context, method string, params, result any) error {
	payload, id, err := c.encodeRequest(method, params)
	if err != nil {
		return err
	}

	ch := make(chan *jsonrpc.Message, 1)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrConnClosed
	}
	c.pending[id] = ch
	c.mu.Unlock()

	if err := c.send(payload); err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return err
	}

	select {
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return ctx.Err()
	case <-c.done:
		return ErrConnClosed
	case msg := <-ch:
		if msg.Error != nil {
			return msg.Error
		}
		if result != nil && len(msg.Result) > 0 && string(msg.Result) != "null" {
			if err := json.Unmarshal(msg.Result, result); err != nil {
				return fmt.Errorf("client: decode %s reply: %w", method, err)
			}
		}
		return nil
	}
}

// Notify sends a notification; no reply is expected.
func (c *Conn) Notify(method string, params any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
	}
	if params != nil {
		msg["params"] = params
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.send(payload)
}

// Close tears the connection down and reaps the subprocess.
func (c *Conn) Close() error {
	c.mu.Lock()
	alreadyClosed := c.closed
	c.closed = true
	c.mu.Unlock()
	if alreadyClosed {
		return nil
	}
	_ = c.stdin.Close()
	if c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
	}
	return c.cmd.Wait()
}

func (c *Conn) encodeRequest(method string, params any) ([]byte, int64, error) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.mu.Unlock()

	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
	}
	if params != nil {
		msg["params"] = params
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, 0, err
	}
	return payload, id, nil
}

func (c *Conn) send(payload []byte) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return jsonrpc.WriteMessage(c.stdin, payload)
}

func (c *Conn) readLoop() {
	defer func() {
		c.mu.Lock()
		c.closed = true
		c.pending = make(map[int64]chan *jsonrpc.Message)
		c.mu.Unlock()
		// In-flight Calls unblock via done.
		close(c.done)
	}()
	for {
		payload, err := jsonrpc.ReadMessage(c.reader)
		if err != nil {
			return
		}
		var msg jsonrpc.Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}
		switch {
		case msg.Method == "" && len(msg.ID) > 0:
			c.dispatchResponse(&msg)
		case msg.Method != "" && len(msg.ID) == 0:
			if c.onNotify != nil {
				c.onNotify(msg.Method, msg.Params)
			}
		case msg.Method != "" && len(msg.ID) > 0:
			c.handleServerRequest(&msg)
		}
	}
}

func (c *Conn) dispatchResponse(msg *jsonrpc.Message) {
	id, err := strconv.ParseInt(string(msg.ID), 10, 64)
	if err != nil {
		return
	}
	c.mu.Lock()
	ch, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	c.mu.Unlock()
	if ok {
		ch <- msg
	}
}

func (c *Conn) handleServerRequest(msg *jsonrpc.Message) {
	reply := map[string]any{
		"jsonrpc": "2.0",
		"id":      json.RawMessage(msg.ID),
	}
	if c.onRequest == nil {
		reply["error"] = jsonrpc.Error{Code: -32601, Message: "method not found"}
	} else if result, err := c.onRequest(msg.Method, msg.Params); err != nil {
		reply["error"] = jsonrpc.Error{Code: -32603, Message: err.Error()}
	} else {
		reply["result"] = result
	}
	payload, err := json.Marshal(reply)
	if err != nil {
		return
	}
	_ = c.send(payload)
}
