package client

import (
	"context"
	"fmt"
	"time"

	"remedy/internal/protocol"
)

// caller abstracts the wire so tests can stand in for a subprocess.
type caller interface {
	Call(ctx context.Context, method string, params, result any) error
	Notify(method string, params any) error
	Close() error
}

// Client is one attached language server, implementing the code-action
// engine's Provider surface.
type Client struct {
	id       string
	name     string
	conn     caller
	caps     protocol.ServerCapabilities
	encoding protocol.PositionEncoding
}

// New wraps an established connection. encoding is the configured fallback;
// the server's initialize reply overrides it.
func New(id, name string, conn caller, encoding protocol.PositionEncoding) *Client {
	if encoding == "" {
		encoding = protocol.EncodingUTF16
	}
	return &Client{id: id, name: name, conn: conn, encoding: encoding}
}

func (c *Client) ID() string   { return c.id }
func (c *Client) Name() string { return c.name }

func (c *Client) OffsetEncoding() protocol.PositionEncoding { return c.encoding }

// Capabilities returns what the server advertised at initialize time.
func (c *Client) Capabilities() protocol.ServerCapabilities { return c.caps }

// Supports answers the capability predicate for the methods the engine
// issues. Anything not probed here is reported unsupported.
func (c *Client) Supports(method string) bool {
	switch method {
	case protocol.MethodCodeAction:
		return c.caps.SupportsCodeAction()
	case protocol.MethodCodeActionResolve:
		return c.caps.SupportsResolve()
	case protocol.MethodExecuteCommand:
		return c.caps.SupportsExecuteCommand()
	default:
		return false
	}
}

// Call forwards a request on the underlying connection.
func (c *Client) Call(ctx context.Context, method string, params, result any) error {
	return c.conn.Call(ctx, method, params, result)
}

// Notify forwards a notification.
func (c *Client) Notify(method string, params any) error {
	return c.conn.Notify(method, params)
}

// Initialize runs the initialize/initialized handshake and records the
// server's capabilities and position encoding.
func (c *Client) Initialize(ctx context.Context, rootURI string) error {
	params := protocol.InitializeParams{
		RootURI: rootURI,
		Capabilities: protocol.ClientCapabilities{
			TextDocument: protocol.TextDocumentClientCapabilities{
				CodeAction: protocol.CodeActionClientCapabilities{
					CodeActionLiteralSupport: &protocol.CodeActionLiteralSupport{
						CodeActionKind: protocol.CodeActionKindCapability{
							ValueSet: []string{protocol.KindQuickFix, protocol.KindSourceFixAll},
						},
					},
					IsPreferredSupport: true,
					DisabledSupport:    true,
					ResolveSupport: &protocol.ResolveSupport{
						Properties: []string{"edit", "command"},
					},
				},
			},
			General: protocol.GeneralClientCapabilities{
				PositionEncodings: []string{string(protocol.EncodingUTF16), string(protocol.EncodingUTF8)},
			},
		},
	}
	if rootURI != "" {
		params.WorkspaceFolders = []protocol.WorkspaceFolder{{URI: rootURI, Name: c.name}}
	}
	var result protocol.InitializeResult
	if err := c.conn.Call(ctx, protocol.MethodInitialize, params, &result); err != nil {
		return fmt.Errorf("initialize %s: %w", c.name, err)
	}
	c.caps = result.Capabilities
	if result.Capabilities.PositionEncoding != "" {
		c.encoding = protocol.PositionEncoding(result.Capabilities.PositionEncoding)
	}
	if err := c.conn.Notify(protocol.MethodInitialized, struct{}{}); err != nil {
		return fmt.Errorf("initialized %s: %w", c.name, err)
	}
	return nil
}

// Shutdown performs the polite shutdown/exit sequence and then closes the
// connection. Errors on the way out are swallowed; the process is going
// away regardless.
func (c *Client) Shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_ = c.conn.Call(shutdownCtx, protocol.MethodShutdown, nil, nil)
	_ = c.conn.Notify(protocol.MethodExit, nil)
	_ = c.conn.Close()
}
