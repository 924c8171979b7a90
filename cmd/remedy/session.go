package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"remedy/internal/client"
	"remedy/internal/codeaction"
	"remedy/internal/config"
	"remedy/internal/diagnostics"
	"remedy/internal/document"
	"remedy/internal/observ"
	"remedy/internal/protocol"
	"remedy/internal/ui"
)

// session wires one document to its configured language servers for the
// duration of a single command.
type session struct {
	doc      *document.Document
	registry *client.Registry
	store    *diagnostics.Store
	notify   *ui.Notifier
	applier  *bufferApplier
	capCache *client.CapCache

	mu        sync.Mutex
	published map[string]bool
}

func filetypeOf(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// newSession loads the manifest, opens the document, and attaches every
// server configured for its filetype. A missing manifest or zero matching
// servers is not an error here; the engine reports the no-provider case.
func newSession(ctx context.Context, cmd *cobra.Command, path string) (*session, error) {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return nil, err
	}
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	diagWait, err := cmd.Root().PersistentFlags().GetDuration("diagnostic-wait")
	if err != nil {
		return nil, err
	}

	doc, err := document.Open(path)
	if err != nil {
		return nil, err
	}

	s := &session{
		doc:       doc,
		registry:  client.NewRegistry(),
		store:     diagnostics.NewStore(),
		notify:    ui.NewNotifier(quiet),
		published: make(map[string]bool),
	}
	s.applier = &bufferApplier{doc: doc, registry: s.registry}

	if cache, err := client.OpenCapCache("remedy"); err == nil {
		s.capCache = cache
	}

	servers, err := configuredServers(configPath, path)
	if err != nil {
		return nil, err
	}
	attached := 0
	for _, sc := range servers {
		if err := s.attach(ctx, sc); err != nil {
			s.notify.Warnf("skipping %s: %v", sc.Name, err)
			continue
		}
		attached++
	}
	if attached > 0 {
		s.waitDiagnostics(ctx, attached, diagWait)
	}
	return s, nil
}

func configuredServers(configPath, target string) ([]config.ServerConfig, error) {
	if configPath == "" {
		found, ok, err := config.Find(filepath.Dir(target))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		configPath = found
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return cfg.ServersFor(filetypeOf(target)), nil
}

func (s *session) attach(ctx context.Context, sc config.ServerConfig) error {
	id := s.registry.NextID(sc.Name)

	onNotify := func(method string, params json.RawMessage) {
		if method != protocol.MethodPublishDiagnostics {
			return
		}
		var p protocol.PublishDiagnosticsParams
		if err := json.Unmarshal(params, &p); err != nil {
			return
		}
		s.store.Publish(p.URI, id, p.Diagnostics)
		s.mu.Lock()
		s.published[id] = true
		s.mu.Unlock()
	}

	var cl *client.Client
	onRequest := func(method string, params json.RawMessage) (any, error) {
		if method != protocol.MethodApplyEdit {
			return nil, fmt.Errorf("method not supported: %s", method)
		}
		var p protocol.ApplyWorkspaceEditParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		if err := s.applier.ApplyEdit(&p.Edit, cl.OffsetEncoding()); err != nil {
			return protocol.ApplyWorkspaceEditResult{Applied: false, FailureReason: err.Error()}, nil
		}
		return protocol.ApplyWorkspaceEditResult{Applied: true}, nil
	}

	conn, err := client.Dial(sc.Command, sc.Args, onNotify, onRequest)
	if err != nil {
		return err
	}
	cl = client.New(id, sc.Name, conn, protocol.PositionEncoding(sc.OffsetEncoding))

	rootURI := document.PathToURI(filepath.Dir(s.doc.Path()))
	if err := cl.Initialize(ctx, rootURI); err != nil {
		_ = conn.Close()
		return err
	}

	openParams := protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        s.doc.URI(),
			LanguageID: filetypeOf(s.doc.Path()),
			Version:    s.doc.Version(),
			Text:       s.doc.Text(),
		},
	}
	if err := cl.Notify(protocol.MethodDidOpen, openParams); err != nil {
		_ = conn.Close()
		return err
	}

	s.registry.Add(cl)
	s.cacheCapabilities(sc, cl)
	return nil
}

func (s *session) cacheCapabilities(sc config.ServerConfig, cl *client.Client) {
	if s.capCache == nil {
		return
	}
	caps := cl.Capabilities()
	payload := &client.CapPayload{
		ServerName:        sc.Name,
		CommandLine:       strings.Join(append([]string{sc.Command}, sc.Args...), " "),
		PositionEncoding:  string(cl.OffsetEncoding()),
		CodeAction:        caps.SupportsCodeAction(),
		CodeActionResolve: caps.SupportsResolve(),
		ExecuteCommand:    caps.SupportsExecuteCommand(),
	}
	if err := s.capCache.Put(client.Key(sc.Command, sc.Args), payload); err != nil {
		s.notify.Warnf("capability cache: %v", err)
	}
}

// waitDiagnostics blocks until every attached server published at least
// once or the wait elapses. Servers that never publish (or have nothing to
// say) just run the wait down. On a terminal the pause gets a spinner.
func (s *session) waitDiagnostics(ctx context.Context, attached int, wait time.Duration) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		deadline := time.Now().Add(wait)
		for time.Now().Before(deadline) {
			if ctx.Err() != nil {
				return
			}
			s.mu.Lock()
			got := len(s.published)
			s.mu.Unlock()
			if got >= attached {
				return
			}
			time.Sleep(25 * time.Millisecond)
		}
	}()
	if !s.notify.Quiet && isTerminal(os.Stderr) {
		ui.Wait("waiting for diagnostics", done)
		return
	}
	<-done
}

// engine builds the code-action engine over this session's collaborators.
func (s *session) engine(timer *observ.Timer) *codeaction.Engine {
	return &codeaction.Engine{
		Registry:    s.registry,
		Diags:       s.store,
		Doc:         s.doc,
		Edits:       s.applier,
		Notify:      s.notify,
		Timer:       timer,
		SettleDelay: codeaction.DefaultSettleDelay,
	}
}

// close detaches every server.
func (s *session) close(ctx context.Context) {
	closeParams := protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: s.doc.URI()},
	}
	for _, cl := range s.registry.Clients() {
		_ = cl.Notify(protocol.MethodDidClose, closeParams)
		cl.Shutdown(ctx)
	}
}

// bufferApplier applies workspace edits to the session buffer and keeps the
// attached servers in sync with a full-text didChange, so later actions are
// computed against current text.
type bufferApplier struct {
	doc      *document.Document
	registry *client.Registry
}

func (a *bufferApplier) ApplyEdit(edit *protocol.WorkspaceEdit, enc protocol.PositionEncoding) error {
	n, err := a.doc.ApplyWorkspaceEdit(edit, enc)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	params := protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			URI:     a.doc.URI(),
			Version: a.doc.Version(),
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: a.doc.Text()}},
	}
	for _, cl := range a.registry.Clients() {
		if err := cl.Notify(protocol.MethodDidChange, params); err != nil {
			return fmt.Errorf("didChange to %s: %w", cl.Name(), err)
		}
	}
	return nil
}
