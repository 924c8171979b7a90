package protocol

import "encoding/json"

// Method names this client issues or handles. They must match the LSP wire
// protocol exactly; servers reject anything else.
const (
	MethodInitialize         = "initialize"
	MethodInitialized        = "initialized"
	MethodShutdown           = "shutdown"
	MethodExit               = "exit"
	MethodDidOpen            = "textDocument/didOpen"
	MethodDidChange          = "textDocument/didChange"
	MethodDidClose           = "textDocument/didClose"
	MethodCodeAction         = "textDocument/codeAction"
	MethodCodeActionResolve  = "codeAction/resolve"
	MethodExecuteCommand     = "workspace/executeCommand"
	MethodPublishDiagnostics = "textDocument/publishDiagnostics"
	MethodApplyEdit          = "workspace/applyEdit"
)

// PositionEncoding is the unit a server counts Position.Character in.
type PositionEncoding string

const (
	EncodingUTF8  PositionEncoding = "utf-8"
	EncodingUTF16 PositionEncoding = "utf-16"
)

type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

// OptionalVersionedTextDocumentIdentifier carries a nullable version, as
// used inside workspace-edit document changes.
type OptionalVersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version *int   `json:"version"`
}

type TextDocumentEdit struct {
	TextDocument OptionalVersionedTextDocumentIdentifier `json:"textDocument"`
	Edits        []TextEdit                              `json:"edits"`
}

// WorkspaceEdit is the edit payload of a code action. Servers populate
// either the legacy Changes map or the DocumentChanges list.
type WorkspaceEdit struct {
	Changes         map[string][]TextEdit `json:"changes,omitempty"`
	DocumentChanges []TextDocumentEdit    `json:"documentChanges,omitempty"`
}

// ApplyWorkspaceEditParams is the payload of a server-initiated
// workspace/applyEdit request, typically triggered by executeCommand.
type ApplyWorkspaceEditParams struct {
	Label string        `json:"label,omitempty"`
	Edit  WorkspaceEdit `json:"edit"`
}

type ApplyWorkspaceEditResult struct {
	Applied       bool   `json:"applied"`
	FailureReason string `json:"failureReason,omitempty"`
}

type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type TextDocumentContentChangeEvent struct {
	Range *Range `json:"range,omitempty"`
	Text  string `json:"text"`
}

type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type Diagnostic struct {
	Range    Range           `json:"range"`
	Severity int             `json:"severity,omitempty"`
	Code     json.RawMessage `json:"code,omitempty"`
	Source   string          `json:"source,omitempty"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data,omitempty"`
}

type PublishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

type WorkspaceFolder struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

type InitializeParams struct {
	ProcessID        *int               `json:"processId"`
	RootURI          string             `json:"rootUri,omitempty"`
	Capabilities     ClientCapabilities `json:"capabilities"`
	WorkspaceFolders []WorkspaceFolder  `json:"workspaceFolders,omitempty"`
}

type ClientCapabilities struct {
	TextDocument TextDocumentClientCapabilities `json:"textDocument"`
	General      GeneralClientCapabilities      `json:"general"`
}

type TextDocumentClientCapabilities struct {
	CodeAction CodeActionClientCapabilities `json:"codeAction"`
}

type CodeActionClientCapabilities struct {
	CodeActionLiteralSupport *CodeActionLiteralSupport `json:"codeActionLiteralSupport,omitempty"`
	IsPreferredSupport       bool                      `json:"isPreferredSupport,omitempty"`
	DisabledSupport          bool                      `json:"disabledSupport,omitempty"`
	ResolveSupport           *ResolveSupport           `json:"resolveSupport,omitempty"`
}

type CodeActionLiteralSupport struct {
	CodeActionKind CodeActionKindCapability `json:"codeActionKind"`
}

type CodeActionKindCapability struct {
	ValueSet []string `json:"valueSet"`
}

type ResolveSupport struct {
	Properties []string `json:"properties"`
}

type GeneralClientCapabilities struct {
	PositionEncodings []string `json:"positionEncodings,omitempty"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
}

// ServerCapabilities keeps only the fields this client inspects. Provider
// capability fields arrive as either booleans or option objects depending
// on the server, so they stay raw until probed.
type ServerCapabilities struct {
	PositionEncoding       string          `json:"positionEncoding,omitempty"`
	CodeActionProvider     json.RawMessage `json:"codeActionProvider,omitempty"`
	ExecuteCommandProvider json.RawMessage `json:"executeCommandProvider,omitempty"`
}

// CodeActionOptions is the object form of the codeActionProvider capability.
type CodeActionOptions struct {
	CodeActionKinds []string `json:"codeActionKinds,omitempty"`
	ResolveProvider bool     `json:"resolveProvider,omitempty"`
}

// SupportsCodeAction reports whether the capability advertises
// textDocument/codeAction, accepting both the boolean and object forms.
func (c ServerCapabilities) SupportsCodeAction() bool {
	return capabilityEnabled(c.CodeActionProvider)
}

// SupportsResolve reports whether codeAction/resolve is advertised. Only the
// object form can carry resolveProvider.
func (c ServerCapabilities) SupportsResolve() bool {
	var opts CodeActionOptions
	if len(c.CodeActionProvider) == 0 {
		return false
	}
	if err := json.Unmarshal(c.CodeActionProvider, &opts); err != nil {
		return false
	}
	return opts.ResolveProvider
}

// SupportsExecuteCommand reports whether workspace/executeCommand is advertised.
func (c ServerCapabilities) SupportsExecuteCommand() bool {
	return capabilityEnabled(c.ExecuteCommandProvider)
}

func capabilityEnabled(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	// Any object value means the capability is present.
	return string(raw) != "null"
}
