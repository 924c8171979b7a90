package protocol

import (
	"encoding/json"
	"strings"
)

// Well-known code action kind prefixes.
const (
	KindQuickFix     = "quickfix"
	KindSourceFixAll = "source.fixAll"
)

// KindMatches reports whether kind falls under the dotted prefix. A kind
// matches when it equals the prefix or extends it by a "." segment, so
// "source.fixAll.eslint" matches "source.fixAll" while "sourceX" does not
// match "source".
func KindMatches(kind, prefix string) bool {
	return kind == prefix || strings.HasPrefix(kind, prefix+".")
}

type CodeActionContext struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
	Only        []string     `json:"only,omitempty"`
}

type CodeActionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Range        Range                  `json:"range"`
	Context      CodeActionContext      `json:"context"`
}

type CodeActionDisabled struct {
	Reason string `json:"reason"`
}

// Command is a structured command reference: handler name plus arguments.
type Command struct {
	Title     string            `json:"title,omitempty"`
	Command   string            `json:"command"`
	Arguments []json.RawMessage `json:"arguments,omitempty"`
}

// CommandRef is the command slot of a code action. Servers fill it three
// ways: absent, a structured Command object, or a bare command-name string
// (old servers reply with Command literals whose nested command field is
// just the name). The variant decides whether a resolve round trip is still
// worthwhile, so it is kept explicit instead of sniffing field presence.
type CommandRef struct {
	cmd  *Command
	bare string
}

// StructuredCommand builds the object-form variant.
func StructuredCommand(cmd Command) CommandRef {
	return CommandRef{cmd: &cmd}
}

// BareCommand builds the name-only variant.
func BareCommand(name string) CommandRef {
	return CommandRef{bare: name}
}

// IsZero reports whether no command is present at all.
func (c CommandRef) IsZero() bool {
	return c.cmd == nil && c.bare == ""
}

// IsStructured reports whether the command arrived as a full object.
func (c CommandRef) IsStructured() bool {
	return c.cmd != nil
}

// Resolve returns the executable command. A bare name yields a Command with
// an empty argument list.
func (c CommandRef) Resolve() (Command, bool) {
	if c.cmd != nil {
		return *c.cmd, true
	}
	if c.bare != "" {
		return Command{Command: c.bare, Arguments: []json.RawMessage{}}, true
	}
	return Command{}, false
}

func (c CommandRef) MarshalJSON() ([]byte, error) {
	if c.cmd != nil {
		return json.Marshal(c.cmd)
	}
	if c.bare != "" {
		return json.Marshal(c.bare)
	}
	return []byte("null"), nil
}

func (c *CommandRef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*c = CommandRef{}
		return nil
	}
	if trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*c = CommandRef{bare: name}
		return nil
	}
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return err
	}
	*c = CommandRef{cmd: &cmd}
	return nil
}

// CodeAction is one remediation offered by a server. The codeAction reply
// list mixes CodeAction literals with plain Command literals; both decode
// into this shape (a Command literal lands as title plus structured
// CommandRef and nothing else).
type CodeAction struct {
	Title       string              `json:"title"`
	Kind        string              `json:"kind,omitempty"`
	Diagnostics []Diagnostic        `json:"diagnostics,omitempty"`
	IsPreferred bool                `json:"isPreferred,omitempty"`
	Disabled    *CodeActionDisabled `json:"disabled,omitempty"`
	Edit        *WorkspaceEdit      `json:"edit,omitempty"`
	Command     CommandRef          `json:"command,omitempty"`
	Data        json.RawMessage     `json:"data,omitempty"`
}

// Resolved reports whether the action is already fully specified: an inline
// edit or a structured command means no resolve round trip is needed.
func (a CodeAction) Resolved() bool {
	return a.Edit != nil || a.Command.IsStructured()
}

type ExecuteCommandParams struct {
	Command   string            `json:"command"`
	Arguments []json.RawMessage `json:"arguments"`
}
