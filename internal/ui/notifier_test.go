package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestNotifierRouting(t *testing.T) {
	var out, errOut bytes.Buffer
	n := &Notifier{Out: &out, Err: &errOut}

	n.Infof("applied %d action(s)", 3)
	n.Warnf("server %s detached", "gopls")
	n.Errorf("apply failed: %v", "boom")

	if !strings.Contains(out.String(), "applied 3 action(s)") {
		t.Fatalf("info missing from stdout: %q", out.String())
	}
	if strings.Contains(out.String(), "detached") || strings.Contains(out.String(), "boom") {
		t.Fatalf("warnings or errors leaked to stdout: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "server gopls detached") {
		t.Fatalf("warning missing from stderr: %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), "apply failed: boom") {
		t.Fatalf("error missing from stderr: %q", errOut.String())
	}
}

func TestNotifierQuietSuppressesInfoOnly(t *testing.T) {
	var out, errOut bytes.Buffer
	n := &Notifier{Out: &out, Err: &errOut, Quiet: true}

	n.Infof("silenced")
	n.Warnf("still visible")
	n.Errorf("still visible too")

	if out.Len() != 0 {
		t.Fatalf("quiet mode leaked info: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "still visible") {
		t.Fatalf("quiet mode suppressed warnings: %q", errOut.String())
	}
}
