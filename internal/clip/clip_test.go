package clip

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCopier_FallbackStillNotifiesOnce(t *testing.T) {
	var fallback []string
	var messages []string
	c := &Copier{
		Primary:  WriterFunc(func(string) error { return errors.New("denied") }),
		Fallback: WriterFunc(func(s string) error { fallback = append(fallback, s); return nil }),
		Notify:   func(m string) { messages = append(messages, m) },
	}
	c.Copy("hello@example.com")

	if len(fallback) != 1 || fallback[0] != "hello@example.com" {
		t.Fatalf("fallback writes = %v, want one write", fallback)
	}
	if len(messages) != 1 || messages[0] != CopiedMessage {
		t.Fatalf("messages = %v, want [%q]", messages, CopiedMessage)
	}
}

func TestCopier_PrimarySuccessSkipsFallback(t *testing.T) {
	fallbackUsed := false
	var messages []string
	c := &Copier{
		Primary:  WriterFunc(func(string) error { return nil }),
		Fallback: WriterFunc(func(string) error { fallbackUsed = true; return nil }),
		Notify:   func(m string) { messages = append(messages, m) },
	}
	c.Copy("x")
	if fallbackUsed {
		t.Fatalf("fallback used after primary success")
	}
	if len(messages) != 1 {
		t.Fatalf("messages = %v, want one", messages)
	}
}

func TestCopier_BothFailStillNotifies(t *testing.T) {
	fail := WriterFunc(func(string) error { return errors.New("nope") })
	count := 0
	c := &Copier{Primary: fail, Fallback: fail, Notify: func(string) { count++ }}
	c.Copy("x")
	if count != 1 {
		t.Fatalf("notify count = %d, want 1", count)
	}
}

func TestOSC52_WritesEscapeSequence(t *testing.T) {
	var buf bytes.Buffer
	if err := (OSC52{Out: &buf}).Write("hi"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// base64("hi") = "aGk="
	if got := buf.String(); !strings.HasPrefix(got, "\x1b]52;") || !strings.Contains(got, "aGk=") {
		t.Fatalf("sequence = %q, want OSC 52 with base64 payload", got)
	}
	if err := (OSC52{}).Write("hi"); err == nil {
		t.Fatalf("Write without output expected error")
	}
}
