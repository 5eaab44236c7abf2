package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	old := Version
	Version = "v9.9.9"
	defer func() { Version = old }()

	if s := String(); !strings.Contains(s, "version: v9.9.9") {
		t.Errorf("String() = %q", s)
	}
	if got := Get().Version; got != "v9.9.9" {
		t.Errorf("Get().Version = %q, want v9.9.9", got)
	}
	if tpl := Template(); !strings.HasPrefix(tpl, "{{.Name}} version v9.9.9") {
		t.Errorf("Template() = %q", tpl)
	}
}
