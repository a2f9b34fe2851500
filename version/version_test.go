package version

import (
	"strings"
	"testing"
)

func TestString_DefaultsToDev(t *testing.T) {
	if String() == "" {
		t.Error("version must never be empty")
	}
}

func TestString_UsesLinkedVersion(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "1.2.0"
	if String() != "1.2.0" {
		t.Errorf("String() = %q", String())
	}
}

func TestUserAgent(t *testing.T) {
	if !strings.HasPrefix(UserAgent(), "robusthttp/") {
		t.Errorf("UserAgent() = %q", UserAgent())
	}
}
