package version

import (
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	if buildName != "" || buildVersion != "" {
		t.Skip("build information was injected")
	}
	if BuildName() != "rplsim" || BuildVersion() != "unknown" {
		t.Fatalf("unexpected defaults %q %q", BuildName(), BuildVersion())
	}
	if s := String(); !strings.HasPrefix(s, "rplsim unknown (") {
		t.Fatalf("unexpected banner %q", s)
	}
}
