package defaults

import "testing"

func TestGetDefaults(t *testing.T) {
	d := GetDefaults()
	if d.DefaultConfigFile == "" || d.DefaultArchiveFile == "" {
		t.Fatalf("platform defaults are incomplete: %+v", d)
	}
	defer func(old string) { defaultConfig = old }(defaultConfig)
	defaultConfig = "/tmp/override.conf"
	if got := GetDefaults().DefaultConfigFile; got != defaultConfig {
		t.Fatalf("expected the build override, got %q", got)
	}
}
