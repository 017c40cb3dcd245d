//go:build darwin
// +build darwin

package defaults

// Sane defaults for the macOS (Darwin) platform.
func getDefaults() platformDefaultParameters {
	return platformDefaultParameters{
		DefaultConfigFile:  "/etc/rplsim.conf",
		DefaultArchiveFile: "/usr/local/var/rplsim/runs.db",
	}
}
