//go:build linux
// +build linux

package defaults

// Sane defaults for the Linux platform. The "default" options may be
// may be replaced by the running configuration.
func getDefaults() platformDefaultParameters {
	return platformDefaultParameters{
		DefaultConfigFile:  "/etc/rplsim.conf",
		DefaultArchiveFile: "/var/lib/rplsim/runs.db",
	}
}
