//go:build !linux && !darwin && !windows
// +build !linux,!darwin,!windows

package defaults

// Sane defaults for the other platforms.
func getDefaults() platformDefaultParameters {
	return platformDefaultParameters{
		DefaultConfigFile:  "/etc/rplsim.conf",
		DefaultArchiveFile: "rplsim.db",
	}
}
