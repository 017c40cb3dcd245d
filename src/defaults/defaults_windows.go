//go:build windows
// +build windows

package defaults

// Sane defaults for the Windows platform.
func getDefaults() platformDefaultParameters {
	return platformDefaultParameters{
		DefaultConfigFile:  "C:\\ProgramData\\rplsim\\rplsim.conf",
		DefaultArchiveFile: "C:\\ProgramData\\rplsim\\runs.db",
	}
}
