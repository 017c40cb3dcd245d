package version

import (
	"fmt"
	"runtime"
)

var buildName string
var buildVersion string

// BuildName gets the current build name. This is usually injected if built
// from git, or returns "rplsim" otherwise.
func BuildName() string {
	if buildName == "" {
		return "rplsim"
	}
	return buildName
}

// BuildVersion gets the current build version. This is usually injected if
// built from git, or returns "unknown" otherwise.
func BuildVersion() string {
	if buildVersion == "" {
		return "unknown"
	}
	return buildVersion
}

// String describes the build on one line, e.g. for the log banner.
func String() string {
	return fmt.Sprintf("%s %s (%s, %s/%s)", BuildName(), BuildVersion(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
