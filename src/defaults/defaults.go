package defaults

var defaultConfig = "" // LDFLAGS='-X github.com/yggdrasil-network/rplsim/src/defaults.defaultConfig=/path/to/config'

// Run-level defaults. These match the scenario the simulator was first built
// for: 200 hosts on one switch, 100 optimizer rounds, one exchange per node.
const (
	DefaultNodes      = 200
	DefaultIterations = 100
	DefaultBound      = 10.0
	DefaultCurve      = "P-256"
	DefaultSelection  = "uniform"
	DefaultLogLevel   = "info"
)

// Defines which parameters are expected by default for configuration on a
// specific platform. These values are populated in the relevant defaults_*.go
// for the platform being targeted. They must be set.
type platformDefaultParameters struct {
	// Configuration (used with -useconffile when no path is given)
	DefaultConfigFile string

	// Run archive (used with -archive)
	DefaultArchiveFile string
}

// GetDefaults returns the defaults for the platform being targeted.
func GetDefaults() platformDefaultParameters {
	defaults := getDefaults()
	if defaultConfig != "" {
		defaults.DefaultConfigFile = defaultConfig
	}
	return defaults
}
