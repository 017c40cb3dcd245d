/*
Package config holds the run configuration of the simulator.

Configuration is usually written as HJSON, which is JSON with comments and
relaxed quoting. A default configuration can be produced with
"rplsim -genconf", edited and then passed back with "rplsim -useconffile".
JSON is accepted as well, since every JSON document is valid HJSON.
*/
package config

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"runtime"
	"strings"

	"github.com/hjson/hjson-go/v4"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/text/encoding/unicode"

	"github.com/yggdrasil-network/rplsim/src/crypto"
	"github.com/yggdrasil-network/rplsim/src/defaults"
	"github.com/yggdrasil-network/rplsim/src/exchange"
	"github.com/yggdrasil-network/rplsim/src/types"
)

// RunConfig defines every value needed for one simulation run.
type RunConfig struct {
	Nodes      uint32  `comment:"Number of nodes taking part in the run. Nodes are numbered from 0.\nIgnored when NodeIDs is set."`
	NodeIDs    string  `comment:"Optional explicit list of node identifiers and ranges, e.g. \"0-9,20\".\nLeave empty to use 0 to Nodes-1."`
	Iterations uint32  `comment:"Number of optimizer iterations used to select the anchor position."`
	Bound      float64 `comment:"Half-width of the square the initial candidate positions are drawn\nfrom, i.e. each coordinate starts in [-Bound, Bound]."`
	Attempts   uint32  `comment:"Number of pairwise key exchange attempts. 0 means one attempt per node."`
	Curve      string  `comment:"Curve used for every node's key pair. One of P-256, P-384, P-521,\nX25519 or secp256k1."`
	Selection  string  `comment:"How the sender of each exchange attempt is chosen: \"uniform\" draws\nsenders at random, \"roundrobin\" gives each node a turn in order."`
	Seed       *uint64 `comment:"Optional seed for the optimizer and for pair selection. Set to null\nfor a different run every time. Key material is never seeded."`
	Workers    int     `comment:"Number of concurrent workers for the optimizer and the key exchanges.\n1 runs everything sequentially."`
	LogLevel   string  `comment:"Log level: error, warn, info, debug or trace."`
	Archive    string  `comment:"Optional path of an SQLite database that run summaries and outcomes\nare appended to. Leave empty to disable the archive."`
}

// Keys that older configurations used, mapped to their current names.
var renamedKeys = map[string]string{
	"Hosts":         "Nodes",
	"NumHosts":      "Nodes",
	"NumIterations": "Iterations",
	"Rounds":        "Iterations",
	"SearchBound":   "Bound",
}

// GenerateConfig returns a configuration populated with the defaults. This is
// used when outputting the -genconf parameter and as the base that a
// configuration file is read over.
func GenerateConfig() *RunConfig {
	cfg := RunConfig{}
	cfg.Nodes = defaults.DefaultNodes
	cfg.Iterations = defaults.DefaultIterations
	cfg.Bound = defaults.DefaultBound
	cfg.Curve = defaults.DefaultCurve
	cfg.Selection = defaults.DefaultSelection
	cfg.Workers = runtime.GOMAXPROCS(0)
	cfg.LogLevel = defaults.DefaultLogLevel
	return &cfg
}

// ReadFrom reads an HJSON or JSON configuration over the values already in
// cfg. Keys that are missing from the input keep their current values.
func (cfg *RunConfig) ReadFrom(r io.Reader) (int64, error) {
	conf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	n := int64(len(conf))
	// hjson cannot parse UTF-16, which some editors on Windows write by
	// default, so decode it back down to UTF-8 first.
	if bytes.HasPrefix(conf, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(conf, []byte{0xFE, 0xFF}) {
		utf := unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
		decoder := utf.NewDecoder()
		if conf, err = decoder.Bytes(conf); err != nil {
			return n, err
		}
	}
	var dat map[string]interface{}
	if err := hjson.Unmarshal(conf, &dat); err != nil {
		return n, fmt.Errorf("%w: %v", types.ErrInvalidArgument, err)
	}
	for from, to := range renamedKeys {
		if v, ok := dat[from]; ok {
			if _, ok := dat[to]; !ok {
				dat[to] = v
			}
			delete(dat, from)
		}
	}
	if err := mapstructure.Decode(dat, cfg); err != nil {
		return n, fmt.Errorf("%w: %v", types.ErrInvalidArgument, err)
	}
	return n, nil
}

// NodeSet returns the nodes taking part in the run.
func (cfg *RunConfig) NodeSet() (types.NodeSet, error) {
	if strings.TrimSpace(cfg.NodeIDs) == "" {
		return types.Sequential(int(cfg.Nodes)), nil
	}
	var s types.NodeSet
	if err := s.Set(cfg.NodeIDs); err != nil {
		return types.NodeSet{}, err
	}
	return s, nil
}

// Validate checks that the configuration describes a run that can start.
// Every problem is reported as types.ErrInvalidArgument.
func (cfg *RunConfig) Validate() error {
	nodes, err := cfg.NodeSet()
	switch {
	case err != nil:
		return fmt.Errorf("%w: NodeIDs: %v", types.ErrInvalidArgument, err)
	case nodes.Len() < 2:
		return fmt.Errorf("%w: at least 2 nodes are needed, got %d", types.ErrInvalidArgument, nodes.Len())
	case math.IsNaN(cfg.Bound) || math.IsInf(cfg.Bound, 0) || cfg.Bound <= 0:
		return fmt.Errorf("%w: Bound must be a positive finite number, got %v", types.ErrInvalidArgument, cfg.Bound)
	case cfg.Workers < 0:
		return fmt.Errorf("%w: Workers must not be negative, got %d", types.ErrInvalidArgument, cfg.Workers)
	}
	if _, err := crypto.ParseCurve(cfg.Curve); err != nil {
		return fmt.Errorf("Curve: %w", err)
	}
	if _, err := exchange.ParseSelection(cfg.Selection); err != nil {
		return fmt.Errorf("Selection: %w", err)
	}
	return nil
}

// AttemptCount resolves Attempts, where 0 means one attempt per node.
func (cfg *RunConfig) AttemptCount(nodes types.NodeSet) uint32 {
	if cfg.Attempts == 0 {
		return uint32(nodes.Len())
	}
	return cfg.Attempts
}
