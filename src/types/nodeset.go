package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NodeID identifies a node for the lifetime of a run. It carries no meaning
// beyond uniqueness within a NodeSet.
type NodeID uint32

func (n NodeID) String() string {
	return strconv.FormatUint(uint64(n), 10)
}

// NodeSet is an ordered set of node identifiers. The zero value is empty and
// ready to use. NodeSet implements flag.Value, so a set can be given on the
// command line as a list of IDs and ranges, e.g. "0,1,5-9".
type NodeSet struct {
	ids []NodeID
}

// NewNodeSet returns a set containing the given IDs. Duplicates are dropped.
func NewNodeSet(ids ...NodeID) NodeSet {
	var s NodeSet
	s.add(ids...)
	return s
}

// Sequential returns the set {0, 1, ..., n-1}.
func Sequential(n int) NodeSet {
	if n <= 0 {
		return NodeSet{}
	}
	ids := make([]NodeID, n)
	for i := range ids {
		ids[i] = NodeID(i)
	}
	return NodeSet{ids: ids}
}

func (s *NodeSet) add(ids ...NodeID) {
	s.ids = append(s.ids, ids...)
	sort.Slice(s.ids, func(i, j int) bool {
		return s.ids[i] < s.ids[j]
	})
	out := s.ids[:0]
	for i, id := range s.ids {
		if i > 0 && id == s.ids[i-1] {
			continue
		}
		out = append(out, id)
	}
	s.ids = out
}

// Len returns the number of distinct IDs in the set.
func (s NodeSet) Len() int {
	return len(s.ids)
}

// At returns the i-th smallest ID.
func (s NodeSet) At(i int) NodeID {
	return s.ids[i]
}

// IDs returns a copy of the IDs in ascending order.
func (s NodeSet) IDs() []NodeID {
	out := make([]NodeID, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s NodeSet) Contains(id NodeID) bool {
	i := sort.Search(len(s.ids), func(i int) bool {
		return s.ids[i] >= id
	})
	return i < len(s.ids) && s.ids[i] == id
}

func (s *NodeSet) String() string {
	if s == nil || len(s.ids) == 0 {
		return ""
	}
	var parts []string
	for i := 0; i < len(s.ids); {
		j := i
		for j+1 < len(s.ids) && s.ids[j+1] == s.ids[j]+1 {
			j++
		}
		switch {
		case i == j:
			parts = append(parts, s.ids[i].String())
		default:
			parts = append(parts, s.ids[i].String()+"-"+s.ids[j].String())
		}
		i = j + 1
	}
	return strings.Join(parts, ",")
}

// MaxNodeSetSize bounds how many IDs Set will expand a list into.
const MaxNodeSetSize = 1 << 20

// Set parses a comma separated list of IDs and inclusive ranges and adds
// them to the set. Lists expanding to more than MaxNodeSetSize IDs are
// rejected before anything is allocated.
func (s *NodeSet) Set(value string) error {
	var ids []NodeID
	size := uint64(len(s.ids))
	for _, token := range strings.Split(value, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		bounds := strings.SplitN(token, "-", 2)
		first, err := strconv.ParseUint(bounds[0], 10, 32)
		if err != nil {
			return fmt.Errorf("node id %q is invalid: %w", bounds[0], err)
		}
		last := first
		if len(bounds) == 2 {
			if last, err = strconv.ParseUint(bounds[1], 10, 32); err != nil {
				return fmt.Errorf("node id %q is invalid: %w", bounds[1], err)
			}
			if last < first {
				return fmt.Errorf("node range %q is reversed", token)
			}
		}
		if size += last - first + 1; size > MaxNodeSetSize {
			return fmt.Errorf("node list %q has more than %d ids", value, MaxNodeSetSize)
		}
		for id := first; id <= last; id++ {
			ids = append(ids, NodeID(id))
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("no node ids in %q", value)
	}
	s.add(ids...)
	return nil
}
