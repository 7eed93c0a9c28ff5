// Package analysis computes summary statistics over an outline document,
// used by the robot-stats output and the markdown report.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/treetop-tui/treetop/pkg/model"
)

// DepthStats describes the distribution of node depths.
type DepthStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Max    int     `json:"max"`
}

// SubtreeStats describes the distribution of container subtree sizes
// (descendant counts, containers only).
type SubtreeStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	Max    int     `json:"max"`
}

// Stats is the full statistical summary of one outline.
type Stats struct {
	Title      string             `json:"title,omitempty"`
	NodeCount  int                `json:"node_count"`
	RootCount  int                `json:"root_count"`
	Containers int                `json:"containers"`
	Leaves     int                `json:"leaves"`
	Folded     int                `json:"folded"`
	ByKind     map[model.Kind]int `json:"by_kind"`
	Depth      DepthStats         `json:"depth"`
	Subtree    SubtreeStats       `json:"subtree"`
}

// Compute walks the flattened list once, collecting per-kind counts and the
// depth and subtree-size distributions.
func Compute(title string, t *model.Tree) Stats {
	s := Stats{
		Title:  title,
		ByKind: map[model.Kind]int{},
	}
	if t == nil {
		return s
	}

	var depths []float64
	var subtrees []float64
	for n := t.First; n != nil; n = n.Next {
		s.NodeCount++
		s.ByKind[n.Kind]++
		if n.Level == 0 {
			s.RootCount++
		}
		if n.Folded {
			s.Folded++
		}
		depths = append(depths, float64(n.Level))
		if n.Level > s.Depth.Max {
			s.Depth.Max = n.Level
		}

		if n.CanHaveChildren() {
			s.Containers++
			size := subtreeSize(n)
			subtrees = append(subtrees, float64(size))
			if size > s.Subtree.Max {
				s.Subtree.Max = size
			}
		} else {
			s.Leaves++
		}
	}

	if len(depths) > 0 {
		s.Depth.Mean, s.Depth.StdDev = stat.MeanStdDev(depths, nil)
		if len(depths) == 1 {
			s.Depth.StdDev = 0
		}
	}
	if len(subtrees) > 0 {
		sort.Float64s(subtrees)
		s.Subtree.Mean = stat.Mean(subtrees, nil)
		s.Subtree.Median = stat.Quantile(0.5, stat.Empirical, subtrees, nil)
		s.Subtree.P90 = stat.Quantile(0.9, stat.Empirical, subtrees, nil)
	}
	return s
}

// subtreeSize counts the descendants of a container.
func subtreeSize(n *model.Node) int {
	size := 0
	end := n.SubtreeEnd()
	for k := n.Next; k != end; k = k.Next {
		size++
	}
	return size
}
