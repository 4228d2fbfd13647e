package scene

import (
	"io"

	"github.com/seqsense/pcgol/pc"
	"github.com/seqsense/pcgol/pc/storage/kdtree"

	"github.com/seqsense/pcscatter/cloud"
)

func (s *Scene) tree(g *cloud.Group) nearestFinder {
	if t, ok := s.trees[g.Label]; ok {
		return t
	}
	vs := make(pc.Vec3Slice, len(g.Points))
	for i, p := range g.Points {
		vs[i] = p.Pos
	}
	t := kdtree.New(vs)
	s.trees[g.Label] = t
	return t
}

var exportHeader = pc.PointCloudHeader{
	Version: 0.7,
	Fields:  []string{"x", "y", "z", "label"},
	Size:    []int{4, 4, 4, 4},
	Type:    []string{"F", "F", "F", "U"},
	Count:   []int{1, 1, 1, 1},
	Height:  1,
}

// ExportPCD writes the visible points as PCD.
// The label field is the index of the category in Categories.
func (s *Scene) ExportPCD(w io.Writer) error {
	labels := s.Categories()
	n := 0
	for _, l := range labels {
		if st, _ := s.registry.Get(l); st.Visible {
			g, _ := s.groups.Group(l)
			n += g.Len()
		}
	}

	pp := &pc.PointCloud{
		PointCloudHeader: exportHeader.Clone(),
		Points:           n,
	}
	pp.Width = n
	pp.Data = make([]byte, n*pp.Stride())
	if n > 0 {
		it, err := pp.Vec3Iterator()
		if err != nil {
			return err
		}
		itL, err := pp.Uint32Iterator("label")
		if err != nil {
			return err
		}
		for i, l := range labels {
			if st, _ := s.registry.Get(l); !st.Visible {
				continue
			}
			g, _ := s.groups.Group(l)
			for _, p := range g.Points {
				it.SetVec3(p.Pos)
				itL.SetUint32(uint32(i))
				it.Incr()
				itL.Incr()
			}
		}
	}
	return pc.Marshal(pp, w)
}
