package convert

import "github.com/zeusync/devkit/internal/core/jsonvalue"

// Stats summarizes the shape of a document.
type Stats struct {
	Objects  int `json:"objects"`
	Arrays   int `json:"arrays"`
	Strings  int `json:"strings"`
	Numbers  int `json:"numbers"`
	Booleans int `json:"booleans"`
	Nulls    int `json:"nulls"`
	Keys     int `json:"keys"`
	MaxDepth int `json:"maxDepth"`
}

// Collect walks v. A scalar document has depth 0; each container level adds one.
func Collect(v jsonvalue.Value) Stats {
	var s Stats
	s.walk(v, 0)
	return s
}

// Add accumulates o into s. MaxDepth keeps the deeper of the two.
func (s *Stats) Add(o Stats) {
	s.Objects += o.Objects
	s.Arrays += o.Arrays
	s.Strings += o.Strings
	s.Numbers += o.Numbers
	s.Booleans += o.Booleans
	s.Nulls += o.Nulls
	s.Keys += o.Keys
	s.MaxDepth = max(s.MaxDepth, o.MaxDepth)
}

func (s *Stats) walk(v jsonvalue.Value, depth int) {
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
	switch v.Kind() {
	case jsonvalue.KindObject:
		s.Objects++
		s.Keys += v.Len()
		for _, m := range v.Members() {
			s.walk(m.Value, depth+1)
		}
	case jsonvalue.KindArray:
		s.Arrays++
		for _, it := range v.Items() {
			s.walk(it, depth+1)
		}
	case jsonvalue.KindString:
		s.Strings++
	case jsonvalue.KindNumber:
		s.Numbers++
	case jsonvalue.KindBool:
		s.Booleans++
	default:
		s.Nulls++
	}
}
