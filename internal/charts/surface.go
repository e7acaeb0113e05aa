// internal/charts/surface.go
package charts

// Field is a labelled value shown instead of, or next to, a chart.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Content is what a surface shows: a chart, a placeholder message, a block
// of fields, or nothing when Hidden.
type Content struct {
	Hidden  bool    `json:"hidden,omitempty"`
	Chart   *Chart  `json:"chart,omitempty"`
	Message string  `json:"message,omitempty"`
	Fields  []Field `json:"fields,omitempty"`
}

// ChartContent shows c.
func ChartContent(c *Chart) Content { return Content{Chart: c} }

// Placeholder shows a message in place of a chart.
func Placeholder(msg string) Content { return Content{Message: msg} }

// FieldsContent shows labelled values in place of a chart.
func FieldsContent(fields ...Field) Content { return Content{Fields: fields} }

// HiddenContent hides the surface.
func HiddenContent() Content { return Content{Hidden: true} }

// Surfaces is an ordered set of named display areas. Replacing a surface
// discards whatever it showed before.
type Surfaces struct {
	ids     []string
	content map[string]Content
}

// NewSurfaces declares surfaces in display order, all hidden.
func NewSurfaces(ids ...string) *Surfaces {
	s := &Surfaces{content: make(map[string]Content, len(ids))}
	for _, id := range ids {
		s.Replace(id, HiddenContent())
	}
	return s
}

// Replace sets the content of id, adding the surface if it is new.
func (s *Surfaces) Replace(id string, c Content) {
	if s.content == nil {
		s.content = make(map[string]Content)
	}
	if _, ok := s.content[id]; !ok {
		s.ids = append(s.ids, id)
	}
	s.content[id] = c
}

// Get returns the content of id.
func (s *Surfaces) Get(id string) (Content, bool) {
	if s == nil {
		return Content{}, false
	}
	c, ok := s.content[id]
	return c, ok
}

// IDs returns the surface ids in display order.
func (s *Surfaces) IDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Visible returns the ids of surfaces that are not hidden.
func (s *Surfaces) Visible() []string {
	var out []string
	for _, id := range s.IDs() {
		if !s.content[id].Hidden {
			out = append(out, id)
		}
	}
	return out
}

// Reset hides every surface.
func (s *Surfaces) Reset() {
	for _, id := range s.IDs() {
		s.content[id] = HiddenContent()
	}
}
