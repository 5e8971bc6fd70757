package doc

// CurrentVersion is written to new documents. Loading accepts any version
// string; the field only has to be present.
const CurrentVersion = "1.0"

// VariableDefinition is one entry of the document variable table. Exactly
// one of Value (plain scalar) or Values (themed list) is populated.
type VariableDefinition struct {
	Type   string        `json:"type,omitempty"` // color, number, string
	Value  any           `json:"value,omitempty"`
	Values []ThemedValue `json:"values,omitempty"`
}

// ThemedValue is one candidate of a themed variable. Theme is a subset
// constraint against the document's active theme selection.
type ThemedValue struct {
	Theme map[string]string `json:"theme,omitempty"`
	Value any               `json:"value"`
}

// Page is one canvas of a multi-page document. Its children follow the
// same structural rules as a single-page document's root children.
type Page struct {
	ID       string  `json:"id"`
	Name     string  `json:"name,omitempty"`
	Children []*Node `json:"children"`
}

// Document is the top-level persisted model. Exactly one of Children
// (single-page) or Pages (multi-page) is the active content source.
type Document struct {
	Version   string                        `json:"version"`
	Name      string                        `json:"name,omitempty"`
	Variables map[string]VariableDefinition `json:"variables,omitempty"`
	Themes    map[string][]string           `json:"themes,omitempty"`
	Pages     []*Page                       `json:"pages,omitempty"`
	Children  []*Node                       `json:"children,omitempty"`
}

// New returns an empty single-page document.
func New(name string) *Document {
	return &Document{Version: CurrentVersion, Name: name}
}

// MultiPage reports whether Pages is the active content source.
func (d *Document) MultiPage() bool { return len(d.Pages) > 0 }

// PageChildren returns the children list of the given page index, or the
// root children for a single-page document (index ignored).
func (d *Document) PageChildren(page int) []*Node {
	if d.MultiPage() {
		if page < 0 || page >= len(d.Pages) {
			return nil
		}
		return d.Pages[page].Children
	}
	return d.Children
}

// SetPageChildren replaces the children list of the given page index (or
// the root list for single-page documents).
func (d *Document) SetPageChildren(page int, children []*Node) {
	if d.MultiPage() {
		if page >= 0 && page < len(d.Pages) {
			d.Pages[page].Children = children
		}
		return
	}
	d.Children = children
}

// AllChildren returns every page's children lists, in page order. For a
// single-page document it is a one-element slice.
func (d *Document) AllChildren() [][]*Node {
	if !d.MultiPage() {
		return [][]*Node{d.Children}
	}
	lists := make([][]*Node, len(d.Pages))
	for i, p := range d.Pages {
		lists[i] = p.Children
	}
	return lists
}

// FindAnywhere searches every page for a node id. Id uniqueness holds
// across the whole document, so the first hit is the only hit.
func (d *Document) FindAnywhere(id string) *Node {
	for _, children := range d.AllChildren() {
		if n := Find(children, id); n != nil {
			return n
		}
	}
	return nil
}

// CollectIDs gathers every node id in the document into dst.
func (d *Document) CollectIDs(dst map[string]struct{}) {
	for _, children := range d.AllChildren() {
		for _, n := range children {
			collectIDs(n, dst)
		}
	}
}

func collectIDs(n *Node, dst map[string]struct{}) {
	dst[n.ID] = struct{}{}
	for _, c := range n.Children {
		collectIDs(c, dst)
	}
}

// Clone returns a deep copy of the document. History snapshots are whole
// copies; a structural-sharing tree would cut their cost but is not a
// correctness requirement.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Version: d.Version,
		Name:    d.Name,
	}
	if d.Variables != nil {
		out.Variables = make(map[string]VariableDefinition, len(d.Variables))
		for k, v := range d.Variables {
			out.Variables[k] = cloneVariable(v)
		}
	}
	if d.Themes != nil {
		out.Themes = make(map[string][]string, len(d.Themes))
		for k, v := range d.Themes {
			out.Themes[k] = append([]string(nil), v...)
		}
	}
	for _, p := range d.Pages {
		out.Pages = append(out.Pages, &Page{
			ID:       p.ID,
			Name:     p.Name,
			Children: CloneNodes(p.Children),
		})
	}
	out.Children = CloneNodes(d.Children)
	return out
}

func cloneVariable(v VariableDefinition) VariableDefinition {
	out := VariableDefinition{Type: v.Type, Value: v.Value}
	for _, tv := range v.Values {
		c := ThemedValue{Value: tv.Value}
		if tv.Theme != nil {
			c.Theme = make(map[string]string, len(tv.Theme))
			for k, val := range tv.Theme {
				c.Theme[k] = val
			}
		}
		out.Values = append(out.Values, c)
	}
	return out
}
