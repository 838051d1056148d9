// Package scene holds the engine-native scene representation produced by
// the converter. The conversion core traverses it and mutates only texture
// filenames; everything else is read-only after conversion.
package scene

// Texture is one external texture resource. A single Texture may be
// referenced by many nodes; it is never duplicated per reference, so a
// filename rewrite is observable through every referencing node.
type Texture struct {
	// Filename is the path as declared in the source document. Empty for
	// embedded textures, which have no external file to relocate.
	Filename string
}

// AnimBundle is a named, self-contained unit of animation data.
type AnimBundle struct {
	Name string
}

// Node is a scene graph node.
type Node interface {
	Name() string
	Children() []Node
}

// BundleCarrier is the capability exposed by nodes that own an animation
// bundle. Discovery queries this interface at traversal time instead of
// inspecting concrete node types.
type BundleCarrier interface {
	Node
	Bundle() *AnimBundle
}

// TextureUser is the capability exposed by nodes that reference textures.
type TextureUser interface {
	Node
	Textures() []*Texture
}

// Group is an interior node holding children.
type Group struct {
	name     string
	children []Node
}

// NewGroup creates a named group node.
func NewGroup(name string, children ...Node) *Group {
	return &Group{name: name, children: children}
}

func (g *Group) Name() string     { return g.name }
func (g *Group) Children() []Node { return g.children }

// Attach adds a child node.
func (g *Group) Attach(n Node) {
	g.children = append(g.children, n)
}

// Geom is a leaf geometry node referencing zero or more shared textures.
type Geom struct {
	name     string
	textures []*Texture
}

// NewGeom creates a geometry node referencing the given textures.
func NewGeom(name string, textures ...*Texture) *Geom {
	return &Geom{name: name, textures: textures}
}

func (g *Geom) Name() string         { return g.name }
func (g *Geom) Children() []Node     { return nil }
func (g *Geom) Textures() []*Texture { return g.textures }

// AnimBundleNode is a leaf node owning one animation bundle.
type AnimBundleNode struct {
	bundle *AnimBundle
}

// NewAnimBundleNode creates a node owning bundle.
func NewAnimBundleNode(bundle *AnimBundle) *AnimBundleNode {
	return &AnimBundleNode{bundle: bundle}
}

func (n *AnimBundleNode) Name() string        { return n.bundle.Name }
func (n *AnimBundleNode) Children() []Node    { return nil }
func (n *AnimBundleNode) Bundle() *AnimBundle { return n.bundle }

// Collection is the full output of a conversion: every converted scene
// plus the active one that becomes the main artifact.
type Collection struct {
	Scenes []*Group
	Active *Group
}

// Textures enumerates every distinct texture referenced anywhere in the
// collection, in first-encounter order. Shared textures appear once.
func (c *Collection) Textures() []*Texture {
	seen := make(map[*Texture]bool)
	var out []*Texture
	for _, root := range c.Scenes {
		Walk(root, func(n Node) {
			tu, ok := n.(TextureUser)
			if !ok {
				return
			}
			for _, tex := range tu.Textures() {
				if !seen[tex] {
					seen[tex] = true
					out = append(out, tex)
				}
			}
		})
	}
	return out
}

// Walk visits root and every node below it in depth-first order.
func Walk(root Node, visit func(Node)) {
	visit(root)
	for _, child := range root.Children() {
		Walk(child, visit)
	}
}
