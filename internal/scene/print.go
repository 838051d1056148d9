package scene

import (
	"fmt"
	"io"
	"strings"
)

// Print writes an indented listing of the graph under root, one node per
// line, for the --print-scene flag.
func Print(w io.Writer, root Node) {
	printNode(w, root, 0)
}

func printNode(w io.Writer, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch node := n.(type) {
	case TextureUser:
		names := make([]string, 0, len(node.Textures()))
		for _, tex := range node.Textures() {
			names = append(names, tex.Filename)
		}
		fmt.Fprintf(w, "%sGeom %s [%s]\n", indent, n.Name(), strings.Join(names, ", "))
	case BundleCarrier:
		fmt.Fprintf(w, "%sAnimBundle %s\n", indent, node.Bundle().Name)
	default:
		fmt.Fprintf(w, "%sGroup %s\n", indent, n.Name())
	}
	for _, child := range n.Children() {
		printNode(w, child, depth+1)
	}
}
