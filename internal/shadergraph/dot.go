package shadergraph

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteDOT writes the graph in Graphviz DOT format.
func (g *Graph) WriteDOT(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "digraph %q {\n", g.Name)
	fmt.Fprintln(bw, "  rankdir=LR;")
	fmt.Fprintln(bw, "  node [shape=box, fontname=\"monospace\"];")

	for _, n := range g.nodes {
		var label strings.Builder
		label.WriteString(n.Kind.String())
		if n.Name != "" {
			fmt.Fprintf(&label, " (%s)", n.Name)
		}
		for _, k := range n.Keys() {
			v, _ := n.Value(k)
			fmt.Fprintf(&label, "\n%s = %v", k, v)
		}
		fmt.Fprintf(bw, "  n%d [label=%q];\n", n.ID, label.String())
	}

	for _, e := range g.Edges() {
		fmt.Fprintf(bw, "  n%d -> n%d [label=%q];\n",
			e.From.Node.ID, e.To.Node.ID, e.From.Socket+" > "+e.To.Socket)
	}

	if attrs := g.Attributes(); len(attrs) > 0 {
		fmt.Fprintf(bw, "  // attributes: %s\n", strings.Join(attrs, ", "))
	}
	fmt.Fprintln(bw, "}")

	return bw.Flush()
}
