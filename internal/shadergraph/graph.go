// Package shadergraph models a shading node graph: typed nodes with named
// sockets, connected by edges that each feed exactly one input.
//
// A graph is rooted at the Output node. Its Surface input carries the
// accumulated surface expression; Splice wraps that expression in a new
// combinator node, which is how later compilation stages layer effects
// around earlier ones.
package shadergraph

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// Graph errors.
var (
	ErrUnknownSocket  = errors.New("unknown socket")
	ErrInputConnected = errors.New("input already connected")
	ErrForeignNode    = errors.New("node belongs to another graph")
	ErrNoSurface      = errors.New("surface output is not connected")
)

// Node is one node instance in a graph.
type Node struct {
	ID   int
	Kind Kind
	// Name is an optional label used in dumps.
	Name string

	graph  *Graph
	values map[string]any
}

// Set assigns an unconnected input value or a node parameter.
func (n *Node) Set(key string, value any) *Node {
	n.values[key] = value
	return n
}

// Value returns a value assigned with Set.
func (n *Node) Value(key string) (any, bool) {
	v, ok := n.values[key]
	return v, ok
}

// Keys returns the keys of all assigned values in sorted order.
func (n *Node) Keys() []string {
	keys := make([]string, 0, len(n.values))
	for k := range n.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Endpoint is a socket on a node.
type Endpoint struct {
	Node   *Node
	Socket string
}

// Edge connects a producer output to a consumer input.
type Edge struct {
	From Endpoint
	To   Endpoint
}

// Graph is a shader node graph.
type Graph struct {
	Name string

	nodes      []*Node
	inputs     map[Endpoint]Endpoint
	output     *Node
	attributes map[string]struct{}
}

// New creates a graph holding only the Output node.
func New(name string) *Graph {
	g := &Graph{
		Name:       name,
		inputs:     make(map[Endpoint]Endpoint),
		attributes: make(map[string]struct{}),
	}
	g.output = g.Add(KindOutput)
	return g
}

// Add creates a node of the given kind.
func (g *Graph) Add(kind Kind) *Node {
	n := &Node{
		ID:     len(g.nodes),
		Kind:   kind,
		graph:  g,
		values: make(map[string]any),
	}
	g.nodes = append(g.nodes, n)
	return n
}

// Output returns the root Output node.
func (g *Graph) Output() *Node {
	return g.output
}

// Nodes returns all nodes in creation order.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// NodesOf returns the nodes of one kind in creation order.
func (g *Graph) NodesOf(kind Kind) []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Connect links output socket out of from to input socket in of to.
// An input accepts one producer; Disconnect it first to replace it.
func (g *Graph) Connect(from *Node, out string, to *Node, in string) error {
	if err := g.checkOutput(from, out); err != nil {
		return err
	}
	if err := g.checkInput(to, in); err != nil {
		return err
	}
	dst := Endpoint{Node: to, Socket: in}
	if prev, ok := g.inputs[dst]; ok {
		return fmt.Errorf("%w: %s.%s fed by %s.%s", ErrInputConnected,
			to.Kind, in, prev.Node.Kind, prev.Socket)
	}
	g.inputs[dst] = Endpoint{Node: from, Socket: out}
	return nil
}

// Disconnect removes the edge feeding an input and returns its producer.
func (g *Graph) Disconnect(to *Node, in string) (Endpoint, bool) {
	dst := Endpoint{Node: to, Socket: in}
	prev, ok := g.inputs[dst]
	if ok {
		delete(g.inputs, dst)
	}
	return prev, ok
}

// Producer returns the endpoint feeding an input.
func (g *Graph) Producer(to *Node, in string) (Endpoint, bool) {
	p, ok := g.inputs[Endpoint{Node: to, Socket: in}]
	return p, ok
}

// Surface returns the producer of the surface output.
func (g *Graph) Surface() (Endpoint, bool) {
	return g.Producer(g.output, SocketSurface)
}

// SetSurface connects a producer to the surface output, replacing any
// previous one.
func (g *Graph) SetSurface(from *Node, out string) error {
	if err := g.checkOutput(from, out); err != nil {
		return err
	}
	g.Disconnect(g.output, SocketSurface)
	return g.Connect(from, out, g.output, SocketSurface)
}

// SetVolume connects a producer to the volume output.
func (g *Graph) SetVolume(from *Node, out string) error {
	return g.Connect(from, out, g.output, SocketVolume)
}

// Splice wraps the current surface expression with comb: the producer
// feeding the surface output is moved to comb's input captured, and comb's
// output out becomes the new surface producer. Nothing changes on error.
func (g *Graph) Splice(comb *Node, captured, out string) error {
	if err := g.checkInput(comb, captured); err != nil {
		return err
	}
	if err := g.checkOutput(comb, out); err != nil {
		return err
	}
	if _, ok := g.Producer(comb, captured); ok {
		return fmt.Errorf("%w: %s.%s", ErrInputConnected, comb.Kind, captured)
	}
	prev, ok := g.Disconnect(g.output, SocketSurface)
	if !ok {
		return ErrNoSurface
	}
	g.inputs[Endpoint{Node: comb, Socket: captured}] = prev
	g.inputs[Endpoint{Node: g.output, Socket: SocketSurface}] = Endpoint{Node: comb, Socket: out}
	return nil
}

// Edges returns every edge ordered by consumer node and input socket order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.inputs))
	for to, from := range g.inputs {
		edges = append(edges, Edge{From: from, To: to})
	}
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i].To, edges[j].To
		if a.Node.ID != b.Node.ID {
			return a.Node.ID < b.Node.ID
		}
		return slices.Index(a.Node.Kind.Inputs(), a.Socket) < slices.Index(b.Node.Kind.Inputs(), b.Socket)
	})
	return edges
}

// RequestAttribute records a mesh attribute the graph reads, such as a UV
// channel.
func (g *Graph) RequestAttribute(name string) {
	g.attributes[name] = struct{}{}
}

// Attributes returns the requested attributes in sorted order.
func (g *Graph) Attributes() []string {
	out := make([]string, 0, len(g.attributes))
	for a := range g.attributes {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func (g *Graph) checkInput(n *Node, socket string) error {
	if n == nil || n.graph != g {
		return ErrForeignNode
	}
	if !slices.Contains(n.Kind.Inputs(), socket) {
		return fmt.Errorf("%w: %s has no input %q", ErrUnknownSocket, n.Kind, socket)
	}
	return nil
}

func (g *Graph) checkOutput(n *Node, socket string) error {
	if n == nil || n.graph != g {
		return ErrForeignNode
	}
	if !slices.Contains(n.Kind.Outputs(), socket) {
		return fmt.Errorf("%w: %s has no output %q", ErrUnknownSocket, n.Kind, socket)
	}
	return nil
}
