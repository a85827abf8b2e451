package autodiff

// Edge is a directed operand → result link of the graph.
type Edge struct {
	From Value // operand
	To   Value // result
}

// Trace enumerates the nodes reachable from root and the edges between them,
// without modifying any node.
//
// Nodes are returned in topological order (root last). Edges are grouped by
// result node in the same order, operands in operand order. An operand used
// twice by the same node (x*x) yields two edges.
func Trace(root Value) ([]Value, []Edge) {
	nodes := NewTape(root).Order()
	var edges []Edge
	for _, n := range nodes {
		for _, operand := range n.Operands() {
			edges = append(edges, Edge{From: operand, To: n})
		}
	}
	return nodes, edges
}
