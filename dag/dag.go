// Package dag holds the import graph of a Solidity project and splits it
// into sets of files that can be compiled independently.
package dag

// Vertex is any comparable value stored in the graph
type Vertex interface{}

// Edge is a directed edge. Src depends on (imports) Dst.
type Edge struct {
	Src Vertex
	Dst Vertex
}

type Dag struct {
	vertices []Vertex
	index    map[Vertex]int

	// adjacency lists by vertex index
	out [][]int
	in  [][]int
}

func (d *Dag) init() {
	if d.index == nil {
		d.index = map[Vertex]int{}
	}
}

// AddVertex adds v to the graph. Adding an existing vertex does nothing.
func (d *Dag) AddVertex(v Vertex) {
	d.init()
	if _, ok := d.index[v]; ok {
		return
	}
	d.index[v] = len(d.vertices)
	d.vertices = append(d.vertices, v)
	d.out = append(d.out, nil)
	d.in = append(d.in, nil)
}

// AddEdge adds e to the graph, adding its vertices if they are not
// already present. Duplicated edges are ignored.
func (d *Dag) AddEdge(e Edge) {
	d.AddVertex(e.Src)
	d.AddVertex(e.Dst)

	src, dst := d.index[e.Src], d.index[e.Dst]
	for _, i := range d.out[src] {
		if i == dst {
			return
		}
	}
	d.out[src] = append(d.out[src], dst)
	d.in[dst] = append(d.in[dst], src)
}

// Vertices returns the vertices in insertion order
func (d *Dag) Vertices() []Vertex {
	res := make([]Vertex, len(d.vertices))
	copy(res, d.vertices)
	return res
}

// Deps returns the vertices v points to
func (d *Dag) Deps(v Vertex) []Vertex {
	indx, ok := d.index[v]
	if !ok {
		return nil
	}
	res := []Vertex{}
	for _, i := range d.out[indx] {
		res = append(res, d.vertices[i])
	}
	return res
}

// FindComponents returns one component per root vertex (a vertex nothing
// points to) with the root and everything reachable from it. Vertices that
// are only reachable from a cycle get a component of their own, started at
// the first of them in insertion order. Vertices in a component keep
// insertion order.
func (d *Dag) FindComponents() [][]Vertex {
	covered := make([]bool, len(d.vertices))

	res := [][]Vertex{}
	addComponent := func(root int) {
		visited := d.reachable(root)
		comp := []Vertex{}
		for i, ok := range visited {
			if ok {
				covered[i] = true
				comp = append(comp, d.vertices[i])
			}
		}
		res = append(res, comp)
	}

	for i := range d.vertices {
		if len(d.in[i]) == 0 {
			addComponent(i)
		}
	}
	for i := range d.vertices {
		if !covered[i] {
			addComponent(i)
		}
	}
	return res
}

func (d *Dag) reachable(root int) []bool {
	visited := make([]bool, len(d.vertices))

	stack := []int{root}
	for len(stack) != 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[i] {
			continue
		}
		visited[i] = true
		stack = append(stack, d.out[i]...)
	}
	return visited
}
