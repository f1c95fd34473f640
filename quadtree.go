package gravitysim

// CollocatePolicy controls what happens when two particles fall into the
// same quadrant and the cell's bounds are already at or below the minimum
// cell size, so subdivision is refused.
type CollocatePolicy int

const (
	// PolicyCollocate accepts both particles into the same leaf, which is
	// then treated by traversal as a single aggregate body of combined
	// mass. This is the default, chosen for determinism.
	PolicyCollocate CollocatePolicy = iota
	// PolicyMerge folds the incoming particle into the leaf's existing
	// occupant via ParticleStore.Merge, shedding a body rather than
	// co-locating it. Offered for long-running dense simulations; not the
	// default.
	PolicyMerge
)

const noNode int32 = -1

// quadNode is one node of the arena-backed quadtree. A node is:
//   - empty, if bodyIndex < 0, extra == nil, and it has no children;
//   - a leaf, if bodyIndex >= 0 and it has no children (extra holds any
//     additional co-located bodies beyond bodyIndex, normally nil);
//   - internal, if it has at least one non-absent child (bodyIndex is then
//     always -1 and extra is always nil).
type quadNode struct {
	bounds       Box2
	centerOfMass Vector2
	totalMass    float64
	bodyIndex    int32
	extra        []int32
	children     [4]int32
	depth        int32
}

func (n *quadNode) hasChildren() bool {
	return n.children[0] != noNode || n.children[1] != noNode || n.children[2] != noNode || n.children[3] != noNode
}

func (n *quadNode) isLeaf() bool {
	return !n.hasChildren()
}

// containsBody reports whether node n directly holds particle index i as
// one of its (possibly co-located) occupants.
func (n *quadNode) containsBody(i int32) bool {
	if n.bodyIndex == i {
		return true
	}
	for _, e := range n.extra {
		if e == i {
			return true
		}
	}
	return false
}

// QuadTree is a mass-aggregating region quadtree over a square domain,
// built fresh from a ParticleStore every simulation step and then treated
// as immutable for the duration of a read-only, parallel force-evaluation
// traversal.
//
// Nodes are held in an arena (an int32-indexed slice) rather than as
// owning pointers, so the tree is cheap to rebuild (the arena's backing
// array is reused across steps) and trivially safe to share read-only
// across goroutines: there are no pointers for a concurrent reader to chase
// into a structure that might be concurrently mutated, because after Reset
// returns nothing under the arena is mutated again until the next Reset.
type QuadTree struct {
	nodes       []quadNode
	store       *ParticleStore
	minCellSize float64
	policy      CollocatePolicy
	bounds      Box2
	live        int
}

// NewQuadTree returns an empty QuadTree. Call Reset to build it over a
// ParticleStore.
func NewQuadTree() *QuadTree {
	return &QuadTree{}
}

// Bounds returns the root bounds used by the most recent Reset.
func (t *QuadTree) Bounds() Box2 { return t.bounds }

// Root returns the root node's total mass and center of mass, or
// (0, Vector2{}) if the tree holds no live bodies.
func (t *QuadTree) Root() (totalMass float64, centerOfMass Vector2) {
	if len(t.nodes) == 0 {
		return 0, Vector2{}
	}
	return t.nodes[0].totalMass, t.nodes[0].centerOfMass
}

func (t *QuadTree) newNode(bounds Box2, depth int32) int32 {
	id := int32(len(t.nodes))
	t.nodes = append(t.nodes, quadNode{
		bounds:    bounds,
		bodyIndex: noNode,
		children:  [4]int32{noNode, noNode, noNode, noNode},
		depth:     depth,
	})
	return id
}

// Reset rebuilds the tree from scratch over the live bodies of store,
// within the given square root bounds. bounds must be square and must
// contain every live body in store, or Reset returns an *InvariantError
// without mutating the tree further.
//
// Reset reuses the tree's previous arena backing array when it has enough
// capacity, so repeated stepping does not allocate 4*N node objects every
// step once the arena has grown to a stable size.
func (t *QuadTree) Reset(store *ParticleStore, bounds Box2, minCellSize float64, policy CollocatePolicy) error {
	if !bounds.IsSquare() {
		return invariantf("QuadTree", "root bounds must be square, got %+v", bounds)
	}
	t.nodes = t.nodes[:0]
	t.store = store
	t.minCellSize = minCellSize
	t.policy = policy
	t.bounds = bounds
	t.live = 0

	live := store.liveIndices()
	if len(live) == 0 {
		return nil
	}

	t.newNode(bounds, 0) // root is always node 0
	for _, i := range live {
		p := store.Position(i)
		if !bounds.Contains(p) {
			return invariantf("QuadTree", "body %d at %+v lies outside root bounds %+v", i, p, bounds)
		}
		if err := t.insert(0, int32(i)); err != nil {
			return err
		}
	}
	t.live = len(live)
	t.summarize(0)
	return nil
}

func (t *QuadTree) insert(nodeID, p int32) error {
	node := t.nodes[nodeID]
	switch {
	case node.bodyIndex == noNode && node.extra == nil && node.isLeaf():
		nn := &t.nodes[nodeID]
		nn.bodyIndex = p
		return nil
	case node.hasChildren():
		return t.passDown(nodeID, p)
	default:
		// Leaf already holding one or more occupants.
		if node.bounds.Width() > t.minCellSize {
			occupants := append([]int32{node.bodyIndex}, node.extra...)
			nn := &t.nodes[nodeID]
			nn.bodyIndex = noNode
			nn.extra = nil
			for _, e := range occupants {
				if err := t.passDown(nodeID, e); err != nil {
					return err
				}
			}
			return t.passDown(nodeID, p)
		}
		switch t.policy {
		case PolicyMerge:
			return t.store.Merge(int(node.bodyIndex), int(p))
		default:
			nn := &t.nodes[nodeID]
			nn.extra = append(nn.extra, p)
			return nil
		}
	}
}

func (t *QuadTree) passDown(nodeID, p int32) error {
	bounds := t.nodes[nodeID].bounds
	depth := t.nodes[nodeID].depth
	dir := bounds.QuadrantOf(t.store.Position(int(p)))
	childID := t.nodes[nodeID].children[dir]
	if childID == noNode {
		childBounds := bounds.Subdivide()[dir]
		childID = t.newNode(childBounds, depth+1)
		t.nodes[nodeID].children[dir] = childID
	}
	return t.insert(childID, p)
}

// summarize computes totalMass and centerOfMass for node nodeID and every
// descendant, bottom-up, and returns the computed (centerOfMass, totalMass)
// for use by the node's parent.
func (t *QuadTree) summarize(nodeID int32) (Vector2, float64) {
	n := &t.nodes[nodeID]
	if n.hasChildren() {
		var center Vector2
		var mass float64
		for _, c := range n.children {
			if c == noNode {
				continue
			}
			cc, cm := t.summarize(c)
			center.AddInPlace(cc.Scale(cm))
			mass += cm
		}
		if mass > 0 {
			center.ScaleInPlace(1 / mass)
		}
		n.centerOfMass = center
		n.totalMass = mass
		return center, mass
	}
	if n.bodyIndex == noNode {
		n.centerOfMass = Vector2{}
		n.totalMass = 0
		return Vector2{}, 0
	}
	var center Vector2
	var mass float64
	occupants := append([]int32{n.bodyIndex}, n.extra...)
	for _, idx := range occupants {
		m := t.store.Mass(int(idx))
		center.AddInPlace(t.store.Position(int(idx)).Scale(m))
		mass += m
	}
	center.ScaleInPlace(1 / mass)
	n.centerOfMass = center
	n.totalMass = mass
	return center, mass
}

// Rectangles returns the bounds of every occupied node (leaf or internal)
// in the tree, for observers such as a renderer's debug overlay of cell
// outlines. Empty nodes are omitted.
func (t *QuadTree) Rectangles() []Box2 {
	if len(t.nodes) == 0 {
		return nil
	}
	var out []Box2
	stack := []int32{0}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[id]
		if n.totalMass == 0 {
			continue
		}
		out = append(out, n.bounds)
		for _, c := range n.children {
			if c != noNode {
				stack = append(stack, c)
			}
		}
	}
	return out
}

// traversalResult accumulates the outcome of a single ComputeForce
// call: the net force on the query body, and the number of accepted
// cell-body interactions.
type traversalResult struct {
	force        Vector2
	interactions int
}

// ComputeForce walks the tree for query body i (at position p with
// mass m), applying the Barnes-Hut opening-angle criterion with parameter
// theta, and returns the net force (not yet divided by m) contributed by
// every accepted node, along with the number of accepted interactions.
//
// Traversal is iterative (an explicit stack, supplied by the caller as
// scratch space so concurrent callers each use their own) rather than
// recursive, so that it is trivially safe to call concurrently for
// distinct query indices over a shared, read-only tree.
func (t *QuadTree) ComputeForce(i int, p Vector2, m, theta float64, kernel ForceFunc, stack []int32) (Vector2, int) {
	if len(t.nodes) == 0 {
		return Vector2{}, 0
	}
	theta2 := theta * theta
	qi := int32(i)

	var result traversalResult
	stack = append(stack[:0], 0)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[id]
		if n.totalMass == 0 {
			continue
		}
		if n.isLeaf() && n.containsBody(qi) {
			continue
		}

		delta := n.centerOfMass.Sub(p)
		d2 := delta.LenSq()
		if d2 == 0 {
			// Degenerate zero-distance interaction: skipped silently,
			// whether it arose from self-reference through an aggregate or
			// genuine coincidence with a distinct body.
			continue
		}

		accept := n.isLeaf()
		if !accept {
			accept = n.bounds.SquaredSide() < theta2*d2
		}
		if accept {
			result.force.AddInPlace(kernel(m, n.totalMass, delta))
			result.interactions++
			continue
		}

		for _, c := range n.children {
			if c != noNode {
				stack = append(stack, c)
			}
		}
	}
	return result.force, result.interactions
}
