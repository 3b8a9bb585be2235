package pathfinding

const noParent = -1

// searchNode is one entry of the search tree. Nodes reference their parent by
// arena handle and are never modified after creation.
type searchNode struct {
	state  Position
	parent int
	action Action
	cost   int
}

// arena owns every node created during one search.
type arena struct {
	nodes []searchNode
}

func (a *arena) add(n searchNode) int {
	a.nodes = append(a.nodes, n)
	return len(a.nodes) - 1
}

func (a *arena) at(handle int) searchNode { return a.nodes[handle] }

// reconstruct walks parent handles from handle back to the root and returns
// the states and actions in start-to-goal order. The root (start) is excluded.
func (a *arena) reconstruct(handle int) ([]Position, []Action) {
	var (
		path    []Position
		actions []Action
	)
	for n := a.nodes[handle]; n.parent != noParent; n = a.nodes[n.parent] {
		path = append(path, n.state)
		actions = append(actions, n.action)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
		actions[i], actions[j] = actions[j], actions[i]
	}
	return path, actions
}
