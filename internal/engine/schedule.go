package engine

import (
	"container/heap"
	"strings"
)

// Schedule returns the evaluation order of g as node ids
func Schedule(g *Graph) ([]string, error) {
	order, err := schedule(g)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(order))
	for i, idx := range order {
		ids[i] = g.nodes[idx].NodeID
	}
	return ids, nil
}

// schedule runs Kahn's algorithm. Among ready nodes the one with the smallest
// input index is taken first, so the order is deterministic.
func schedule(g *Graph) ([]int, error) {
	n := len(g.nodes)
	indegree := make([]int, n)
	for i := range g.nodes {
		indegree[i] = len(g.preds[i])
	}

	ready := &indexHeap{}
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			*ready = append(*ready, i)
		}
	}
	heap.Init(ready)

	order := make([]int, 0, n)
	for ready.Len() > 0 {
		i := heap.Pop(ready).(int)
		order = append(order, i)
		for _, j := range g.succs[i] {
			indegree[j]--
			if indegree[j] == 0 {
				heap.Push(ready, j)
			}
		}
	}

	if len(order) < n {
		return nil, cycleError(g, indegree)
	}
	return order, nil
}

// cycleError walks back from the first unordered node through unordered
// predecessors until a node repeats; that node lies on a cycle.
func cycleError(g *Graph, indegree []int) *Error {
	start := -1
	for i, d := range indegree {
		if d > 0 {
			start = i
			break
		}
	}

	pos := make(map[int]int)
	var path []int
	cur := start
	for {
		if at, ok := pos[cur]; ok {
			path = path[at:]
			break
		}
		pos[cur] = len(path)
		path = append(path, cur)
		next := -1
		for _, p := range g.preds[cur] {
			if indegree[p] > 0 && (next < 0 || p < next) {
				next = p
			}
		}
		cur = next
	}

	// path was walked against edge direction; report it forwards, starting
	// from the node with the smallest input index
	cycle := make([]int, 0, len(path))
	for k := len(path) - 1; k >= 0; k-- {
		cycle = append(cycle, path[k])
	}
	first := 0
	for k, idx := range cycle {
		if idx < cycle[first] {
			first = k
		}
	}
	rotated := append(append([]int{}, cycle[first:]...), cycle[:first]...)

	names := make([]string, 0, len(rotated)+1)
	for _, idx := range rotated {
		names = append(names, g.nodes[idx].NodeID)
	}
	names = append(names, names[0])

	err := newError(KindCycleDetected, PhaseOrdering,
		"cycle detected involving node %q: %s", names[0], strings.Join(names, " -> "))
	err.NodeID = names[0]
	return err
}

type indexHeap []int

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *indexHeap) Push(x any) {
	*h = append(*h, x.(int))
}

func (h *indexHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
