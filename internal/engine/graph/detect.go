package graph

import "sort"

// FindCycles returns every strongly connected component that forms a
// dependency cycle: components with more than one file, plus single files
// that import themselves. Each group is sorted internally and groups are
// ordered by their first file, so identical graphs yield identical output.
func (g *Graph) FindCycles() [][]string {
	adjacency := make(map[string][]string, len(g.nodes))
	for _, from := range g.nodes {
		adjacency[from] = sortedKeys(g.edges[from])
	}

	_, components := stronglyConnectedComponents(g.nodes, adjacency)

	var cycles [][]string
	for _, component := range components {
		if len(component) > 1 {
			cycles = append(cycles, component)
			continue
		}
		node := component[0]
		if g.edges[node] != nil && g.edges[node][node] != nil {
			cycles = append(cycles, component)
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i][0] < cycles[j][0]
	})
	return cycles
}

func stronglyConnectedComponents(nodes []string, adjacency map[string][]string) (map[string]int, [][]string) {
	index := 0
	stack := make([]string, 0, len(nodes))
	onStack := make(map[string]bool, len(nodes))
	indexByNode := make(map[string]int, len(nodes))
	lowLink := make(map[string]int, len(nodes))
	componentOf := make(map[string]int, len(nodes))
	components := make([][]string, 0)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indexByNode[v] = index
		lowLink[v] = index
		index++

		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adjacency[v] {
			if _, seen := indexByNode[w]; !seen {
				strongConnect(w)
				if lowLink[w] < lowLink[v] {
					lowLink[v] = lowLink[w]
				}
			} else if onStack[w] && indexByNode[w] < lowLink[v] {
				lowLink[v] = indexByNode[w]
			}
		}

		if lowLink[v] != indexByNode[v] {
			return
		}

		component := make([]string, 0)
		for {
			last := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[last] = false
			component = append(component, last)
			if last == v {
				break
			}
		}
		sort.Strings(component)
		compID := len(components)
		components = append(components, component)
		for _, n := range component {
			componentOf[n] = compID
		}
	}

	for _, node := range nodes {
		if _, seen := indexByNode[node]; !seen {
			strongConnect(node)
		}
	}

	return componentOf, components
}
