// Package graph derives whole-population structure from claims and edges:
// connected components, the longest prerequisite chain, hub dominance,
// articulation points, and two cohesion metrics.
//
// Edges referencing unknown claim ids are skipped at the point of use.
// Connectivity treats every edge type as undirected; only the chain search
// and hub detection care about direction.
package graph

import (
	"sort"

	"github.com/mahdieldaw/strata/internal/model"
	"github.com/mahdieldaw/strata/internal/stats"
)

// Analyzer computes the GraphAnalysis for one claim population
type Analyzer struct{}

// NewAnalyzer creates a new graph analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze derives the full graph description. Claims must already carry
// support ratios; edges with dangling endpoints are silently ignored.
func (a *Analyzer) Analyze(claims []model.EnrichedClaim, edges []model.Edge) model.GraphAnalysis {
	idx := indexByID(claims)
	und := undirectedAdjacency(claims, edges, idx)

	components := connectedComponents(claims, und)

	chain, rootCount := longestPrerequisiteChain(claims, edges, idx)
	hubID, dominance := hubClaim(claims, edges, idx)

	return model.GraphAnalysis{
		ComponentCount:     len(components),
		Components:         components,
		LongestChain:       chain,
		ChainRootCount:     rootCount,
		HubClaimID:         hubID,
		HubDominance:       dominance,
		ArticulationPoints: articulationPoints(claims, und),
		ClusterCohesion:    clusterCohesion(claims, edges, idx),
		LocalCoherence:     localCoherence(claims, edges, idx, components),
	}
}

// indexByID maps claim ids to their position in input order
func indexByID(claims []model.EnrichedClaim) map[string]int {
	idx := make(map[string]int, len(claims))
	for i, c := range claims {
		idx[c.ID] = i
	}
	return idx
}

// undirectedAdjacency builds neighbor lists over all edge types,
// deduplicated, in input order
func undirectedAdjacency(claims []model.EnrichedClaim, edges []model.Edge, idx map[string]int) [][]int {
	adj := make([][]int, len(claims))
	seen := make(map[[2]int]bool)
	for _, e := range edges {
		fi, okFrom := idx[e.From]
		ti, okTo := idx[e.To]
		if !okFrom || !okTo || fi == ti {
			continue
		}
		key := [2]int{fi, ti}
		if fi > ti {
			key = [2]int{ti, fi}
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		adj[fi] = append(adj[fi], ti)
		adj[ti] = append(adj[ti], fi)
	}
	return adj
}

// connectedComponents returns claim-id groups via iterative DFS in input order
func connectedComponents(claims []model.EnrichedClaim, adj [][]int) [][]string {
	visited := make([]bool, len(claims))
	var components [][]string

	for start := range claims {
		if visited[start] {
			continue
		}
		var member []string
		stack := []int{start}
		visited[start] = true
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			member = append(member, claims[n].ID)
			for _, nb := range adj[n] {
				if !visited[nb] {
					visited[nb] = true
					stack = append(stack, nb)
				}
			}
		}
		sort.Strings(member)
		components = append(components, member)
	}
	return components
}

// longestPrerequisiteChain finds the longest path along prerequisite edges.
// Roots are claims with no incoming prerequisite edge; when the input is
// cyclic and no roots exist, every node is tried as a start. The revisit
// guard covers only the current path, not a global visited set, so
// alternate branches from a shared ancestor are still explored.
func longestPrerequisiteChain(claims []model.EnrichedClaim, edges []model.Edge, idx map[string]int) ([]string, int) {
	out := make([][]int, len(claims))
	hasIncoming := make([]bool, len(claims))
	prereqCount := 0
	for _, e := range edges {
		if e.Type != model.EdgePrerequisite {
			continue
		}
		fi, okFrom := idx[e.From]
		ti, okTo := idx[e.To]
		if !okFrom || !okTo || fi == ti {
			continue
		}
		out[fi] = append(out[fi], ti)
		hasIncoming[ti] = true
		prereqCount++
	}
	if prereqCount == 0 {
		return nil, 0
	}

	var starts []int
	rootCount := 0
	for i := range claims {
		if !hasIncoming[i] && len(out[i]) > 0 {
			starts = append(starts, i)
			rootCount++
		}
	}
	if len(starts) == 0 {
		// Cyclic input: no natural roots, so search from everywhere.
		for i := range claims {
			if len(out[i]) > 0 {
				starts = append(starts, i)
			}
		}
	}

	var best []int
	onPath := make([]bool, len(claims))
	path := make([]int, 0, len(claims))

	var dfs func(n int)
	dfs = func(n int) {
		onPath[n] = true
		path = append(path, n)
		if len(path) > len(best) {
			best = append(best[:0], path...)
		}
		for _, next := range out[n] {
			if onPath[next] {
				continue
			}
			dfs(next)
		}
		path = path[:len(path)-1]
		onPath[n] = false
	}

	for _, s := range starts {
		dfs(s)
	}

	chain := make([]string, len(best))
	for i, n := range best {
		chain[i] = claims[n].ID
	}
	return chain, rootCount
}

// hubClaim finds the claim with the highest prerequisite/supports
// out-degree. A hub exists only when that out-degree is at least 2 and at
// least 1.5 times the runner-up.
func hubClaim(claims []model.EnrichedClaim, edges []model.Edge, idx map[string]int) (string, float64) {
	if len(claims) == 0 {
		return "", 0
	}
	outDeg := make([]int, len(claims))
	for _, e := range edges {
		if e.Type != model.EdgePrerequisite && e.Type != model.EdgeSupports {
			continue
		}
		fi, okFrom := idx[e.From]
		_, okTo := idx[e.To]
		if !okFrom || !okTo {
			continue
		}
		outDeg[fi]++
	}

	top, second, topIdx := 0, 0, -1
	for i, d := range outDeg {
		if d > top {
			second = top
			top = d
			topIdx = i
		} else if d > second {
			second = d
		}
	}
	if top < 2 {
		return "", 0
	}
	var dominance float64
	if second == 0 {
		dominance = float64(top)
	} else {
		dominance = float64(top) / float64(second)
	}
	if dominance < 1.5 {
		return "", 0
	}
	return claims[topIdx].ID, dominance
}

// articulationPoints runs the standard low-link DFS over the undirected
// adjacency and returns cut vertices in input order
func articulationPoints(claims []model.EnrichedClaim, adj [][]int) []string {
	n := len(claims)
	disc := make([]int, n)
	low := make([]int, n)
	parent := make([]int, n)
	isCut := make([]bool, n)
	for i := range parent {
		parent[i] = -1
		disc[i] = -1
	}
	timer := 0

	var dfs func(u int)
	dfs = func(u int) {
		disc[u] = timer
		low[u] = timer
		timer++
		children := 0
		for _, v := range adj[u] {
			if disc[v] == -1 {
				parent[v] = u
				children++
				dfs(v)
				if low[v] < low[u] {
					low[u] = low[v]
				}
				if parent[u] == -1 && children > 1 {
					isCut[u] = true
				}
				if parent[u] != -1 && low[v] >= disc[u] {
					isCut[u] = true
				}
			} else if v != parent[u] && disc[v] < low[u] {
				low[u] = disc[v]
			}
		}
	}

	for i := 0; i < n; i++ {
		if disc[i] == -1 {
			dfs(i)
		}
	}

	var points []string
	for i, cut := range isCut {
		if cut {
			points = append(points, claims[i].ID)
		}
	}
	return points
}

// clusterCohesion measures actual versus possible connections among the
// top-30%-by-support claims
func clusterCohesion(claims []model.EnrichedClaim, edges []model.Edge, idx map[string]int) float64 {
	ratios := make([]float64, len(claims))
	for i, c := range claims {
		ratios[i] = c.SupportRatio
	}
	cutoff, ok := stats.TopThreshold(ratios, 0.30)
	if !ok {
		return 0
	}

	high := make(map[int]bool)
	for i, c := range claims {
		if c.SupportRatio >= cutoff {
			high[i] = true
		}
	}
	k := len(high)
	if k < 2 {
		return 0
	}

	connected := make(map[[2]int]bool)
	for _, e := range edges {
		fi, okFrom := idx[e.From]
		ti, okTo := idx[e.To]
		if !okFrom || !okTo || fi == ti || !high[fi] || !high[ti] {
			continue
		}
		key := [2]int{fi, ti}
		if fi > ti {
			key = [2]int{ti, fi}
		}
		connected[key] = true
	}

	possible := k * (k - 1) / 2
	return float64(len(connected)) / float64(possible)
}

// localCoherence aggregates per-component edge density, weighted by
// component size share and average support
func localCoherence(claims []model.EnrichedClaim, edges []model.Edge, idx map[string]int, components [][]string) float64 {
	if len(claims) == 0 {
		return 0
	}

	compOf := make(map[string]int, len(claims))
	for ci, member := range components {
		for _, id := range member {
			compOf[id] = ci
		}
	}

	edgeCount := make([]int, len(components))
	for _, e := range edges {
		_, okFrom := idx[e.From]
		_, okTo := idx[e.To]
		if !okFrom || !okTo {
			continue
		}
		if ci, ok := compOf[e.From]; ok && compOf[e.To] == ci {
			edgeCount[ci]++
		}
	}

	supportSum := make([]float64, len(components))
	for _, c := range claims {
		supportSum[compOf[c.ID]] += c.SupportRatio
	}

	total := float64(len(claims))
	coherence := 0.0
	for ci, member := range components {
		size := len(member)
		if size < 2 {
			continue
		}
		possible := size * (size - 1) / 2
		density := float64(edgeCount[ci]) / float64(possible)
		if density > 1 {
			density = 1
		}
		avgSupport := supportSum[ci] / float64(size)
		coherence += density * (float64(size) / total) * avgSupport
	}
	return coherence
}
