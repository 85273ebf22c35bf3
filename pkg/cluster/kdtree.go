package cluster

import (
	"math"
	"sort"
)

// kdNode is one node of a balanced k-d tree built by median-split over
// the splitting axis (depth mod dims).
type kdNode struct {
	index       int
	point       []float64
	axis        int
	left, right *kdNode
}

func buildKDTree(indices []int, points [][]float64, depth, dims int) *kdNode {
	if len(indices) == 0 {
		return nil
	}

	axis := depth % dims
	sort.Slice(indices, func(i, j int) bool {
		return points[indices[i]][axis] < points[indices[j]][axis]
	})

	mid := len(indices) / 2
	node := &kdNode{
		index: indices[mid],
		point: points[indices[mid]],
		axis:  axis,
	}
	node.left = buildKDTree(indices[:mid], points, depth+1, dims)
	node.right = buildKDTree(indices[mid+1:], points, depth+1, dims)
	return node
}

// rangeSearch collects, into out, every node whose point lies within eps
// of target, excluding target's own index. It prunes a subtree whenever
// the splitting-plane distance along the node's axis already exceeds eps.
func rangeSearch(node *kdNode, target []float64, targetIdx int, eps float64, out *[]int) {
	if node == nil {
		return
	}

	if node.index != targetIdx && euclidean(node.point, target) <= eps {
		*out = append(*out, node.index)
	}

	diff := target[node.axis] - node.point[node.axis]

	near, far := node.left, node.right
	if diff > 0 {
		near, far = node.right, node.left
	}

	rangeSearch(near, target, targetIdx, eps, out)
	if math.Abs(diff) <= eps {
		rangeSearch(far, target, targetIdx, eps, out)
	}
}

// KDTree is a Labeler whose neighbor queries are accelerated by a
// k-d tree instead of scanning every point.
type KDTree struct {
	Params Params
}

// NewKDTree builds a k-d-tree-accelerated DBSCAN labeler.
func NewKDTree(p Params) *KDTree { return &KDTree{Params: p} }

// Label runs DBSCAN using k-d-tree-accelerated neighbor queries. It
// produces cluster labels identical (up to relabeling) to BruteForce on
// the same input.
func (d *KDTree) Label(points [][]float64) ([]int, error) {
	dims, err := validate(points)
	if err != nil {
		return nil, err
	}

	indices := make([]int, len(points))
	for i := range indices {
		indices[i] = i
	}
	root := buildKDTree(indices, points, 0, dims)

	return dbscan(points, d.Params, func(idx int) []int {
		var out []int
		rangeSearch(root, points[idx], idx, d.Params.Eps, &out)
		return out
	})
}
