// Package cluster implements DBSCAN density clustering over point sets
// produced by the feature extractor, with a brute-force neighbor search
// and a k-d-tree-accelerated one behind a common Label signature.
package cluster

import (
	"math"

	"loganalytics-pipeline/pkg/errors"
)

// noise is the label assigned to points that are not part of any cluster.
const noise = -1

// Params configures a DBSCAN run. Metric is always Euclidean.
type Params struct {
	Eps        float64
	MinSamples int
}

// Labeler assigns a cluster label to every point in a set, in input order.
type Labeler interface {
	Label(points [][]float64) ([]int, error)
}

// BruteForce is a Labeler that computes neighborhoods by scanning every
// pair of points.
type BruteForce struct {
	Params Params
}

// NewBruteForce builds a brute-force DBSCAN labeler.
func NewBruteForce(p Params) *BruteForce { return &BruteForce{Params: p} }

func validate(points [][]float64) (int, error) {
	if len(points) == 0 {
		return 0, errors.InvalidInput("cluster", "Label", "input must not be empty")
	}
	dims := len(points[0])
	if dims == 0 {
		return 0, errors.InvalidInput("cluster", "Label", "points must have at least one dimension")
	}
	for _, p := range points {
		if len(p) != dims {
			return 0, errors.InvalidInput("cluster", "Label", "all points must share the same dimensionality")
		}
	}
	return dims, nil
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Label runs DBSCAN using brute-force neighbor queries.
func (d *BruteForce) Label(points [][]float64) ([]int, error) {
	if _, err := validate(points); err != nil {
		return nil, err
	}
	return dbscan(points, d.Params, func(idx int) []int {
		return bruteNeighbors(points, idx, d.Params.Eps)
	})
}

func bruteNeighbors(points [][]float64, idx int, eps float64) []int {
	var neighbors []int
	for j, p := range points {
		if j == idx {
			continue
		}
		if euclidean(points[idx], p) <= eps {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}

// dbscan implements the core labeling algorithm shared by both
// neighbor-query strategies: label every point -1 (unvisited/noise); for
// each unvisited point, compute its neighborhood, and either leave it as
// noise (below min_samples) or expand a new cluster by FIFO seed
// processing.
func dbscan(points [][]float64, p Params, neighborsOf func(int) []int) ([]int, error) {
	if p.Eps <= 0 {
		return nil, errors.InvalidInput("cluster", "Label", "eps must be positive")
	}
	if p.MinSamples < 1 {
		return nil, errors.InvalidInput("cluster", "Label", "min_samples must be at least 1")
	}

	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = noise
	}
	visited := make([]bool, len(points))
	nextCluster := 0

	for i := range points {
		if visited[i] {
			continue
		}
		visited[i] = true

		neighbors := neighborsOf(i)
		if len(neighbors)+1 < p.MinSamples {
			continue
		}

		clusterID := nextCluster
		nextCluster++
		labels[i] = clusterID

		seeds := append([]int(nil), neighbors...)
		inSeeds := make(map[int]bool, len(seeds))
		for _, s := range seeds {
			inSeeds[s] = true
		}

		for head := 0; head < len(seeds); head++ {
			j := seeds[head]

			if labels[j] == noise {
				labels[j] = clusterID
			}
			if visited[j] {
				continue
			}
			visited[j] = true

			jNeighbors := neighborsOf(j)
			if len(jNeighbors)+1 >= p.MinSamples {
				for _, k := range jNeighbors {
					if !inSeeds[k] {
						seeds = append(seeds, k)
						inSeeds[k] = true
					}
				}
			}
		}
	}

	return labels, nil
}

