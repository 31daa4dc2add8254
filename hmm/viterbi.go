package hmm

import (
	"gonum.org/v1/gonum/floats"
)

// viterbi returns the most likely state path for a run of bins given the joint log
// emissions em[t][state]. When predecessors score equally the path stays in the same
// state, then prefers the lowest state.
func (m *model) viterbi(em [][]float64) []int {
	n := len(em)
	if n == 0 {
		return nil
	}
	k := m.states
	back := make([][]int, n)
	prev := make([]float64, k)
	curr := make([]float64, k)
	for c := 0; c < k; c++ {
		prev[c] = m.logInit + em[0][c]
	}

	var best, score float64
	var arg int
	for t := 1; t < n; t++ {
		back[t] = make([]int, k)
		for c := 0; c < k; c++ {
			best, arg = prev[c]+m.logStay, c
			for from := 0; from < k; from++ {
				if from == c {
					continue
				}
				score = prev[from] + m.logMove
				if score > best {
					best, arg = score, from
				}
			}
			curr[c] = best + em[t][c]
			back[t][c] = arg
		}
		prev, curr = curr, prev
	}

	path := make([]int, n)
	path[n-1] = floats.MaxIdx(prev)
	for t := n - 1; t > 0; t-- {
		path[t-1] = back[t][path[t]]
	}
	return path
}
