package diff

// myersEdits implements the Myers diff algorithm over arbitrary items.
// Common prefix and suffix are matched up front so the search only runs
// over the region that actually differs.
func myersEdits[T any](old, new []T, same func(a, b T) bool) []Edit {
	n := len(old)
	m := len(new)

	prefix := 0
	for prefix < n && prefix < m && same(old[prefix], new[prefix]) {
		prefix++
	}
	suffix := 0
	for suffix < n-prefix && suffix < m-prefix && same(old[n-1-suffix], new[m-1-suffix]) {
		suffix++
	}

	edits := make([]Edit, 0, n+m-prefix-suffix)
	for i := 0; i < prefix; i++ {
		edits = append(edits, Edit{Op: OpEqual, OldIndex: i, NewIndex: i})
	}

	middle := myersMiddle(old[prefix:n-suffix], new[prefix:m-suffix], same)
	for _, e := range middle {
		if e.OldIndex >= 0 {
			e.OldIndex += prefix
		}
		if e.NewIndex >= 0 {
			e.NewIndex += prefix
		}
		edits = append(edits, e)
	}

	for i := 0; i < suffix; i++ {
		edits = append(edits, Edit{Op: OpEqual, OldIndex: n - suffix + i, NewIndex: m - suffix + i})
	}
	return edits
}

// myersMiddle runs the forward Myers pass and backtracks the shortest path.
func myersMiddle[T any](old, new []T, same func(a, b T) bool) []Edit {
	n := len(old)
	m := len(new)

	// Handle trivial cases
	if n == 0 && m == 0 {
		return nil
	}
	if n == 0 {
		ops := make([]Edit, m)
		for i := 0; i < m; i++ {
			ops[i] = Edit{Op: OpInsert, OldIndex: -1, NewIndex: i}
		}
		return ops
	}
	if m == 0 {
		ops := make([]Edit, n)
		for i := 0; i < n; i++ {
			ops[i] = Edit{Op: OpDelete, OldIndex: i, NewIndex: -1}
		}
		return ops
	}

	maxD := n + m
	offset := maxD // V[-max..max] maps to slice[0..2*max]
	v := make([]int, 2*maxD+1)

	var trace [][]int

outer:
	for d := 0; d <= maxD; d++ {
		// Keep the state from the previous round for backtracking
		vCopy := make([]int, len(v))
		copy(vCopy, v)
		trace = append(trace, vCopy)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}

			y := x - k

			// Follow the diagonal while items match
			for x < n && y < m && same(old[x], new[y]) {
				x++
				y++
			}

			v[offset+k] = x

			if x >= n && y >= m {
				vFinal := make([]int, len(v))
				copy(vFinal, v)
				trace = append(trace, vFinal)
				break outer
			}
		}
	}

	return backtrack(trace, n, m, offset)
}

// backtrack reconstructs the edit path from the saved V states.
func backtrack(trace [][]int, n, m, offset int) []Edit {
	if len(trace) == 0 {
		return nil
	}

	x := n
	y := m
	var ops []Edit

	// trace holds one entry per d plus the final state
	for d := len(trace) - 2; d >= 0; d-- {
		v := trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}

		prevX := v[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			ops = append(ops, Edit{Op: OpEqual, OldIndex: x, NewIndex: y})
		}

		if d > 0 {
			if x > prevX {
				x--
				ops = append(ops, Edit{Op: OpDelete, OldIndex: x, NewIndex: -1})
			} else if y > prevY {
				y--
				ops = append(ops, Edit{Op: OpInsert, OldIndex: -1, NewIndex: y})
			}
		}
	}

	// Built backwards
	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}

	return ops
}
