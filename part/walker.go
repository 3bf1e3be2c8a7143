package part

// Walker is a function that is called for each part of a tree. The depth of
// the root is 0. The index is the position of the part among its siblings.
type Walker func(depth, i int, p *Part) error

// Walk performs a depth first search for all the parts of a tree starting
// with the root itself. It calls the Walker for each part, parents before
// their children and children in order. If the Walker returns an error, then
// processing stops immediately and the error is returned.
func (w Walker) Walk(root *Part) error {
	if root == nil {
		return nil
	}

	type item struct {
		depth int
		i     int
		part  *Part
	}

	work := make([]item, 0, 10)
	push := func(depth int, p *Part) {
		kids := p.Children()
		for i := len(kids) - 1; i >= 0; i-- {
			work = append(work, item{depth, i, kids[i]})
		}
	}

	work = append(work, item{0, 0, root})
	for len(work) > 0 {
		end := len(work) - 1
		it := work[end]
		work = work[:end]

		if err := w(it.depth, it.i, it.part); err != nil {
			return err
		}
		push(it.depth+1, it.part)
	}

	return nil
}

// WalkLeaves calls the Walker for every part that is not a container.
func (w Walker) WalkLeaves(root *Part) error {
	var lw Walker = func(depth, i int, p *Part) error {
		if p.IsLeaf() {
			return w(depth, i, p)
		}
		return nil
	}
	return lw.Walk(root)
}

// WalkContainers calls the Walker for every container.
func (w Walker) WalkContainers(root *Part) error {
	var cw Walker = func(depth, i int, p *Part) error {
		if !p.IsLeaf() {
			return w(depth, i, p)
		}
		return nil
	}
	return cw.Walk(root)
}

// Collect returns every part of the given kind in depth-first order.
func Collect(root *Part, kind Kind) []*Part {
	var found []*Part
	var cw Walker = func(_, _ int, p *Part) error {
		if p.Kind() == kind {
			found = append(found, p)
		}
		return nil
	}
	_ = cw.Walk(root)
	return found
}
