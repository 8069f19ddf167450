package sim

import "slices"

// NoNode is returned by the first-available-node queries when not even the
// starting end node of the route is up.
const NoNode = -1

// FirstAvailableNodeDownstream walks the planned path of route id from the
// demand's ingress node and returns the last node reachable before the
// first down link or node under st. Restoration algorithms use it as the
// upstream splice point.
func (d *netData) FirstAvailableNodeDownstream(id RouteID, st Status) (int, error) {
	r, ok := d.Route(id)
	if !ok {
		return NoNode, invalidOpf("unknown route %d", id)
	}
	n := d.plan.Demands[r.demand].Ingress
	if st.NodeDown(n) {
		return NoNode, nil
	}
	for _, l := range r.plannedPath {
		link := d.plan.Links[l]
		if st.LinkDown(l) || st.NodeDown(link.Destination) {
			break
		}
		n = link.Destination
	}
	return n, nil
}

// FirstAvailableNodeUpstream walks the planned path of route id backwards
// from the demand's egress node and returns the last node reachable before
// the first down link or node under st.
func (d *netData) FirstAvailableNodeUpstream(id RouteID, st Status) (int, error) {
	r, ok := d.Route(id)
	if !ok {
		return NoNode, invalidOpf("unknown route %d", id)
	}
	n := d.plan.Demands[r.demand].Egress
	if st.NodeDown(n) {
		return NoNode, nil
	}
	for i := len(r.plannedPath) - 1; i >= 0; i-- {
		link := d.plan.Links[r.plannedPath[i]]
		if st.LinkDown(r.plannedPath[i]) || st.NodeDown(link.Origin) {
			break
		}
		n = link.Origin
	}
	return n, nil
}

// MergedRoute splices partial into base: the links of base between the
// first occurrence of partial's head node and the last occurrence of its
// tail node are replaced by partial. A splice whose tail lies upstream of
// its head is rejected.
func (d *netData) MergedRoute(base, partial []int) ([]int, error) {
	if err := d.plan.CheckContinuous(base); err != nil {
		return nil, err
	}
	if err := d.plan.CheckContinuous(partial); err != nil {
		return nil, err
	}
	head := d.plan.Links[partial[0]].Origin
	tail := d.plan.Links[partial[len(partial)-1]].Destination
	return splice(base, d.plan.NodeSequence(base), head, tail, partial)
}

// MergedBackupRoute splices segment id into the step path base, replacing
// the steps between the segment's head and tail nodes. Only step boundaries
// are splice points; a segment step already in base is never cut.
func (d *netData) MergedBackupRoute(base []PathStep, id SegmentID) ([]PathStep, error) {
	sg, ok := d.Segment(id)
	if !ok {
		return nil, invalidOpf("unknown segment %d", id)
	}
	if len(base) == 0 {
		return nil, invalidOpf("empty path")
	}
	boundaries := make([]int, 0, len(base)+1)
	for i, st := range base {
		links, err := d.ExpandPath([]PathStep{st})
		if err != nil {
			return nil, err
		}
		if i == 0 {
			boundaries = append(boundaries, d.plan.Links[links[0]].Origin)
		} else if prev := boundaries[len(boundaries)-1]; prev != d.plan.Links[links[0]].Origin {
			return nil, invalidOpf("path %s is not continuous at position %d", FormatPath(base), i)
		}
		if err := d.plan.CheckContinuous(links); err != nil {
			return nil, err
		}
		boundaries = append(boundaries, d.plan.Links[links[len(links)-1]].Destination)
	}
	head := d.plan.Links[sg.path[0]].Origin
	tail := d.plan.Links[sg.path[len(sg.path)-1]].Destination
	return splice(base, boundaries, head, tail, []PathStep{SegmentStep(id)})
}

// splice replaces steps[i:j] by insert, where i is the first boundary equal
// to head and j the last boundary equal to tail. boundaries[k] is the node
// at which steps[k] starts; boundaries[len(steps)] is the final node.
func splice[T any](steps []T, boundaries []int, head, tail int, insert []T) ([]T, error) {
	i := slices.Index(boundaries, head)
	j := lastIndex(boundaries, tail)
	switch {
	case i < 0:
		return nil, invalidOpf("splice head node %d is not on the path", head)
	case j < 0:
		return nil, invalidOpf("splice tail node %d is not on the path", tail)
	case j < i:
		return nil, invalidOpf("splice from node %d to node %d would go upstream", head, tail)
	}
	out := make([]T, 0, i+len(insert)+len(steps)-j)
	out = append(out, steps[:i]...)
	out = append(out, insert...)
	out = append(out, steps[j:]...)
	return out, nil
}
