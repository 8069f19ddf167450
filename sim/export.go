package sim

// ConvertToNetPlan exports the live routes as a new plan snapshot. Each
// route becomes a planned route over its expanded current path carrying its
// current traffic; protection segments and backup lists are dropped. The
// returned plan shares nothing with the state or its source plan.
func (d *netData) ConvertToNetPlan() *NetPlan {
	out := d.plan.Clone()
	out.Segments = nil
	out.Routes = make([]PlannedRoute, 0, len(d.routes))
	for _, r := range d.routes {
		if r == nil {
			continue
		}
		out.Routes = append(out.Routes, PlannedRoute{
			Demand:         r.demand,
			CarriedTraffic: r.currentTraffic,
			Path:           d.expand(r.currentPath),
			Attributes:     r.attrs.clone(),
		})
	}
	return out
}
