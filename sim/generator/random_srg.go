package generator

import (
	"fmt"

	"github.com/netplan-sim/resilience-sim/sim"
	"github.com/sirupsen/logrus"
)

// RandomSRG models every SRG as an alternating renewal process: up for an
// exponentially distributed time with mean MTTF, then down for an
// exponentially distributed time with mean MTTR. Each SRG draws from its own
// RNG subsystem so runs are reproducible per seed.
type RandomSRG struct {
	rng         *sim.PartitionedRNG
	defaultMTTF float64
	defaultMTTR float64
}

// NewRandomSRG creates a random SRG generator. The defaults apply to SRGs
// whose own MTTF or MTTR is zero.
func NewRandomSRG(rng *sim.PartitionedRNG, defaultMTTFHours, defaultMTTRHours float64) *RandomSRG {
	return &RandomSRG{rng: rng, defaultMTTF: defaultMTTFHours, defaultMTTR: defaultMTTRHours}
}

// Initialize schedules the first failure of every SRG that can fail. An SRG
// that can fail must resolve to a positive MTTR.
func (g *RandomSRG) Initialize(plan *sim.NetPlan, _ sim.Reader) ([]sim.Event, error) {
	var out []sim.Event
	for i := range plan.SRGs {
		mttf, mttr := g.means(plan, i)
		if mttf <= 0 {
			logrus.Debugf("srg %d has no MTTF, it never fails", i)
			continue
		}
		if mttr <= 0 {
			return nil, fmt.Errorf("srg %d has MTTF %g but no MTTR and no default_mttr_hours", i, mttf)
		}
		out = append(out, sim.NewSRGFailure(g.draw(i, mttf), i))
	}
	return out, nil
}

// ProcessEvent schedules the repair after a failure and the next failure
// after a repair of the same SRG. Other events schedule nothing.
func (g *RandomSRG) ProcessEvent(plan *sim.NetPlan, _ sim.Reader, ev sim.Event) ([]sim.Event, error) {
	if !ev.Type.IsSRG() {
		return nil, nil
	}
	mttf, mttr := g.means(plan, ev.Target)
	if ev.Type == sim.EventSRGFailure {
		return []sim.Event{sim.NewSRGReparation(ev.Time+g.draw(ev.Target, mttr), ev.Target)}, nil
	}
	if mttf <= 0 {
		return nil, nil
	}
	return []sim.Event{sim.NewSRGFailure(ev.Time+g.draw(ev.Target, mttf), ev.Target)}, nil
}

func (g *RandomSRG) means(plan *sim.NetPlan, srg int) (mttf, mttr float64) {
	s := plan.SRGs[srg]
	mttf, mttr = s.MTTFHours, s.MTTRHours
	if mttf == 0 {
		mttf = g.defaultMTTF
	}
	if mttr == 0 {
		mttr = g.defaultMTTR
	}
	return mttf, mttr
}

// draw samples an exponential duration with the given mean from the SRG's stream.
func (g *RandomSRG) draw(srg int, mean float64) float64 {
	return g.rng.ForSubsystem(sim.SubsystemSRG(srg)).ExpFloat64() * mean
}
