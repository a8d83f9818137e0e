package sim

import (
	"github.com/dinorampage/combat/internal/shop"
)

// Autopilot is a scripted Driver for headless sessions: it drives in a wide
// circle, keeps a target locked, fires at it, cycles weapons periodically and
// buys whatever the shop lists as affordable.
type Autopilot struct {
	engine      *Engine
	CycleEvery  uint64
	TurnEvery   uint64
	BuyUpgrades bool
}

// NewAutopilot returns an Autopilot bound to e.
func NewAutopilot(e *Engine) *Autopilot {
	return &Autopilot{
		engine:      e,
		CycleEvery:  600,
		TurnEvery:   4,
		BuyUpgrades: true,
	}
}

func (p *Autopilot) Next(prev *Snapshot) Input {
	in := Input{Forward: true}
	if prev == nil {
		in.LockNext = true
		return in
	}

	if p.TurnEvery > 0 && prev.Tick%p.TurnEvery == 0 {
		in.Left = true
	}

	if prev.LockedID == 0 {
		in.LockNext = true
		in.Fire = true
	} else {
		in.LockFire = true
	}

	if p.CycleEvery > 0 && prev.Tick > 0 && prev.Tick%p.CycleEvery == 0 {
		in.CycleWeapon = 1
	}

	if p.BuyUpgrades && prev.Coins > 0 {
		coins := prev.Coins
		for _, o := range p.engine.Shop().Offers() {
			if o.Cost > 0 && o.Cost <= coins && o.Level < shop.MaxLevel {
				in.Purchases = append(in.Purchases, o.Upgrade)
				coins -= o.Cost
			}
		}
	}
	return in
}
