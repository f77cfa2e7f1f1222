package game

import "slices"

// TapResult describes what a single contact point hit.
type TapResult struct {
	Hit       bool
	Pop       PopEvent
	Particles int
	Character bool
	Spirits   int
}

// HandleTap hit-tests one canvas-local point. The newest sphere under the
// point is popped; at most one sphere per call. Ignored unless a level is
// running and not paused.
func (e *Engine) HandleTap(x, y float64) TapResult {
	e.mu.Lock()
	res, cue := e.tapLocked(x, y)
	frame := e.frame
	e.mu.Unlock()

	if !res.Hit {
		return res
	}

	if res.Pop.IsTarget {
		e.events.EmitSimple(EventTypePop, frame, "input", PopPayload{
			X: res.Pop.X, Y: res.Pop.Y, Hue: res.Pop.Hue, IsTarget: true,
		})
	} else {
		e.events.EmitSimple(EventTypeWrongPick, frame, "input", PopPayload{
			X: res.Pop.X, Y: res.Pop.Y, Hue: res.Pop.Hue, Spirits: res.Spirits,
		})
	}

	e.observer.SpherePopped(res.Pop.IsTarget)
	e.feedback.Popped(res.Pop)
	if cue != nil {
		e.feedback.CharacterSpawned(*cue)
	}
	if res.Spirits > 0 {
		e.feedback.PenaltySpawned(res.Spirits)
	}
	return res
}

// HandleTouches hit-tests each contact point independently, in order.
func (e *Engine) HandleTouches(points []Point) []TapResult {
	out := make([]TapResult, len(points))
	for i, p := range points {
		out[i] = e.HandleTap(p.X, p.Y)
	}
	return out
}

func (e *Engine) tapLocked(x, y float64) (TapResult, *SpeechCue) {
	if e.state != StatePlaying || e.paused {
		return TapResult{}, nil
	}

	for i := len(e.spheres) - 1; i >= 0; i-- {
		sp := e.spheres[i]
		if !sp.Contains(x, y) {
			continue
		}

		res := TapResult{
			Hit: true,
			Pop: PopEvent{X: sp.X, Y: sp.Y, Hue: sp.Hue, IsTarget: sp.IsTarget, Mode: e.mode},
		}
		var cue *SpeechCue

		switch {
		case sp.IsTarget:
			res.Particles = e.spawnBurst(sp.X, sp.Y, sp.Hue)
			if c := e.spawnCharacter(sp.X, sp.Y); c != nil {
				res.Character = true
				cv := c.Cue(e.mode)
				cue = &cv
			}
		case e.mode == ModeColorFind:
			res.Spirits = e.spawnSpirits()
		}

		e.spheres = slices.Delete(e.spheres, i, i+1)
		return res, cue
	}
	return TapResult{}, nil
}

// spawnBurst appends up to BurstSize particles, respecting the cap.
func (e *Engine) spawnBurst(x, y, hue float64) int {
	room := e.limits.MaxParticles - len(e.particles)
	if room <= 0 {
		return 0
	}
	burst := Burst(e.rng, x, y, hue)
	if len(burst) > room {
		burst = burst[:room]
	}
	e.particles = append(e.particles, burst...)
	return len(burst)
}

func (e *Engine) spawnCharacter(x, y float64) *PopCharacter {
	if len(e.characters) >= e.limits.MaxCharacters {
		return nil
	}
	c := NewPopCharacter(e.rng, e.view, e.assets, x, y)
	e.characters = append(e.characters, c)
	return c
}

func (e *Engine) spawnSpirits() int {
	n := SpiritBatchSize(e.rng)
	if room := e.limits.MaxSpirits - len(e.spirits); n > room {
		n = max(room, 0)
	}
	for i := 0; i < n; i++ {
		e.spirits = append(e.spirits, NewPenaltySpirit(e.rng, e.view, e.assets))
	}
	return n
}
