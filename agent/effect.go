package agent

// EffectName identifies the kind of standing effect an agent is under.
type EffectName string

const (
	EffectWearingMask EffectName = "wearing_mask"
	EffectHandwash    EffectName = "handwash"
	EffectCoughing    EffectName = "coughing"
)

// Effect is a tagged variant rather than a generic callback list: each of
// the three effect kinds needs a different shape (indefinite, finite with a
// conclusion, or a per-tick event with no duration at all), so Effect holds
// all three optional pieces and Name selects which apply.
type Effect struct {
	Name EffectName

	// remainingTicks is nil for an indefinite effect (wearing_mask,
	// coughing), and counts down to zero for a finite one (handwash).
	remainingTicks *int

	// event runs every tick the effect is active, before the duration is
	// decremented (coughing's Bernoulli trial).
	event func()

	// conclusion runs once, on the same tick remainingTicks reaches zero,
	// before the effect is dropped (handwash's reservoir restore).
	conclusion func()
}

func newDuration(ticks int) *int {
	d := ticks
	return &d
}

func (e *Effect) tick() {
	if e.event != nil {
		e.event()
	}
	if e.remainingTicks != nil {
		*e.remainingTicks--
		if *e.remainingTicks == 0 && e.conclusion != nil {
			e.conclusion()
		}
	}
}
