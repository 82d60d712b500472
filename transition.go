package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Transition manages a fade-to-black, room load, fade-from-black sequence.
type Transition struct {
	Active   bool
	Phase    int // 1: fade-in, 2: loading, 3: fade-out
	Frames   int
	Duration int
	Target   string
	Spawn    string
	overlay  *ebiten.Image
	// OnStart is called when the fade-in completes and the target room
	// should be loaded.
	OnStart func(target, spawn string)
}

func NewTransition() *Transition {
	return &Transition{Duration: 20}
}

// Enter starts a transition to the named room. spawn names the object
// in the target room the player appears at.
func (t *Transition) Enter(target, spawn string) {
	if t.Active {
		return
	}
	t.Active = true
	t.Phase = 1
	t.Frames = 0
	t.Target = target
	t.Spawn = spawn
}

// Update advances the transition. It invokes OnStart at the midpoint
// (after fade-in). While the transition is active, Update returns true
// to indicate the caller should skip normal world updates.
func (t *Transition) Update() bool {
	if !t.Active {
		return false
	}
	t.Frames++
	switch t.Phase {
	case 1: // fade-in
		if t.Frames >= t.Duration {
			t.Phase = 2
			t.Frames = 0
			// the room load happens here, so the swap is hidden behind
			// a fully black screen
			if t.OnStart != nil {
				t.OnStart(t.Target, t.Spawn)
			}

			t.Phase = 3
			t.Frames = 0
		}
	case 3: // fade-out
		if t.Frames >= t.Duration {
			t.Active = false
			t.Phase = 0
			t.Frames = 0
			t.Target = ""
			t.Spawn = ""
		}
	}
	return true
}

// Draw draws the fade overlay onto the provided screen.
func (t *Transition) Draw(screen *ebiten.Image) {
	if !t.Active {
		return
	}
	var alpha float64
	switch t.Phase {
	case 1:
		alpha = min(float64(t.Frames)/float64(t.Duration), 1)
	case 2:
		alpha = 1
	case 3:
		alpha = max(1-float64(t.Frames)/float64(t.Duration), 0)
	}

	if alpha <= 0 {
		return
	}

	if t.overlay == nil {
		t.overlay = ebiten.NewImage(1, 1)
		t.overlay.Fill(color.Black)
	}
	b := screen.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(b.Dx()), float64(b.Dy()))
	op.ColorScale.ScaleAlpha(float32(alpha))
	screen.DrawImage(t.overlay, op)
}
