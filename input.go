package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input holds the polled input state for one frame.
type Input struct {
	// MoveX is -1 for left, 0 for none, +1 for right.
	MoveX float64
	// MoveY is -1 for up, 0 for none, +1 for down.
	MoveY float64
	// InteractPressed is true on the frame the interact key is pressed.
	InteractPressed bool
	// PausePressed is true on the frame the pause key is pressed.
	PausePressed bool
	// DebugPressed toggles the collision overlay.
	DebugPressed bool
	// ReloadPressed asks for a prefab and room reload.
	ReloadPressed bool
	// CopyPressed copies the collision report to the clipboard.
	CopyPressed bool
}

func NewInput() *Input {
	return &Input{}
}

// Update polls the keyboard and gamepad.
func (i *Input) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		os.Exit(0)
	}

	var moveX, moveY float64
	// Keyboard WASD or arrows
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		moveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		moveX += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		moveY -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		moveY += 1
	}

	// Gamepad: if present, use the left stick as well
	ids := ebiten.GamepadIDs()
	var gpInteract, gpPause bool
	if len(ids) > 0 {
		gid := ids[0]

		leftX := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		leftY := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical)
		if leftX < -0.3 {
			moveX = -1
		} else if leftX > 0.3 {
			moveX = 1
		}
		if leftY < -0.3 {
			moveY = -1
		} else if leftY > 0.3 {
			moveY = 1
		}

		gpInteract = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
		gpPause = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterRight)
	}

	i.MoveX = moveX
	i.MoveY = moveY
	i.InteractPressed = inpututil.IsKeyJustPressed(ebiten.KeyE) || gpInteract
	i.PausePressed = inpututil.IsKeyJustPressed(ebiten.KeyEscape) || gpPause
	i.DebugPressed = inpututil.IsKeyJustPressed(ebiten.KeyF1)
	i.ReloadPressed = inpututil.IsKeyJustPressed(ebiten.KeyF5)
	i.CopyPressed = inpututil.IsKeyJustPressed(ebiten.KeyF2)
}
