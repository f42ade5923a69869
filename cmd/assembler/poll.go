package main

import (
	"github.com/go-gl/mathgl/mgl32"

	"mp-assembler/internal/input"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var buttons = []struct {
	rl rl.MouseButton
	in input.Button
}{
	{rl.MouseButtonLeft, input.ButtonLeft},
	{rl.MouseButtonRight, input.ButtonRight},
	{rl.MouseButtonMiddle, input.ButtonMiddle},
}

// pollFrame collects this frame's raw pointer and key events from raylib.
// captured marks frames where the terminal owns the keyboard.
func pollFrame(captured bool) input.Frame {
	var f input.Frame
	mp := rl.GetMousePosition()
	cursor := mgl32.Vec2{mp.X, mp.Y}

	for _, b := range buttons {
		if rl.IsMouseButtonPressed(b.rl) {
			f.Buttons = append(f.Buttons, input.ButtonEvent{Button: b.in, Action: input.Press, Position: cursor})
		}
		if rl.IsMouseButtonReleased(b.rl) {
			f.Buttons = append(f.Buttons, input.ButtonEvent{Button: b.in, Action: input.Release, Position: cursor})
		}
	}
	for k := rl.GetKeyPressed(); k != 0; k = rl.GetKeyPressed() {
		f.Keys = append(f.Keys, input.Key(k))
	}
	if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
		f.Moves = append(f.Moves, cursor)
	}
	f.Captured = captured
	return f
}
