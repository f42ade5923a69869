package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

const (
	defaultWidth  = 1280
	defaultHeight = 800
	minWidth      = 640
	minHeight     = 400
)

// Run starts the window and main loop. Each frame it calls update (input, editor step), then clears
// the screen and calls draw. The window is resizable with 4x MSAA. Escape belongs to the editor,
// so close via the window button.
func Run(title string, update, draw func()) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint | rl.FlagVsyncHint)
	rl.InitWindow(defaultWidth, defaultHeight, title)
	defer rl.CloseWindow()

	rl.SetWindowMinSize(minWidth, minHeight)
	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(60)

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(30, 32, 36, 255))
		draw()
		rl.EndDrawing()
	}
}
