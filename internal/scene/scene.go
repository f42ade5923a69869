package scene

import (
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"mp-assembler/internal/primitives"
	"mp-assembler/internal/viewport"
	"mp-assembler/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	gridExtent  = 50
	gridMinorStep = 1
	gridMajorStep = 10
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220
	skyboxScale    = 1000
	// Camera speeds, per frame at 60 FPS.
	moveSpeed   = 0.6
	lookSpeed   = 0.15
	zoomSpeed   = 4
)

// lightDir points from the scene towards the key light.
var lightDir = [3]float32{0.4, 1, 0.3}

// skyboxPaths are tried in order so the skybox is found whether run from repo root or cmd/assembler.
// Skybox assets live under assets/skybox/ to keep them separate from other future assets.
var skyboxPaths = []string{
	"assets/skybox/skybox.png",
	"assets/skybox/skybox.jpg",
	"../../assets/skybox/skybox.png",
	"../../assets/skybox/skybox.jpg",
}

// Scene holds a 3D camera and draws the world. Update runs the fly camera while the right
// mouse button is held, so the left button stays free for picking and dragging.
type Scene struct {
	Camera      rl.Camera3D
	GridVisible bool
	prims       *primitives.Registry
	// Skybox: optional texture drawn first in 3D mode. Cubemap or equirectangular panorama.
	skyboxTex       rl.Texture2D
	skyboxMesh      rl.Mesh
	skyboxMtl       rl.Material
	skyboxLoaded    bool
	skyboxPending   bool   // true = path known, GPU load deferred until first Draw (after window/GL exists)
	skyboxPath      string // set when pending; used to load texture on first frame
	skyboxEquirect  bool   // true = panorama (2D texture + shader), false = cubemap
	skyboxShader    rl.Shader
	skyboxCamPosLoc int32
	skyboxTexLoc    int32
}

// New returns a scene with a perspective camera looking at the origin.
// Camera: position (60,60,60), target (0,0,0), up (0,1,0), fovy 45°. Grid is visible by default.
// Tries to load skybox from assets/skybox/ (see skyboxPaths); see assets/README.md.
func New() *Scene {
	s := &Scene{prims: primitives.NewRegistry()}
	s.Camera.Position = rl.NewVector3(60, 60, 60)
	s.Camera.Target = rl.NewVector3(0, 0, 0)
	s.Camera.Up = rl.NewVector3(0, 1, 0)
	s.Camera.Fovy = 45
	s.Camera.Projection = rl.CameraPerspective
	s.GridVisible = true
	s.loadSkybox()
	return s
}

// equirectAspectMin/Max: width/height ratio for equirectangular panorama (typically 2:1).
const equirectAspectMin = 1.8
const equirectAspectMax = 2.2

// loadSkybox finds the skybox file and decides cubemap vs equirect. GPU loading is deferred to
// ensureSkyboxLoaded (called from Draw) so it runs after the window/OpenGL context exists.
func (s *Scene) loadSkybox() {
	var path string
	for _, p := range skyboxPaths {
		cleaned := filepath.Clean(p)
		if _, err := os.Stat(cleaned); err == nil {
			path = cleaned
			break
		}
	}
	if path == "" {
		return
	}
	img := rl.LoadImage(path)
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return
	}
	aspect := float32(img.Width) / float32(img.Height)
	s.skyboxEquirect = aspect >= equirectAspectMin && aspect <= equirectAspectMax
	rl.UnloadImage(img)

	s.skyboxPath = path
	s.skyboxPending = true
}

// ensureSkyboxLoaded runs the first time we Draw with a pending skybox; it loads GPU resources
// (texture, mesh, material, shader) so that LoadTexture/LoadTextureCubemap run after the window/GL context exists.
func (s *Scene) ensureSkyboxLoaded() {
	if !s.skyboxPending || s.skyboxPath == "" {
		return
	}
	path := s.skyboxPath
	s.skyboxPending = false
	s.skyboxPath = ""

	if !s.skyboxEquirect {
		img := rl.LoadImage(path)
		if img == nil || img.Width <= 0 || img.Height <= 0 {
			return
		}
		s.skyboxTex = rl.LoadTextureCubemap(img, rl.CubemapLayoutAutoDetect)
		rl.UnloadImage(img)
		if !rl.IsTextureValid(s.skyboxTex) {
			return
		}
		s.skyboxMesh = rl.GenMeshCube(1, 1, 1)
		s.skyboxMtl = rl.LoadMaterialDefault()
		rl.SetMaterialTexture(&s.skyboxMtl, rl.MapCubemap, s.skyboxTex)
		s.skyboxLoaded = true
		return
	}

	s.skyboxTex = rl.LoadTexture(path)
	if !rl.IsTextureValid(s.skyboxTex) {
		return
	}
	shader := loadEquirectSkyboxShader()
	if !rl.IsShaderValid(shader) {
		rl.UnloadTexture(s.skyboxTex)
		return
	}
	s.skyboxMesh = rl.GenMeshCube(1, 1, 1)
	s.skyboxMtl = rl.LoadMaterialDefault()
	s.skyboxMtl.Shader = shader
	s.skyboxCamPosLoc = rl.GetShaderLocation(shader, "cameraPosition")
	s.skyboxTexLoc = rl.GetShaderLocation(shader, "skybox")
	s.skyboxShader = shader
	s.skyboxLoaded = true
}

// Equirectangular skybox shader: samples a 2D panorama by view direction.
const (
	equirectVS = `#version 330
in vec3 vertexPosition;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragWorldPos;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragWorldPos = worldPos.xyz;
  gl_Position = matProjection * matView * worldPos;
}
`
	equirectFS = `#version 330
in vec3 fragWorldPos;
out vec4 finalColor;
uniform sampler2D skybox;
uniform vec3 cameraPosition;
void main() {
  vec3 dir = normalize(fragWorldPos - cameraPosition);
  float lon = atan(dir.z, dir.x);
  float lat = asin(clamp(dir.y, -1.0, 1.0));
  float u = lon / 6.28318530718 + 0.5;
  float v = 0.5 - lat / 3.14159265359;
  finalColor = texture(skybox, vec2(u, v));
}
`
)

func loadEquirectSkyboxShader() rl.Shader {
	return rl.LoadShaderFromMemory(equirectVS, equirectFS)
}

// SetGridVisible sets whether the editor grid is drawn.
func (s *Scene) SetGridVisible(visible bool) {
	s.GridVisible = visible
}

// Update runs once per frame. While the right mouse button is down, WASD/QE move the camera
// and the mouse looks around; the wheel zooms at any time. keyboardFree is false while the
// terminal owns the keyboard.
func (s *Scene) Update(keyboardFree bool) {
	var move, look rl.Vector3
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		if keyboardFree {
			move.X = axisKeys(rl.KeyW, rl.KeyS) * moveSpeed
			move.Y = axisKeys(rl.KeyD, rl.KeyA) * moveSpeed
			move.Z = axisKeys(rl.KeyE, rl.KeyQ) * moveSpeed
		}
		d := rl.GetMouseDelta()
		look.X = d.X * lookSpeed
		look.Y = d.Y * lookSpeed
	}
	zoom := -rl.GetMouseWheelMove() * zoomSpeed
	rl.UpdateCameraPro(&s.Camera, move, look, zoom)
}

func axisKeys(pos, neg int32) float32 {
	var v float32
	if rl.IsKeyDown(pos) {
		v++
	}
	if rl.IsKeyDown(neg) {
		v--
	}
	return v
}

// ViewportCamera describes the current camera for picking and drag ray casts.
func (s *Scene) ViewportCamera() viewport.Camera {
	c := s.Camera
	return viewport.Camera{
		Position: mgl32.Vec3{c.Position.X, c.Position.Y, c.Position.Z},
		Target:   mgl32.Vec3{c.Target.X, c.Target.Y, c.Target.Z},
		Up:       mgl32.Vec3{c.Up.X, c.Up.Y, c.Up.Z},
		Fovy:     c.Fovy,
		Width:    rl.GetScreenWidth(),
		Height:   rl.GetScreenHeight(),
		Near:     viewport.DefaultNear,
		Far:      viewport.DefaultFar,
	}
}

// Draw renders the 3D scene and the entities of w. Call after ClearBackground and before 2D overlay (e.g. terminal).
// Draws skybox first (if loaded), then the grid on the XZ plane when GridVisible is true, then w.
func (s *Scene) Draw(w *world.World) {
	s.ensureSkyboxLoaded()
	rl.BeginMode3D(s.Camera)
	if s.skyboxLoaded {
		drawSkybox(s)
	}
	if s.GridVisible {
		drawEditorGrid()
	}
	if w != nil {
		s.drawWorld(w)
	}
	rl.EndMode3D()
}

// drawWorld draws every visible record with bounds. Translucent records go last.
func (s *Scene) drawWorld(w *world.World) {
	pos := s.Camera.Position
	s.prims.SetView([3]float32{pos.X, pos.Y, pos.Z}, lightDir)

	var translucent []world.Entity
	w.Each(func(e world.Entity, rec world.Record) {
		if !rec.Visible || rec.Bounds.Min == rec.Bounds.Max {
			return
		}
		if rec.Tint.A < 255 {
			translucent = append(translucent, e)
			return
		}
		global, _ := w.GlobalTransform(e)
		s.prims.Draw(shapeOf(w, e, rec), global, rec.Bounds, rec.Tint)
	})
	for _, e := range translucent {
		rec, err := w.Get(e)
		if err != nil {
			continue
		}
		global, _ := w.GlobalTransform(e)
		s.prims.DrawTranslucent(shapeOf(w, e, rec), global, rec.Bounds, rec.Tint)
	}
}

// shapeOf draws hardware bodies as cylinders and everything else as boxes.
func shapeOf(w *world.World, e world.Entity, rec world.Record) primitives.Shape {
	if rec.Kind != world.KindMesh {
		return primitives.Cube
	}
	parent, ok := w.Parent(e)
	if !ok {
		return primitives.Cube
	}
	p, err := w.Get(parent)
	if err != nil {
		return primitives.Cube
	}
	switch p.Kind {
	case world.KindScrew, world.KindWasher, world.KindNut:
		return primitives.Cylinder
	}
	return primitives.Cube
}

// drawSkybox draws the skybox as a large cube centered on the camera (cubemap or equirect).
func drawSkybox(s *Scene) {
	rl.DisableDepthMask()
	rl.DisableBackfaceCulling()
	pos := s.Camera.Position
	scale := rl.MatrixScale(skyboxScale, skyboxScale, skyboxScale)
	trans := rl.MatrixTranslate(pos.X, pos.Y, pos.Z)
	transform := rl.MatrixMultiply(scale, trans)
	if s.skyboxEquirect {
		if s.skyboxCamPosLoc >= 0 {
			camPos := []float32{pos.X, pos.Y, pos.Z}
			rl.SetShaderValueV(s.skyboxMtl.Shader, s.skyboxCamPosLoc, camPos, rl.ShaderUniformVec3, 1)
		}
		if s.skyboxTexLoc >= 0 {
			rl.SetShaderValueTexture(s.skyboxMtl.Shader, s.skyboxTexLoc, s.skyboxTex)
		}
	}
	rl.DrawMesh(s.skyboxMesh, s.skyboxMtl, transform)
	rl.EnableBackfaceCulling()
	rl.EnableDepthMask()
}

// drawEditorGrid draws an infinite-style grid on the XZ plane with major/minor lines and axis lines.
// Reuses start/end vectors to avoid per-frame allocations in the hot loop.
func drawEditorGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)
	axisX := rl.NewColor(220, 80, 80, axisLineAlpha)
	axisY := rl.NewColor(80, 220, 80, axisLineAlpha)
	axisZ := rl.NewColor(80, 80, 220, axisLineAlpha)

	var start, end rl.Vector3
	// Grid lines on XZ plane (Y=0): lines along X (varying Z) and along Z (varying X)
	for x := -gridExtent; x <= gridExtent; x += gridMinorStep {
		c := major
		if x%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(x), 0, float32(-gridExtent)
		end.X, end.Y, end.Z = float32(x), 0, float32(gridExtent)
		rl.DrawLine3D(start, end, c)
	}
	for z := -gridExtent; z <= gridExtent; z += gridMinorStep {
		c := major
		if z%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(-gridExtent), 0, float32(z)
		end.X, end.Y, end.Z = float32(gridExtent), 0, float32(z)
		rl.DrawLine3D(start, end, c)
	}

	// Axis lines through origin (X=red, Y=green, Z=blue)
	start.X, start.Y, start.Z = float32(-gridExtent), 0, 0
	end.X, end.Y, end.Z = float32(gridExtent), 0, 0
	rl.DrawLine3D(start, end, axisX)
	start.X, start.Y, start.Z = 0, float32(-gridExtent), 0
	end.X, end.Y, end.Z = 0, float32(gridExtent), 0
	rl.DrawLine3D(start, end, axisY)
	start.X, start.Y, start.Z = 0, 0, float32(-gridExtent)
	end.X, end.Y, end.Z = 0, 0, float32(gridExtent)
	rl.DrawLine3D(start, end, axisZ)
}
