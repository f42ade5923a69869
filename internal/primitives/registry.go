// Package primitives draws world records with raylib: boxes for panels and
// gizmo parts, cylinders for hardware, and the translucent axis indicator.
package primitives

import (
	"github.com/go-gl/mathgl/mgl32"

	"mp-assembler/internal/geom"
	"mp-assembler/internal/gizmo"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Shape selects the unit mesh a record is drawn with.
type Shape uint8

const (
	Cube Shape = iota
	// Cylinder runs along the local z axis, matching screws, washers and nuts.
	Cylinder
)

// cached holds mesh and material for a shape. Created lazily on first Draw.
type cached struct {
	mesh rl.Mesh
	mtl  rl.Material
	// adjust maps the raylib mesh onto the unit cube centred at the origin.
	adjust mgl32.Mat4
}

// Registry maps shapes to mesh+material. Meshes are created on first use
// so that GPU resources are allocated after the window/OpenGL context exists.
type Registry struct {
	cache    map[Shape]cached
	viewPos  [3]float32 // camera position, set each frame for lighting
	lightDir [3]float32 // direction to light (normalized), set each frame
}

// NewRegistry returns a registry with no meshes loaded.
func NewRegistry() *Registry {
	return &Registry{
		cache:    make(map[Shape]cached),
		lightDir: [3]float32{0.5, 1, 0.5}, // default: from above-right
	}
}

// SetView sets camera position and direction-to-light for this frame. Call once per frame
// before drawing so lit primitives get correct shading.
func (r *Registry) SetView(viewPos, lightDir [3]float32) {
	r.viewPos = viewPos
	r.lightDir = lightDir
}

const defaultCylinderSlices = 24

func (r *Registry) ensure(shape Shape) (cached, bool) {
	if c, ok := r.cache[shape]; ok {
		return c, true
	}
	var c cached
	switch shape {
	case Cube:
		c.mesh = rl.GenMeshCube(1, 1, 1)
		c.adjust = mgl32.Ident4()
	case Cylinder:
		// Raylib cylinder: base y=0, top y=1. Centre it, then turn y onto z.
		c.mesh = rl.GenMeshCylinder(0.5, 1, defaultCylinderSlices)
		c.adjust = mgl32.HomogRotate3DX(mgl32.DegToRad(90)).Mul4(mgl32.Translate3D(0, -0.5, 0))
	default:
		return c, false
	}
	c.mtl = rl.LoadMaterialDefault()
	if shader := loadLitShader(); rl.IsShaderValid(shader) {
		c.mtl.Shader = shader
	}
	r.cache[shape] = c
	return c, true
}

// loadLitShader returns a shader that does simple directional light + ambient.
// Used by every primitive. Same vertex attributes as raylib meshes: vertexPosition, vertexTexCoord, vertexNormal.
func loadLitShader() rl.Shader {
	return rl.LoadShaderFromMemory(litVS, litFS)
}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec2 fragTexCoord;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragTexCoord = vertexTexCoord;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
out vec4 finalColor;
void main() {
  vec4 tint = colDiffuse;
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient.rgb * tint.rgb;
  vec3 H = normalize(L + V);
  float NdotH = max(dot(N, H), 0.0);
  float spec = pow(NdotH, specularPower) * specularStrength;
  vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  finalColor = vec4(amb + diffuse + specular, tint.a);
}
`
)

// defaultAmbient is the ambient term (dim so shadowed areas aren't pure black).
var defaultAmbient = [4]float32{0.2, 0.22, 0.26, 1.0}

// defaultLightColor is a soft warm-white for the directional light.
var defaultLightColor = [3]float32{1.0, 0.98, 0.95}

// defaultLightIntensity scales the directional diffuse (0–1).
const defaultLightIntensity = float32(0.75)

// defaultSpecularPower controls highlight tightness (higher = smaller, sharper highlight).
const defaultSpecularPower = float32(48.0)

// defaultSpecularStrength scales specular contribution (0–1).
const defaultSpecularStrength = float32(0.35)

// setLitShaderUniforms sets viewPos, lightDir, ambient, light color/intensity, and specular on the given shader (cgo-safe: local arrays).
func (r *Registry) setLitShaderUniforms(shader rl.Shader) {
	if !rl.IsShaderValid(shader) {
		return
	}
	viewPos := [3]float32{r.viewPos[0], r.viewPos[1], r.viewPos[2]}
	lightDir := [3]float32{r.lightDir[0], r.lightDir[1], r.lightDir[2]}
	amb := [4]float32{defaultAmbient[0], defaultAmbient[1], defaultAmbient[2], defaultAmbient[3]}
	lightColor := [3]float32{defaultLightColor[0], defaultLightColor[1], defaultLightColor[2]}
	if loc := rl.GetShaderLocation(shader, "viewPos"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, viewPos[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, lightDir[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "ambient"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, amb[:], rl.ShaderUniformVec4, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightColor"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, lightColor[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightIntensity"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{defaultLightIntensity}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "specularPower"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{defaultSpecularPower}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "specularStrength"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{defaultSpecularStrength}, rl.ShaderUniformFloat)
	}
}

// toMatrix converts a column-major mgl32 matrix to raylib's layout, which is also column-major.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

// Model returns the matrix that places the unit mesh over bounds under the global transform.
func Model(global geom.Transform, bounds geom.AABB) mgl32.Mat4 {
	return global.Mat4().Mul4(bounds.Mat4())
}

// Draw draws shape over bounds, placed by global and tinted. Must be called between
// BeginMode3D and EndMode3D, after SetView. Translucent tints need an alpha blend mode.
func (r *Registry) Draw(shape Shape, global geom.Transform, bounds geom.AABB, tint gizmo.RGBA) {
	c, ok := r.ensure(shape)
	if !ok {
		return
	}
	if albedo := c.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = rl.NewColor(tint.R, tint.G, tint.B, tint.A)
	}
	r.setLitShaderUniforms(c.mtl.Shader)
	model := Model(global, bounds).Mul4(c.adjust)
	rl.DrawMesh(c.mesh, c.mtl, toMatrix(model))
}

// DrawTranslucent is Draw inside an alpha blend with depth writes off.
func (r *Registry) DrawTranslucent(shape Shape, global geom.Transform, bounds geom.AABB, tint gizmo.RGBA) {
	rl.BeginBlendMode(rl.BlendAlpha)
	rl.DisableDepthMask()
	r.Draw(shape, global, bounds, tint)
	rl.EnableDepthMask()
	rl.EndBlendMode()
}
