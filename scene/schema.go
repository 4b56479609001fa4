package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a three component vector (x, y, z). It serializes as a 3-element array.
type Vec3 = mgl64.Vec3

// LightType enumerates the light variants understood by the generator.
type LightType string

const (
	LightAmbient     LightType = "ambient"
	LightDirectional LightType = "directional"
	LightPoint       LightType = "point"
	LightSpot        LightType = "spot"
)

// Known reports whether t is one of the declared light variants.
func (t LightType) Known() bool {
	switch t {
	case LightAmbient, LightDirectional, LightPoint, LightSpot:
		return true
	default:
		return false
	}
}

// MaterialType selects the material constructor emitted for an object.
type MaterialType string

const (
	MaterialBasic    MaterialType = "basic"
	MaterialStandard MaterialType = "standard"
	MaterialPhong    MaterialType = "phong"
	MaterialLambert  MaterialType = "lambert"
)

// Known reports whether t is one of the declared material variants.
func (t MaterialType) Known() bool {
	switch t {
	case MaterialBasic, MaterialStandard, MaterialPhong, MaterialLambert:
		return true
	default:
		return false
	}
}

// ObjectType enumerates the primitive shapes an object can take.
type ObjectType string

const (
	ObjectCube     ObjectType = "cube"
	ObjectSphere   ObjectType = "sphere"
	ObjectPlane    ObjectType = "plane"
	ObjectCylinder ObjectType = "cylinder"
	ObjectCone     ObjectType = "cone"
	ObjectTorus    ObjectType = "torus"
)

// Known reports whether t is one of the declared object variants.
func (t ObjectType) Known() bool {
	switch t {
	case ObjectCube, ObjectSphere, ObjectPlane, ObjectCylinder, ObjectCone, ObjectTorus:
		return true
	default:
		return false
	}
}

// Scene is the root of a scene description.
// Lights and Objects keep their input order; the index of each entry names
// the variables generated for it.
type Scene struct {
	Camera     Camera   `json:"camera" yaml:"camera"`
	Lights     []Light  `json:"lights" yaml:"lights"`
	Objects    []Object `json:"objects" yaml:"objects"`
	Background string   `json:"background,omitempty" yaml:"background,omitempty"`
}

// Camera describes a perspective camera.
type Camera struct {
	Position Vec3     `json:"position" yaml:"position"`
	LookAt   Vec3     `json:"lookAt" yaml:"lookAt"`
	FOV      *float64 `json:"fov,omitempty" yaml:"fov,omitempty"`
}

// Light is a tagged light variant. Position is ignored for ambient lights and,
// when nil, replaced by a per-variant default at generation time.
type Light struct {
	Type      LightType `json:"type" yaml:"type"`
	Color     string    `json:"color,omitempty" yaml:"color,omitempty"`
	Intensity *float64  `json:"intensity,omitempty" yaml:"intensity,omitempty"`
	Position  *Vec3     `json:"position,omitempty" yaml:"position,omitempty"`
}

// Material is a tagged material variant. Nil fields mean "no explicit setting"
// and are never emitted.
type Material struct {
	Type      MaterialType `json:"type,omitempty" yaml:"type,omitempty"`
	Color     string       `json:"color,omitempty" yaml:"color,omitempty"`
	Metalness *float64     `json:"metalness,omitempty" yaml:"metalness,omitempty"`
	Roughness *float64     `json:"roughness,omitempty" yaml:"roughness,omitempty"`
	Wireframe *bool        `json:"wireframe,omitempty" yaml:"wireframe,omitempty"`
}

// Object is a tagged primitive. Which geometry fields apply depends on Type:
// cube uses Width/Height/Depth, plane Width/Height, sphere Radius/Segments,
// cylinder and cone Radius/Height, torus Radius.
type Object struct {
	Type     ObjectType `json:"type" yaml:"type"`
	Position Vec3       `json:"position" yaml:"position"`
	Rotation *Vec3      `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Scale    *Vec3      `json:"scale,omitempty" yaml:"scale,omitempty"`
	Material Material   `json:"material" yaml:"material"`

	Width    *float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height   *float64 `json:"height,omitempty" yaml:"height,omitempty"`
	Depth    *float64 `json:"depth,omitempty" yaml:"depth,omitempty"`
	Radius   *float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Segments *int     `json:"segments,omitempty" yaml:"segments,omitempty"`
}

const (
	defaultFOV        = 75.0
	defaultBackground = "#000000"
	defaultMetalness  = 0.5
	defaultRoughness  = 0.5
)

var (
	defaultRotation = Vec3{0, 0, 0}
	defaultScale    = Vec3{1, 1, 1}
)

// Default returns the minimal valid scene: a camera above and behind the
// origin looking at it, with no lights or objects, already normalized.
func Default() Scene {
	return Normalize(Scene{
		Camera: Camera{
			Position: Vec3{0, 5, 10},
			LookAt:   Vec3{0, 0, 0},
		},
		Lights:  []Light{},
		Objects: []Object{},
	})
}

func ptrFloat(v float64) *float64 { return &v }

func ptrBool(v bool) *bool { return &v }

func ptrVec(v Vec3) *Vec3 { return &v }

func ptrInt(v int) *int { return &v }
