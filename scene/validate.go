package scene

import (
	"fmt"
	"math"
	"strings"
)

// Validate reports whether candidate has the minimal shape of a scene
// description: a non-nil object with a camera object carrying position and
// lookAt arrays, plus lights and objects arrays. Element types and vector
// arity are not inspected; malformed sub-fields fall back to defaults later.
func Validate(candidate any) bool {
	root, ok := candidate.(map[string]any)
	if !ok || root == nil {
		return false
	}
	camera, ok := root["camera"].(map[string]any)
	if !ok || camera == nil {
		return false
	}
	if !isArray(camera["position"]) || !isArray(camera["lookAt"]) {
		return false
	}
	return isArray(root["lights"]) && isArray(root["objects"])
}

func isArray(v any) bool {
	_, ok := v.([]any)
	return ok
}

// ValidationPolicy selects how much checking happens after the structural gate.
type ValidationPolicy int

const (
	// PolicyShallow is the v1 policy: only the Validate shape check.
	PolicyShallow ValidationPolicy = iota
	// PolicyStrict is the v2 policy: variant membership and numeric ranges
	// are checked on the decoded scene as well.
	PolicyStrict
)

func (p ValidationPolicy) String() string {
	switch p {
	case PolicyShallow:
		return "shallow"
	case PolicyStrict:
		return "strict"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ValidationDetail provides structured validation info.
type ValidationDetail struct {
	Field   string
	Message string
}

// ValidationError groups structural problems found under PolicyStrict.
type ValidationError struct {
	Issues  []string
	Details []ValidationDetail
}

func (v *ValidationError) Error() string {
	return "scene validation failed: " + strings.Join(v.Issues, "; ")
}

// ValidateScene checks a decoded scene under the given policy. PolicyShallow
// accepts every decoded scene. An empty light list is accepted by both.
func ValidateScene(s Scene, policy ValidationPolicy) error {
	if policy != PolicyStrict {
		return nil
	}
	ve := &ValidationError{}
	add := func(field, format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		ve.Issues = append(ve.Issues, field+": "+msg)
		ve.Details = append(ve.Details, ValidationDetail{Field: field, Message: msg})
	}

	// Range checks are written so that NaN fails them.
	checkVec := func(field string, v *Vec3) {
		if v != nil && !finiteVec(*v) {
			add(field, "must be finite, got %v", *v)
		}
	}
	checkVec("camera.position", &s.Camera.Position)
	checkVec("camera.lookAt", &s.Camera.LookAt)
	if fov := s.Camera.FOV; fov != nil && !(*fov > 0 && *fov < 180) {
		add("camera.fov", "must be in (0, 180), got %g", *fov)
	}
	for i, l := range s.Lights {
		field := fmt.Sprintf("lights[%d]", i)
		if !l.Type.Known() {
			add(field+".type", "unknown light type %q", l.Type)
		}
		if in := l.Intensity; in != nil && !(*in >= 0 && !math.IsInf(*in, 1)) {
			add(field+".intensity", "must be finite and not negative, got %g", *in)
		}
		checkVec(field+".position", l.Position)
	}
	for i, o := range s.Objects {
		field := fmt.Sprintf("objects[%d]", i)
		if !o.Type.Known() {
			add(field+".type", "unknown object type %q", o.Type)
		}
		checkVec(field+".position", &o.Position)
		checkVec(field+".rotation", o.Rotation)
		checkVec(field+".scale", o.Scale)
		checkPositive := func(name string, v *float64) {
			if v != nil && !(*v > 0 && !math.IsInf(*v, 1)) {
				add(field+"."+name, "must be positive and finite, got %g", *v)
			}
		}
		checkPositive("width", o.Width)
		checkPositive("height", o.Height)
		checkPositive("depth", o.Depth)
		checkPositive("radius", o.Radius)
		if o.Segments != nil && *o.Segments < 3 {
			add(field+".segments", "must be at least 3, got %d", *o.Segments)
		}
		m := o.Material
		if m.Type != "" && !m.Type.Known() {
			add(field+".material.type", "unknown material type %q", m.Type)
		}
		checkUnit := func(name string, v *float64) {
			if v != nil && !(*v >= 0 && *v <= 1) {
				add(field+".material."+name, "must be in [0, 1], got %g", *v)
			}
		}
		checkUnit("metalness", m.Metalness)
		checkUnit("roughness", m.Roughness)
	}
	if len(ve.Issues) > 0 {
		return ve
	}
	return nil
}

func finiteVec(v Vec3) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
