package scene

// Normalize fills every optional camera, background, object and material
// field with its default. Explicit values always win and vectors are taken
// whole. Lights are copied as-is: their position defaults are applied by the
// generator. The result shares no slices or pointers with s.
func Normalize(s Scene) Scene {
	out := Scene{
		Camera:     normalizeCamera(s.Camera),
		Background: s.Background,
	}
	if out.Background == "" {
		out.Background = defaultBackground
	}

	out.Lights = make([]Light, len(s.Lights))
	for i, l := range s.Lights {
		out.Lights[i] = copyLight(l)
	}
	out.Objects = make([]Object, len(s.Objects))
	for i, o := range s.Objects {
		out.Objects[i] = normalizeObject(o)
	}
	return out
}

func normalizeCamera(c Camera) Camera {
	return Camera{
		Position: c.Position,
		LookAt:   c.LookAt,
		FOV:      orFloat(c.FOV, defaultFOV),
	}
}

func copyLight(l Light) Light {
	return Light{
		Type:      l.Type,
		Color:     l.Color,
		Intensity: copyFloat(l.Intensity),
		Position:  copyVec(l.Position),
	}
}

func normalizeObject(o Object) Object {
	return Object{
		Type:     o.Type,
		Position: o.Position,
		Rotation: orVec(o.Rotation, defaultRotation),
		Scale:    orVec(o.Scale, defaultScale),
		Material: normalizeMaterial(o.Material),
		Width:    copyFloat(o.Width),
		Height:   copyFloat(o.Height),
		Depth:    copyFloat(o.Depth),
		Radius:   copyFloat(o.Radius),
		Segments: copyInt(o.Segments),
	}
}

func normalizeMaterial(m Material) Material {
	out := Material{
		Type:      m.Type,
		Color:     m.Color,
		Metalness: orFloat(m.Metalness, defaultMetalness),
		Roughness: orFloat(m.Roughness, defaultRoughness),
		Wireframe: orBool(m.Wireframe, false),
	}
	if out.Type == "" {
		out.Type = MaterialStandard
	}
	return out
}

// orFloat returns a fresh pointer holding *v when set, else def.
func orFloat(v *float64, def float64) *float64 {
	if v != nil {
		return ptrFloat(*v)
	}
	return ptrFloat(def)
}

func orBool(v *bool, def bool) *bool {
	if v != nil {
		return ptrBool(*v)
	}
	return ptrBool(def)
}

func orVec(v *Vec3, def Vec3) *Vec3 {
	if v != nil {
		return ptrVec(*v)
	}
	return ptrVec(def)
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return ptrFloat(*v)
}

func copyVec(v *Vec3) *Vec3 {
	if v == nil {
		return nil
	}
	return ptrVec(*v)
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	return ptrInt(*v)
}
