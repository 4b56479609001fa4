package scene

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sample = `{
  "camera": { "position": [0, 5, 10], "lookAt": [0, 0, 0], "fov": 60 },
  "background": "#101020",
  "lights": [
    { "type": "ambient", "color": "#ffffff", "intensity": 0.4 },
    { "type": "directional", "color": "#ffeedd", "intensity": 1, "position": [3, 6, 2] }
  ],
  "objects": [
    { "type": "cube", "position": [0, 0.5, 0], "width": 2,
      "material": { "type": "basic", "color": "#ff0000" } },
    { "type": "sphere", "position": [2, 1, 0], "radius": 0.75, "segments": 24,
      "rotation": [0, 1.5, 0],
      "material": { "type": "phong", "color": "#00ff00", "metalness": 0.1, "wireframe": true } }
  ]
}`

const sampleYAML = `camera:
  position: [0, 5, 10]
  lookAt: [0, 0, 0]
  fov: 60
background: "#101020"
lights:
  - type: ambient
    color: "#ffffff"
    intensity: 0.4
  - type: directional
    color: "#ffeedd"
    intensity: 1
    position: [3, 6, 2]
objects:
  - type: cube
    position: [0, 0.5, 0]
    width: 2
    material:
      type: basic
      color: "#ff0000"
  - type: sphere
    position: [2, 1, 0]
    radius: 0.75
    segments: 24
    rotation: [0, 1.5, 0]
    material:
      type: phong
      color: "#00ff00"
      metalness: 0.1
      wireframe: true
`

func TestParseSample(t *testing.T) {
	s, err := ParseString(sample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Camera.Position != (Vec3{0, 5, 10}) || *s.Camera.FOV != 60 {
		t.Fatalf("camera mismatch: %+v", s.Camera)
	}
	if s.Background != "#101020" {
		t.Fatalf("background mismatch: %q", s.Background)
	}
	if len(s.Lights) != 2 || s.Lights[0].Type != LightAmbient || s.Lights[1].Position == nil {
		t.Fatalf("lights mismatch: %+v", s.Lights)
	}
	if len(s.Objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(s.Objects))
	}
	cube := s.Objects[0]
	if cube.Type != ObjectCube || *cube.Width != 2 || cube.Height != nil {
		t.Fatalf("cube mismatch: %+v", cube)
	}
	sphere := s.Objects[1]
	if *sphere.Segments != 24 || *sphere.Rotation != (Vec3{0, 1.5, 0}) {
		t.Fatalf("sphere mismatch: %+v", sphere)
	}
	if !*sphere.Material.Wireframe || *sphere.Material.Metalness != 0.1 || *sphere.Material.Roughness != 0.5 {
		t.Fatalf("sphere material mismatch: %+v", sphere.Material)
	}
}

func TestParseYAMLMatchesJSON(t *testing.T) {
	fromJSON, err := ParseString(sample)
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	fromYAML, err := ParseYAML(sampleYAML)
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if !reflect.DeepEqual(fromJSON, fromYAML) {
		t.Fatalf("yaml and json scenes differ:\njson %+v\nyaml %+v", fromJSON, fromYAML)
	}
}

func TestParseMalformedPayload(t *testing.T) {
	for _, body := range []string{"", "{", `{"camera": }`, "not json", `{"a":1} trailing`} {
		_, err := ParseString(body)
		if err == nil {
			t.Fatalf("expected error for %q", body)
		}
		if !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("expected malformed payload for %q, got %v", body, err)
		}
		if errors.Is(err, ErrStructureRejected) {
			t.Fatalf("malformed payload must not match structure error: %v", err)
		}
		var se *SceneError
		if !errors.As(err, &se) || se.Type != ErrDecode {
			t.Fatalf("expected SceneError decode, got %T %v", err, err)
		}
	}
}

func TestParseSyntaxErrorReportsLine(t *testing.T) {
	_, err := ParseString("{\n  \"camera\": {\n    \"position\": [0, 0,, 0]\n  }\n}")
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("expected line 3 in error, got %v", err)
	}
}

func TestParseStructureRejected(t *testing.T) {
	cases := []string{
		`null`,
		`[]`,
		`"scene"`,
		`{}`,
		`{"lights": [], "objects": []}`,
		`{"camera": {"lookAt": [0,0,0]}, "lights": [], "objects": []}`,
		`{"camera": {"position": [0,0,0]}, "lights": [], "objects": []}`,
		`{"camera": {"position": [0,0,0], "lookAt": [0,0,0]}, "objects": []}`,
		`{"camera": {"position": [0,0,0], "lookAt": [0,0,0]}, "lights": []}`,
		`{"camera": {"position": [0,0,0], "lookAt": [0,0,0]}, "lights": {}, "objects": []}`,
	}
	for _, body := range cases {
		_, err := ParseString(body)
		if !errors.Is(err, ErrStructureRejected) {
			t.Fatalf("expected structure rejected for %s, got %v", body, err)
		}
	}
}

func TestParseToleratesMalformedSubFields(t *testing.T) {
	body := `{
  "camera": { "position": [1, 2], "lookAt": ["a", 0, 0] },
  "lights": [ "not-an-object", { "type": "point", "position": [1] } ],
  "objects": [ { "type": "cube", "position": [0, 0, 0], "rotation": [1, 2], "scale": "big",
                 "material": { "metalness": "high", "wireframe": "yes" } } ]
}`
	s, err := ParseString(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Camera.Position != (Vec3{}) || s.Camera.LookAt != (Vec3{}) {
		t.Fatalf("malformed camera vectors should decode to zero: %+v", s.Camera)
	}
	if len(s.Lights) != 2 || s.Lights[0].Type != "" || s.Lights[1].Position != nil {
		t.Fatalf("lights mismatch: %+v", s.Lights)
	}
	o := s.Objects[0]
	if *o.Rotation != defaultRotation || *o.Scale != defaultScale {
		t.Fatalf("malformed vectors should take defaults: %+v", o)
	}
	if *o.Material.Metalness != 0.5 || *o.Material.Wireframe {
		t.Fatalf("malformed material fields should take defaults: %+v", o.Material)
	}
}

func TestParseFieldOfViewAlias(t *testing.T) {
	s, err := ParseString(`{"camera": {"position": [0,0,5], "lookAt": [0,0,0], "fieldOfView": 50}, "lights": [], "objects": []}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if *s.Camera.FOV != 50 {
		t.Fatalf("expected fov 50, got %v", *s.Camera.FOV)
	}
}

func TestParseStrictPolicy(t *testing.T) {
	body := `{"camera": {"position": [0,0,5], "lookAt": [0,0,0]},
  "lights": [{"type": "laser", "intensity": -1}],
  "objects": [{"type": "pyramid", "position": [0,0,0], "radius": 0,
               "material": {"type": "glass", "metalness": 2}}]}`
	if _, err := ParseString(body); err != nil {
		t.Fatalf("shallow policy should accept: %v", err)
	}
	_, err := ParseReaderWithOptions(strings.NewReader(body), ParseOptions{Policy: PolicyStrict})
	if err == nil {
		t.Fatalf("strict policy should reject")
	}
	var se *SceneError
	if !errors.As(err, &se) || se.Type != ErrValidate {
		t.Fatalf("expected validation SceneError, got %v", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError in chain, got %v", err)
	}
	fields := map[string]bool{}
	for _, d := range ve.Details {
		fields[d.Field] = true
	}
	for _, want := range []string{"lights[0].type", "lights[0].intensity", "objects[0].type", "objects[0].radius", "objects[0].material.type", "objects[0].material.metalness"} {
		if !fields[want] {
			t.Fatalf("missing detail for %s: %+v", want, ve.Details)
		}
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	s, err := ParseString(sample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	body, err := Serialize(s)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	back, err := ParseString(body)
	if err != nil {
		t.Fatalf("reparse: %v\n%s", err, body)
	}
	if !reflect.DeepEqual(s, back) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", s, back)
	}

	yamlBody, err := SerializeYAML(s)
	if err != nil {
		t.Fatalf("serialize yaml: %v", err)
	}
	backYAML, err := ParseYAML(yamlBody)
	if err != nil {
		t.Fatalf("reparse yaml: %v\n%s", err, yamlBody)
	}
	if !reflect.DeepEqual(s, backYAML) {
		t.Fatalf("yaml round trip mismatch:\nwant %+v\ngot  %+v", s, backYAML)
	}
}

func TestDefaultRoundTrip(t *testing.T) {
	d := Default()
	body, err := Serialize(d)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	back, err := ParseString(body)
	if err != nil {
		t.Fatalf("default scene must parse: %v\n%s", err, body)
	}
	if !reflect.DeepEqual(d, back) {
		t.Fatalf("default round trip mismatch:\nwant %+v\ngot  %+v", d, back)
	}
}

func TestDumpFileAndParseFile(t *testing.T) {
	s, err := ParseString(sample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	if err := s.DumpFile(path); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
	back, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse file: %v", err)
	}
	if !reflect.DeepEqual(s, back) {
		t.Fatalf("file round trip mismatch")
	}

	yamlPath := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(yamlPath, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	fromYAML, err := ParseFile(yamlPath)
	if err != nil {
		t.Fatalf("parse yaml file: %v", err)
	}
	if !reflect.DeepEqual(s, fromYAML) {
		t.Fatalf("yaml file mismatch")
	}
}

func TestParseYAMLNonFiniteNumbersAreAbsent(t *testing.T) {
	body := `camera:
  position: [0, .inf, 10]
  lookAt: [0, 0, 0]
  fov: .nan
lights:
  - type: point
    intensity: .inf
    position: [1, -.inf, 0]
objects:
  - type: torus
    position: [0, 0, 0]
    radius: .inf
    segments: 1e30
    scale: [.nan, 1, 1]
    material:
      metalness: .nan
      roughness: -.inf
`
	s, err := ParseYAML(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if *s.Camera.FOV != defaultFOV || s.Camera.Position != (Vec3{}) {
		t.Fatalf("non-finite camera fields should take defaults: %+v", s.Camera)
	}
	l := s.Lights[0]
	if l.Intensity != nil || l.Position != nil {
		t.Fatalf("non-finite light fields should be absent: %+v", l)
	}
	o := s.Objects[0]
	if o.Radius != nil || o.Segments != nil || *o.Scale != defaultScale {
		t.Fatalf("non-finite object fields should be absent: %+v", o)
	}
	if *o.Material.Metalness != defaultMetalness || *o.Material.Roughness != defaultRoughness {
		t.Fatalf("non-finite material fields should take defaults: %+v", o.Material)
	}

	program := Generate(s)
	for _, bad := range []string{"Inf", "NaN"} {
		if strings.Contains(program, bad) {
			t.Fatalf("program contains %s:\n%s", bad, program)
		}
	}
	if !strings.Contains(program, "new THREE.TorusGeometry(1, 0.4, 16, 100)") {
		t.Fatalf("torus should fall back to default radius:\n%s", program)
	}

	out, err := Serialize(s)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	back, err := ParseString(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !reflect.DeepEqual(s, back) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", s, back)
	}
}

func TestParseSegmentsOutOfRange(t *testing.T) {
	for _, seg := range []string{"1e30", "-1e30"} {
		s, err := ParseString(`{"camera": {"position": [0,0,5], "lookAt": [0,0,0]}, "lights": [],
  "objects": [{"type": "sphere", "position": [0,0,0], "segments": ` + seg + `}]}`)
		if err != nil {
			t.Fatalf("parse %s: %v", seg, err)
		}
		if s.Objects[0].Segments != nil {
			t.Fatalf("segments %s should be absent, got %d", seg, *s.Objects[0].Segments)
		}
	}
}
