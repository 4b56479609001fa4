package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PayloadFormat names the serialization of a scene payload.
type PayloadFormat string

const (
	PayloadJSON PayloadFormat = "json"
	PayloadYAML PayloadFormat = "yaml"
)

// ParseOptions controls decoding and the validation policy applied after the
// structural gate.
type ParseOptions struct {
	// Format selects the decoder; the zero value means JSON.
	Format PayloadFormat
	// Policy selects the validation policy; the zero value is PolicyShallow.
	Policy ValidationPolicy
}

var defaultParseOptions = ParseOptions{Format: PayloadJSON, Policy: PolicyShallow}

type ErrorType string

const (
	ErrDecode    ErrorType = "decode_error"
	ErrStructure ErrorType = "structure_error"
	ErrValidate  ErrorType = "validation_error"
)

var (
	// ErrMalformedPayload matches (via errors.Is) any SceneError of type ErrDecode.
	ErrMalformedPayload = errors.New("malformed scene payload")
	// ErrStructureRejected matches (via errors.Is) any SceneError of type ErrStructure.
	ErrStructureRejected = errors.New("scene structure rejected")
)

// SceneError wraps decoding/validation issues with context and type.
type SceneError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *SceneError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SceneError) Unwrap() error { return e.Err }

// Is lets errors.Is match the payload and structure sentinels by type.
func (e *SceneError) Is(target error) bool {
	switch target {
	case ErrMalformedPayload:
		return e.Type == ErrDecode
	case ErrStructureRejected:
		return e.Type == ErrStructure
	}
	return false
}

// ParseString decodes, validates and normalizes a JSON scene description.
func ParseString(body string) (Scene, error) {
	return parseWithOptions([]byte(body), defaultParseOptions)
}

// ParseBytes is ParseString over a byte slice.
func ParseBytes(body []byte) (Scene, error) {
	return parseWithOptions(body, defaultParseOptions)
}

// ParseYAML decodes, validates and normalizes a YAML scene description.
func ParseYAML(body string) (Scene, error) {
	return parseWithOptions([]byte(body), ParseOptions{Format: PayloadYAML})
}

// ParseReader decodes a JSON scene description from an io.Reader.
func ParseReader(r io.Reader) (Scene, error) {
	return ParseReaderWithOptions(r, defaultParseOptions)
}

// ParseReaderWithOptions decodes a scene description with format and policy controls.
func ParseReaderWithOptions(r io.Reader, opts ParseOptions) (Scene, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return Scene{}, err
	}
	return parseWithOptions(body, opts)
}

// ParseFile decodes a scene description from the given file path. Files
// ending in .yaml or .yml are decoded as YAML, everything else as JSON.
func ParseFile(path string) (Scene, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, err
	}
	opts := defaultParseOptions
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		opts.Format = PayloadYAML
	}
	return parseWithOptions(body, opts)
}

func parseWithOptions(body []byte, opts ParseOptions) (Scene, error) {
	var candidate any
	switch opts.Format {
	case PayloadYAML:
		if err := yaml.Unmarshal(body, &candidate); err != nil {
			return Scene{}, &SceneError{Type: ErrDecode, Message: "parse scene yaml", Err: err}
		}
	case PayloadJSON, "":
		if err := json.Unmarshal(body, &candidate); err != nil {
			return Scene{}, wrapJSONError(err, body)
		}
	default:
		return Scene{}, &SceneError{Type: ErrDecode, Message: fmt.Sprintf("unsupported payload format %q", opts.Format)}
	}
	if !Validate(candidate) {
		return Scene{}, &SceneError{
			Type:    ErrStructure,
			Message: "scene description must have camera.position, camera.lookAt, lights and objects",
		}
	}
	s := decodeScene(candidate.(map[string]any))
	if err := ValidateScene(s, opts.Policy); err != nil {
		return Scene{}, &SceneError{Type: ErrValidate, Message: "invalid scene", Err: err}
	}
	return Normalize(s), nil
}

func wrapJSONError(err error, body []byte) error {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		line := 1 + bytes.Count(body[:min(int(se.Offset), len(body))], []byte("\n"))
		return &SceneError{Type: ErrDecode, Message: fmt.Sprintf("parse scene json (line %d)", line), Err: err}
	}
	return &SceneError{Type: ErrDecode, Message: "parse scene json", Err: err}
}

// Serialize renders a scene as indented JSON. Parsing the result yields a
// scene equal to Normalize(s).
func Serialize(s Scene) (string, error) {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// SerializeYAML renders a scene as YAML.
func SerializeYAML(s Scene) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Encode writes the scene to w as indented JSON followed by a newline.
func (s Scene) Encode(w io.Writer) error {
	body, err := Serialize(s)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, body+"\n")
	return err
}

// DumpFile writes the scene as JSON to path atomically.
func (s Scene) DumpFile(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := s.Encode(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// decodeScene converts a gate-checked generic value into a Scene. Sub-fields
// with the wrong shape are treated as absent.
func decodeScene(root map[string]any) Scene {
	camera := root["camera"].(map[string]any)
	s := Scene{
		Camera: Camera{
			Position: vecOrZero(camera["position"]),
			LookAt:   vecOrZero(camera["lookAt"]),
			FOV:      floatField(camera, "fov", "fieldOfView"),
		},
	}
	s.Background, _ = root["background"].(string)

	lights := root["lights"].([]any)
	s.Lights = make([]Light, 0, len(lights))
	for _, raw := range lights {
		m, _ := raw.(map[string]any)
		s.Lights = append(s.Lights, decodeLight(m))
	}
	objects := root["objects"].([]any)
	s.Objects = make([]Object, 0, len(objects))
	for _, raw := range objects {
		m, _ := raw.(map[string]any)
		s.Objects = append(s.Objects, decodeObject(m))
	}
	return s
}

func decodeLight(m map[string]any) Light {
	l := Light{
		Type:      LightType(stringField(m, "type")),
		Color:     stringField(m, "color"),
		Intensity: floatField(m, "intensity"),
	}
	if v, ok := vecFrom(m["position"]); ok {
		l.Position = &v
	}
	return l
}

func decodeObject(m map[string]any) Object {
	o := Object{
		Type:     ObjectType(stringField(m, "type")),
		Position: vecOrZero(m["position"]),
		Width:    floatField(m, "width"),
		Height:   floatField(m, "height"),
		Depth:    floatField(m, "depth"),
		Radius:   floatField(m, "radius"),
	}
	if v, ok := vecFrom(m["rotation"]); ok {
		o.Rotation = &v
	}
	if v, ok := vecFrom(m["scale"]); ok {
		o.Scale = &v
	}
	if f, ok := numberFrom(m["segments"]); ok && f >= math.MinInt32 && f <= math.MaxInt32 {
		o.Segments = ptrInt(int(f))
	}
	mat, _ := m["material"].(map[string]any)
	o.Material = Material{
		Type:      MaterialType(stringField(mat, "type")),
		Color:     stringField(mat, "color"),
		Metalness: floatField(mat, "metalness"),
		Roughness: floatField(mat, "roughness"),
	}
	if b, ok := mat["wireframe"].(bool); ok {
		o.Material.Wireframe = &b
	}
	return o
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// floatField returns the first key present as a number, or nil.
func floatField(m map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		if f, ok := numberFrom(m[k]); ok {
			return &f
		}
	}
	return nil
}

// numberFrom accepts finite numbers only; NaN and infinities count as absent.
func numberFrom(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		f := float64(n)
		return f, !math.IsNaN(f) && !math.IsInf(f, 0)
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func vecFrom(v any) (Vec3, bool) {
	arr, ok := v.([]any)
	if !ok || len(arr) != 3 {
		return Vec3{}, false
	}
	var out Vec3
	for i, el := range arr {
		f, ok := numberFrom(el)
		if !ok {
			return Vec3{}, false
		}
		out[i] = f
	}
	return out, true
}

func vecOrZero(v any) Vec3 {
	out, _ := vecFrom(v)
	return out
}
