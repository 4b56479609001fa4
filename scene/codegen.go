package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// Generated programs target three.js and its OrbitControls addon, resolved
// through the importmap written by AssembleDocument.
const (
	runtimeModule  = "three"
	controlsModule = "three/addons/controls/OrbitControls.js"
)

var (
	directionalLightPosition = Vec3{5, 10, 7.5}
	pointLightPosition       = Vec3{0, 5, 0}
	spotLightPosition        = Vec3{0, 10, 0}
)

const (
	defaultLightColor     = "#ffffff"
	defaultLightIntensity = 1.0
	defaultMaterialColor  = "#ffffff"

	radialSegments      = 32
	torusTubeRatio      = 0.4
	torusRadialSegments = 16
	torusTubeSegments   = 100
)

// Generate emits the three.js module program for a scene. Blocks appear in a
// fixed order: imports, scene setup, camera, lights, objects, renderer and
// resize handling, animation loop. Lights and objects are named by their
// index in the input, so the output is deterministic and order sensitive.
func Generate(s Scene) string {
	blocks := []string{
		generateImports(),
		generateSceneSetup(s.Background),
		generateCamera(s.Camera),
	}
	for i, l := range s.Lights {
		blocks = append(blocks, generateLight(l, i))
	}
	for i, o := range s.Objects {
		blocks = append(blocks, generateObject(o, i))
	}
	blocks = append(blocks, generateRenderer(s.Camera), generateAnimation())

	var b strings.Builder
	for _, block := range blocks {
		if block == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block)
	}
	return b.String()
}

func generateImports() string {
	return fmt.Sprintf("import * as THREE from %s;\nimport { OrbitControls } from %s;\n",
		jsString(runtimeModule), jsString(controlsModule))
}

func generateSceneSetup(background string) string {
	if background == "" {
		background = defaultBackground
	}
	return "const scene = new THREE.Scene();\n" +
		fmt.Sprintf("scene.background = new THREE.Color(%s);\n", jsString(background))
}

func generateCamera(c Camera) string {
	fov := defaultFOV
	if c.FOV != nil {
		fov = *c.FOV
	}
	var b strings.Builder
	fmt.Fprintf(&b, "const camera = new THREE.PerspectiveCamera(%s, window.innerWidth / window.innerHeight, 0.1, 1000);\n", num(fov))
	fmt.Fprintf(&b, "camera.position.set(%s);\n", vecArgs(c.Position))
	fmt.Fprintf(&b, "camera.lookAt(%s);\n", vecArgs(c.LookAt))
	return b.String()
}

// generateLight returns the block for the light at index i. Unknown light
// types produce an empty block.
func generateLight(l Light, i int) string {
	var ctor string
	var fallback Vec3
	switch l.Type {
	case LightAmbient:
		ctor = "AmbientLight"
	case LightDirectional:
		ctor, fallback = "DirectionalLight", directionalLightPosition
	case LightPoint:
		ctor, fallback = "PointLight", pointLightPosition
	case LightSpot:
		ctor, fallback = "SpotLight", spotLightPosition
	default:
		return ""
	}

	name := fmt.Sprintf("%sLight%d", l.Type, i)
	color := l.Color
	if color == "" {
		color = defaultLightColor
	}
	intensity := defaultLightIntensity
	if l.Intensity != nil {
		intensity = *l.Intensity
	}

	var b strings.Builder
	fmt.Fprintf(&b, "const %s = new THREE.%s(%s, %s);\n", name, ctor, jsString(color), num(intensity))
	if l.Type != LightAmbient {
		pos := fallback
		if l.Position != nil {
			pos = *l.Position
		}
		fmt.Fprintf(&b, "%s.position.set(%s);\n", name, vecArgs(pos))
	}
	fmt.Fprintf(&b, "scene.add(%s);\n", name)
	return b.String()
}

// generateObject returns the geometry, material and mesh statements for the
// object at index i.
func generateObject(o Object, i int) string {
	geometry := fmt.Sprintf("geometry%d", i)
	material := fmt.Sprintf("material%d", i)
	mesh := fmt.Sprintf("mesh%d", i)

	rotation := defaultRotation
	if o.Rotation != nil {
		rotation = *o.Rotation
	}
	scale := defaultScale
	if o.Scale != nil {
		scale = *o.Scale
	}

	var b strings.Builder
	fmt.Fprintf(&b, "const %s = %s;\n", geometry, generateGeometry(o))
	fmt.Fprintf(&b, "const %s = %s;\n", material, generateMaterial(o.Material))
	fmt.Fprintf(&b, "const %s = new THREE.Mesh(%s, %s);\n", mesh, geometry, material)
	fmt.Fprintf(&b, "%s.position.set(%s);\n", mesh, vecArgs(o.Position))
	fmt.Fprintf(&b, "%s.rotation.set(%s);\n", mesh, vecArgs(rotation))
	fmt.Fprintf(&b, "%s.scale.set(%s);\n", mesh, vecArgs(scale))
	fmt.Fprintf(&b, "scene.add(%s);\n", mesh)
	return b.String()
}

// generateGeometry returns the geometry constructor expression. Unknown
// object types fall back to a unit cube.
func generateGeometry(o Object) string {
	switch o.Type {
	case ObjectCube:
		return fmt.Sprintf("new THREE.BoxGeometry(%s, %s, %s)",
			num(or(o.Width, 1)), num(or(o.Height, 1)), num(or(o.Depth, 1)))
	case ObjectSphere:
		segments := strconv.Itoa(radialSegments)
		if o.Segments != nil {
			segments = strconv.Itoa(*o.Segments)
		}
		return fmt.Sprintf("new THREE.SphereGeometry(%s, %s, %s)", num(or(o.Radius, 1)), segments, segments)
	case ObjectPlane:
		return fmt.Sprintf("new THREE.PlaneGeometry(%s, %s)", num(or(o.Width, 10)), num(or(o.Height, 10)))
	case ObjectCylinder:
		r := num(or(o.Radius, 1))
		return fmt.Sprintf("new THREE.CylinderGeometry(%s, %s, %s, %d)", r, r, num(or(o.Height, 2)), radialSegments)
	case ObjectCone:
		return fmt.Sprintf("new THREE.ConeGeometry(%s, %s, %d)", num(or(o.Radius, 1)), num(or(o.Height, 2)), radialSegments)
	case ObjectTorus:
		r := or(o.Radius, 1)
		return fmt.Sprintf("new THREE.TorusGeometry(%s, %s, %d, %d)", num(r), num(torusTubeRatio*r), torusRadialSegments, torusTubeSegments)
	default:
		return "new THREE.BoxGeometry(1, 1, 1)"
	}
}

// generateMaterial returns the material constructor expression. Only fields
// that are set are passed; wireframe only when true.
func generateMaterial(m Material) string {
	color := m.Color
	if color == "" {
		color = defaultMaterialColor
	}
	params := []string{"color: " + jsString(color)}
	if m.Metalness != nil {
		params = append(params, "metalness: "+num(*m.Metalness))
	}
	if m.Roughness != nil {
		params = append(params, "roughness: "+num(*m.Roughness))
	}
	if m.Wireframe != nil && *m.Wireframe {
		params = append(params, "wireframe: true")
	}

	var ctor string
	switch m.Type {
	case MaterialBasic:
		ctor = "MeshBasicMaterial"
	case MaterialPhong:
		ctor = "MeshPhongMaterial"
	case MaterialLambert:
		ctor = "MeshLambertMaterial"
	case MaterialStandard:
		ctor = "MeshStandardMaterial"
	default:
		ctor = "MeshStandardMaterial"
	}
	return fmt.Sprintf("new THREE.%s({ %s })", ctor, strings.Join(params, ", "))
}

func generateRenderer(c Camera) string {
	return `const renderer = new THREE.WebGLRenderer({ antialias: true });
renderer.setSize(window.innerWidth, window.innerHeight);
renderer.setPixelRatio(window.devicePixelRatio);
document.body.appendChild(renderer.domElement);

const controls = new OrbitControls(camera, renderer.domElement);
controls.target.set(` + vecArgs(c.LookAt) + `);
controls.enableDamping = true;
controls.update();

window.addEventListener('resize', () => {
  camera.aspect = window.innerWidth / window.innerHeight;
  camera.updateProjectionMatrix();
  renderer.setSize(window.innerWidth, window.innerHeight);
});
`
}

func generateAnimation() string {
	return `function animate() {
  requestAnimationFrame(animate);
  controls.update();
  renderer.render(scene, camera);
}
animate();
`
}

func or(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

// num formats a float in its shortest round-trip decimal form.
func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func vecArgs(v Vec3) string {
	return num(v[0]) + ", " + num(v[1]) + ", " + num(v[2])
}

// jsString quotes s as a single-quoted JavaScript string literal. '<' is
// escaped so the literal cannot close the surrounding script element.
func jsString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '<':
			b.WriteString(`\x3c`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
