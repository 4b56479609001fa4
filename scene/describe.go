package scene

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Describer turns a natural-language prompt into a candidate scene payload.
// Implementations usually call an LLM; the reply is untrusted text.
type Describer interface {
	DescribeScene(ctx context.Context, prompt string) (string, error)
}

// DescriberFunc adapts a function to Describer.
type DescriberFunc func(ctx context.Context, prompt string) (string, error)

func (f DescriberFunc) DescribeScene(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// DescribeOptions controls Describe. The zero value parses JSON under PolicyShallow.
type DescribeOptions struct {
	Parse ParseOptions
}

// Describe asks d for a payload, strips any markdown fencing from the reply
// and parses it. Describer errors are returned wrapped and never retried.
func Describe(ctx context.Context, d Describer, prompt string, opts DescribeOptions) (Scene, error) {
	if d == nil {
		return Scene{}, errors.New("describe: nil describer")
	}
	if strings.TrimSpace(prompt) == "" {
		return Scene{}, errors.New("describe: empty prompt")
	}
	reply, err := d.DescribeScene(ctx, prompt)
	if err != nil {
		return Scene{}, fmt.Errorf("describe scene: %w", err)
	}
	return parseWithOptions([]byte(ExtractPayload(reply, FormatMarkdown)), opts.Parse)
}

// SystemPrompt instructs a model to answer with a scene description payload.
const SystemPrompt = `You convert descriptions of 3D scenes into JSON scene descriptions.
Reply with a single JSON object and nothing else.

Schema:
{
  "camera": { "position": [x, y, z], "lookAt": [x, y, z], "fov": number (optional, default 75) },
  "background": "#rrggbb" (optional, default "#000000"),
  "lights": [
    { "type": "ambient" | "directional" | "point" | "spot",
      "color": "#rrggbb", "intensity": number,
      "position": [x, y, z] (not used by ambient lights) }
  ],
  "objects": [
    { "type": "cube" | "sphere" | "plane" | "cylinder" | "cone" | "torus",
      "position": [x, y, z],
      "rotation": [x, y, z] (radians, optional),
      "scale": [x, y, z] (optional),
      "width", "height", "depth": cube and plane sizes,
      "radius": sphere, cylinder, cone and torus radius,
      "segments": sphere segment count,
      "material": { "type": "basic" | "standard" | "phong" | "lambert",
                    "color": "#rrggbb", "metalness": 0-1, "roughness": 0-1,
                    "wireframe": boolean } }
  ]
}

Rules:
- Always include at least one light source.
- Keep the scene within about 20 units of the origin.
- Use a ground plane rotated by -1.5708 around x when objects rest on a floor.`
