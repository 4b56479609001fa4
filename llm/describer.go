package llm

import (
	"context"

	"github.com/atlas-foundry/scene-go-sdk/scene"
)

// SceneDescriber adapts a Client to scene.Describer using scene.SystemPrompt.
type SceneDescriber struct {
	Client Client
	Model  string
	// SystemPrompt overrides scene.SystemPrompt when set.
	SystemPrompt string
}

var _ scene.Describer = (*SceneDescriber)(nil)

// DescribeScene sends prompt to the model and returns its raw reply.
func (d *SceneDescriber) DescribeScene(ctx context.Context, prompt string) (string, error) {
	system := d.SystemPrompt
	if system == "" {
		system = scene.SystemPrompt
	}
	model := d.Model
	if model == "" {
		model = DefaultModel
	}
	return d.Client.Complete(ctx, model, system, prompt)
}
