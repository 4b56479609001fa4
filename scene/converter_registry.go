package scene

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Converter is one pipeline stage addressed by its input and output names,
// e.g. "json" -> "scene" or "scene" -> "html". Stages are chained by name.
type Converter interface {
	From() string
	To() string
	Convert(ctx context.Context, input any, opts map[string]any) (any, error)
}

// ConverterRegistry maps stage names to converters. It is safe for
// concurrent use; lookups take a read lock only.
type ConverterRegistry struct {
	mu     sync.RWMutex
	stages map[string]Converter
}

// NewConverterRegistry returns a registry with no stages.
func NewConverterRegistry() *ConverterRegistry {
	return &ConverterRegistry{stages: make(map[string]Converter)}
}

// ConverterExistsError is wrapped by Register when a stage name is taken.
var ConverterExistsError = errors.New("converter already registered")

// Register adds a stage. Names are case-insensitive.
func (r *ConverterRegistry) Register(conv Converter) error {
	if conv == nil {
		return errors.New("converter is nil")
	}
	key := stageKey(conv.From(), conv.To())
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.stages[key]; taken {
		return fmt.Errorf("%w: %s", ConverterExistsError, key)
	}
	r.stages[key] = conv
	return nil
}

// List returns the registered stages sorted by input then output name.
func (r *ConverterRegistry) List() []ConverterDescriptor {
	r.mu.RLock()
	out := make([]ConverterDescriptor, 0, len(r.stages))
	for _, c := range r.stages {
		out = append(out, ConverterDescriptor{From: strings.ToLower(c.From()), To: strings.ToLower(c.To())})
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// ConverterDescriptor names a registered stage.
type ConverterDescriptor struct {
	From string
	To   string
}

// Convert runs the stage registered for from -> to on input.
func (r *ConverterRegistry) Convert(ctx context.Context, from, to string, input any, opts map[string]any) (any, error) {
	key := stageKey(from, to)
	r.mu.RLock()
	conv, ok := r.stages[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no converter for %s", key)
	}
	return conv.Convert(ctx, input, opts)
}

// DefaultConverterRegistry holds the scene pipeline: payload decoding,
// fence extraction, and every scene output (json, yaml, program, html,
// markdown, org).
var DefaultConverterRegistry = newDefaultConverterRegistry()

func newDefaultConverterRegistry() *ConverterRegistry {
	reg := NewConverterRegistry()
	registerDefaultConverters(reg)
	return reg
}

func stageKey(from, to string) string {
	return strings.ToLower(from) + "->" + strings.ToLower(to)
}

// registerDefaultConverters adds the scene stages to reg. Stages already
// present are left in place.
func registerDefaultConverters(reg *ConverterRegistry) {
	_ = reg.Register(stage{
		from: "json",
		to:   "scene",
		fn: func(_ context.Context, input any, opts map[string]any) (any, error) {
			body, err := textInput("json->scene", input)
			if err != nil {
				return nil, err
			}
			return parseWithOptions(body, ParseOptions{Format: PayloadJSON, Policy: policyOption(opts)})
		},
	})
	_ = reg.Register(stage{
		from: "yaml",
		to:   "scene",
		fn: func(_ context.Context, input any, opts map[string]any) (any, error) {
			body, err := textInput("yaml->scene", input)
			if err != nil {
				return nil, err
			}
			return parseWithOptions(body, ParseOptions{Format: PayloadYAML, Policy: policyOption(opts)})
		},
	})
	_ = reg.Register(stage{
		from: "markdown",
		to:   "payload",
		fn: func(_ context.Context, input any, _ map[string]any) (any, error) {
			body, err := textInput("markdown->payload", input)
			if err != nil {
				return nil, err
			}
			return ExtractPayload(string(body), FormatMarkdown), nil
		},
	})
	_ = reg.Register(sceneConverter("json", func(s Scene, _ map[string]any) (any, error) {
		return Serialize(s)
	}))
	_ = reg.Register(sceneConverter("yaml", func(s Scene, _ map[string]any) (any, error) {
		return SerializeYAML(s)
	}))
	_ = reg.Register(sceneConverter("program", func(s Scene, _ map[string]any) (any, error) {
		return Generate(s), nil
	}))
	_ = reg.Register(sceneConverter("html", func(s Scene, opts map[string]any) (any, error) {
		docOpts := DocumentOptions{Title: "Scene"}
		if v, ok := opts["title"].(string); ok && v != "" {
			docOpts.Title = v
		}
		if v, ok := opts["notes"].(string); ok {
			docOpts.Notes = v
		}
		return AssembleDocumentWithOptions(s, docOpts), nil
	}))
	_ = reg.Register(sceneConverter("markdown", func(s Scene, _ map[string]any) (any, error) {
		return ConvertSceneToText(s, FormatMarkdown)
	}))
	_ = reg.Register(sceneConverter("org", func(s Scene, _ map[string]any) (any, error) {
		return ConvertSceneToText(s, FormatOrg)
	}))
}

type stage struct {
	from string
	to   string
	fn   func(ctx context.Context, input any, opts map[string]any) (any, error)
}

func (c stage) From() string { return c.from }
func (c stage) To() string   { return c.to }
func (c stage) Convert(ctx context.Context, input any, opts map[string]any) (any, error) {
	return c.fn(ctx, input, opts)
}

// sceneConverter builds a scene -> to stage that accepts Scene or *Scene.
func sceneConverter(to string, fn func(Scene, map[string]any) (any, error)) Converter {
	return stage{
		from: "scene",
		to:   to,
		fn: func(_ context.Context, input any, opts map[string]any) (any, error) {
			switch v := input.(type) {
			case Scene:
				return fn(v, opts)
			case *Scene:
				if v == nil {
					return nil, fmt.Errorf("scene->%s converter got nil *Scene", to)
				}
				return fn(*v, opts)
			default:
				return nil, fmt.Errorf("scene->%s converter expects Scene or *Scene, got %T", to, input)
			}
		},
	}
}

func textInput(name string, input any) ([]byte, error) {
	switch v := input.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("%s converter expects string or []byte, got %T", name, input)
	}
}

func policyOption(opts map[string]any) ValidationPolicy {
	if v, ok := opts["policy"].(ValidationPolicy); ok {
		return v
	}
	if v, ok := opts["strict"].(bool); ok && v {
		return PolicyStrict
	}
	return PolicyShallow
}
