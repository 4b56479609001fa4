// Command scenegen turns a scene description (JSON/YAML file or a prompt sent
// to an LLM) into a standalone three.js HTML page.
//
//	scenegen -in scene.json -out scene.html
//	scenegen -prompt "a red cube on a grey floor" -out scene.html
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/atlas-foundry/scene-go-sdk/llm"
	"github.com/atlas-foundry/scene-go-sdk/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv); err != nil {
		fmt.Fprintln(os.Stderr, "scenegen:", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	in         string
	prompt     string
	out        string
	title      string
	format     string
	emit       string
	strict     bool
	timeout    time.Duration
	vv, v, q   bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("scenegen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", DefaultConfigPath, "TOML config file")
	fs.StringVar(&o.in, "in", "", "scene description file (json or yaml), - for stdin")
	fs.StringVar(&o.prompt, "prompt", "", "describe the scene in words and ask the model for it")
	fs.StringVar(&o.out, "out", "", "output file (default stdout)")
	fs.StringVar(&o.title, "title", "", "document title")
	fs.StringVar(&o.format, "format", "", "input format: json|yaml (default from file extension)")
	fs.StringVar(&o.emit, "emit", "", "output: html|program|json|yaml|markdown|org")
	fs.BoolVar(&o.strict, "strict", false, "apply strict validation")
	fs.DurationVar(&o.timeout, "timeout", 2*time.Minute, "model request timeout")
	fs.BoolVar(&o.vv, "vv", false, "debug logging")
	fs.BoolVar(&o.v, "v", false, "info logging")
	fs.BoolVar(&o.q, "q", false, "errors only")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if (o.in == "") == (o.prompt == "") {
		return o, errors.New("exactly one of -in or -prompt is required")
	}
	return o, nil
}

// levelFromFlags maps the verbosity flags to a level; the flags are checked
// in the order vv, v, q and the default is warn.
func levelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: levelFromFlags(o.vv, o.v, o.q)}))

	cfg, err := LoadConfig(o.configPath)
	if err != nil {
		return err
	}
	cfg.applyEnv(getenv)
	if o.title != "" {
		cfg.Title = o.title
	}
	if o.emit != "" {
		cfg.Emit = o.emit
	}
	if o.out != "" {
		cfg.Output = o.out
	}
	if o.strict {
		cfg.Strict = true
	}
	policy := scene.PolicyShallow
	if cfg.Strict {
		policy = scene.PolicyStrict
	}

	var sc scene.Scene
	if o.prompt != "" {
		sc, err = describe(ctx, cfg, o, policy, logger)
	} else {
		sc, err = load(o, policy, stdin)
	}
	if err != nil {
		return err
	}
	logger.Info("scene ready", "lights", len(sc.Lights), "objects", len(sc.Objects), "policy", policy)

	outAny, err := scene.DefaultConverterRegistry.Convert(ctx, "scene", cfg.Emit, sc, map[string]any{
		"title": cfg.Title,
		"notes": cfg.Notes,
	})
	if err != nil {
		return err
	}
	out := fmt.Sprint(outAny)
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	if cfg.Output == "" {
		_, err = io.WriteString(stdout, out)
		return err
	}
	if err := writeFileAtomic(cfg.Output, []byte(out)); err != nil {
		return err
	}
	logger.Info("wrote output", "path", cfg.Output, "emit", cfg.Emit, "bytes", len(out))
	return nil
}

func load(o options, policy scene.ValidationPolicy, stdin io.Reader) (scene.Scene, error) {
	format := scene.PayloadFormat(o.format)
	if format == "" {
		format = scene.PayloadJSON
		if ext := strings.ToLower(filepath.Ext(o.in)); ext == ".yaml" || ext == ".yml" {
			format = scene.PayloadYAML
		}
	}
	opts := scene.ParseOptions{Format: format, Policy: policy}
	if o.in == "-" {
		return scene.ParseReaderWithOptions(stdin, opts)
	}
	f, err := os.Open(o.in)
	if err != nil {
		return scene.Scene{}, err
	}
	defer f.Close()
	return scene.ParseReaderWithOptions(f, opts)
}

func describe(ctx context.Context, cfg Config, o options, policy scene.ValidationPolicy, logger *slog.Logger) (scene.Scene, error) {
	client := llm.NewOpenAI(cfg.APIKey, llm.WithBaseURL(cfg.BaseURL), llm.WithLogger(logger))
	d := &llm.SceneDescriber{Client: client, Model: cfg.Model}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	logger.Info("describing scene", "model", cfg.Model)
	format := scene.PayloadFormat(o.format)
	if format == "" {
		format = scene.PayloadJSON
	}
	return scene.Describe(ctx, d, o.prompt, scene.DescribeOptions{
		Parse: scene.ParseOptions{Format: format, Policy: policy},
	})
}

// writeFileAtomic writes data to a temp file next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
