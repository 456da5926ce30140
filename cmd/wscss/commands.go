package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"wscss/config"
	"wscss/css"
	"wscss/cssimport"
	"wscss/engine"
	"wscss/project"
	"wscss/state"
)

// output opens the destination named by the argument at index, STDOUT when
// it is absent.
func output(cmd *cli.Command, index int) (io.WriteCloser, string, error) {
	fname := cmd.Args().Get(index)
	if len(fname) == 0 {
		return nopCloser{os.Stdout}, "STDOUT", nil
	}
	out, err := os.Create(fname)
	if err != nil {
		return nil, "", fmt.Errorf("unable to create destination file '%s': %w", fname, err)
	}
	return out, fname, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func writeOutput(cmd *cli.Command, index int, data []byte) (err error) {
	out, _, err := output(cmd, index)
	if err != nil {
		return err
	}
	defer func() {
		if e := out.Close(); e != nil {
			err = multierr.Append(err, e)
		}
	}()
	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	return nil
}

func warnExtraArgs(env *state.LocalEnv, cmd *cli.Command, allowed int) {
	if cmd.Args().Len() > allowed {
		env.Log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[allowed:]))
	}
}

func runParse(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() < 2 {
		return errors.New("property and value are required")
	}
	warnExtraArgs(env, cmd, 3)

	property, raw := cmd.Args().Get(0), cmd.Args().Get(1)
	v := css.NewParser(env.Log).ParseValue(property, raw)
	if _, ok := v.(css.InvalidValue); ok {
		return fmt.Errorf("invalid value for %s: %q", css.Hyphenate(property), raw)
	}

	var data []byte
	if cmd.Bool("json") {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("unable to encode value: %w", err)
		}
		data = append(b, '\n')
	} else {
		data = []byte(css.Hyphenate(property) + ": " + css.ToValue(v, nil) + "\n")
	}
	return writeOutput(cmd, 2, data)
}

func runGradient(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() < 1 {
		return errors.New("gradient is required")
	}
	warnExtraArgs(env, cmd, 2)

	text := cmd.Args().Get(0)
	var (
		kind   string
		parsed interface{ String() string }
	)
	switch {
	case strings.Contains(text, "linear-gradient("):
		if g := css.ParseLinearGradient(text); g != nil {
			kind, parsed = "linear", g
		}
	case strings.Contains(text, "radial-gradient("):
		if g := css.ParseRadialGradient(text); g != nil {
			kind, parsed = "radial", g
		}
	case strings.Contains(text, "conic-gradient("):
		if g := css.ParseConicGradient(text); g != nil {
			kind, parsed = "conic", g
		}
	}
	if parsed == nil {
		return fmt.Errorf("not a supported gradient: %q", text)
	}

	doc, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode gradient: %w", err)
	}
	env.Log.Debug("Gradient parsed", zap.String("kind", kind))
	return writeOutput(cmd, 1, []byte(parsed.String()+"\n"+string(doc)+"\n"))
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() < 1 {
		return errors.New("project file is required")
	}
	warnExtraArgs(env, cmd, 2)

	src := cmd.Args().Get(0)
	p, err := project.LoadFile(src)
	if err != nil {
		return err
	}
	res, err := p.Build(env.Log, env.Cfg.BuildOptions())
	if err != nil {
		if cmd.Bool("strict") {
			return fmt.Errorf("project %s: %w", src, err)
		}
		for _, e := range multierr.Errors(err) {
			env.Log.Warn("Skipping project entry", zap.Error(e))
		}
	}

	text := res.Sheet.CSSText()
	if cmd.Bool("atomic") {
		opts := env.Cfg.Atomic.AtomicOptions()
		opts.GetKey = res.InstanceID
		opts.Transform = res.Transform
		ar := engine.GenerateAtomic(res.Sheet, opts)
		text = ar.CSSText
		if fname := cmd.String("classes"); fname != "" {
			if err := writeClassMap(fname, ar.Classes); err != nil {
				return err
			}
			env.Log.Info("Class map written", zap.String("file", fname), zap.Int("instances", len(ar.Classes)))
		}
	}
	env.Log.Debug("Style sheet ready", zap.String("project", src), zap.Int("bytes", len(text)))
	return writeOutput(cmd, 1, []byte(text+"\n"))
}

// writeClassMap stores instance classes as YAML with instance ids in natural
// order.
func writeClassMap(fname string, classes map[string][]string) error {
	keys := slices.Collect(maps.Keys(classes))
	sort.Sort(natural.StringSlice(keys))

	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, c := range classes[k] {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: c})
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, seq)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("unable to encode class map: %w", err)
	}
	if err := os.WriteFile(fname, data, 0644); err != nil {
		return fmt.Errorf("unable to write class map: %w", err)
	}
	return nil
}

func runImport(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() < 1 {
		return errors.New("source CSS file is required")
	}
	warnExtraArgs(env, cmd, 2)

	src := cmd.Args().Get(0)
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("unable to read source: %w", err)
	}
	res := cssimport.NewImporter(env.Log).Import(data, src)
	for _, w := range res.Warnings {
		env.Log.Warn("Import problem", zap.String("source", src), zap.String("details", w))
	}

	sheet := engine.NewStyleSheet(env.Log, env.Cfg.Engine.Options())
	if err := res.Apply(sheet); err != nil {
		return fmt.Errorf("unable to apply %s: %w", src, err)
	}
	env.Log.Info("Imported", zap.String("source", src), zap.Int("rules", len(res.Rules)), zap.Int("breakpoints", len(sheet.MediaRules())))
	return writeOutput(cmd, 1, []byte(sheet.CSSText()+"\n"))
}

func runMedia(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() < 1 {
		return errors.New("at least one media query is required")
	}

	var (
		errs  error
		media []engine.MediaRuleOptions
	)
	for _, q := range cmd.Args().Slice() {
		o, err := engine.ParseMediaQuery(q)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%q: %w", q, err))
			continue
		}
		media = append(media, o)
	}
	if errs != nil {
		return errs
	}
	slices.SortStableFunc(media, engine.CompareMedia)

	var sb strings.Builder
	for _, o := range media {
		sb.WriteString(o.String() + "\n")
	}
	if cmd.IsSet("width") {
		width := cmd.Float("width")
		if o, ok := engine.FindApplicableMedia(media, width); ok {
			fmt.Fprintf(&sb, "applicable at %vpx: %s\n", width, o)
		} else {
			fmt.Fprintf(&sb, "nothing applicable at %vpx\n", width)
		}
	}
	env.Log.Debug("Media queries sorted", zap.Int("count", len(media)))
	_, err := os.Stdout.WriteString(sb.String())
	return err
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	warnExtraArgs(env, cmd, 1)

	var (
		err   error
		data  []byte
		state string
	)
	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))
	return writeOutput(cmd, 0, data)
}
