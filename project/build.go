package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"wscss/css"
	"wscss/engine"
)

// BuildOptions control how a project is turned into a style sheet.
type BuildOptions struct {
	Engine engine.Options
	// AssetBase is prepended to asset paths when resolving image and font
	// URLs.
	AssetBase string
	// AssetDir, when set, is where asset paths are read from to detect font
	// formats.
	AssetDir string
	// FontFallbacks maps a font family to names appended after it, the "*"
	// entry applies to every other family.
	FontFallbacks map[string][]string
}

// Result is a built style sheet and the instance each nesting rule belongs to.
type Result struct {
	Sheet     *engine.StyleSheet
	Transform css.TransformValue
	instances map[string]string
}

// InstanceID returns the id of the instance styled by rule. It is suitable as
// engine.AtomicOptions.GetKey.
func (r *Result) InstanceID(rule *engine.NestingRule) string {
	if id, ok := r.instances[rule.Selector()]; ok {
		return id
	}
	return rule.Selector()
}

// InstanceSelector is the selector matching an element rendered for id.
func InstanceSelector(id string) string {
	return `[data-ws-id="` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(id) + `"]`
}

// Build creates a style sheet from the project. Problems with single entries
// are collected and returned together, the sheet is still built from
// everything else.
func (p *Project) Build(log *zap.Logger, opts BuildOptions) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("project")

	var (
		errs    error
		parser  = css.NewParser(log)
		sheet   = engine.NewStyleSheet(log, opts.Engine)
		sources = make(map[string]StyleSource, len(p.StyleSources))
		local   = make(map[string][]engine.Declaration)
	)

	for _, bp := range p.Breakpoints {
		if bp.ID == "" {
			errs = multierr.Append(errs, fmt.Errorf("breakpoint %s has no id", bp.MediaRuleOptions))
			continue
		}
		if _, ok := sheet.MediaRule(bp.ID); ok {
			errs = multierr.Append(errs, fmt.Errorf("duplicate breakpoint %q", bp.ID))
			continue
		}
		if _, err := sheet.AddMediaRule(bp.ID, bp.MediaRuleOptions); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	for _, src := range p.StyleSources {
		switch src.Type {
		case SourceToken:
			sheet.AddMixinRule(src.ID)
		case SourceLocal:
		default:
			errs = multierr.Append(errs, fmt.Errorf("style source %q: unknown type %q", src.ID, src.Type))
			continue
		}
		sources[src.ID] = src
	}

	for i, st := range p.Styles {
		src, ok := sources[st.Source]
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("style %d (%s): unknown style source %q", i, st.Property, st.Source))
			continue
		}
		if _, ok := sheet.MediaRule(st.Breakpoint); !ok {
			errs = multierr.Append(errs, fmt.Errorf("style %d (%s): unknown breakpoint %q", i, st.Property, st.Breakpoint))
			continue
		}
		property := css.Hyphenate(st.Property)
		value, err := styleValue(parser, property, &st.Value)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("style %d (%s): %w", i, property, err))
			continue
		}
		d := engine.Declaration{Breakpoint: st.Breakpoint, Selector: st.State, Property: property, Value: value}
		if src.Type == SourceToken {
			m, _ := sheet.MixinRule(src.ID)
			m.SetDeclaration(d)
		} else {
			local[src.ID] = append(local[src.ID], d)
		}
	}

	res := &Result{Sheet: sheet, instances: make(map[string]string, len(p.Instances))}
	for _, inst := range p.Instances {
		id := inst.ID
		if id == "" {
			u, err := uuid.NewV7()
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("unable to generate instance id: %w", err))
				continue
			}
			id = u.String()
			log.Debug("Generated instance id", zap.String("tag", inst.Tag), zap.String("id", id))
		}
		rule := sheet.AddNestingRule(InstanceSelector(id), "")
		res.instances[rule.Selector()] = id

		var mixins []string
		for _, sid := range inst.StyleSources {
			src, ok := sources[sid]
			switch {
			case !ok:
				errs = multierr.Append(errs, fmt.Errorf("instance %q: unknown style source %q", id, sid))
			case src.Type == SourceToken:
				mixins = append(mixins, sid)
			default:
				for _, d := range local[sid] {
					rule.SetDeclaration(d)
				}
			}
		}
		if len(mixins) > 0 {
			rule.ApplyMixins(mixins...)
		}
	}

	for _, text := range p.Plaintext {
		sheet.AddPlaintextRule(text)
	}

	for _, f := range p.Fonts {
		ff, err := p.fontFace(f, opts)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		sheet.AddFontFaceRule(ff)
	}

	res.Transform = ChainTransforms(
		AssetResolver(p.Assets, opts.AssetBase),
		FontFallback(opts.FontFallbacks),
	)
	sheet.SetTransformValue(res.Transform)
	return res, errs
}

// styleValue decodes a style value node: scalars are parsed as CSS text,
// mappings are structured value documents.
func styleValue(parser *css.Parser, property string, node *yaml.Node) (css.Value, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		v := parser.ParseValue(property, node.Value)
		if inv, ok := v.(css.InvalidValue); ok {
			return nil, fmt.Errorf("invalid value %q", inv.Value)
		}
		return v, nil
	case yaml.MappingNode:
		var doc any
		if err := node.Decode(&doc); err != nil {
			return nil, err
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		return css.UnmarshalValue(data)
	case 0:
		return nil, fmt.Errorf("missing value")
	}
	return nil, fmt.Errorf("unexpected value at line %d", node.Line)
}

func (p *Project) fontFace(f Font, opts BuildOptions) (engine.FontFace, error) {
	asset, ok := p.Assets[f.Asset]
	if !ok {
		return engine.FontFace{}, fmt.Errorf("font %q: unknown asset %q", f.Family, f.Asset)
	}
	url := assetURL(asset, opts.AssetBase)

	var data []byte
	if opts.AssetDir != "" && asset.Path != "" {
		b, err := os.ReadFile(filepath.Join(opts.AssetDir, filepath.FromSlash(asset.Path)))
		if err != nil {
			return engine.FontFace{}, fmt.Errorf("font %q: %w", f.Family, err)
		}
		data = b
	}
	src := `url("` + url + `")`
	if format := FontFormat(asset.Path+asset.URL, data); format != "" {
		src += ` format("` + format + `")`
	}
	return engine.FontFace{
		Family:  f.Family,
		Style:   f.Style,
		Weight:  f.Weight,
		Display: f.Display,
		Src:     src,
	}, nil
}
