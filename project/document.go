// Package project loads style data of a site project and turns it into an
// engine style sheet.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"wscss/engine"
)

// SourceType distinguishes shared tokens from styles owned by one instance.
type SourceType string

const (
	SourceToken SourceType = "token"
	SourceLocal SourceType = "local"
)

// Breakpoint names one media rule.
type Breakpoint struct {
	ID                      string `yaml:"id"`
	engine.MediaRuleOptions `yaml:",inline"`
}

// StyleSource groups styles. Tokens become mixins, local sources are merged
// directly into the instance rule.
type StyleSource struct {
	ID   string     `yaml:"id"`
	Type SourceType `yaml:"type"`
	Name string     `yaml:"name,omitempty"`
}

// Style is one declaration. Value is either CSS text or a structured value
// document such as {type: unit, unit: px, value: 10}.
type Style struct {
	Source     string    `yaml:"source"`
	Breakpoint string    `yaml:"breakpoint"`
	State      string    `yaml:"state,omitempty"`
	Property   string    `yaml:"property"`
	Value      yaml.Node `yaml:"value"`
}

// Instance is a rendered element, its styles are selected by the listed
// sources in order.
type Instance struct {
	ID           string   `yaml:"id,omitempty"`
	Tag          string   `yaml:"tag,omitempty"`
	StyleSources []string `yaml:"style_sources"`
}

type Asset struct {
	Path string `yaml:"path,omitempty"`
	URL  string `yaml:"url,omitempty"`
}

// Font is a font file registered as @font-face. Asset names an entry of
// Assets holding the file.
type Font struct {
	Family  string `yaml:"family"`
	Style   string `yaml:"style,omitempty"`
	Weight  string `yaml:"weight,omitempty"`
	Display string `yaml:"display,omitempty"`
	Asset   string `yaml:"asset"`
}

// Project is the document read from project YAML.
type Project struct {
	Breakpoints  []Breakpoint     `yaml:"breakpoints"`
	StyleSources []StyleSource    `yaml:"style_sources"`
	Styles       []Style          `yaml:"styles"`
	Instances    []Instance       `yaml:"instances"`
	Assets       map[string]Asset `yaml:"assets,omitempty"`
	Fonts        []Font           `yaml:"fonts,omitempty"`
	Plaintext    []string         `yaml:"plaintext,omitempty"`
}

// Load decodes a project document. Unknown fields are rejected.
func Load(r io.Reader) (*Project, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Project
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return &p, nil
		}
		return nil, fmt.Errorf("failed to decode project: %w", err)
	}
	return &p, nil
}

func LoadFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}
	p, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
