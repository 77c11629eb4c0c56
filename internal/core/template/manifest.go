package template

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	manifestName  = "sunrise.yaml"
	skillFileName = "SKILL.md"
)

// Manifest is the optional sunrise.yaml at the bundle root.
type Manifest struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description,omitempty"`
}

func parseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", manifestName, err)
	}
	return &m, nil
}

// SkillMeta is the YAML frontmatter of a SKILL.md file.
type SkillMeta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	License     string `yaml:"license,omitempty"`
}

// ParseSkillMeta reads the YAML frontmatter at the top of a SKILL.md body.
func ParseSkillMeta(content []byte) (*SkillMeta, error) {
	scanner := bufio.NewScanner(bytes.NewReader(content))

	// Look for opening ---
	if !scanner.Scan() {
		return nil, fmt.Errorf("empty file")
	}
	if strings.TrimSpace(scanner.Text()) != "---" {
		return nil, fmt.Errorf("no frontmatter")
	}

	var frontmatter strings.Builder
	closed := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			closed = true
			break
		}
		frontmatter.WriteString(line)
		frontmatter.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !closed {
		return nil, fmt.Errorf("no closing frontmatter")
	}

	var meta SkillMeta
	if err := yaml.Unmarshal([]byte(frontmatter.String()), &meta); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	if meta.Name == "" {
		return nil, fmt.Errorf("missing name field")
	}
	return &meta, nil
}
