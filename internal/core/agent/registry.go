package agent

import (
	_ "embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sunrise-cli/sunrise/internal/core/template"
	"github.com/sunrise-cli/sunrise/internal/errors"
)

//go:embed agents.yaml
var builtinTable []byte

// table is the on-disk shape of agents.yaml.
type table struct {
	Defaults struct {
		Scripts string `yaml:"scripts"`
		Memory  string `yaml:"memory"`
	} `yaml:"defaults"`
	Agents []Profile `yaml:"agents"`
}

// Registry is an immutable set of validated profiles.
type Registry struct {
	profiles []Profile     // sorted by ID
	byKey    map[string]int // ID or alias -> index
}

// Builtin loads the embedded agent table merged with extra profiles.
func Builtin(extra ...Profile) (*Registry, error) {
	return LoadRegistry(builtinTable, extra...)
}

// LoadRegistry parses an agent table and merges extra profiles into it. An
// extra profile with a known ID overrides only the fields it sets; one with
// a new ID is added. Every resulting profile must map all four categories.
func LoadRegistry(data []byte, extra ...Profile) (*Registry, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, errors.ConfigError("parsing agent table", err)
	}
	defaults := Profile{ScriptDir: t.Defaults.Scripts, MemoryDir: t.Defaults.Memory}

	byID := make(map[string]Profile, len(t.Agents)+len(extra))
	for _, p := range t.Agents {
		p.ID = strings.ToLower(strings.TrimSpace(p.ID))
		if p.ID == "" {
			return nil, errors.ConfigError("agent table: entry without id", nil)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, errors.ConfigError(fmt.Sprintf("agent table: duplicate agent %q", p.ID), nil)
		}
		byID[p.ID] = p.merge(defaults)
	}
	for _, p := range extra {
		p.ID = strings.ToLower(strings.TrimSpace(p.ID))
		if p.ID == "" {
			return nil, errors.ConfigError("custom agent without id", nil)
		}
		byID[p.ID] = p.merge(byID[p.ID]).merge(defaults)
	}

	r := &Registry{byKey: make(map[string]int)}
	for _, p := range byID {
		if err := validate(p); err != nil {
			return nil, err
		}
		r.profiles = append(r.profiles, p)
	}
	sort.Slice(r.profiles, func(i, j int) bool { return r.profiles[i].ID < r.profiles[j].ID })

	for i, p := range r.profiles {
		r.byKey[p.ID] = i
	}
	for i, p := range r.profiles {
		for _, alias := range p.Aliases {
			key := strings.ToLower(alias)
			if j, taken := r.byKey[key]; taken && j != i {
				return nil, errors.ConfigError(
					fmt.Sprintf("agent alias %q of %q is already used by %q", alias, p.ID, r.profiles[j].ID), nil)
			}
			r.byKey[key] = i
		}
	}
	return r, nil
}

// validate checks that every category has a directory that stays inside
// the project.
func validate(p Profile) error {
	for _, c := range template.Categories() {
		d := p.Dir(c)
		if d == "" {
			return errors.MissingAgentMapping(p.ID, string(c))
		}
		if !filepath.IsLocal(filepath.FromSlash(d)) || path.Clean(d) == "." {
			return errors.ConfigError(
				fmt.Sprintf("agent %q: %s directory %q must be a relative path inside the project", p.ID, c, d), nil)
		}
	}
	return nil
}

// Lookup resolves an agent ID or alias.
func (r *Registry) Lookup(id string) (Profile, error) {
	i, ok := r.byKey[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Profile{}, errors.UnknownAgent(id, r.IDs())
	}
	return r.profiles[i].clone(), nil
}

// Profiles returns all profiles sorted by ID.
func (r *Registry) Profiles() []Profile {
	out := make([]Profile, len(r.profiles))
	for i, p := range r.profiles {
		out[i] = p.clone()
	}
	return out
}

// IDs returns the sorted agent IDs.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.profiles))
	for i, p := range r.profiles {
		ids[i] = p.ID
	}
	return ids
}

// Detect returns the profiles with a presence signal in projectDir: the
// command directory or one of the profile's detect paths.
func (r *Registry) Detect(projectDir string) []Profile {
	var found []Profile
	for _, p := range r.profiles {
		signals := append([]string{p.CommandDir}, p.DetectPaths...)
		for _, s := range signals {
			if pathExists(filepath.Join(projectDir, filepath.FromSlash(s))) {
				found = append(found, p.clone())
				break
			}
		}
	}
	return found
}

func pathExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
