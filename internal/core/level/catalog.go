package level

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is an ordered, validated list of levels.
type Catalog struct {
	levels []Definition
}

// NewCatalog applies defaults and validates every definition.
func NewCatalog(marbleRadius float64, defs ...Definition) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, ErrNoLevels
	}
	levels := make([]Definition, len(defs))
	var errs []error
	for i, d := range defs {
		d = d.WithDefaults()
		if err := d.Validate(marbleRadius); err != nil {
			errs = append(errs, fmt.Errorf("level %d: %w", i, err))
		}
		levels[i] = d
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &Catalog{levels: levels}, nil
}

func (c *Catalog) Len() int { return len(c.levels) }

// Clamp maps any index onto a valid one.
func (c *Catalog) Clamp(index int) int {
	if index < 0 {
		return 0
	}
	if index >= len(c.levels) {
		return len(c.levels) - 1
	}
	return index
}

// Get returns the level at the clamped index.
func (c *Catalog) Get(index int) (Definition, int) {
	index = c.Clamp(index)
	return c.levels[index], index
}

func (c *Catalog) Summaries() []Summary {
	out := make([]Summary, len(c.levels))
	for i, d := range c.levels {
		out[i] = d.Summary(i)
	}
	return out
}

func (c *Catalog) Names() []string {
	out := make([]string, len(c.levels))
	for i, d := range c.levels {
		out[i] = d.Name
	}
	return out
}

type document struct {
	Levels []Definition `yaml:"levels"`
}

// LoadYAML reads either a single definition or a document with a "levels" list.
func LoadYAML(r io.Reader) ([]Definition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var probe struct {
		Levels yaml.Node `yaml:"levels"`
	}
	if err = yaml.Unmarshal(data, &probe); err == nil && probe.Levels.Kind != 0 {
		var doc document
		if err = decodeStrict(data, &doc); err != nil {
			return nil, fmt.Errorf("decode levels: %w", err)
		}
		if len(doc.Levels) == 0 {
			return nil, ErrNoLevels
		}
		return doc.Levels, nil
	}

	var def Definition
	if err = decodeStrict(data, &def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoLevels
		}
		return nil, fmt.Errorf("decode level: %w", err)
	}
	return []Definition{def}, nil
}

// decodeStrict rejects fields the target does not declare.
func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}

// LoadDir reads every *.yaml / *.yml file in dir, in file name order.
func LoadDir(dir string) ([]Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var defs []Definition
	for _, name := range names {
		loaded, err := loadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		defs = append(defs, loaded...)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoLevels)
	}
	return defs, nil
}

func loadFile(path string) ([]Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadYAML(f)
}
