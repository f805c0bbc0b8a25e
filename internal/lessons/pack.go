package lessons

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const packSchemaURL = "schema://lingopro/pack.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// compiledPackSchema compiles packSchema once.
func compiledPackSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler expects a parsed JSON value, so round-trip the Go map.
		raw, err := json.Marshal(packSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal pack schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(raw, &def); err != nil {
			compileErr = fmt.Errorf("parse pack schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(packSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(packSchemaURL)
	})
	return compiled, compileErr
}

// LoadPack reads a content pack, validates it against the pack schema and
// decodes it. Every lesson must pass Validate.
func LoadPack(r io.Reader) (*Pack, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pack: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := compiledPackSchema()
	if err != nil {
		return nil, fmt.Errorf("compile pack schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var pack Pack
	if err := json.Unmarshal(raw, &pack); err != nil {
		return nil, fmt.Errorf("decode pack: %w", err)
	}

	for _, p := range pack.Pathways {
		for _, u := range p.Units {
			for i := range u.Lessons {
				if err := u.Lessons[i].Validate(); err != nil {
					return nil, err
				}
			}
		}
	}
	return &pack, nil
}

// LoadPackFile opens path and loads the pack it contains.
func LoadPackFile(path string) (*Pack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pack: %w", err)
	}
	defer f.Close()

	pack, err := LoadPack(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return pack, nil
}

//go:embed packs/spanish-basics.json
var defaultPack []byte

// DefaultPack loads the content pack bundled with the binary.
func DefaultPack() (*Pack, error) {
	return LoadPack(bytes.NewReader(defaultPack))
}

// Entry is a lesson together with its fully scoped reference.
type Entry struct {
	Ref     Ref
	Pathway *Pathway
	Unit    *Unit
	Lesson  *Lesson
}

// Catalog indexes a pack's lessons for lookup by reference.
type Catalog struct {
	pack    *Pack
	entries []Entry
}

// NewCatalog indexes every lesson of the pack in pack order.
func NewCatalog(pack *Pack) *Catalog {
	c := &Catalog{pack: pack}
	if pack == nil {
		return c
	}
	for pi := range pack.Pathways {
		p := &pack.Pathways[pi]
		for ui := range p.Units {
			u := &p.Units[ui]
			for li := range u.Lessons {
				l := &u.Lessons[li]
				c.entries = append(c.entries, Entry{
					Ref:     Ref{PathwayID: p.ID, UnitID: u.ID, LessonID: l.ID},
					Pathway: p,
					Unit:    u,
					Lesson:  l,
				})
			}
		}
	}
	return c
}

// Pack returns the indexed pack.
func (c *Catalog) Pack() *Pack { return c.pack }

// Lessons lists every lesson in pack order.
func (c *Catalog) Lessons() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Lookup finds the first lesson matching ref. Empty scope fields in ref
// match any pathway or unit.
func (c *Catalog) Lookup(ref Ref) (Entry, error) {
	for _, e := range c.entries {
		if e.Ref.LessonID != ref.LessonID {
			continue
		}
		if ref.PathwayID != "" && e.Ref.PathwayID != ref.PathwayID {
			continue
		}
		if ref.UnitID != "" && e.Ref.UnitID != ref.UnitID {
			continue
		}
		return e, nil
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrLessonNotFound, ref)
}

// Lesson returns the lesson addressed by ref.
func (c *Catalog) Lesson(ref Ref) (*Lesson, error) {
	e, err := c.Lookup(ref)
	if err != nil {
		return nil, err
	}
	return e.Lesson, nil
}
