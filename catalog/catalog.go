// Package catalog provides the static media catalog: titles grouped into ordered categories.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/goflix/goflix/filesystem"
	"github.com/goflix/goflix/log"
	"github.com/goflix/goflix/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/afero"
)

//go:embed default.json
var defaultCatalog []byte

// CommentSeed is a comment shipped with a title.
type CommentSeed struct {
	ID     string `json:"id" jsonschema:"required"`
	Author string `json:"author" jsonschema:"required"`
	Text   string `json:"text" jsonschema:"required,minLength=1"`
}

// Title is a single playable catalog entry.
type Title struct {
	ID       string        `json:"id" jsonschema:"required,description=Unique identifier of the title"`
	Title    string        `json:"title" jsonschema:"required"`
	ImageURL string        `json:"imageUrl,omitempty" jsonschema:"description=Poster image"`
	VideoURL string        `json:"videoUrl" jsonschema:"required,description=Media reference handed to the player"`
	Comments []CommentSeed `json:"comments,omitempty"`
}

// Category is a named, ordered row of titles.
type Category struct {
	Name   string
	Titles []Title
}

// Catalog is the ordered list of categories, in file order.
type Catalog struct {
	Categories []Category
}

// Parse decodes a JSON object mapping category names to arrays of titles.
// Category order follows the document; a repeated category name extends the earlier one.
func Parse(data []byte) (*Catalog, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))

	token, err := decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("catalog: expected an object of categories")
	}

	c := &Catalog{}
	index := make(map[string]int)

	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		name := token.(string)

		var titles []Title
		if err := decoder.Decode(&titles); err != nil {
			return nil, fmt.Errorf("catalog: category %q: %w", name, err)
		}

		if i, ok := index[name]; ok {
			c.Categories[i].Titles = append(c.Categories[i].Titles, titles...)
			continue
		}
		index[name] = len(c.Categories)
		c.Categories = append(c.Categories, Category{Name: name, Titles: titles})
	}

	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	return c, nil
}

// Default returns the catalog bundled with the binary.
func Default() *Catalog {
	return lo.Must(Parse(defaultCatalog))
}

// DefaultJSON returns the bundled catalog document.
func DefaultJSON() []byte {
	return bytes.Clone(defaultCatalog)
}

// Load reads the catalog file, falling back to the bundled catalog when there is none.
func Load() (*Catalog, error) {
	path := where.Catalog()

	data, err := afero.ReadFile(filesystem.API(), path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Infof("no catalog at %s, using the bundled one", path)
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Infof("loaded %d categories from %s", len(c.Categories), path)
	return c, nil
}

// Names returns the category names in order.
func (c *Catalog) Names() []string {
	return lo.Map(c.Categories, func(category Category, _ int) string {
		return category.Name
	})
}

// Category looks a category up by name.
func (c *Catalog) Category(name string) mo.Option[Category] {
	category, ok := lo.Find(c.Categories, func(category Category) bool {
		return category.Name == name
	})
	if !ok {
		return mo.None[Category]()
	}
	return mo.Some(category)
}

// Titles returns every title once, in catalog order.
func (c *Catalog) Titles() []Title {
	all := lo.FlatMap(c.Categories, func(category Category, _ int) []Title {
		return category.Titles
	})
	return lo.UniqBy(all, func(t Title) string {
		return t.ID
	})
}

// Find returns the title with the given id.
func (c *Catalog) Find(id string) mo.Option[Title] {
	title, ok := lo.Find(c.Titles(), func(t Title) bool {
		return t.ID == id
	})
	if !ok {
		return mo.None[Title]()
	}
	return mo.Some(title)
}

// MarshalJSON encodes the catalog as an object, keeping category order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, category := range c.Categories {
		if i > 0 {
			buf.WriteByte(',')
		}

		name, err := json.Marshal(category.Name)
		if err != nil {
			return nil, err
		}
		titles, err := json.Marshal(lo.Ternary(category.Titles == nil, []Title{}, category.Titles))
		if err != nil {
			return nil, err
		}

		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(titles)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
