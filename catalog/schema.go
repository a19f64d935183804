package catalog

import (
	"github.com/invopop/jsonschema"
)

// Schema describes the catalog file format.
func Schema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
	}

	schema := reflector.Reflect(map[string][]Title{})
	schema.Title = "goflix catalog"
	schema.Description = "Categories mapped to ordered lists of titles"
	return schema
}
