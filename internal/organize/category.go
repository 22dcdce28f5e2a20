package organize

import (
	"autosort/internal/config"
	"autosort/pkg/types"
)

// OtherCategory receives every extension no category claims.
const OtherCategory = "Other"

// Categorizer maps file extensions to category names. The first category
// listing an extension owns it.
type Categorizer struct {
	owners map[string]string
}

// NewCategorizer indexes categories in order.
func NewCategorizer(categories []types.Category) *Categorizer {
	owners := make(map[string]string)
	for _, category := range categories {
		for _, ext := range category.Extensions {
			ext = config.NormalizeExtension(ext)
			if _, taken := owners[ext]; !taken {
				owners[ext] = category.Name
			}
		}
	}
	return &Categorizer{owners: owners}
}

// Categorize returns the category owning ext, or OtherCategory.
// ext is matched case-insensitively, with or without its leading dot.
func (c *Categorizer) Categorize(ext string) string {
	if name, ok := c.owners[config.NormalizeExtension(ext)]; ok {
		return name
	}
	return OtherCategory
}
