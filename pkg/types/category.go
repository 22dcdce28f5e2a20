package types

// Category is a named bucket of file extensions. Extensions carry a
// leading dot and are matched case-insensitively.
type Category struct {
	Name       string   `yaml:"name"`       // Folder name used for the bucket (e.g., "Imágenes").
	Extensions []string `yaml:"extensions"` // Extensions owned by the bucket (e.g., ".jpg", ".png").
}
