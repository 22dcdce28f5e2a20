package config

import "autosort/pkg/types"

// defaultCategories is the stock extension table. Order matters: the first
// category that lists an extension owns it.
func defaultCategories() []types.Category {
	return []types.Category{
		{Name: "Imágenes", Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp", ".tiff", ".ico"}},
		{Name: "Documentos", Extensions: []string{".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt", ".md", ".epub", ".mobi"}},
		{Name: "Hojas de cálculo", Extensions: []string{".xls", ".xlsx", ".csv", ".ods", ".xlsm", ".xlsb"}},
		{Name: "Presentaciones", Extensions: []string{".ppt", ".pptx", ".odp", ".key"}},
		{Name: "Videos", Extensions: []string{".mp4", ".avi", ".mov", ".mkv", ".wmv", ".flv", ".m4v", ".webm"}},
		{Name: "Audio", Extensions: []string{".mp3", ".wav", ".flac", ".aac", ".ogg", ".m4a", ".wma", ".midi"}},
		{Name: "Comprimidos", Extensions: []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz"}},
		{Name: "Ejecutables", Extensions: []string{".exe", ".msi", ".dmg", ".app", ".sh", ".bat", ".cmd", ".apk"}},
		{Name: "Código", Extensions: []string{".py", ".js", ".html", ".css", ".java", ".cpp", ".c", ".php", ".json", ".xml", ".yml", ".yaml"}},
		{Name: "Diseño", Extensions: []string{".psd", ".ai", ".xd", ".sketch", ".fig", ".eps", ".indd"}},
		{Name: "Sistema", Extensions: []string{".dll", ".sys", ".ini", ".cfg", ".log", ".bak"}},
		{Name: "Fuentes", Extensions: []string{".ttf", ".otf", ".woff", ".woff2", ".eot"}},
		{Name: "Base de datos", Extensions: []string{".db", ".sqlite", ".mdb", ".accdb", ".sql"}},
		{Name: "Virtualización", Extensions: []string{".iso", ".vhd", ".vmdk", ".ova", ".ovf"}},
	}
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{
		Version:    CurrentVersion,
		Categories: defaultCategories(),
		Settings: Settings{
			OrganizeByType:    true,
			OrganizeByDate:    true,
			DateFormat:        DateYearMonth,
			OrganizeByProject: false,
			MoveFiles:         true,
			CreateSubfolders:  true,
			IgnoreHidden:      true,
			IgnoreSystem:      true,
			MaxSizeMB:         500,
			SafeMode:          false,
			PreserveStructure: false,
			OutputDir:         "Organized",
			IgnorePatterns:    []string{},
		},
		Favorites:    []string{},
		HistoryLimit: 100,
		History:      []types.HistoryEntry{},
	}
	cfg.Watch.IntervalSeconds = 5
	return cfg
}

// NewTestConfig creates a configuration instance for testing purposes:
// by type and by date with YYYY-MM folders, moving files, no size limit.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Settings.MaxSizeMB = 0
	cfg.HistoryLimit = 0
	return cfg
}
