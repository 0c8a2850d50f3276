package localstore

import "path/filepath"

// Config locates the local files.
type Config struct {
	// DataDir is the base directory for relative file names.
	DataDir string `mapstructure:"data_dir" default:"."`
	// TranslationFile is the category translation dictionary.
	TranslationFile string `mapstructure:"translation_file" default:"category_translation.json"`
	// CatalogFile is the flat category catalog.
	CatalogFile string `mapstructure:"catalog_file" default:"data/category_catalog.json"`
	// GroupedFile is the grouped products file.
	GroupedFile string `mapstructure:"grouped_file" default:"data/tõlgitud/products_translated_grouped.json"`
	// ProductListFile is the optional secondary product list. Empty disables it.
	ProductListFile string `mapstructure:"product_list_file" default:"2_samm_tooteinfo.json"`
}

// Resolve joins name onto DataDir unless it is absolute.
func (c Config) Resolve(name string) string {
	if name == "" || filepath.IsAbs(name) || c.DataDir == "" {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
