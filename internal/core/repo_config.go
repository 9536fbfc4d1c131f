package core

// RepoConfigFileName is the optional per-repository settings file read from
// the root of an extracted snapshot.
const RepoConfigFileName = ".mr-warden.yml"

// RepoConfig represents the structure of the .mr-warden.yml file.
type RepoConfig struct {
	// Exclusion of entire directories by name when reading a snapshot.
	// Example: ["dist", "build", "vendor"]
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// Exclusion of files based on their extension.
	// The leading dot is optional. Example: [".md", "lock", ".log"]
	ExcludeExts []string `yaml:"exclude_exts"`
}

// DefaultRepoConfig returns a config with default values.
func DefaultRepoConfig() *RepoConfig {
	return &RepoConfig{
		ExcludeDirs: []string{},
		ExcludeExts: []string{},
	}
}
