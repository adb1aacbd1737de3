package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAnnounce  = "http://academictorrents.com/announce.php"
	DefaultUploadURL = "http://academictorrents.com/api/paper"

	// APIKeyEnv holds the upload credentials in the form uid=<uid>&pass=<pass>.
	APIKeyEnv = "MKTORRENT_API_KEY"
)

type Settings struct {
	Announce        string   `yaml:"announce"`
	CreatedBy       string   `yaml:"created_by"`
	IncludeMD5      bool     `yaml:"include_md5"`
	Exclude         []string `yaml:"exclude"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
	OutputDir       string   `yaml:"output_dir"`
	Overwrite       bool     `yaml:"overwrite"`
	UploadURL       string   `yaml:"upload_url"`
}

func DefaultSettings() Settings {
	return Settings{
		Announce:   DefaultAnnounce,
		IncludeMD5: true,
		UploadURL:  DefaultUploadURL,
	}
}

// Dir is the directory holding the settings file.
func Dir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		var err error
		configHome, err = os.UserConfigDir()
		if err != nil {
			home, _ := os.UserHomeDir()
			configHome = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(configHome, "mktorrent")
}

func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads the settings at path on top of DefaultSettings. A missing file
// is not an error.
func Load(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, err
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return settings, nil
}

// Patterns compiles ExcludePatterns.
func (s Settings) Patterns() ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(s.ExcludePatterns))
	for _, p := range s.ExcludePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}
	return patterns, nil
}

// APIKey returns the upload credentials from the environment, loading the
// given .env files first. Files that cannot be read are skipped.
func APIKey(envFiles ...string) string {
	for _, f := range envFiles {
		// variables already set in the environment win
		_ = godotenv.Load(f)
	}
	return os.Getenv(APIKeyEnv)
}
