// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files
// and from a .env file. Each file in the directory represents one secret: the filename
// is the key name and the file contents (trimmed) are the value.
//
// Supported key files: semantic-scholar-api-key, openalex-email.
package secrets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pdiddy/paper-feed/pkg/types"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

// DefaultEnvFile is the dotenv file loaded into the process environment.
const DefaultEnvFile = ".env"

// Key file names and the environment variables that can stand in for them.
const (
	SemanticScholarKeyFile = "semantic-scholar-api-key"
	OpenAlexEmailFile      = "openalex-email"

	SemanticScholarKeyEnv = "SEMANTIC_SCHOLAR_API_KEY"
	OpenAlexEmailEnv      = "OPENALEX_EMAIL"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on w but do not abort.
func Load(dir string, w io.Writer) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(w, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadEnv loads a dotenv file into the process environment. Variables that
// are already set keep their values. A missing file is not an error.
func LoadEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

// ApplyCitations fills empty credential fields of cfg. The environment
// takes precedence over the secrets directory; values already set in the
// config file are kept.
func ApplyCitations(cfg *types.CitationConfig, secrets map[string]string) {
	if cfg.SemanticScholarAPIKey == "" {
		cfg.SemanticScholarAPIKey = pick(SemanticScholarKeyEnv, secrets[SemanticScholarKeyFile])
	}
	if cfg.OpenAlexEmail == "" {
		cfg.OpenAlexEmail = pick(OpenAlexEmailEnv, secrets[OpenAlexEmailFile])
	}
}

func pick(env, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v
	}
	return fallback
}
