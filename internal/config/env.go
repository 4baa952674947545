package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv loads shell-style env files into the process environment.
// Missing files are skipped. Variables that are already set are never
// overridden, so earlier files win over later ones.
func LoadEnv(paths ...string) []string {
	var loaded []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if fi, err := os.Stat(p); err != nil || fi.IsDir() {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			continue
		}
		loaded = append(loaded, p)
	}
	return loaded
}

// LoadDefaultEnv loads env from $VIDSCRIBE_ENV, ~/.vidscribe.env and ./.env
// (in that order), when present. It returns the files that were read.
func LoadDefaultEnv() []string {
	var paths []string
	if p := strings.TrimSpace(os.Getenv(EnvPrefix + "_ENV")); p != "" {
		paths = append(paths, p)
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".vidscribe.env"))
	}
	paths = append(paths, ".env")
	return LoadEnv(paths...)
}
