// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file holds one secret: the filename is the key and the trimmed
// contents are the value.
//
// Supported keys: search-cookie.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/site-resolver/internal/logging"
	"github.com/pdiddy/site-resolver/pkg/types"
)

// DefaultDir is searched relative to the working directory.
const DefaultDir = ".secrets/"

// SearchCookie is sent as the Cookie header on discovery requests, e.g. a
// consent cookie that keeps the search page from redirecting.
const SearchCookie = "search-cookie"

// Load reads every regular, non-hidden file in dir. A missing directory is
// not an error. Unreadable files are logged and skipped.
func Load(dir string, logger *zap.Logger) (map[string]string, error) {
	logger = logging.OrNop(logger)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", zap.String("key", name), zap.Error(err))
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// Apply copies recognized secrets into cfg. Values already present in cfg
// win. It returns the names of the keys it used, sorted.
func Apply(secrets map[string]string, cfg *types.Config) []string {
	var used []string
	if v, ok := secrets[SearchCookie]; ok && cfg.Search.Cookie == "" {
		cfg.Search.Cookie = v
		used = append(used, SearchCookie)
	}
	sort.Strings(used)
	return used
}
