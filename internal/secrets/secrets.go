// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials from a directory of plain-text files.
// The filename is the key and the trimmed contents are the value.
//
// Supported key files: github-password.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Lookup reads the secret key from dir. It reports false when the
// directory or file is missing, or the file holds only whitespace.
func Lookup(dir, key string) (string, bool, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", false, fmt.Errorf("invalid secret key %q", key)
	}

	data, err := os.ReadFile(filepath.Join(dir, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading secret %s: %w", key, err)
	}

	value := strings.TrimSpace(string(data))
	return value, value != "", nil
}
