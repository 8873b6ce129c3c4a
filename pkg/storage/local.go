package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Local writes files below Root and serves them from BaseURL + "/uploads/".
type Local struct {
	Root    string
	BaseURL string
}

func NewLocal(root, baseURL string) *Local {
	return &Local{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (l *Local) Save(_ context.Context, dir, name, _ string, content []byte) (string, error) {
	target := filepath.Join(l.Root, dir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("unable to create upload dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(target, filepath.Base(name)), content, 0o644); err != nil {
		return "", fmt.Errorf("unable to write upload: %w", err)
	}
	return l.BaseURL + "/uploads/" + objectKey(dir, filepath.Base(name)), nil
}
