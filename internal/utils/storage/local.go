package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const LocalMediaPrefix = "/media"

type localStorage struct {
	root    string
	baseURL string
}

func NewLocalStorage(root, baseURL string) (FileStorage, error) {
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating media directory: %w", err)
	}
	return &localStorage{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *localStorage) path(objectKey string) (string, error) {
	p := filepath.Join(l.root, filepath.FromSlash(objectKey))
	rel, err := filepath.Rel(l.root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid object key %q", objectKey)
	}
	return p, nil
}

func (l *localStorage) UploadFile(_ context.Context, objectKey string, data []byte, _ string) (string, error) {
	p, err := l.path(objectKey)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), os.ModePerm); err != nil {
		return "", err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", err
	}
	return objectKey, nil
}

func (l *localStorage) DeleteFile(_ context.Context, objectKey string) error {
	p, err := l.path(objectKey)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (l *localStorage) GetPublicLinkKey(objectKey string) string {
	return l.baseURL + "/" + objectKey
}

func (l *localStorage) GetObjectKeyFromLink(link string) string {
	prefix := l.baseURL + "/"
	if !strings.HasPrefix(link, prefix) {
		return ""
	}
	return strings.TrimPrefix(link, prefix)
}
