package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/saifgs/sheetbridge/internal/pkg/env"
	"github.com/saifgs/sheetbridge/internal/pkg/googleauth"
)

// Directory names under the uploads root. Attachments are publicly served,
// credential files are not.
const (
	AttachmentsDir = "saifgs-uploads"
	CredentialsDir = "saifgs-credentials"
)

// maxCredentialFileSize bounds an uploaded service-account JSON file.
const maxCredentialFileSize = 64 * 1024

var ErrOutsideUploads = errors.New("path is outside the uploads directory")

// Store writes uploaded files below a single uploads root and builds the
// public URLs for attachment files.
type Store struct {
	baseDir    string
	publicBase string
}

// NewStore builds the store from the environment.
func NewStore() *Store {
	return &Store{
		baseDir:    env.GetEnv("UPLOADS_DIR", "./uploads"),
		publicBase: strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080"), "/"),
	}
}

// NewStoreAt builds a store rooted at dir, for tests.
func NewStoreAt(dir, publicBase string) *Store {
	return &Store{baseDir: dir, publicBase: strings.TrimRight(publicBase, "/")}
}

// SaveAttachment relocates one uploaded form attachment into the public
// attachments directory under a collision-free name and returns the public
// URL that replaces the file in the synced row.
func (s *Store) SaveAttachment(file *multipart.FileHeader) (string, error) {
	name := sanitizeFilename(file.Filename)
	if name == "" {
		return "", errors.New("attachment has no usable filename")
	}
	stored := uuid.New().String() + "-" + name

	if err := s.writeMultipart(file, AttachmentsDir, stored); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/uploads/%s/%s", s.publicBase, AttachmentsDir, stored), nil
}

// SaveServiceAccountJSON validates and persists an uploaded service-account
// key file. Returns the absolute path of the stored file, which the caller
// writes into the credential slot.
func (s *Store) SaveServiceAccountJSON(file *multipart.FileHeader) (string, error) {
	if file.Size > maxCredentialFileSize {
		return "", errors.New("service account file is too large")
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	raw, err := io.ReadAll(io.LimitReader(src, maxCredentialFileSize))
	if err != nil {
		return "", err
	}
	if _, err := googleauth.ParseServiceAccountKey(raw); err != nil {
		return "", err
	}

	name := sanitizeFilename(file.Filename)
	if name == "" {
		name = "service-account.json"
	}
	stored := uuid.New().String() + "-" + name

	dir := filepath.Join(s.baseDir, CredentialsDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}
	path := filepath.Join(dir, stored)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

// Remove deletes a stored file. The path must resolve inside the uploads
// root; anything else is rejected.
func (s *Store) Remove(path string) error {
	if path == "" {
		return nil
	}
	inside, err := s.containsPath(path)
	if err != nil {
		return err
	}
	if !inside {
		return ErrOutsideUploads
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) writeMultipart(file *multipart.FileHeader, subDir, name string) error {
	dir := filepath.Join(s.baseDir, subDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

func (s *Store) containsPath(path string) (bool, error) {
	baseAbs, err := filepath.Abs(s.baseDir)
	if err != nil {
		return false, err
	}
	pathAbs, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(baseAbs, pathAbs)
	if err != nil {
		return false, err
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)), nil
}

// sanitizeFilename strips any path components and characters that do not
// belong in a stored file name.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}
