// Package media stores uploaded avatar images on the local filesystem.
package media

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// AvatarDir is the media-relative directory holding avatars.
const AvatarDir = "avatars"

// ErrEmptyUpload is returned when an upload carries no file name.
var ErrEmptyUpload = errors.New("empty upload")

// Upload is an image received from a client.
type Upload struct {
	// Filename is the client-side file name; only its extension is kept.
	Filename string
	Body     io.Reader
}

// AvatarPath returns the media-relative path of the avatar of the given
// user: "avatars/<userID>.<ext>", the extension taken from filename.
func AvatarPath(userID int64, filename string) string {
	name := strconv.FormatInt(userID, 10)
	if i := strings.LastIndex(filename, "."); i >= 0 && i < len(filename)-1 {
		name += "." + strings.ToLower(filename[i+1:])
	}
	return path.Join(AvatarDir, name)
}

// StagingPath returns where an upload bound for rel is held until it is
// committed with Store.Rename.
func StagingPath(rel string) string {
	dir, file := path.Split(rel)
	return dir + ".pending-" + file
}

// Store writes media files below a root directory.
type Store struct {
	root string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Handler serves stored files by their media-relative path. Directories are
// answered with 404 and never listed.
func (s *Store) Handler() http.Handler {
	files := http.FileServer(http.Dir(s.root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dst, err := s.abs(r.URL.Path)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		info, err := os.Stat(dst)
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// Save writes the upload to rel, replacing any existing file.
func (s *Store) Save(rel string, up Upload) error {
	if up.Filename == "" || up.Body == nil {
		return ErrEmptyUpload
	}
	dst, err := s.abs(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, up.Body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("store upload: %w", err)
	}
	return nil
}

// Rename moves the file at from to to, replacing any existing file.
func (s *Store) Rename(from, to string) error {
	src, err := s.abs(from)
	if err != nil {
		return err
	}
	dst, err := s.abs(to)
	if err != nil {
		return err
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("rename media: %w", err)
	}
	return nil
}

// Remove deletes rel; a missing file is not an error.
func (s *Store) Remove(rel string) error {
	dst, err := s.abs(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove media: %w", err)
	}
	return nil
}

func (s *Store) abs(rel string) (string, error) {
	clean := path.Clean("/" + rel)
	if clean == "/" {
		return "", fmt.Errorf("invalid media path %q", rel)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}
