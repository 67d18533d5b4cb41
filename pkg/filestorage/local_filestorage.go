package filestorage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "travel-cms/pkg/errors"
)

// FileStorageInterface - хранилище вложений. Между слоями передаётся только
// сохранённое имя (относительный путь со слешами), не путь на диске.
type FileStorageInterface interface {
	Save(file io.Reader, originalFileName string, prefix string) (storedName string, err error)
	Delete(storedName string) error
}

type LocalFileStorage struct {
	basePath string
}

func NewLocalFileStorage(basePath string) (FileStorageInterface, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию: %w", err)
	}
	return &LocalFileStorage{basePath: basePath}, nil
}

// Save пишет содержимое под новым именем вида prefix/YYYY/MM/DD/<uuid><ext>.
// От исходного имени берётся только расширение.
func (s *LocalFileStorage) Save(file io.Reader, originalFileName string, prefix string) (string, error) {
	datePath := time.Now().Format("2006/01/02")
	storedName := path.Join(prefix, datePath, uuid.NewString()+safeExt(originalFileName))
	if !filepath.IsLocal(filepath.FromSlash(storedName)) {
		return "", apperrors.NewIOError("save", storedName, apperrors.ErrInvalidStoredName)
	}

	fullPath := filepath.Join(s.basePath, filepath.FromSlash(storedName))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", apperrors.NewIOError("save", storedName, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return "", apperrors.NewIOError("save", storedName, err)
	}
	tmpName := tmp.Name()

	if _, err = io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", apperrors.NewIOError("save", storedName, err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", apperrors.NewIOError("save", storedName, err)
	}
	if err = os.Rename(tmpName, fullPath); err != nil {
		os.Remove(tmpName)
		return "", apperrors.NewIOError("save", storedName, err)
	}

	return storedName, nil
}

// Delete удаляет файл. Отсутствующий файл - ErrFileNotFound.
func (s *LocalFileStorage) Delete(storedName string) error {
	fullPath, err := s.resolve(storedName)
	if err != nil {
		return apperrors.NewIOError("delete", storedName, err)
	}

	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", apperrors.ErrFileNotFound, storedName)
		}
		return apperrors.NewIOError("delete", storedName, err)
	}
	return nil
}

func (s *LocalFileStorage) resolve(storedName string) (string, error) {
	local := filepath.FromSlash(storedName)
	if storedName == "" || !filepath.IsLocal(local) {
		return "", apperrors.ErrInvalidStoredName
	}
	return filepath.Join(s.basePath, local), nil
}

// safeExt оставляет расширение, только если оно из букв и цифр.
func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
