package validation

import (
	"fmt"
	"io"
	"net/http"
	"slices"

	"github.com/disintegration/imaging"

	"travel-cms/config"
	apperrors "travel-cms/pkg/errors"
)

// ValidateFile проверяет файл одного слота по правилам контекста загрузки:
// размер, MIME-тип по содержимому и размеры изображения в пикселях.
// После проверки курсор file возвращается в начало.
func ValidateFile(slot string, size int64, file io.ReadSeeker, contextName string) error {
	rules, ok := config.UploadContexts[contextName]
	if !ok {
		return fmt.Errorf("внутренняя ошибка: неизвестный контекст загрузки '%s'", contextName)
	}

	if rules.MaxSizeMB > 0 {
		maxSizeBytes := rules.MaxSizeMB * 1024 * 1024
		if size > maxSizeBytes {
			return apperrors.NewValidationError(
				fmt.Sprintf("размер файла (%.2f MB) превышает лимит в %d MB", float64(size)/1024/1024, rules.MaxSizeMB), slot)
		}
	}

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return apperrors.NewValidationError("ошибка чтения файла", slot)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return apperrors.NewValidationError("ошибка обработки файла", slot)
	}

	mimeType := http.DetectContentType(buffer[:n])
	if !slices.Contains(rules.AllowedMimeTypes, mimeType) {
		return apperrors.NewValidationError(fmt.Sprintf("недопустимый формат файла: %s", mimeType), slot)
	}

	if rules.MinWidth > 0 || rules.MaxWidth > 0 || rules.MinHeight > 0 || rules.MaxHeight > 0 {
		img, err := imaging.Decode(file)
		if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
			return apperrors.NewValidationError("ошибка обработки файла", slot)
		}
		if err != nil {
			return apperrors.NewValidationError("файл не является изображением", slot)
		}
		bounds := img.Bounds()
		if !within(bounds.Dx(), rules.MinWidth, rules.MaxWidth) || !within(bounds.Dy(), rules.MinHeight, rules.MaxHeight) {
			return apperrors.NewValidationError(
				fmt.Sprintf("недопустимые размеры изображения %dx%d", bounds.Dx(), bounds.Dy()), slot)
		}
	}

	return nil
}

// within: max == 0 означает без верхнего лимита.
func within(v, minV, maxV int) bool {
	return v >= minV && (maxV == 0 || v <= maxV)
}
