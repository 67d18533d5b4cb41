package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"travel-cms/config"
	"travel-cms/internal/entities"
	"travel-cms/internal/repositories"
	apperrors "travel-cms/pkg/errors"
	"travel-cms/pkg/filestorage"
	"travel-cms/pkg/types"
)

type EntityServiceInterface interface {
	Schema() entities.Schema
	List(ctx context.Context, opts types.ListOptions) ([]entities.Record, error)
	GetOne(ctx context.Context, id string) (entities.Record, error)
	FindOneBy(ctx context.Context, field string, value any) (entities.Record, error)
	Create(ctx context.Context, fields entities.Record, files map[string]entities.Upload) (string, error)
	Update(ctx context.Context, id string, fields entities.Record, files map[string]entities.Upload) (int64, error)
	Delete(ctx context.Context, id string) (*entities.DeleteResult, error)
}

// EntityService - CRUD одного вида сущностей по его схеме. Запись в БД и
// файловое хранилище согласованы: имя файла попадает в запись только после
// успешного сохранения, а файлы неудачной записи удаляются.
type EntityService struct {
	schema      entities.Schema
	recordRepo  repositories.RecordRepositoryInterface
	fileStorage filestorage.FileStorageInterface
	logger      *zap.Logger
}

func NewEntityService(
	schema entities.Schema,
	recordRepo repositories.RecordRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) *EntityService {
	return &EntityService{
		schema:      schema,
		recordRepo:  recordRepo,
		fileStorage: fileStorage,
		logger:      logger.With(zap.String("entity", string(schema.Kind))),
	}
}

func (s *EntityService) Schema() entities.Schema {
	return s.schema
}

func (s *EntityService) List(ctx context.Context, opts types.ListOptions) ([]entities.Record, error) {
	return s.recordRepo.FindAll(ctx, s.schema, opts)
}

func (s *EntityService) GetOne(ctx context.Context, id string) (entities.Record, error) {
	if !isUUID(id) {
		return nil, apperrors.ErrNotFound
	}
	return s.recordRepo.FindByID(ctx, s.schema, id)
}

func (s *EntityService) FindOneBy(ctx context.Context, field string, value any) (entities.Record, error) {
	if !s.schema.HasColumn(field) || s.schema.IsFileSlot(field) {
		return nil, apperrors.NewValidationError("поле недоступно для поиска", field)
	}
	return s.recordRepo.FindByField(ctx, s.schema, field, value)
}

func (s *EntityService) Create(ctx context.Context, fields entities.Record, files map[string]entities.Upload) (string, error) {
	if err := s.validateInput(fields, files); err != nil {
		return "", err
	}
	var missing []string
	for _, col := range s.schema.Required {
		if isBlank(fields[col]) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return "", apperrors.NewValidationError("не заполнены обязательные поля", missing...)
	}

	record := fields.Clone()
	record[entities.IDColumn] = uuid.NewString()

	stored, err := s.storeFiles(files)
	if err != nil {
		return "", err
	}
	for slot, name := range stored {
		record[slot] = name
	}

	id, err := s.recordRepo.Insert(ctx, s.schema, record)
	if err != nil {
		s.removeFiles(stored)
		return "", err
	}

	s.logger.Info("Запись создана", zap.String("id", id), zap.Int("files", len(stored)))
	return id, nil
}

// Update меняет только переданные поля. 0 затронутых строк - записи нет.
// Заменённые файлы удаляются после успешного обновления.
func (s *EntityService) Update(ctx context.Context, id string, fields entities.Record, files map[string]entities.Upload) (int64, error) {
	if err := s.validateInput(fields, files); err != nil {
		return 0, err
	}
	var blanked []string
	for col, val := range fields {
		if s.schema.IsRequired(col) && isBlank(val) {
			blanked = append(blanked, col)
		}
	}
	if len(blanked) > 0 {
		sort.Strings(blanked)
		return 0, apperrors.NewValidationError("обязательные поля не могут быть пустыми", blanked...)
	}
	if !isUUID(id) {
		return 0, nil
	}

	var existing entities.Record
	if len(files) > 0 {
		var err error
		existing, err = s.recordRepo.FindByID(ctx, s.schema, id)
		if errors.Is(err, apperrors.ErrNotFound) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
	}

	stored, err := s.storeFiles(files)
	if err != nil {
		return 0, err
	}
	changes := fields.Clone()
	for slot, name := range stored {
		changes[slot] = name
	}

	rows, err := s.recordRepo.Update(ctx, s.schema, id, changes)
	if err != nil || rows == 0 {
		s.removeFiles(stored)
		return rows, err
	}

	superseded := make(map[string]string, len(stored))
	for slot := range stored {
		if old := existing.StoredName(slot); old != "" {
			superseded[slot] = old
		}
	}
	if failed := s.removeFiles(superseded); len(failed) > 0 {
		s.logger.Warn("Не удалось удалить заменённые файлы", zap.String("id", id), zap.Strings("files", failed))
	}

	s.logger.Info("Запись обновлена", zap.String("id", id), zap.Int64("rows", rows))
	return rows, nil
}

// Delete удаляет запись, затем её файлы. Ошибки удаления файлов не отменяют
// удаление записи и возвращаются в FailedFiles.
func (s *EntityService) Delete(ctx context.Context, id string) (*entities.DeleteResult, error) {
	result := &entities.DeleteResult{}
	if !isUUID(id) {
		return result, nil
	}

	var owned map[string]string
	if len(s.schema.FileSlots) > 0 {
		existing, err := s.recordRepo.FindByID(ctx, s.schema, id)
		if errors.Is(err, apperrors.ErrNotFound) {
			return result, nil
		}
		if err != nil {
			return nil, err
		}
		owned = make(map[string]string, len(s.schema.FileSlots))
		for _, slot := range s.schema.FileSlots {
			if name := existing.StoredName(slot); name != "" {
				owned[slot] = name
			}
		}
	}

	rows, err := s.recordRepo.Delete(ctx, s.schema, id)
	if err != nil {
		return nil, err
	}
	result.RowsAffected = rows
	if rows == 0 {
		return result, nil
	}

	result.FailedFiles = s.removeFiles(owned)
	if len(result.FailedFiles) > 0 {
		s.logger.Warn("Запись удалена, но часть файлов удалить не удалось",
			zap.String("id", id), zap.Strings("files", result.FailedFiles))
	}

	s.logger.Info("Запись удалена", zap.String("id", id))
	return result, nil
}

// validateInput отклоняет неизвестные поля, id, имена файлов в полях, файлы вне слотов
// схемы и файлы больше лимита контекста загрузки.
func (s *EntityService) validateInput(fields entities.Record, files map[string]entities.Upload) error {
	var bad []string
	for col := range fields {
		if col == entities.IDColumn || !s.schema.HasColumn(col) || s.schema.IsFileSlot(col) {
			bad = append(bad, col)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return apperrors.NewValidationError("недопустимые поля", bad...)
	}

	for slot, up := range files {
		if !s.schema.IsFileSlot(slot) {
			bad = append(bad, slot)
			continue
		}
		if up.Reader == nil {
			bad = append(bad, slot)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return apperrors.NewValidationError("недопустимые файлы", bad...)
	}

	if rules, ok := config.UploadContexts[s.schema.UploadContext]; ok && rules.MaxSizeMB > 0 {
		for slot, up := range files {
			if up.Size > rules.MaxSizeMB*1024*1024 {
				bad = append(bad, slot)
			}
		}
		if len(bad) > 0 {
			sort.Strings(bad)
			return apperrors.NewValidationError("размер файла превышает лимит", bad...)
		}
	}
	return nil
}

// storeFiles сохраняет файлы в порядке слотов схемы. При ошибке уже
// сохранённые файлы удаляются.
func (s *EntityService) storeFiles(files map[string]entities.Upload) (map[string]string, error) {
	stored := make(map[string]string, len(files))
	prefix := s.pathPrefix()
	for _, slot := range s.schema.FileSlots {
		up, ok := files[slot]
		if !ok {
			continue
		}
		name, err := s.fileStorage.Save(up.Reader, up.OriginalName, prefix)
		if err != nil {
			s.logger.Error("Не удалось сохранить файл", zap.String("slot", slot), zap.Error(err))
			s.removeFiles(stored)
			return nil, err
		}
		stored[slot] = name
	}
	return stored, nil
}

// removeFiles удаляет файлы best-effort и возвращает имена, которые удалить не удалось.
func (s *EntityService) removeFiles(files map[string]string) []string {
	var failed []string
	for _, slot := range s.schema.FileSlots {
		name, ok := files[slot]
		if !ok {
			continue
		}
		if err := s.fileStorage.Delete(name); err != nil {
			s.logger.Warn("Не удалось удалить файл", zap.String("file", name), zap.Error(err))
			failed = append(failed, name)
		}
	}
	return failed
}

func (s *EntityService) pathPrefix() string {
	if rules, ok := config.UploadContexts[s.schema.UploadContext]; ok && rules.PathPrefix != "" {
		return rules.PathPrefix
	}
	return string(s.schema.Kind)
}

func isUUID(id string) bool {
	return uuid.Validate(id) == nil
}

func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	}
	return false
}
