package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"travel-cms/internal/dto"
	"travel-cms/internal/entities"
	"travel-cms/internal/events"
	"travel-cms/internal/services"
	apperrors "travel-cms/pkg/errors"
	"travel-cms/pkg/eventbus"
	"travel-cms/pkg/types"
	"travel-cms/pkg/utils"
	"travel-cms/pkg/validation"
)

// EntityController - HTTP-обработчики одного вида сущностей.
// Тело запроса: JSON или multipart с JSON в поле "data" и файлами в полях-слотах.
type EntityController struct {
	entityService  services.EntityServiceInterface
	exportService  services.ExportServiceInterface
	newInput       func() dto.EntityInput
	bus            *eventbus.Bus
	requestTimeout time.Duration
	logger         *zap.Logger
}

func NewEntityController(
	entityService services.EntityServiceInterface,
	exportService services.ExportServiceInterface,
	newInput func() dto.EntityInput,
	bus *eventbus.Bus,
	requestTimeout time.Duration,
	logger *zap.Logger,
) *EntityController {
	return &EntityController{
		entityService:  entityService,
		exportService:  exportService,
		newInput:       newInput,
		bus:            bus,
		requestTimeout: requestTimeout,
		logger:         logger.With(zap.String("entity", string(entityService.Schema().Kind))),
	}
}

func (c *EntityController) errorResponse(ctx echo.Context, err error) error {
	return utils.ErrorResponse(ctx, err, c.logger)
}

// publish сообщает об изменении записи. Автор берётся из контекста, заполненного AuthMiddleware.
func (c *EntityController) publish(ctx echo.Context, id string, action events.Action, failedFiles []string) {
	actor, err := utils.GetAdminEmailFromCtx(ctx.Request().Context())
	if err != nil {
		actor = "unknown"
	}
	c.bus.Publish(events.RecordChangedEvent{
		Kind:        c.entityService.Schema().Kind,
		ID:          id,
		Action:      action,
		Actor:       actor,
		FailedFiles: failedFiles,
	})
}

func (c *EntityController) GetAll(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, c.requestTimeout)
	defer cancel()

	records, err := c.entityService.List(reqCtx, types.ListOptions{})
	if err != nil {
		return c.errorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, records, "Успешно", http.StatusOK)
}

func (c *EntityController) GetOne(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, c.requestTimeout)
	defer cancel()

	record, err := c.entityService.GetOne(reqCtx, ctx.Param("id"))
	if err != nil {
		return c.errorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, record, "Успешно", http.StatusOK)
}

// FindBy ищет одну запись по точному значению поля из параметра пути.
func (c *EntityController) FindBy(field, param string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		reqCtx, cancel := utils.Ctx(ctx, c.requestTimeout)
		defer cancel()

		record, err := c.entityService.FindOneBy(reqCtx, field, ctx.Param(param))
		if err != nil {
			return c.errorResponse(ctx, err)
		}
		return utils.SuccessResponse(ctx, record, "Успешно", http.StatusOK)
	}
}

func (c *EntityController) Create(ctx echo.Context) error {
	fields, files, closeFiles, err := c.readInput(ctx)
	defer closeFiles()
	if err != nil {
		return c.errorResponse(ctx, err)
	}

	reqCtx, cancel := utils.Ctx(ctx, c.requestTimeout)
	defer cancel()

	id, err := c.entityService.Create(reqCtx, fields, files)
	if err != nil {
		return c.errorResponse(ctx, err)
	}
	c.publish(ctx, id, events.ActionCreated, nil)
	return utils.SuccessResponse(ctx, dto.IDResponseDTO{ID: id}, "Запись создана", http.StatusCreated)
}

func (c *EntityController) Update(ctx echo.Context) error {
	fields, files, closeFiles, err := c.readInput(ctx)
	defer closeFiles()
	if err != nil {
		return c.errorResponse(ctx, err)
	}

	reqCtx, cancel := utils.Ctx(ctx, c.requestTimeout)
	defer cancel()

	rows, err := c.entityService.Update(reqCtx, ctx.Param("id"), fields, files)
	if err != nil {
		return c.errorResponse(ctx, err)
	}
	message := "Запись обновлена"
	if rows == 0 {
		message = "Запись не найдена"
	} else {
		c.publish(ctx, ctx.Param("id"), events.ActionUpdated, nil)
	}
	return utils.SuccessResponse(ctx, dto.RowsAffectedDTO{RowsAffected: rows}, message, http.StatusOK)
}

func (c *EntityController) Delete(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, c.requestTimeout)
	defer cancel()

	result, err := c.entityService.Delete(reqCtx, ctx.Param("id"))
	if err != nil {
		return c.errorResponse(ctx, err)
	}
	if result.RowsAffected > 0 {
		c.publish(ctx, ctx.Param("id"), events.ActionDeleted, result.FailedFiles)
	}
	message := "Запись удалена"
	switch {
	case result.RowsAffected == 0:
		message = "Запись не найдена"
	case len(result.FailedFiles) > 0:
		message = "Запись удалена, часть файлов удалить не удалось"
	}
	return utils.SuccessResponse(ctx, dto.DeleteResponseDTO{
		RowsAffected: result.RowsAffected,
		FailedFiles:  result.FailedFiles,
	}, message, http.StatusOK)
}

func (c *EntityController) Export(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, c.requestTimeout)
	defer cancel()

	var buf bytes.Buffer
	if err := c.exportService.ExportXLSX(reqCtx, c.entityService, &buf); err != nil {
		return c.errorResponse(ctx, err)
	}

	fileName := fmt.Sprintf("%s_%s.xlsx", c.entityService.Schema().Table, time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	return ctx.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// readInput разбирает тело запроса в поля записи и файлы слотов.
// Multipart: поля либо JSON в "data", либо обычными полями формы, но не вместе.
// Явный null в JSON и пустое поле формы очищают необязательное поле.
// Файлы проверяются по правилам загрузки до вызова сервиса.
func (c *EntityController) readInput(ctx echo.Context) (entities.Record, map[string]entities.Upload, func(), error) {
	input := c.newInput()
	var opened []multipart.File
	closeFiles := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	var (
		files   map[string]entities.Upload
		cleared []string
	)
	if strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		form, err := ctx.MultipartForm()
		if err != nil {
			return nil, nil, closeFiles, apperrors.NewBadRequestError("некорректная multipart-форма")
		}
		if data := ctx.FormValue("data"); data != "" {
			if extra := c.formFields(form, true); len(extra) > 0 {
				return nil, nil, closeFiles, apperrors.NewValidationError("поля передаются либо в 'data', либо полями формы", extra...)
			}
			if err := json.Unmarshal([]byte(data), input); err != nil {
				return nil, nil, closeFiles, apperrors.NewBadRequestError("некорректный JSON в поле 'data'")
			}
			cleared = jsonNulls([]byte(data))
		} else {
			if unknown := c.formFields(form, false); len(unknown) > 0 {
				return nil, nil, closeFiles, apperrors.NewValidationError("недопустимые поля", unknown...)
			}
			if err := ctx.Bind(input); err != nil {
				return nil, nil, closeFiles, apperrors.NewBadRequestError("некорректные поля формы")
			}
			for field, values := range form.Value {
				if len(values) == 1 && strings.TrimSpace(values[0]) == "" {
					cleared = append(cleared, field)
				}
			}
		}

		files, opened, err = c.readFiles(ctx, form)
		if err != nil {
			return nil, nil, closeFiles, err
		}
	} else {
		body, err := io.ReadAll(ctx.Request().Body)
		if err != nil {
			return nil, nil, closeFiles, apperrors.NewBadRequestError("не удалось прочитать тело запроса")
		}
		ctx.Request().Body = io.NopCloser(bytes.NewReader(body))
		if err := ctx.Bind(input); err != nil {
			return nil, nil, closeFiles, apperrors.NewBadRequestError("некорректный JSON в теле запроса")
		}
		cleared = jsonNulls(body)
	}

	if err := ctx.Validate(input); err != nil {
		return nil, nil, closeFiles, err
	}

	fields := input.ToFields()
	schema := c.entityService.Schema()
	for _, field := range cleared {
		if field != entities.IDColumn && schema.HasColumn(field) && !schema.IsFileSlot(field) {
			fields[field] = nil
		}
	}
	return fields, files, closeFiles, nil
}

// formFields возвращает поля формы, которых не должно быть в запросе. С withData
// лишним считается любое поле кроме "data", иначе - всё, что не является полем схемы.
func (c *EntityController) formFields(form *multipart.Form, withData bool) []string {
	schema := c.entityService.Schema()
	var bad []string
	for field := range form.Value {
		if field == "data" {
			continue
		}
		if withData || field == entities.IDColumn || !schema.HasColumn(field) || schema.IsFileSlot(field) {
			bad = append(bad, field)
		}
	}
	sort.Strings(bad)
	return bad
}

// jsonNulls - ключи объекта, переданные со значением null.
func jsonNulls(body []byte) []string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}
	var keys []string
	for key, value := range raw {
		if string(bytes.TrimSpace(value)) == "null" {
			keys = append(keys, key)
		}
	}
	return keys
}

func (c *EntityController) readFiles(ctx echo.Context, form *multipart.Form) (map[string]entities.Upload, []multipart.File, error) {
	schema := c.entityService.Schema()

	var unknown []string
	for field, headers := range form.File {
		if !schema.IsFileSlot(field) || len(headers) > 1 {
			unknown = append(unknown, field)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, nil, apperrors.NewValidationError("недопустимые файлы: допускается один файл на слот", unknown...)
	}

	files := make(map[string]entities.Upload)
	var opened []multipart.File
	for _, slot := range schema.FileSlots {
		fh, err := ctx.FormFile(slot)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				continue
			}
			return nil, opened, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, opened, apperrors.NewIOError("open_upload", fh.Filename, err)
		}
		opened = append(opened, f)

		if err := validation.ValidateFile(slot, fh.Size, f, schema.UploadContext); err != nil {
			c.logger.Warn("Файл не прошёл проверку", zap.String("slot", slot), zap.Error(err))
			return nil, opened, err
		}
		files[slot] = entities.Upload{Reader: f, OriginalName: fh.Filename, Size: fh.Size}
	}
	return files, opened, nil
}
