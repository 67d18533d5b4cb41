package repositories

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"travel-cms/internal/entities"
	"travel-cms/internal/infrastructure/bd"
	apperrors "travel-cms/pkg/errors"
	"travel-cms/pkg/types"
)

const (
	insertionOrder = "seq ASC"
	dateLayout     = "2006-01-02"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// RecordRepositoryInterface - хранилище записей сущностей. Каждый метод - один SQL-оператор.
type RecordRepositoryInterface interface {
	Insert(ctx context.Context, schema entities.Schema, record entities.Record) (string, error)
	FindByID(ctx context.Context, schema entities.Schema, id string) (entities.Record, error)
	FindByField(ctx context.Context, schema entities.Schema, field string, value any) (entities.Record, error)
	FindAll(ctx context.Context, schema entities.Schema, opts types.ListOptions) ([]entities.Record, error)
	Update(ctx context.Context, schema entities.Schema, id string, fields entities.Record) (int64, error)
	Delete(ctx context.Context, schema entities.Schema, id string) (int64, error)
}

type RecordRepository struct {
	storage Querier
	logger  *zap.Logger
}

func NewRecordRepository(storage Querier, logger *zap.Logger) RecordRepositoryInterface {
	return &RecordRepository{storage: storage, logger: logger}
}

// -----------------------------------------------------------
// SCAN
// -----------------------------------------------------------

func collectRecords(rows pgx.Rows) ([]entities.Record, error) {
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	records := make([]entities.Record, 0, len(maps))
	for _, m := range maps {
		record := make(entities.Record, len(m))
		for col, val := range m {
			record[col] = normalizeValue(val)
		}
		records = append(records, record)
	}
	return records, nil
}

// normalizeValue приводит значения pgx к типам записи: uuid -> string,
// numeric -> float64, date -> "YYYY-MM-DD".
func normalizeValue(val any) any {
	switch v := val.(type) {
	case [16]byte:
		return uuid.UUID(v).String()
	case pgtype.Numeric:
		if !v.Valid {
			return nil
		}
		f, err := v.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case time.Time:
		return v.Format(dateLayout)
	}
	return val
}

func checkColumns(schema entities.Schema, record entities.Record, allowID bool) error {
	for col := range record {
		if col == entities.IDColumn && !allowID {
			return fmt.Errorf("колонка %s не изменяется", col)
		}
		if !schema.HasColumn(col) {
			return fmt.Errorf("неизвестная колонка %s.%s", schema.Table, col)
		}
	}
	return nil
}

// -----------------------------------------------------------
// READ
// -----------------------------------------------------------

func (r *RecordRepository) findOne(ctx context.Context, schema entities.Schema, where sq.Eq) (entities.Record, error) {
	query, args, err := psql.Select(schema.SelectColumns()...).
		From(schema.Table).
		Where(where).
		OrderBy(insertionOrder).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, apperrors.NewStorageError("select", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Ошибка выборки записи", zap.String("table", schema.Table), zap.Error(err))
		return nil, apperrors.NewStorageError("select", err)
	}
	records, err := collectRecords(rows)
	if err != nil {
		return nil, apperrors.NewStorageError("scan", err)
	}
	if len(records) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return records[0], nil
}

func (r *RecordRepository) FindByID(ctx context.Context, schema entities.Schema, id string) (entities.Record, error) {
	return r.findOne(ctx, schema, sq.Eq{entities.IDColumn: id})
}

func (r *RecordRepository) FindByField(ctx context.Context, schema entities.Schema, field string, value any) (entities.Record, error) {
	if !schema.HasColumn(field) {
		return nil, apperrors.NewStorageError("select", fmt.Errorf("неизвестная колонка %s.%s", schema.Table, field))
	}
	return r.findOne(ctx, schema, sq.Eq{field: value})
}

func (r *RecordRepository) FindAll(ctx context.Context, schema entities.Schema, opts types.ListOptions) ([]entities.Record, error) {
	allowed := make(map[string]string, len(schema.Columns))
	for _, col := range schema.Columns {
		allowed[col] = col
	}

	builder := psql.Select(schema.SelectColumns()...).From(schema.Table)
	builder = bd.ApplyListParams(builder, opts, allowed, insertionOrder)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperrors.NewStorageError("select", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Ошибка получения списка записей", zap.String("table", schema.Table), zap.Error(err))
		return nil, apperrors.NewStorageError("select", err)
	}
	records, err := collectRecords(rows)
	if err != nil {
		return nil, apperrors.NewStorageError("scan", err)
	}
	return records, nil
}

// -----------------------------------------------------------
// WRITE
// -----------------------------------------------------------

func (r *RecordRepository) Insert(ctx context.Context, schema entities.Schema, record entities.Record) (string, error) {
	id := record.ID()
	if id == "" {
		return "", apperrors.NewStorageError("insert", fmt.Errorf("у записи %s нет идентификатора", schema.Table))
	}
	if err := checkColumns(schema, record, true); err != nil {
		return "", apperrors.NewStorageError("insert", err)
	}

	columns := make([]string, 0, len(record))
	values := make([]any, 0, len(record))
	for _, col := range schema.SelectColumns() {
		if val, ok := record[col]; ok {
			columns = append(columns, col)
			values = append(values, val)
		}
	}

	query, args, err := psql.Insert(schema.Table).Columns(columns...).Values(values...).ToSql()
	if err != nil {
		return "", apperrors.NewStorageError("insert", err)
	}
	if _, err := r.storage.Exec(ctx, query, args...); err != nil {
		r.logger.Error("Ошибка вставки записи", zap.String("table", schema.Table), zap.String("id", id), zap.Error(err))
		return "", apperrors.NewStorageError("insert", err)
	}
	return id, nil
}

func (r *RecordRepository) Update(ctx context.Context, schema entities.Schema, id string, fields entities.Record) (int64, error) {
	if err := checkColumns(schema, fields, false); err != nil {
		return 0, apperrors.NewStorageError("update", err)
	}

	builder := psql.Update(schema.Table).Set("updated_at", sq.Expr("NOW()"))
	for _, col := range schema.Columns {
		if val, ok := fields[col]; ok {
			builder = builder.Set(col, val)
		}
	}

	query, args, err := builder.Where(sq.Eq{entities.IDColumn: id}).ToSql()
	if err != nil {
		return 0, apperrors.NewStorageError("update", err)
	}
	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("Ошибка обновления записи", zap.String("table", schema.Table), zap.String("id", id), zap.Error(err))
		return 0, apperrors.NewStorageError("update", err)
	}
	return result.RowsAffected(), nil
}

func (r *RecordRepository) Delete(ctx context.Context, schema entities.Schema, id string) (int64, error) {
	query, args, err := psql.Delete(schema.Table).Where(sq.Eq{entities.IDColumn: id}).ToSql()
	if err != nil {
		return 0, apperrors.NewStorageError("delete", err)
	}
	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("Ошибка удаления записи", zap.String("table", schema.Table), zap.String("id", id), zap.Error(err))
		return 0, apperrors.NewStorageError("delete", err)
	}
	return result.RowsAffected(), nil
}
