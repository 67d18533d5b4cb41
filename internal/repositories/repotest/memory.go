// Package repotest - реализации интерфейсов репозиториев в памяти для тестов сервисов и маршрутов.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"travel-cms/internal/entities"
	"travel-cms/internal/repositories"
	apperrors "travel-cms/pkg/errors"
	"travel-cms/pkg/types"
)

// RecordRepository хранит записи по таблицам в порядке вставки.
// Fail* позволяют сымитировать ошибку хранилища для конкретной операции.
type RecordRepository struct {
	mu     sync.Mutex
	tables map[string][]entities.Record

	FailInsert error
	FailUpdate error
	FailDelete error
}

var _ repositories.RecordRepositoryInterface = (*RecordRepository)(nil)

func NewRecordRepository() *RecordRepository {
	return &RecordRepository{tables: make(map[string][]entities.Record)}
}

// Count - число записей в таблице схемы.
func (r *RecordRepository) Count(schema entities.Schema) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tables[schema.Table])
}

func (r *RecordRepository) Insert(_ context.Context, schema entities.Schema, record entities.Record) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailInsert != nil {
		return "", apperrors.NewStorageError("insert", r.FailInsert)
	}
	id := record.ID()
	if id == "" {
		return "", apperrors.NewStorageError("insert", fmt.Errorf("нет идентификатора"))
	}
	for _, existing := range r.tables[schema.Table] {
		if existing.ID() == id {
			return "", apperrors.NewStorageError("insert", fmt.Errorf("дубликат id %s", id))
		}
	}

	row := entities.Record{}
	for _, col := range schema.SelectColumns() {
		row[col] = nil
	}
	for col, val := range record {
		if !schema.HasColumn(col) {
			return "", apperrors.NewStorageError("insert", fmt.Errorf("неизвестная колонка %s", col))
		}
		row[col] = val
	}
	r.tables[schema.Table] = append(r.tables[schema.Table], row)
	return id, nil
}

func (r *RecordRepository) FindByID(ctx context.Context, schema entities.Schema, id string) (entities.Record, error) {
	return r.FindByField(ctx, schema, entities.IDColumn, id)
}

func (r *RecordRepository) FindByField(_ context.Context, schema entities.Schema, field string, value any) (entities.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !schema.HasColumn(field) {
		return nil, apperrors.NewStorageError("select", fmt.Errorf("неизвестная колонка %s", field))
	}
	for _, row := range r.tables[schema.Table] {
		if row[field] == value {
			return row.Clone(), nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *RecordRepository) FindAll(_ context.Context, schema entities.Schema, opts types.ListOptions) ([]entities.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]entities.Record, 0, len(r.tables[schema.Table]))
	for _, row := range r.tables[schema.Table] {
		rows = append(rows, row.Clone())
	}

	for i := len(opts.Sort) - 1; i >= 0; i-- {
		sf := opts.Sort[i]
		if !schema.HasColumn(sf.Field) {
			continue
		}
		sort.SliceStable(rows, func(a, b int) bool {
			return less(rows[a][sf.Field], rows[b][sf.Field], sf.Desc)
		})
	}

	if opts.Limit > 0 && uint64(len(rows)) > opts.Limit {
		rows = rows[:opts.Limit]
	}
	return rows, nil
}

// less: nil всегда в конце, остальное сравнивается как строки или числа.
func less(a, b any, desc bool) bool {
	if a == nil || b == nil {
		return a != nil && b == nil
	}
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		if desc {
			return av > bv
		}
		return av < bv
	case float64:
		bv, _ := b.(float64)
		if desc {
			return av > bv
		}
		return av < bv
	}
	return false
}

func (r *RecordRepository) Update(_ context.Context, schema entities.Schema, id string, fields entities.Record) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailUpdate != nil {
		return 0, apperrors.NewStorageError("update", r.FailUpdate)
	}
	for col := range fields {
		if col == entities.IDColumn || !schema.HasColumn(col) {
			return 0, apperrors.NewStorageError("update", fmt.Errorf("недопустимая колонка %s", col))
		}
	}
	for _, row := range r.tables[schema.Table] {
		if row.ID() == id {
			for col, val := range fields {
				row[col] = val
			}
			return 1, nil
		}
	}
	return 0, nil
}

func (r *RecordRepository) Delete(_ context.Context, schema entities.Schema, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailDelete != nil {
		return 0, apperrors.NewStorageError("delete", r.FailDelete)
	}
	rows := r.tables[schema.Table]
	for i, row := range rows {
		if row.ID() == id {
			r.tables[schema.Table] = append(rows[:i:i], rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// SearchRepository ищет по данным RecordRepository так же, как SQL-версия:
// блоги, затем статьи, затем активности.
type SearchRepository struct {
	Records *RecordRepository
}

var _ repositories.SearchRepositoryInterface = (*SearchRepository)(nil)

func (s *SearchRepository) Search(ctx context.Context, term string) ([]entities.SearchResult, error) {
	sources := []struct {
		schema      entities.Schema
		nameColumn  string
		imageColumn string
	}{
		{entities.BlogSchema, "title", "image"},
		{entities.ArticleSchema, "title", "images1"},
		{entities.ActivitySchema, "name", "image"},
	}

	needle := strings.ToLower(term)
	results := []entities.SearchResult{}
	for _, src := range sources {
		rows, err := s.Records.FindAll(ctx, src.schema, types.ListOptions{})
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			name, _ := row[src.nameColumn].(string)
			desc, hasDesc := row["description"].(string)
			if !strings.Contains(strings.ToLower(name), needle) &&
				!(hasDesc && strings.Contains(strings.ToLower(desc), needle)) {
				continue
			}
			res := entities.SearchResult{Type: src.schema.Kind, ID: row.ID(), Name: name}
			if hasDesc {
				res.Description = &desc
			}
			if img, ok := row[src.imageColumn].(string); ok {
				res.Image = &img
			}
			results = append(results, res)
		}
	}
	return results, nil
}

// AdminRepository - таблица администраторов в памяти.
type AdminRepository struct {
	mu     sync.Mutex
	admins []entities.Admin
}

var _ repositories.AdminRepositoryInterface = (*AdminRepository)(nil)

// Add добавляет администратора без проверок, например второго для негативных тестов.
func (r *AdminRepository) Add(admin entities.Admin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admins = append(r.admins, admin)
}

func (r *AdminRepository) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.admins)), nil
}

func (r *AdminRepository) FindAll(_ context.Context, limit uint64) ([]entities.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	admins := append([]entities.Admin(nil), r.admins...)
	if limit > 0 && uint64(len(admins)) > limit {
		admins = admins[:limit]
	}
	return admins, nil
}

func (r *AdminRepository) CreateIfAbsent(_ context.Context, admin entities.Admin) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.admins) > 0 {
		return false, nil
	}
	admin.CreatedAt = time.Now()
	r.admins = append(r.admins, admin)
	return true, nil
}

// CacheRepository - кеш в памяти с семантикой Redis: отсутствующий ключ - redis.Nil.
type CacheRepository struct {
	mu     sync.Mutex
	values map[string]string
}

var _ repositories.CacheRepositoryInterface = (*CacheRepository)(nil)

func NewCacheRepository() *CacheRepository {
	return &CacheRepository{values: make(map[string]string)}
}

func (c *CacheRepository) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = fmt.Sprint(value)
	return nil
}

func (c *CacheRepository) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (c *CacheRepository) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func (c *CacheRepository) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	if v, ok := c.values[key]; ok {
		fmt.Sscan(v, &n)
	}
	n++
	c.values[key] = fmt.Sprint(n)
	return n, nil
}

func (c *CacheRepository) Expire(_ context.Context, key string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok, nil
}
