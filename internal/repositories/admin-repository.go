package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"travel-cms/internal/entities"
	apperrors "travel-cms/pkg/errors"
)

const adminTable = "admins"

// Ключ pg_advisory_xact_lock для создания администратора.
const adminBootstrapLockKey int64 = 7_340_021

type AdminRepositoryInterface interface {
	Count(ctx context.Context) (int64, error)
	FindAll(ctx context.Context, limit uint64) ([]entities.Admin, error)
	CreateIfAbsent(ctx context.Context, admin entities.Admin) (bool, error)
}

type AdminRepository struct {
	storage   Querier
	txManager TxManagerInterface
	logger    *zap.Logger
}

func NewAdminRepository(storage Querier, txManager TxManagerInterface, logger *zap.Logger) AdminRepositoryInterface {
	return &AdminRepository{storage: storage, txManager: txManager, logger: logger}
}

func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.storage.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return 0, apperrors.NewStorageError("count_admins", err)
	}
	return count, nil
}

func (r *AdminRepository) FindAll(ctx context.Context, limit uint64) ([]entities.Admin, error) {
	builder := psql.Select("id::text", "email", "password", "created_at").From(adminTable).OrderBy("created_at ASC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperrors.NewStorageError("select_admins", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStorageError("select_admins", err)
	}
	admins, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Admin, error) {
		var a entities.Admin
		err := row.Scan(&a.ID, &a.Email, &a.Password, &a.CreatedAt)
		return a, err
	})
	if err != nil {
		return nil, apperrors.NewStorageError("scan_admins", err)
	}
	return admins, nil
}

// CreateIfAbsent вставляет администратора, только если таблица пуста.
// Параллельные вызовы сериализуются транзакционной advisory-блокировкой.
func (r *AdminRepository) CreateIfAbsent(ctx context.Context, admin entities.Admin) (bool, error) {
	var created bool
	err := r.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, adminBootstrapLockKey); err != nil {
			return err
		}

		query, args, err := psql.Insert(adminTable).
			Columns("id", "email", "password").
			Select(
				sq.Select().
					Column("?::uuid", admin.ID).
					Column("?", admin.Email).
					Column("?", admin.Password).
					Where("NOT EXISTS (SELECT 1 FROM admins)"),
			).ToSql()
		if err != nil {
			return err
		}

		result, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		created = result.RowsAffected() == 1
		return nil
	})
	if err != nil {
		r.logger.Error("Ошибка создания администратора", zap.Error(err))
		return false, apperrors.NewStorageError("insert_admin", err)
	}
	return created, nil
}
