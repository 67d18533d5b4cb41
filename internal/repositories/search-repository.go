package repositories

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"travel-cms/internal/entities"
	apperrors "travel-cms/pkg/errors"
)

// searchSource - таблица, участвующая в поиске, и колонки, которые
// отображаются на поля SearchResult.
type searchSource struct {
	kind        entities.Kind
	table       string
	nameColumn  string
	imageColumn string
}

// Порядок источников определяет порядок групп в выдаче.
var searchSources = []searchSource{
	{kind: entities.KindBlog, table: "blogs", nameColumn: "title", imageColumn: "image"},
	{kind: entities.KindArticle, table: "articles", nameColumn: "title", imageColumn: "images1"},
	{kind: entities.KindActivity, table: "activities", nameColumn: "name", imageColumn: "image"},
}

type SearchRepositoryInterface interface {
	Search(ctx context.Context, term string) ([]entities.SearchResult, error)
}

type SearchRepository struct {
	storage Querier
	logger  *zap.Logger
}

func NewSearchRepository(storage Querier, logger *zap.Logger) SearchRepositoryInterface {
	return &SearchRepository{storage: storage, logger: logger}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search ищет term как подстроку без учёта регистра в имени/заголовке и описании.
// Внутри группы записи идут в порядке вставки.
func (r *SearchRepository) Search(ctx context.Context, term string) ([]entities.SearchResult, error) {
	pattern := "%" + likeEscaper.Replace(term) + "%"

	parts := make([]string, 0, len(searchSources))
	var args []any
	for i, src := range searchSources {
		query, partArgs, err := sq.Select().
			Column("?::text AS kind", string(src.kind)).
			Column("id::text AS id").
			Column("COALESCE(" + src.nameColumn + ", '') AS name").
			Column("description").
			Column(src.imageColumn + " AS image").
			Column("?::int AS grp", i).
			Column("seq").
			From(src.table).
			Where(sq.Or{
				sq.Expr(src.nameColumn+" ILIKE ?", pattern),
				sq.Expr("description ILIKE ?", pattern),
			}).
			ToSql()
		if err != nil {
			return nil, apperrors.NewStorageError("search", err)
		}
		parts = append(parts, "("+query+")")
		args = append(args, partArgs...)
	}

	union := "SELECT kind, id, name, description, image FROM (" +
		strings.Join(parts, " UNION ALL ") +
		") AS found ORDER BY grp, seq"
	query, err := sq.Dollar.ReplacePlaceholders(union)
	if err != nil {
		return nil, apperrors.NewStorageError("search", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Ошибка поиска", zap.String("term", term), zap.Error(err))
		return nil, apperrors.NewStorageError("search", err)
	}
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.SearchResult, error) {
		var (
			res  entities.SearchResult
			kind string
		)
		err := row.Scan(&kind, &res.ID, &res.Name, &res.Description, &res.Image)
		res.Type = entities.Kind(kind)
		return res, err
	})
	if err != nil {
		return nil, apperrors.NewStorageError("scan", err)
	}
	return results, nil
}
