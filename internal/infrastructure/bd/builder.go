package bd

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"travel-cms/pkg/types"
)

// ApplyListParams добавляет сортировку и лимит. Поля, которых нет в allowedMap,
// молча пропускаются. tieBreak всегда добавляется последним, чтобы порядок был стабильным.
func ApplyListParams(builder sq.SelectBuilder, opts types.ListOptions, allowedMap map[string]string, tieBreak string) sq.SelectBuilder {
	for _, sort := range opts.Sort {
		dbCol, ok := allowedMap[sort.Field]
		if !ok {
			continue
		}
		sqlDir := "ASC"
		if sort.Desc {
			sqlDir = "DESC NULLS LAST"
		}
		builder = builder.OrderBy(fmt.Sprintf("%s %s", dbCol, sqlDir))
	}

	if tieBreak != "" {
		builder = builder.OrderBy(tieBreak)
	}

	if opts.Limit > 0 {
		builder = builder.Limit(opts.Limit)
	}

	return builder
}
