package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"travel-cms/internal/events"
	"travel-cms/pkg/eventbus"
)

// AuditListener пишет журнал изменений контента: кто, что и с какой записью сделал.
type AuditListener struct {
	logger *zap.Logger
}

func NewAuditListener(logger *zap.Logger) *AuditListener {
	return &AuditListener{logger: logger.With(zap.String("component", "audit"))}
}

// Register подписывает слушателя на события шины.
func (l *AuditListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.RecordChangedName, l.Handle)
}

func (l *AuditListener) Handle(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.RecordChangedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", event)
	}

	fields := []zap.Field{
		zap.String("kind", string(e.Kind)),
		zap.String("id", e.ID),
		zap.String("action", string(e.Action)),
		zap.String("actor", e.Actor),
	}
	if len(e.FailedFiles) > 0 {
		l.logger.Warn("Изменение контента, остались файлы", append(fields, zap.Strings("failed_files", e.FailedFiles))...)
		return nil
	}
	l.logger.Info("Изменение контента", fields...)
	return nil
}
