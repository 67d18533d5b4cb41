package listeners

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"travel-cms/internal/entities"
	"travel-cms/internal/events"
	"travel-cms/pkg/eventbus"
)

type otherEvent struct{}

func (otherEvent) Name() string { return events.RecordChangedName }

func TestAuditListener(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	listener := NewAuditListener(zap.New(core))

	bus := eventbus.New(zap.NewNop())
	listener.Register(bus)

	bus.Publish(events.RecordChangedEvent{Kind: entities.KindGallery, ID: "g1", Action: events.ActionCreated, Actor: "admin@example.com"})
	bus.Publish(events.RecordChangedEvent{Kind: entities.KindGallery, ID: "g1", Action: events.ActionDeleted, FailedFiles: []string{"gallery/a.png"}})
	bus.Wait()

	require.Equal(t, 2, logs.Len())
	created := logs.FilterMessage("Изменение контента").All()
	require.Len(t, created, 1)
	assert.Equal(t, "admin@example.com", created[0].ContextMap()["actor"])
	assert.Equal(t, "created", created[0].ContextMap()["action"])

	warned := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warned, 1)
	assert.Equal(t, "deleted", warned[0].ContextMap()["action"])

	assert.Error(t, listener.Handle(context.Background(), otherEvent{}))
}
