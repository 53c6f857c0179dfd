package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type brokenPublisher struct{ Nop }

func (brokenPublisher) Publish(context.Context, string, any) error {
	return errors.New("connection lost")
}

func TestNewPublisherWithoutURL(t *testing.T) {
	p, err := NewPublisher("", zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.IsType(t, Nop{}, p)
	assert.NoError(t, p.Publish(context.Background(), SubjectJobStatusChanged, JobStatusChanged{}))
	p.Close()
}

func TestEmitLogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := zap.New(core).Sugar()

	Emit(context.Background(), brokenPublisher{}, logger, SubjectApplicationCreated, ApplicationCreated{ApplicationID: "1"})
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, SubjectApplicationCreated, logs.All()[0].ContextMap()["subject"])

	Emit(context.Background(), nil, logger, SubjectApplicationCreated, nil)
	assert.Equal(t, 1, logs.Len())
}
