package swarmlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNoOpLoggerDoesNotPanic(t *testing.T) {
	l := NewNoOpLogger()
	assert.NotPanics(t, func() {
		l.Debug("hello", zap.String("k", "v"))
		l.Info("hello")
		l.Warn("hello")
		l.Error("hello")
		l.With(zap.Int("n", 1)).Info("nested")
	})
}

func TestOrNoOpSubstitutesNil(t *testing.T) {
	assert.NotNil(t, OrNoOp(nil))
	l := NewNoOpLogger()
	assert.Equal(t, l, OrNoOp(l))
}

func TestNewDevelopmentBuilds(t *testing.T) {
	l, err := NewDevelopment()
	assert.NoError(t, err)
	assert.NotNil(t, l)
}
