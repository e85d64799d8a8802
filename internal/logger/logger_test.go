package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitTestEnvironmentDiscards(t *testing.T) {
	Init("test")

	if Get().Desugar().Core().Enabled(zap.ErrorLevel) {
		t.Error("test logger should discard every level")
	}

	// Later Init calls keep the first logger.
	Init("development")
	if Get().Desugar().Core().Enabled(zap.ErrorLevel) {
		t.Error("Init must only take effect once")
	}
}

func TestReplaceRestores(t *testing.T) {
	Init("test")
	core, logs := observer.New(zap.InfoLevel)

	restore := Replace(zap.New(core))
	Get().Infow("score calculated", "user_id", "u-1")
	restore()
	Get().Infow("after restore")

	if logs.Len() != 1 || logs.All()[0].Message != "score calculated" {
		t.Errorf("observed = %v", logs.AllUntimed())
	}
}
