package config

import (
	"os"
	"testing"

	"finbridge/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init("test")
	os.Exit(m.Run())
}
