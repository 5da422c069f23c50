package database

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLogAdapterWritesThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	adapter := &logAdapter{log: log}
	adapter.Printf("slow query: %s [%dms]", "SELECT 1", 120)

	assert.Contains(t, buf.String(), "slow query: SELECT 1 [120ms]")
}
