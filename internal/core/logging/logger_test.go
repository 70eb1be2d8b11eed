package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestComponentTagsEntries(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	logger := Component("scheduler")
	logger.Info().Str("repo", "/r/alpha").Msg("task submitted")

	out := buf.String()
	assert.Contains(t, out, `"cmp":"scheduler"`)
	assert.Contains(t, out, `"repo":"/r/alpha"`)
	assert.Contains(t, out, "task submitted")
}
