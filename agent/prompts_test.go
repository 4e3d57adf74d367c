package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemPrompt(t *testing.T) {
	prompt := systemPrompt(time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC))

	assert.Contains(t, prompt, "Always answer in English")
	assert.Contains(t, prompt, "August 28, 2026")
	assert.Contains(t, prompt, "add_movie")
}
