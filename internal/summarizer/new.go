package summarizer

import (
	"github.com/jvdwaal/radioscribe/internal/logger"
)

type implSummarizer struct {
	apiKeys    []string
	currentKey int
	logger     logger.Logger
	model      string
	docx       bool
}

// New creates a Summarizer that rotates through the supplied Gemini API keys.
func New(apiKeys []string, model string, docx bool, log logger.Logger) Summarizer {
	return &implSummarizer{
		apiKeys: apiKeys,
		logger:  log,
		model:   model,
		docx:    docx,
	}
}
