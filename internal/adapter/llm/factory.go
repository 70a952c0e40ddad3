package llm

import (
	"log"
	"os"
	"time"
)

const (
	// EnvMode is the environment variable name for mode selection.
	EnvMode = "SUPPORTCHAT_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewLLMClient creates an LLM client based on the SUPPORTCHAT_MODE
// environment variable. If SUPPORTCHAT_MODE=MOCK, returns a MockClient;
// otherwise returns a real Client.
func NewLLMClient(baseURL, apiKey string, timeout time.Duration) LLMClient {
	mode := os.Getenv(EnvMode)

	if mode == ModeMock {
		log.Println("SUPPORTCHAT_MODE=MOCK detected, using mock LLM client")
		return NewMockClient()
	}

	return NewClient(baseURL, apiKey, timeout)
}
