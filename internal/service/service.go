// Package service orchestrates conversation state and LLM completions.
package service

import (
	"github.com/nimbusdesk/supportchat/classify"
	"github.com/nimbusdesk/supportchat/internal/adapter/llm"
	"github.com/nimbusdesk/supportchat/internal/config"
	"github.com/nimbusdesk/supportchat/internal/store"
)

type Service struct {
	store      store.Store
	llmClient  llm.LLMClient
	classifier *classify.Classifier
	config     *config.Config
}

func New(store store.Store, llmClient llm.LLMClient, classifier *classify.Classifier, cfg *config.Config) *Service {
	return &Service{
		store:      store,
		llmClient:  llmClient,
		classifier: classifier,
		config:     cfg,
	}
}
