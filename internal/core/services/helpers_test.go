package services

import (
	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/documentor/internal/runtime"
)

func newTestServices(emb *mocks.MockEmbeddingService, llm *mocks.MockLLMService) *runtime.Services {
	svc := runtime.NewServices(domain.NewRuntimeConfig("redis", "memory"))
	if emb != nil {
		svc.SetEmbeddingService(emb)
	}
	if llm != nil {
		svc.SetLLMService(llm)
	}
	return svc
}
