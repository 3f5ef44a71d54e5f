package analysis

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ternarybob/jigoor/internal/services/llm"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GenerateContent(ctx context.Context, request *llm.ContentRequest) (*llm.ContentResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.ContentResponse), args.Error(1)
}

func (m *MockProvider) GetProviderType() llm.ProviderType {
	return llm.ProviderGemini
}

func (m *MockProvider) Close() error {
	return nil
}
