package contract

import (
	"context"

	"github.com/huangsam/reporank/schema"
	"github.com/stretchr/testify/mock"
)

// MockRepositorySource is a mock implementation of RepositorySource for testing.
type MockRepositorySource struct {
	mock.Mock
}

var _ RepositorySource = &MockRepositorySource{} // Compile-time check

// ListRepositories implements the RepositorySource interface.
func (m *MockRepositorySource) ListRepositories(ctx context.Context, owner string) ([]schema.RepositoryIdentity, error) {
	ret := m.Called(ctx, owner)
	repos, _ := ret.Get(0).([]schema.RepositoryIdentity)
	return repos, ret.Error(1)
}

// MockCloner is a mock implementation of Cloner for testing.
type MockCloner struct {
	mock.Mock
}

var _ Cloner = &MockCloner{} // Compile-time check

// Clone implements the Cloner interface.
func (m *MockCloner) Clone(ctx context.Context, repo schema.RepositoryIdentity, workDir string) (*Checkout, error) {
	ret := m.Called(ctx, repo, workDir)
	checkout, _ := ret.Get(0).(*Checkout)
	return checkout, ret.Error(1)
}
