package github

import "context"

// MockClient is a Func-field mock implementation of API for tests.
type MockClient struct {
	FetchUserFunc            func(ctx context.Context) (*User, error)
	FetchRepositoryFunc      func(ctx context.Context, nwo string) (*Repository, error)
	GenerateFromTemplateFunc func(ctx context.Context, nwo, name string) (*Repository, error)
	GetFileFunc              func(ctx context.Context, nwo, path string) (*File, error)
	UpdateFileFunc           func(ctx context.Context, nwo string, file *File, content, message string) error
	EnableWorkflowFunc       func(ctx context.Context, nwo, workflow string) error
	GetPublicKeyFunc         func(ctx context.Context, nwo string) (*PublicKey, error)
	CreateSecretFunc         func(ctx context.Context, nwo, name, value string) error
}

var _ API = (*MockClient)(nil)

func (m *MockClient) FetchUser(ctx context.Context) (*User, error) {
	if m.FetchUserFunc == nil {
		return nil, nil
	}
	return m.FetchUserFunc(ctx)
}

func (m *MockClient) FetchRepository(ctx context.Context, nwo string) (*Repository, error) {
	if m.FetchRepositoryFunc == nil {
		return nil, nil
	}
	return m.FetchRepositoryFunc(ctx, nwo)
}

func (m *MockClient) GenerateFromTemplate(ctx context.Context, nwo, name string) (*Repository, error) {
	if m.GenerateFromTemplateFunc == nil {
		return nil, nil
	}
	return m.GenerateFromTemplateFunc(ctx, nwo, name)
}

func (m *MockClient) GetFile(ctx context.Context, nwo, path string) (*File, error) {
	if m.GetFileFunc == nil {
		return nil, nil
	}
	return m.GetFileFunc(ctx, nwo, path)
}

func (m *MockClient) UpdateFile(ctx context.Context, nwo string, file *File, content, message string) error {
	if m.UpdateFileFunc == nil {
		return nil
	}
	return m.UpdateFileFunc(ctx, nwo, file, content, message)
}

func (m *MockClient) EnableWorkflow(ctx context.Context, nwo, workflow string) error {
	if m.EnableWorkflowFunc == nil {
		return nil
	}
	return m.EnableWorkflowFunc(ctx, nwo, workflow)
}

func (m *MockClient) GetPublicKey(ctx context.Context, nwo string) (*PublicKey, error) {
	if m.GetPublicKeyFunc == nil {
		return &PublicKey{KeyID: "mock-key"}, nil
	}
	return m.GetPublicKeyFunc(ctx, nwo)
}

func (m *MockClient) CreateSecret(ctx context.Context, nwo, name, value string) error {
	if m.CreateSecretFunc == nil {
		return nil
	}
	return m.CreateSecretFunc(ctx, nwo, name, value)
}
