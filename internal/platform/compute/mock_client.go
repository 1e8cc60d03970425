package compute

import "context"

// MockClient is a Func-field mock implementation of API for tests.
type MockClient struct {
	FetchUserFunc               func(ctx context.Context) (*User, error)
	CreateServiceFunc           func(ctx context.Context, name string) (*Service, error)
	CreateDomainFunc            func(ctx context.Context, serviceID, name string) error
	CreateBackendFunc           func(ctx context.Context, serviceID string, backend Backend) error
	CreateDictionaryFunc        func(ctx context.Context, serviceID, name string) (*Dictionary, error)
	UpdateDictionaryItemsFunc   func(ctx context.Context, serviceID, dictionaryID string, items []DictionaryItem) error
	GetServiceVersionStatusFunc func(ctx context.Context, serviceID string) (bool, error)
}

var _ API = (*MockClient)(nil)

func (m *MockClient) FetchUser(ctx context.Context) (*User, error) {
	if m.FetchUserFunc == nil {
		return nil, nil
	}
	return m.FetchUserFunc(ctx)
}

func (m *MockClient) CreateService(ctx context.Context, name string) (*Service, error) {
	if m.CreateServiceFunc == nil {
		return &Service{ID: "mock-service"}, nil
	}
	return m.CreateServiceFunc(ctx, name)
}

func (m *MockClient) CreateDomain(ctx context.Context, serviceID, name string) error {
	if m.CreateDomainFunc == nil {
		return nil
	}
	return m.CreateDomainFunc(ctx, serviceID, name)
}

func (m *MockClient) CreateBackend(ctx context.Context, serviceID string, backend Backend) error {
	if m.CreateBackendFunc == nil {
		return nil
	}
	return m.CreateBackendFunc(ctx, serviceID, backend)
}

func (m *MockClient) CreateDictionary(ctx context.Context, serviceID, name string) (*Dictionary, error) {
	if m.CreateDictionaryFunc == nil {
		return &Dictionary{ID: "mock-dict", Name: name}, nil
	}
	return m.CreateDictionaryFunc(ctx, serviceID, name)
}

func (m *MockClient) UpdateDictionaryItems(ctx context.Context, serviceID, dictionaryID string, items []DictionaryItem) error {
	if m.UpdateDictionaryItemsFunc == nil {
		return nil
	}
	return m.UpdateDictionaryItemsFunc(ctx, serviceID, dictionaryID, items)
}

func (m *MockClient) GetServiceVersionStatus(ctx context.Context, serviceID string) (bool, error) {
	if m.GetServiceVersionStatusFunc == nil {
		return false, nil
	}
	return m.GetServiceVersionStatusFunc(ctx, serviceID)
}
