package mock

import (
	context "context"
	reflect "reflect"

	snowflake "github.com/disgoorg/snowflake/v2"
	models "github.com/ellavondegurechaff/tombola/tombola/database/models"
	gomock "go.uber.org/mock/gomock"
)

// MockSettingsRepository is a mock of SettingsRepository interface.
type MockSettingsRepository struct {
	ctrl     *gomock.Controller
	recorder *MockSettingsRepositoryMockRecorder
	isgomock struct{}
}

// MockSettingsRepositoryMockRecorder is the mock recorder for MockSettingsRepository.
type MockSettingsRepositoryMockRecorder struct {
	mock *MockSettingsRepository
}

// NewMockSettingsRepository creates a new mock instance.
func NewMockSettingsRepository(ctrl *gomock.Controller) *MockSettingsRepository {
	mock := &MockSettingsRepository{ctrl: ctrl}
	mock.recorder = &MockSettingsRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSettingsRepository) EXPECT() *MockSettingsRepositoryMockRecorder {
	return m.recorder
}

// AddBlacklistRole mocks base method.
func (m *MockSettingsRepository) AddBlacklistRole(ctx context.Context, guildID snowflake.ID, roleID snowflake.ID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AddBlacklistRole", ctx, guildID, roleID)
	ret0, _ := ret[0].(error)
	return ret0
}

// AddBlacklistRole indicates an expected call of AddBlacklistRole.
func (mr *MockSettingsRepositoryMockRecorder) AddBlacklistRole(ctx, guildID, roleID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AddBlacklistRole", reflect.TypeOf((*MockSettingsRepository)(nil).AddBlacklistRole), ctx, guildID, roleID)
}

// Get mocks base method.
func (m *MockSettingsRepository) Get(ctx context.Context, guildID snowflake.ID) (*models.GiveawaySettings, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, guildID)
	ret0, _ := ret[0].(*models.GiveawaySettings)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get.
func (mr *MockSettingsRepositoryMockRecorder) Get(ctx, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockSettingsRepository)(nil).Get), ctx, guildID)
}

// RemoveBlacklistRole mocks base method.
func (m *MockSettingsRepository) RemoveBlacklistRole(ctx context.Context, guildID snowflake.ID, roleID snowflake.ID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RemoveBlacklistRole", ctx, guildID, roleID)
	ret0, _ := ret[0].(error)
	return ret0
}

// RemoveBlacklistRole indicates an expected call of RemoveBlacklistRole.
func (mr *MockSettingsRepositoryMockRecorder) RemoveBlacklistRole(ctx, guildID, roleID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RemoveBlacklistRole", reflect.TypeOf((*MockSettingsRepository)(nil).RemoveBlacklistRole), ctx, guildID, roleID)
}
