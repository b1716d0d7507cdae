package mock

import (
	context "context"
	reflect "reflect"

	snowflake "github.com/disgoorg/snowflake/v2"
	models "github.com/ellavondegurechaff/tombola/tombola/database/models"
	repositories "github.com/ellavondegurechaff/tombola/tombola/database/repositories"
	gomock "go.uber.org/mock/gomock"
)

// MockMemberStatsRepository is a mock of MemberStatsRepository interface.
type MockMemberStatsRepository struct {
	ctrl     *gomock.Controller
	recorder *MockMemberStatsRepositoryMockRecorder
	isgomock struct{}
}

// MockMemberStatsRepositoryMockRecorder is the mock recorder for MockMemberStatsRepository.
type MockMemberStatsRepositoryMockRecorder struct {
	mock *MockMemberStatsRepository
}

// NewMockMemberStatsRepository creates a new mock instance.
func NewMockMemberStatsRepository(ctrl *gomock.Controller) *MockMemberStatsRepository {
	mock := &MockMemberStatsRepository{ctrl: ctrl}
	mock.recorder = &MockMemberStatsRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockMemberStatsRepository) EXPECT() *MockMemberStatsRepositoryMockRecorder {
	return m.recorder
}

// AddInvites mocks base method.
func (m *MockMemberStatsRepository) AddInvites(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, n int) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AddInvites", ctx, guildID, userID, n)
	ret0, _ := ret[0].(error)
	return ret0
}

// AddInvites indicates an expected call of AddInvites.
func (mr *MockMemberStatsRepositoryMockRecorder) AddInvites(ctx, guildID, userID, n any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AddInvites", reflect.TypeOf((*MockMemberStatsRepository)(nil).AddInvites), ctx, guildID, userID, n)
}

// ApplyMessageDeltas mocks base method.
func (m *MockMemberStatsRepository) ApplyMessageDeltas(ctx context.Context, deltas []repositories.MessageDelta) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ApplyMessageDeltas", ctx, deltas)
	ret0, _ := ret[0].(error)
	return ret0
}

// ApplyMessageDeltas indicates an expected call of ApplyMessageDeltas.
func (mr *MockMemberStatsRepositoryMockRecorder) ApplyMessageDeltas(ctx, deltas any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ApplyMessageDeltas", reflect.TypeOf((*MockMemberStatsRepository)(nil).ApplyMessageDeltas), ctx, deltas)
}

// Get mocks base method.
func (m *MockMemberStatsRepository) Get(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*models.MemberStats, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, guildID, userID)
	ret0, _ := ret[0].(*models.MemberStats)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get.
func (mr *MockMemberStatsRepositoryMockRecorder) Get(ctx, guildID, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockMemberStatsRepository)(nil).Get), ctx, guildID, userID)
}
