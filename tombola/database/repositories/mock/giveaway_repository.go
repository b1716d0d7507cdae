package mock

import (
	context "context"
	reflect "reflect"
	time "time"

	snowflake "github.com/disgoorg/snowflake/v2"
	models "github.com/ellavondegurechaff/tombola/tombola/database/models"
	gomock "go.uber.org/mock/gomock"
)

// MockGiveawayRepository is a mock of GiveawayRepository interface.
type MockGiveawayRepository struct {
	ctrl     *gomock.Controller
	recorder *MockGiveawayRepositoryMockRecorder
	isgomock struct{}
}

// MockGiveawayRepositoryMockRecorder is the mock recorder for MockGiveawayRepository.
type MockGiveawayRepositoryMockRecorder struct {
	mock *MockGiveawayRepository
}

// NewMockGiveawayRepository creates a new mock instance.
func NewMockGiveawayRepository(ctrl *gomock.Controller) *MockGiveawayRepository {
	mock := &MockGiveawayRepository{ctrl: ctrl}
	mock.recorder = &MockGiveawayRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockGiveawayRepository) EXPECT() *MockGiveawayRepositoryMockRecorder {
	return m.recorder
}

// Archive mocks base method.
func (m *MockGiveawayRepository) Archive(ctx context.Context, g *models.Giveaway, winners []snowflake.ID, endedAt time.Time) (*models.EndedGiveaway, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Archive", ctx, g, winners, endedAt)
	ret0, _ := ret[0].(*models.EndedGiveaway)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Archive indicates an expected call of Archive.
func (mr *MockGiveawayRepositoryMockRecorder) Archive(ctx, g, winners, endedAt any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Archive", reflect.TypeOf((*MockGiveawayRepository)(nil).Archive), ctx, g, winners, endedAt)
}

// CountActive mocks base method.
func (m *MockGiveawayRepository) CountActive(ctx context.Context, guildID snowflake.ID) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountActive", ctx, guildID)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountActive indicates an expected call of CountActive.
func (mr *MockGiveawayRepositoryMockRecorder) CountActive(ctx, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountActive", reflect.TypeOf((*MockGiveawayRepository)(nil).CountActive), ctx, guildID)
}

// Create mocks base method.
func (m *MockGiveawayRepository) Create(ctx context.Context, g *models.Giveaway) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, g)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create.
func (mr *MockGiveawayRepositoryMockRecorder) Create(ctx, g any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockGiveawayRepository)(nil).Create), ctx, g)
}

// Delete mocks base method.
func (m *MockGiveawayRepository) Delete(ctx context.Context, guildID snowflake.ID, messageID snowflake.ID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", ctx, guildID, messageID)
	ret0, _ := ret[0].(error)
	return ret0
}

// Delete indicates an expected call of Delete.
func (mr *MockGiveawayRepositoryMockRecorder) Delete(ctx, guildID, messageID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockGiveawayRepository)(nil).Delete), ctx, guildID, messageID)
}

// DeleteEnded mocks base method.
func (m *MockGiveawayRepository) DeleteEnded(ctx context.Context, guildID snowflake.ID, messageID snowflake.ID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteEnded", ctx, guildID, messageID)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeleteEnded indicates an expected call of DeleteEnded.
func (mr *MockGiveawayRepositoryMockRecorder) DeleteEnded(ctx, guildID, messageID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteEnded", reflect.TypeOf((*MockGiveawayRepository)(nil).DeleteEnded), ctx, guildID, messageID)
}

// Get mocks base method.
func (m *MockGiveawayRepository) Get(ctx context.Context, guildID snowflake.ID, messageID snowflake.ID) (*models.Giveaway, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, guildID, messageID)
	ret0, _ := ret[0].(*models.Giveaway)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get.
func (mr *MockGiveawayRepositoryMockRecorder) Get(ctx, guildID, messageID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockGiveawayRepository)(nil).Get), ctx, guildID, messageID)
}

// GetEnded mocks base method.
func (m *MockGiveawayRepository) GetEnded(ctx context.Context, guildID snowflake.ID, messageID snowflake.ID) (*models.EndedGiveaway, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetEnded", ctx, guildID, messageID)
	ret0, _ := ret[0].(*models.EndedGiveaway)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetEnded indicates an expected call of GetEnded.
func (mr *MockGiveawayRepositoryMockRecorder) GetEnded(ctx, guildID, messageID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetEnded", reflect.TypeOf((*MockGiveawayRepository)(nil).GetEnded), ctx, guildID, messageID)
}

// ListActive mocks base method.
func (m *MockGiveawayRepository) ListActive(ctx context.Context, guildID snowflake.ID) ([]*models.Giveaway, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListActive", ctx, guildID)
	ret0, _ := ret[0].([]*models.Giveaway)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListActive indicates an expected call of ListActive.
func (mr *MockGiveawayRepositoryMockRecorder) ListActive(ctx, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListActive", reflect.TypeOf((*MockGiveawayRepository)(nil).ListActive), ctx, guildID)
}

// ListEnded mocks base method.
func (m *MockGiveawayRepository) ListEnded(ctx context.Context, guildID snowflake.ID) ([]*models.EndedGiveaway, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListEnded", ctx, guildID)
	ret0, _ := ret[0].([]*models.EndedGiveaway)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListEnded indicates an expected call of ListEnded.
func (mr *MockGiveawayRepositoryMockRecorder) ListEnded(ctx, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListEnded", reflect.TypeOf((*MockGiveawayRepository)(nil).ListEnded), ctx, guildID)
}

// ListExpired mocks base method.
func (m *MockGiveawayRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]*models.Giveaway, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListExpired", ctx, now, limit)
	ret0, _ := ret[0].([]*models.Giveaway)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListExpired indicates an expected call of ListExpired.
func (mr *MockGiveawayRepositoryMockRecorder) ListExpired(ctx, now, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListExpired", reflect.TypeOf((*MockGiveawayRepository)(nil).ListExpired), ctx, now, limit)
}

// PurgeEnded mocks base method.
func (m *MockGiveawayRepository) PurgeEnded(ctx context.Context, before time.Time) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PurgeEnded", ctx, before)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// PurgeEnded indicates an expected call of PurgeEnded.
func (mr *MockGiveawayRepositoryMockRecorder) PurgeEnded(ctx, before any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PurgeEnded", reflect.TypeOf((*MockGiveawayRepository)(nil).PurgeEnded), ctx, before)
}

// Update mocks base method.
func (m *MockGiveawayRepository) Update(ctx context.Context, g *models.Giveaway) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, g)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update.
func (mr *MockGiveawayRepositoryMockRecorder) Update(ctx, g any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockGiveawayRepository)(nil).Update), ctx, g)
}

// UpdateEndedWinners mocks base method.
func (m *MockGiveawayRepository) UpdateEndedWinners(ctx context.Context, id int64, winners []snowflake.ID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateEndedWinners", ctx, id, winners)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateEndedWinners indicates an expected call of UpdateEndedWinners.
func (mr *MockGiveawayRepositoryMockRecorder) UpdateEndedWinners(ctx, id, winners any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateEndedWinners", reflect.TypeOf((*MockGiveawayRepository)(nil).UpdateEndedWinners), ctx, id, winners)
}
