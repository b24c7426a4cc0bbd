package notif

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shafinali-ops/BioCare-sub002/internal/common"
	"github.com/shafinali-ops/BioCare-sub002/internal/dbmysql"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *dbmysql.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ByID(ctx context.Context, id string) (*dbmysql.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmysql.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ByUserID(ctx context.Context, userID string, limit, offset int) ([]*dbmysql.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*dbmysql.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Push(userID string, event common.EventType, payload interface{}) {
	m.Called(userID, event, payload)
}

func (m *MockPublisher) Connected(userID string) bool {
	args := m.Called(userID)
	return args.Bool(0)
}

func newTestService(repo NotificationRepository, pub common.Publisher) NotificationService {
	return NewNotificationService(repo, pub, 2, 16)
}

func TestRaisePersistsAndPushesWhenConnected(t *testing.T) {
	repo := new(MockNotificationRepository)
	pub := new(MockPublisher)
	svc := newTestService(repo, pub)
	defer svc.Shutdown()

	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *dbmysql.Notification) bool {
		return n.UserID == "patient-1" &&
			n.Type == common.AppointmentApprovedType &&
			!n.Read && n.ID != ""
	})).Return(nil)
	pub.On("Connected", "patient-1").Return(true)
	pub.On("Push", "patient-1", common.EventNotification, mock.Anything).Return()

	notification, err := svc.Raise(context.Background(), "patient-1",
		common.AppointmentApprovedType, "Your appointment was approved", nil)
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now().UTC(), notification.CreatedAt, time.Second)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestRaiseSkipsPushWhenOffline(t *testing.T) {
	repo := new(MockNotificationRepository)
	pub := new(MockPublisher)
	svc := newTestService(repo, pub)
	defer svc.Shutdown()

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	pub.On("Connected", "patient-1").Return(false)

	_, err := svc.Raise(context.Background(), "patient-1",
		common.PrescriptionCreatedType, "New prescription available", nil)
	require.NoError(t, err)

	// the durable row is the offline fallback; no push happens
	pub.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything)
}

func TestRaiseValidation(t *testing.T) {
	repo := new(MockNotificationRepository)
	pub := new(MockPublisher)
	svc := newTestService(repo, pub)
	defer svc.Shutdown()

	tests := []struct {
		name      string
		userID    string
		notifType common.NotificationType
		message   string
	}{
		{name: "missing user", userID: "", notifType: common.ConsultationStartedType, message: "x"},
		{name: "unknown type", userID: "patient-1", notifType: "mystery_event", message: "x"},
		{name: "empty message", userID: "patient-1", notifType: common.ConsultationStartedType, message: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Raise(context.Background(), tt.userID, tt.notifType, tt.message, nil)
			assert.True(t, common.IsCode(err, common.CodeInvalidArgument))
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRaiseAsyncProcessedByWorkers(t *testing.T) {
	repo := new(MockNotificationRepository)
	pub := new(MockPublisher)
	svc := newTestService(repo, pub)
	defer svc.Shutdown()

	done := make(chan struct{})
	repo.On("Create", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(done)
	}).Return(nil)
	pub.On("Connected", "doctor-1").Return(false)

	svc.RaiseAsync(common.NotificationEvent{
		UserID:  "doctor-1",
		Type:    common.MissedCallType,
		Message: "patient-1 did not answer your call",
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("async event was never processed")
	}
}

func TestMarkReadOwnershipAndIdempotence(t *testing.T) {
	repo := new(MockNotificationRepository)
	pub := new(MockPublisher)
	svc := newTestService(repo, pub)
	defer svc.Shutdown()
	ctx := context.Background()

	stored := &dbmysql.Notification{ID: "n-1", UserID: "patient-1", Read: false}
	repo.On("ByID", mock.Anything, "n-1").Return(stored, nil)
	repo.On("MarkRead", mock.Anything, "n-1").Return(nil)

	// wrong user
	err := svc.MarkRead(ctx, "n-1", "intruder")
	assert.True(t, common.IsCode(err, common.CodeForbidden))
	repo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)

	// owner
	require.NoError(t, svc.MarkRead(ctx, "n-1", "patient-1"))
	repo.AssertCalled(t, "MarkRead", mock.Anything, "n-1")

	// already read: no second update
	read := &dbmysql.Notification{ID: "n-2", UserID: "patient-1", Read: true}
	repo.On("ByID", mock.Anything, "n-2").Return(read, nil)
	require.NoError(t, svc.MarkRead(ctx, "n-2", "patient-1"))
	repo.AssertNotCalled(t, "MarkRead", mock.Anything, "n-2")
}

func TestMarkReadUnknownNotification(t *testing.T) {
	repo := new(MockNotificationRepository)
	pub := new(MockPublisher)
	svc := newTestService(repo, pub)
	defer svc.Shutdown()

	repo.On("ByID", mock.Anything, "ghost").Return(nil, common.NotFoundf("notification ghost not found"))

	err := svc.MarkRead(context.Background(), "ghost", "patient-1")
	assert.True(t, common.IsCode(err, common.CodeNotFound))
}

func TestMarkAllRead(t *testing.T) {
	repo := new(MockNotificationRepository)
	pub := new(MockPublisher)
	svc := newTestService(repo, pub)
	defer svc.Shutdown()

	repo.On("MarkAllRead", mock.Anything, "patient-1").Return(nil)

	require.NoError(t, svc.MarkAllRead(context.Background(), "patient-1"))
	repo.AssertExpectations(t)
}

func TestMissedCallRaisesNotificationToCaller(t *testing.T) {
	repo := new(MockNotificationRepository)
	pub := new(MockPublisher)
	svc := newTestService(repo, pub)
	defer svc.Shutdown()

	done := make(chan *dbmysql.Notification, 1)
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		done <- args.Get(1).(*dbmysql.Notification)
	}).Return(nil)
	pub.On("Connected", "doctor-1").Return(false)

	svc.MissedCall("doctor-1", "patient-1", "call-42")

	select {
	case n := <-done:
		assert.Equal(t, "doctor-1", n.UserID)
		assert.Equal(t, common.MissedCallType, n.Type)
		require.NotNil(t, n.RelatedID)
		assert.Equal(t, "call-42", *n.RelatedID)
	case <-time.After(time.Second):
		t.Fatal("missed-call notification was never raised")
	}
}
