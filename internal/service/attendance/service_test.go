package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/notification"
	"github.com/attendly/attendance-backend-go/internal/domain/settings"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTokenAuth = jwtauth.New("HS256", []byte("test-secret"), nil)

func authedCtx(t *testing.T, userID string) context.Context {
	t.Helper()
	token, _, err := testTokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"type":    "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// ---- fakes ----

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]*attendance.Attendance // keyed user|date
	updates int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]*attendance.Attendance)}
}

func recordKey(userID string, day time.Time) string {
	return userID + "|" + day.Format("2006-01-02")
}

func (f *fakeAttendanceRepo) CreateForDay(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := recordKey(att.UserID, att.Date)
	if _, exists := f.records[key]; exists {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}
	att.ID = uuid.New().String()
	att.CreatedAt = time.Now()
	att.UpdatedAt = att.CreatedAt
	stored := att
	f.records[key] = &stored
	return att, nil
}

func (f *fakeAttendanceRepo) GetByUserAndDay(ctx context.Context, userID string, day time.Time) (*attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if rec, ok := f.records[recordKey(userID, day)]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, att attendance.Attendance) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updates++
	key := recordKey(att.UserID, att.Date)
	if _, ok := f.records[key]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	att.UpdatedAt = time.Now()
	stored := att
	f.records[key] = &stored
	return nil
}

func (f *fakeAttendanceRepo) FindPriorRecords(ctx context.Context, userID string, beforeDay time.Time, limit int) ([]attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []attendance.Attendance
	for _, rec := range f.records {
		if rec.UserID != userID || !rec.Date.Before(beforeDay) {
			continue
		}
		if rec.CheckIn == nil && rec.CheckOut == nil {
			continue
		}
		out = append(out, *rec)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []attendance.Attendance
	for _, rec := range f.records {
		if rec.UserID == userID {
			all = append(all, *rec)
		}
	}
	total := int64(len(all))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (f *fakeAttendanceRepo) ListUserIDsWithRecordOn(ctx context.Context, day time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var ids []string
	for _, rec := range f.records {
		if rec.Date.Equal(day) {
			ids = append(ids, rec.UserID)
		}
	}
	return ids, nil
}

type fakeUserRepo struct {
	users map[string]user.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) ListActiveAdmins(ctx context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		if u.IsAdmin() && u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListActiveEmployees(ctx context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		if !u.IsAdmin() && u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeSettingsRepo struct {
	settings settings.Settings
}

func (f *fakeSettingsRepo) Get(ctx context.Context) (settings.Settings, error) {
	return f.settings, nil
}

type fakeNotificationSvc struct {
	mu     sync.Mutex
	queued []notification.CreateNotificationRequest
}

func (f *fakeNotificationSvc) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, req)
}

func (f *fakeNotificationSvc) QueueBulkNotification(ctx context.Context, reqs []notification.CreateNotificationRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, reqs...)
}

func (f *fakeNotificationSvc) GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	return nil, nil
}

func (f *fakeNotificationSvc) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	return 0, nil
}

func (f *fakeNotificationSvc) MarkAsRead(ctx context.Context, userID string, req notification.MarkAsReadRequest) error {
	return nil
}

func (f *fakeNotificationSvc) MarkAllAsRead(ctx context.Context, userID string) error {
	return nil
}

func (f *fakeNotificationSvc) Subscribe(ctx context.Context, userID string) (<-chan notification.SSEEvent, func()) {
	ch := make(chan notification.SSEEvent)
	return ch, func() {}
}

func (f *fakeNotificationSvc) Stop() {}

func (f *fakeNotificationSvc) countByRecipient(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, req := range f.queued {
		if req.RecipientID == id {
			n++
		}
	}
	return n
}

// ---- fixture ----

type fixture struct {
	svc        *AttendanceServiceImpl
	repo       *fakeAttendanceRepo
	users      *fakeUserRepo
	settings   *fakeSettingsRepo
	notifs     *fakeNotificationSvc
	employeeID string
	adminID    string
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	employeeID := uuid.New().String()
	adminID := uuid.New().String()

	users := &fakeUserRepo{users: map[string]user.User{
		employeeID: {ID: employeeID, Name: "Alice", Email: "alice@example.com", Role: user.RoleEmployee, IsActive: true},
		adminID:    {ID: adminID, Name: "Boss", Email: "boss@example.com", Role: user.RoleAdmin, IsActive: true},
	}}
	repo := newFakeAttendanceRepo()
	settingsRepo := &fakeSettingsRepo{}
	notifs := &fakeNotificationSvc{}

	svc := NewAttendanceService(repo, users, settingsRepo, notifs, 30).(*AttendanceServiceImpl)
	svc.now = func() time.Time { return now }

	return &fixture{
		svc:        svc,
		repo:       repo,
		users:      users,
		settings:   settingsRepo,
		notifs:     notifs,
		employeeID: employeeID,
		adminID:    adminID,
	}
}

var checkInAt = time.Date(2024, 3, 4, 9, 0, 0, 0, time.Local)

func TestCheckIn_FirstTime(t *testing.T) {
	f := newFixture(t, checkInAt)
	ctx := authedCtx(t, f.employeeID)

	result, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{
		Device:    testDevice("Chrome", "Windows"),
		IPAddress: "10.0.0.1",
	})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPending, result.Attendance.Status)
	require.NotNil(t, result.Attendance.CheckIn)
	assert.Equal(t, "10.0.0.1", result.Attendance.CheckIn.IPAddress)
	assert.Nil(t, result.Attendance.CheckOut)
	assert.Nil(t, result.Alert)
	assert.Nil(t, result.Fraud)

	// Admin got notified, employee did not.
	assert.Equal(t, 1, f.notifs.countByRecipient(f.adminID))
	assert.Equal(t, 0, f.notifs.countByRecipient(f.employeeID))
}

func TestCheckIn_Twice(t *testing.T) {
	f := newFixture(t, checkInAt)
	ctx := authedCtx(t, f.employeeID)
	req := attendance.CheckInRequest{Device: testDevice("Chrome", "Windows"), IPAddress: "10.0.0.1"}

	_, err := f.svc.CheckIn(ctx, req)
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, req)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_ConcurrentRace(t *testing.T) {
	f := newFixture(t, checkInAt)
	ctx := authedCtx(t, f.employeeID)
	req := attendance.CheckInRequest{Device: testDevice("Chrome", "Windows"), IPAddress: "10.0.0.1"}

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CheckIn(ctx, req)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded, conflicted := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
			conflicted++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicted)
}

func TestCheckIn_UnknownUser(t *testing.T) {
	f := newFixture(t, checkInAt)
	ctx := authedCtx(t, uuid.New().String())

	_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{Device: testDevice("Chrome", "Windows"), IPAddress: "10.0.0.1"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestCheckIn_LateAlert(t *testing.T) {
	f := newFixture(t, checkInAt.Add(25*time.Minute))
	f.settings.settings = settings.Settings{DefaultCheckInTime: strPtr("09:00")}
	ctx := authedCtx(t, f.employeeID)

	result, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{Device: testDevice("Chrome", "Windows"), IPAddress: "10.0.0.1"})
	require.NoError(t, err)

	assert.True(t, result.Attendance.HasTimeAlert)
	require.NotNil(t, result.Attendance.CheckInLateMinutes)
	assert.Equal(t, 25, *result.Attendance.CheckInLateMinutes)
	require.NotNil(t, result.Alert)
	assert.True(t, result.Alert.HasTimeAlert)
	require.NotNil(t, result.Alert.TimeAlert)
	assert.Contains(t, result.Alert.TimeAlert.Message, "25 minutes late")
	assert.Nil(t, result.Fraud)

	// Late check-in also notifies the employee.
	assert.Equal(t, 1, f.notifs.countByRecipient(f.employeeID))
}

func TestCheckIn_FraudFromHistory(t *testing.T) {
	f := newFixture(t, checkInAt)
	today := startOfDay(checkInAt)
	prior := priorRecord(today.AddDate(0, 0, -1), testDevice("Chrome", "Windows"), "10.0.0.1")
	prior.UserID = f.employeeID
	_, err := f.repo.CreateForDay(context.Background(), prior)
	require.NoError(t, err)

	ctx := authedCtx(t, f.employeeID)
	reason := "forgot my laptop, using a spare"
	result, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{
		FraudReason: &reason,
		Device:      testDevice("Firefox", "Linux"),
		IPAddress:   "192.168.9.9",
	})
	require.NoError(t, err)

	require.NotNil(t, result.Fraud)
	assert.True(t, result.Fraud.Detected)
	assert.True(t, result.Fraud.HasDeviceAlert)
	assert.True(t, result.Fraud.HasIPAlert)
	require.NotNil(t, result.Attendance.FraudReason)
	assert.Equal(t, reason, *result.Attendance.FraudReason)
	assert.True(t, result.Attendance.HasDeviceAlert)
	assert.True(t, result.Attendance.HasIPAlert)
	assert.Equal(t, attendance.StatusPending, result.Attendance.Status)

	// Fraud routes the admin notification through the alert type.
	f.notifs.mu.Lock()
	defer f.notifs.mu.Unlock()
	require.NotEmpty(t, f.notifs.queued)
	assert.Equal(t, notification.TypeAlert, f.notifs.queued[0].Type)
}

func TestCheckIn_FraudReasonIgnoredWhenClean(t *testing.T) {
	f := newFixture(t, checkInAt)
	ctx := authedCtx(t, f.employeeID)
	reason := "should not be stored"

	result, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{
		FraudReason: &reason,
		Device:      testDevice("Chrome", "Windows"),
		IPAddress:   "10.0.0.1",
	})
	require.NoError(t, err)

	assert.Nil(t, result.Attendance.FraudReason)
}

func TestCheckIn_ReusesAbsentRecord(t *testing.T) {
	f := newFixture(t, checkInAt)
	today := startOfDay(checkInAt)
	_, err := f.repo.CreateForDay(context.Background(), attendance.Attendance{
		UserID: f.employeeID,
		Date:   today,
		Status: attendance.StatusAbsent,
	})
	require.NoError(t, err)

	ctx := authedCtx(t, f.employeeID)
	result, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{Device: testDevice("Chrome", "Windows"), IPAddress: "10.0.0.1"})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPending, result.Attendance.Status)
	require.NotNil(t, result.Attendance.CheckIn)
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	f := newFixture(t, checkInAt)
	ctx := authedCtx(t, f.employeeID)

	_, err := f.svc.CheckOut(ctx, attendance.CheckOutRequest{Device: testDevice("Chrome", "Windows"), IPAddress: "10.0.0.1"})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestCheckOut_Flow(t *testing.T) {
	f := newFixture(t, checkInAt)
	ctx := authedCtx(t, f.employeeID)
	d := testDevice("Chrome", "Windows")

	_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{Device: d, IPAddress: "10.0.0.1"})
	require.NoError(t, err)

	// 8h16m later; worked hours round to two decimals.
	f.svc.now = func() time.Time { return checkInAt.Add(8*time.Hour + 16*time.Minute) }

	result, err := f.svc.CheckOut(ctx, attendance.CheckOutRequest{Device: d, IPAddress: "10.0.0.1"})
	require.NoError(t, err)

	require.NotNil(t, result.Attendance.CheckOut)
	require.NotNil(t, result.Attendance.WorkedHours)
	assert.InDelta(t, 8.27, *result.Attendance.WorkedHours, 0.001)
	assert.Equal(t, attendance.StatusPending, result.Attendance.Status)
	assert.Nil(t, result.Alert)
	assert.Nil(t, result.Fraud)
}

func TestCheckOut_Twice(t *testing.T) {
	f := newFixture(t, checkInAt)
	ctx := authedCtx(t, f.employeeID)
	d := testDevice("Chrome", "Windows")

	_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{Device: d, IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	_, err = f.svc.CheckOut(ctx, attendance.CheckOutRequest{Device: d, IPAddress: "10.0.0.1"})
	require.NoError(t, err)

	_, err = f.svc.CheckOut(ctx, attendance.CheckOutRequest{Device: d, IPAddress: "10.0.0.1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestCheckOut_SameDayDeviceChange(t *testing.T) {
	f := newFixture(t, checkInAt)
	ctx := authedCtx(t, f.employeeID)

	_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{Device: testDevice("Chrome", "Windows"), IPAddress: "10.0.0.1"})
	require.NoError(t, err)

	f.svc.now = func() time.Time { return checkInAt.Add(8 * time.Hour) }
	result, err := f.svc.CheckOut(ctx, attendance.CheckOutRequest{Device: testDevice("Firefox", "Linux"), IPAddress: "10.0.0.2"})
	require.NoError(t, err)

	assert.True(t, result.Attendance.HasDeviceAlert)
	assert.True(t, result.Attendance.HasIPAlert)
	require.NotNil(t, result.Fraud)
	assert.True(t, result.Fraud.Detected)
}

func TestCheckOut_FlagsAccumulate(t *testing.T) {
	// Check-in flagged against history; a clean checkout must not clear
	// the flags.
	f := newFixture(t, checkInAt)
	today := startOfDay(checkInAt)
	prior := priorRecord(today.AddDate(0, 0, -1), testDevice("Chrome", "Windows"), "10.0.0.1")
	prior.UserID = f.employeeID
	_, err := f.repo.CreateForDay(context.Background(), prior)
	require.NoError(t, err)

	ctx := authedCtx(t, f.employeeID)
	d := testDevice("Firefox", "Linux")
	inResult, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{Device: d, IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	require.True(t, inResult.Attendance.HasDeviceAlert)

	// Checkout from the same device/IP as this morning's check-in.
	f.svc.now = func() time.Time { return checkInAt.Add(8 * time.Hour) }
	outResult, err := f.svc.CheckOut(ctx, attendance.CheckOutRequest{Device: d, IPAddress: "10.0.0.1"})
	require.NoError(t, err)

	assert.True(t, outResult.Attendance.HasDeviceAlert)
}

func TestCheckOut_EarlyAlertAppendsToCheckInAlert(t *testing.T) {
	f := newFixture(t, checkInAt.Add(10*time.Minute))
	f.settings.settings = settings.Settings{
		DefaultCheckInTime:  strPtr("09:00"),
		DefaultCheckOutTime: strPtr("17:00"),
	}
	ctx := authedCtx(t, f.employeeID)
	d := testDevice("Chrome", "Windows")

	_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{Device: d, IPAddress: "10.0.0.1"})
	require.NoError(t, err)

	f.svc.now = func() time.Time { return startOfDay(checkInAt).Add(16 * time.Hour) }
	result, err := f.svc.CheckOut(ctx, attendance.CheckOutRequest{Device: d, IPAddress: "10.0.0.1"})
	require.NoError(t, err)

	require.NotNil(t, result.Attendance.CheckInLateMinutes)
	assert.Equal(t, 10, *result.Attendance.CheckInLateMinutes)
	require.NotNil(t, result.Attendance.CheckOutEarlyMinutes)
	assert.Equal(t, 60, *result.Attendance.CheckOutEarlyMinutes)
	require.NotNil(t, result.Attendance.TimeAlertMessage)
	assert.Contains(t, *result.Attendance.TimeAlertMessage, "late")
	assert.Contains(t, *result.Attendance.TimeAlertMessage, "early")
}

func TestPreCheckFraud_DoesNotMutate(t *testing.T) {
	f := newFixture(t, checkInAt)
	ctx := authedCtx(t, f.employeeID)

	verdict, err := f.svc.PreCheckFraud(ctx, attendance.PreCheckRequest{
		Type:      attendance.PreCheckTypeCheckIn,
		Device:    testDevice("Chrome", "Windows"),
		IPAddress: "10.0.0.1",
	})
	require.NoError(t, err)

	assert.False(t, verdict.IsFraud)
	assert.Empty(t, f.repo.records)
	assert.Zero(t, f.repo.updates)
}

func TestPreCheckFraud_CheckOutIncludesSameDay(t *testing.T) {
	f := newFixture(t, checkInAt)
	ctx := authedCtx(t, f.employeeID)

	_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{Device: testDevice("Chrome", "Windows"), IPAddress: "10.0.0.1"})
	require.NoError(t, err)

	verdict, err := f.svc.PreCheckFraud(ctx, attendance.PreCheckRequest{
		Type:      attendance.PreCheckTypeCheckOut,
		Device:    testDevice("Firefox", "Linux"),
		IPAddress: "10.0.0.1",
	})
	require.NoError(t, err)

	assert.True(t, verdict.Has(attendance.ReasonDeviceMismatchToday))
}

func TestPreCheckFraud_InvalidType(t *testing.T) {
	f := newFixture(t, checkInAt)
	ctx := authedCtx(t, f.employeeID)

	_, err := f.svc.PreCheckFraud(ctx, attendance.PreCheckRequest{Type: "bogus"})
	assert.ErrorIs(t, err, attendance.ErrInvalidPreCheckType)
}

func TestGetToday_NilWhenNoRecord(t *testing.T) {
	f := newFixture(t, checkInAt)
	ctx := authedCtx(t, f.employeeID)

	record, err := f.svc.GetToday(ctx)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestGetToday_AfterCheckIn(t *testing.T) {
	f := newFixture(t, checkInAt)
	ctx := authedCtx(t, f.employeeID)

	_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{Device: testDevice("Chrome", "Windows"), IPAddress: "10.0.0.1"})
	require.NoError(t, err)

	record, err := f.svc.GetToday(ctx)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, startOfDay(checkInAt).Format("2006-01-02"), record.Date)
}

func TestGetMyHistory_Pagination(t *testing.T) {
	f := newFixture(t, checkInAt)
	today := startOfDay(checkInAt)
	for i := 1; i <= 5; i++ {
		rec := priorRecord(today.AddDate(0, 0, -i), testDevice("Chrome", "Windows"), "10.0.0.1")
		rec.UserID = f.employeeID
		_, err := f.repo.CreateForDay(context.Background(), rec)
		require.NoError(t, err)
	}

	ctx := authedCtx(t, f.employeeID)
	result, err := f.svc.GetMyHistory(ctx, attendance.HistoryFilter{Page: 1, Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(5), result.TotalCount)
	assert.Equal(t, 3, result.TotalPages)
	assert.Len(t, result.Attendances, 2)
}

func TestGetMyHistory_InvalidDates(t *testing.T) {
	f := newFixture(t, checkInAt)
	ctx := authedCtx(t, f.employeeID)

	_, err := f.svc.GetMyHistory(ctx, attendance.HistoryFilter{
		StartDate: strPtr("2024-03-10"),
		EndDate:   strPtr("2024-03-01"),
		Page:      1,
		Limit:     20,
	})
	assert.Error(t, err)
}

func TestMarkAbsentees(t *testing.T) {
	f := newFixture(t, checkInAt)
	yesterday := startOfDay(checkInAt).AddDate(0, 0, -1)

	// A second employee who did check in yesterday.
	attendedID := uuid.New().String()
	f.users.users[attendedID] = user.User{ID: attendedID, Name: "Eve", Role: user.RoleEmployee, IsActive: true}
	rec := priorRecord(yesterday, testDevice("Chrome", "Windows"), "10.0.0.1")
	rec.UserID = attendedID
	_, err := f.repo.CreateForDay(context.Background(), rec)
	require.NoError(t, err)

	marked, err := f.svc.MarkAbsentees(context.Background(), yesterday)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	absent, err := f.repo.GetByUserAndDay(context.Background(), f.employeeID, yesterday)
	require.NoError(t, err)
	require.NotNil(t, absent)
	assert.Equal(t, attendance.StatusAbsent, absent.Status)

	// Idempotent on rerun.
	marked, err = f.svc.MarkAbsentees(context.Background(), yesterday)
	require.NoError(t, err)
	assert.Zero(t, marked)
}
