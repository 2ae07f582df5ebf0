package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/notification"
	"github.com/attendly/attendance-backend-go/internal/domain/settings"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// DefaultHistoryWindow bounds how many prior records feed the fraud
// evaluation. Recency/performance trade-off, overridable via config.
const DefaultHistoryWindow = 30

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	settings.SettingsRepository
	notificationSvc notification.Service
	historyWindow   int
	now             func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	settingsRepo settings.SettingsRepository,
	notificationSvc notification.Service,
	historyWindow int,
) attendance.AttendanceService {
	if historyWindow <= 0 {
		historyWindow = DefaultHistoryWindow
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		UserRepository:       userRepo,
		SettingsRepository:   settingsRepo,
		notificationSvc:      notificationSvc,
		historyWindow:        historyWindow,
		now:                  time.Now,
	}
}

func userIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}

	return userID, nil
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckActionResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckActionResult{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.CheckActionResult{}, err
	}

	now := s.now()
	today := startOfDay(now)

	usr, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return attendance.CheckActionResult{}, err
	}

	stg, err := s.SettingsRepository.Get(ctx)
	if err != nil {
		return attendance.CheckActionResult{}, fmt.Errorf("failed to get settings: %w", err)
	}

	existing, err := s.AttendanceRepository.GetByUserAndDay(ctx, userID, today)
	if err != nil {
		return attendance.CheckActionResult{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing != nil && existing.CheckIn != nil {
		return attendance.CheckActionResult{}, attendance.ErrAlreadyCheckedIn
	}

	priors, err := s.AttendanceRepository.FindPriorRecords(ctx, userID, today, s.historyWindow)
	if err != nil {
		return attendance.CheckActionResult{}, fmt.Errorf("failed to load prior records: %w", err)
	}

	verdict := Evaluate(req.Device, req.IPAddress, priors, stg.AllowedIPs)
	timeAlert := lateCheckInAlert(usr, stg, now, today)

	event := &attendance.Event{Time: now, IPAddress: req.IPAddress, Device: req.Device}

	var record attendance.Attendance
	if existing != nil {
		record = *existing
	} else {
		record = attendance.Attendance{UserID: userID, Date: today}
	}
	record.CheckIn = event
	record.Status = attendance.StatusPending
	record.HasDeviceAlert = verdict.HasDeviceAlert
	record.HasIPAlert = verdict.HasIPAlert
	record.Alerts = verdict.Alerts

	var timeAlertMessage string
	if timeAlert != nil {
		record.HasTimeAlert = true
		record.CheckInLateMinutes = &timeAlert.Minutes
		record.TimeAlertMessage = &timeAlert.Message
		timeAlertMessage = timeAlert.Message
	}
	if combined := joinMessages(verdict.Message(), timeAlertMessage); combined != "" {
		record.AlertMessage = &combined
	}
	if verdict.IsFraud && req.FraudReason != nil {
		record.FraudReason = req.FraudReason
	}

	if existing != nil {
		if err := s.AttendanceRepository.Update(ctx, record); err != nil {
			return attendance.CheckActionResult{}, fmt.Errorf("failed to update attendance record: %w", err)
		}
	} else {
		record, err = s.AttendanceRepository.CreateForDay(ctx, record)
		if err != nil {
			// A concurrent check-in may have won the create.
			return attendance.CheckActionResult{}, err
		}
	}

	s.dispatchNotifications(ctx, usr, record, notification.TypeCheckIn, *event, verdict, timeAlert)

	return s.buildResult(record, verdict, timeAlert), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckActionResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckActionResult{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.CheckActionResult{}, err
	}

	now := s.now()
	today := startOfDay(now)

	usr, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return attendance.CheckActionResult{}, err
	}

	stg, err := s.SettingsRepository.Get(ctx)
	if err != nil {
		return attendance.CheckActionResult{}, fmt.Errorf("failed to get settings: %w", err)
	}

	existing, err := s.AttendanceRepository.GetByUserAndDay(ctx, userID, today)
	if err != nil {
		return attendance.CheckActionResult{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing == nil || existing.CheckIn == nil {
		return attendance.CheckActionResult{}, attendance.ErrNotCheckedIn
	}
	if existing.CheckOut != nil {
		return attendance.CheckActionResult{}, attendance.ErrAlreadyCheckedOut
	}

	priors, err := s.AttendanceRepository.FindPriorRecords(ctx, userID, today, s.historyWindow)
	if err != nil {
		return attendance.CheckActionResult{}, fmt.Errorf("failed to load prior records: %w", err)
	}

	// Two additive layers: same-day comparison against the check-in
	// leg, then the historical evaluation. Flags only accumulate on
	// top of what check-in already set.
	verdict := evaluateSameDay(existing.CheckIn, req.Device, req.IPAddress, stg.AllowedIPs)
	verdict = verdict.Merge(Evaluate(req.Device, req.IPAddress, priors, stg.AllowedIPs))

	carried := attendance.FraudVerdict{
		HasDeviceAlert: existing.HasDeviceAlert,
		HasIPAlert:     existing.HasIPAlert,
		IsFraud:        existing.HasDeviceAlert || existing.HasIPAlert,
		Alerts:         existing.Alerts,
	}
	merged := carried.Merge(verdict)

	timeAlert := earlyCheckOutAlert(usr, stg, now, today)

	record := *existing
	record.CheckOut = &attendance.Event{Time: now, IPAddress: req.IPAddress, Device: req.Device}
	workedHours := roundHours(now.Sub(existing.CheckIn.Time))
	record.WorkedHours = &workedHours
	// Checkout never auto-approves; an admin resolves the record later.
	record.Status = attendance.StatusPending
	record.HasDeviceAlert = merged.HasDeviceAlert
	record.HasIPAlert = merged.HasIPAlert
	record.Alerts = merged.Alerts

	var timeAlertMessage string
	if existing.TimeAlertMessage != nil {
		timeAlertMessage = *existing.TimeAlertMessage
	}
	if timeAlert != nil {
		record.HasTimeAlert = true
		record.CheckOutEarlyMinutes = &timeAlert.Minutes
		timeAlertMessage = joinMessages(timeAlertMessage, timeAlert.Message)
	}
	if timeAlertMessage != "" {
		record.TimeAlertMessage = &timeAlertMessage
	}
	if combined := joinMessages(merged.Message(), timeAlertMessage); combined != "" {
		record.AlertMessage = &combined
	}
	if merged.IsFraud && req.FraudReason != nil {
		record.FraudReason = req.FraudReason
	}

	if err := s.AttendanceRepository.Update(ctx, record); err != nil {
		return attendance.CheckActionResult{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	s.dispatchNotifications(ctx, usr, record, notification.TypeCheckOut, *record.CheckOut, merged, timeAlert)

	return s.buildResult(record, merged, timeAlert), nil
}

// PreCheckFraud implements attendance.AttendanceService. Read-only dry
// run of the evaluation; must not create, update or delete any record.
func (s *AttendanceServiceImpl) PreCheckFraud(ctx context.Context, req attendance.PreCheckRequest) (attendance.FraudVerdict, error) {
	if err := req.Validate(); err != nil {
		return attendance.FraudVerdict{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.FraudVerdict{}, err
	}

	today := startOfDay(s.now())

	stg, err := s.SettingsRepository.Get(ctx)
	if err != nil {
		return attendance.FraudVerdict{}, fmt.Errorf("failed to get settings: %w", err)
	}

	priors, err := s.AttendanceRepository.FindPriorRecords(ctx, userID, today, s.historyWindow)
	if err != nil {
		return attendance.FraudVerdict{}, fmt.Errorf("failed to load prior records: %w", err)
	}

	verdict := Evaluate(req.Device, req.IPAddress, priors, stg.AllowedIPs)

	if req.Type == attendance.PreCheckTypeCheckOut {
		today_, err := s.AttendanceRepository.GetByUserAndDay(ctx, userID, today)
		if err != nil {
			return attendance.FraudVerdict{}, fmt.Errorf("failed to get today's attendance: %w", err)
		}
		if today_ != nil && today_.CheckIn != nil {
			verdict = verdict.Merge(evaluateSameDay(today_.CheckIn, req.Device, req.IPAddress, stg.AllowedIPs))
		}
	}

	return verdict, nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context) (*attendance.AttendanceResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	record, err := s.AttendanceRepository.GetByUserAndDay(ctx, userID, startOfDay(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if record == nil {
		return nil, nil
	}

	resp := mapAttendanceToResponse(*record)
	return &resp, nil
}

// GetMyHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyHistory(ctx context.Context, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.AttendanceRepository.ListByUser(ctx, userID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance history: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, mapAttendanceToResponse(record))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Attendances: responses,
	}, nil
}

// MarkAbsentees implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAbsentees(ctx context.Context, day time.Time) (int, error) {
	day = startOfDay(day)

	employees, err := s.UserRepository.ListActiveEmployees(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active employees: %w", err)
	}

	withRecord, err := s.AttendanceRepository.ListUserIDsWithRecordOn(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("failed to list attended users: %w", err)
	}
	seen := make(map[string]struct{}, len(withRecord))
	for _, id := range withRecord {
		seen[id] = struct{}{}
	}

	marked := 0
	for _, emp := range employees {
		if _, ok := seen[emp.ID]; ok {
			continue
		}
		_, err := s.AttendanceRepository.CreateForDay(ctx, attendance.Attendance{
			UserID: emp.ID,
			Date:   day,
			Status: attendance.StatusAbsent,
		})
		if err != nil {
			// A racing create means the record exists after all.
			if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
				continue
			}
			return marked, fmt.Errorf("failed to create absent record: %w", err)
		}
		marked++
	}

	return marked, nil
}

// dispatchNotifications fans the event out to all active admins, plus
// the employee themselves when a time alert fired. Failures are logged
// by the notification service and never affect the committed record.
func (s *AttendanceServiceImpl) dispatchNotifications(
	ctx context.Context,
	usr user.User,
	record attendance.Attendance,
	eventType notification.NotificationType,
	event attendance.Event,
	verdict attendance.FraudVerdict,
	timeAlert *attendance.TimeAlert,
) {
	if s.notificationSvc == nil {
		return
	}

	hasAnyAlert := record.HasDeviceAlert || record.HasIPAlert || record.HasTimeAlert

	action := "checked in"
	title := "Check-in recorded"
	alertTitle := "Check-in with alerts"
	if eventType == notification.TypeCheckOut {
		action = "checked out"
		title = "Check-out recorded"
		alertTitle = "Check-out with alerts"
	}

	notifType := eventType
	if hasAnyAlert {
		notifType = notification.TypeAlert
		title = alertTitle
	}

	var combined string
	if record.AlertMessage != nil {
		combined = *record.AlertMessage
	}
	message := fmt.Sprintf("%s %s at %s. IP: %s. Device: %s on %s.",
		usr.Name, action, event.Time.Format("2006-01-02 15:04:05"),
		event.IPAddress, event.Device.Browser, event.Device.OS)
	if record.WorkedHours != nil && eventType == notification.TypeCheckOut {
		message = fmt.Sprintf("%s Worked hours: %.2f.", message, *record.WorkedHours)
	}
	message = joinMessages(message, combined)

	data := map[string]interface{}{
		"attendance_id":  record.ID,
		"ip_address":     event.IPAddress,
		"device":         event.Device,
		"timestamp":      event.Time,
		"has_time_alert": record.HasTimeAlert,
	}
	if record.CheckInLateMinutes != nil {
		data["check_in_late_minutes"] = *record.CheckInLateMinutes
	}
	if record.CheckOutEarlyMinutes != nil {
		data["check_out_early_minutes"] = *record.CheckOutEarlyMinutes
	}

	admins, err := s.UserRepository.ListActiveAdmins(ctx)
	if err == nil {
		reqs := make([]notification.CreateNotificationRequest, 0, len(admins))
		for _, admin := range admins {
			reqs = append(reqs, notification.CreateNotificationRequest{
				RecipientID: admin.ID,
				Type:        notifType,
				Title:       title,
				Message:     message,
				Data:        data,
			})
		}
		s.notificationSvc.QueueBulkNotification(ctx, reqs)
	}

	if timeAlert != nil {
		employeeTitle := "Late check-in"
		if timeAlert.Reason == attendance.ReasonEarlyCheckOut {
			employeeTitle = "Early check-out"
		}
		s.notificationSvc.QueueNotification(ctx, notification.CreateNotificationRequest{
			RecipientID: usr.ID,
			Type:        notification.TypeAlert,
			Title:       employeeTitle,
			Message:     timeAlert.Message,
			Data: map[string]interface{}{
				"attendance_id": record.ID,
				"minutes":       timeAlert.Minutes,
				"timestamp":     event.Time,
			},
		})
	}
}

func (s *AttendanceServiceImpl) buildResult(record attendance.Attendance, verdict attendance.FraudVerdict, timeAlert *attendance.TimeAlert) attendance.CheckActionResult {
	result := attendance.CheckActionResult{
		Attendance: mapAttendanceToResponse(record),
	}

	if record.HasDeviceAlert || record.HasIPAlert || record.HasTimeAlert {
		alert := &attendance.AlertPayload{
			HasDeviceAlert: record.HasDeviceAlert,
			HasIPAlert:     record.HasIPAlert,
			HasTimeAlert:   record.HasTimeAlert,
		}
		if record.AlertMessage != nil {
			alert.Message = *record.AlertMessage
		}
		if record.HasTimeAlert {
			ta := &attendance.TimeAlertPayload{
				CheckInLateMinutes:   record.CheckInLateMinutes,
				CheckOutEarlyMinutes: record.CheckOutEarlyMinutes,
			}
			if record.TimeAlertMessage != nil {
				ta.Message = *record.TimeAlertMessage
			}
			alert.TimeAlert = ta
		}
		result.Alert = alert
	}

	if verdict.IsFraud {
		result.Fraud = &attendance.FraudPayload{
			Detected:       true,
			HasDeviceAlert: verdict.HasDeviceAlert,
			HasIPAlert:     verdict.HasIPAlert,
			Message:        verdict.Message(),
			Alerts:         verdict.Alerts,
		}
	}

	return result
}

func mapAttendanceToResponse(record attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:                   record.ID,
		UserID:               record.UserID,
		UserName:             record.UserName,
		Date:                 record.Date.Format("2006-01-02"),
		CheckIn:              attendance.NewEventResponse(record.CheckIn),
		CheckOut:             attendance.NewEventResponse(record.CheckOut),
		WorkedHours:          record.WorkedHours,
		Status:               record.Status,
		HasDeviceAlert:       record.HasDeviceAlert,
		HasIPAlert:           record.HasIPAlert,
		AlertMessage:         record.AlertMessage,
		HasTimeAlert:         record.HasTimeAlert,
		TimeAlertMessage:     record.TimeAlertMessage,
		CheckInLateMinutes:   record.CheckInLateMinutes,
		CheckOutEarlyMinutes: record.CheckOutEarlyMinutes,
		FraudReason:          record.FraudReason,
		CreatedAt:            record.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:            record.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}

func joinMessages(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out == "" {
			out = p
		} else {
			out = out + " " + p
		}
	}
	return out
}
