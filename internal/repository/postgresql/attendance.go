package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/attendly/attendance-backend-go/internal/pkg/device"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, user_id, date,
	check_in_time, check_in_ip, check_in_device,
	check_out_time, check_out_ip, check_out_device,
	worked_hours, status,
	has_device_alert, has_ip_alert, alerts, alert_message,
	has_time_alert, time_alert_message, check_in_late_minutes, check_out_early_minutes,
	fraud_reason, created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// scanAttendance reads one attendance row. The event legs are stored
// flattened (time, ip, device jsonb per leg) and reassembled here.
func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	var checkInTime, checkOutTime *time.Time
	var checkInIP, checkOutIP *string
	var checkInDevice, checkOutDevice *device.Descriptor

	err := row.Scan(
		&att.ID, &att.UserID, &att.Date,
		&checkInTime, &checkInIP, &checkInDevice,
		&checkOutTime, &checkOutIP, &checkOutDevice,
		&att.WorkedHours, &att.Status,
		&att.HasDeviceAlert, &att.HasIPAlert, &att.Alerts, &att.AlertMessage,
		&att.HasTimeAlert, &att.TimeAlertMessage, &att.CheckInLateMinutes, &att.CheckOutEarlyMinutes,
		&att.FraudReason, &att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}

	if checkInTime != nil {
		att.CheckIn = &attendance.Event{Time: *checkInTime}
		if checkInIP != nil {
			att.CheckIn.IPAddress = *checkInIP
		}
		if checkInDevice != nil {
			att.CheckIn.Device = *checkInDevice
		}
	}
	if checkOutTime != nil {
		att.CheckOut = &attendance.Event{Time: *checkOutTime}
		if checkOutIP != nil {
			att.CheckOut.IPAddress = *checkOutIP
		}
		if checkOutDevice != nil {
			att.CheckOut.Device = *checkOutDevice
		}
	}

	return att, nil
}

func eventColumns(e *attendance.Event) (*time.Time, *string, *device.Descriptor) {
	if e == nil {
		return nil, nil, nil
	}
	return &e.Time, &e.IPAddress, &e.Device
}

// CreateForDay implements attendance.AttendanceRepository. The insert
// races on the unique (user_id, date) index; when a concurrent create
// wins, the loser sees no returned row and gets ErrAlreadyCheckedIn.
func (a *attendanceRepository) CreateForDay(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			user_id, date,
			check_in_time, check_in_ip, check_in_device,
			worked_hours, status,
			has_device_alert, has_ip_alert, alerts, alert_message,
			has_time_alert, time_alert_message, check_in_late_minutes,
			fraud_reason
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
		ON CONFLICT (user_id, date) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	checkInTime, checkInIP, checkInDevice := eventColumns(att.CheckIn)
	alerts := att.Alerts
	if alerts == nil {
		alerts = []attendance.AlertDetail{}
	}

	err := q.QueryRow(ctx, query,
		att.UserID,
		att.Date,
		checkInTime,
		checkInIP,
		checkInDevice,
		att.WorkedHours,
		att.Status,
		att.HasDeviceAlert,
		att.HasIPAlert,
		alerts,
		att.AlertMessage,
		att.HasTimeAlert,
		att.TimeAlertMessage,
		att.CheckInLateMinutes,
		att.FraudReason,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// GetByUserAndDay implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDay(ctx context.Context, userID string, day time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances
		WHERE user_id = $1 AND date = $2
		LIMIT 1
	`, attendanceColumns)

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, day))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}

	return &att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			check_in_time = $2, check_in_ip = $3, check_in_device = $4,
			check_out_time = $5, check_out_ip = $6, check_out_device = $7,
			worked_hours = $8, status = $9,
			has_device_alert = $10, has_ip_alert = $11, alerts = $12, alert_message = $13,
			has_time_alert = $14, time_alert_message = $15,
			check_in_late_minutes = $16, check_out_early_minutes = $17,
			fraud_reason = $18,
			updated_at = NOW()
		WHERE id = $1
	`

	checkInTime, checkInIP, checkInDevice := eventColumns(att.CheckIn)
	checkOutTime, checkOutIP, checkOutDevice := eventColumns(att.CheckOut)
	alerts := att.Alerts
	if alerts == nil {
		alerts = []attendance.AlertDetail{}
	}

	tag, err := q.Exec(ctx, query,
		att.ID,
		checkInTime, checkInIP, checkInDevice,
		checkOutTime, checkOutIP, checkOutDevice,
		att.WorkedHours, att.Status,
		att.HasDeviceAlert, att.HasIPAlert, alerts, att.AlertMessage,
		att.HasTimeAlert, att.TimeAlertMessage,
		att.CheckInLateMinutes, att.CheckOutEarlyMinutes,
		att.FraudReason,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// FindPriorRecords implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindPriorRecords(ctx context.Context, userID string, beforeDay time.Time, limit int) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances
		WHERE user_id = $1
		  AND date < $2
		  AND (check_in_time IS NOT NULL OR check_out_time IS NOT NULL)
		ORDER BY date DESC, created_at DESC
		LIMIT $3
	`, attendanceColumns)

	rows, err := q.Query(ctx, query, userID, beforeDay, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query prior records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prior record: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read prior records: %w", err)
	}

	return records, nil
}

// ListByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	conditions := []string{"user_id = $1"}
	args := []interface{}{userID}

	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM attendances WHERE %s", where)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendances
		WHERE %s
		ORDER BY date DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, where, len(args)-1, len(args))

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read attendance records: %w", err)
	}

	return records, total, nil
}

// ListUserIDsWithRecordOn implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListUserIDsWithRecordOn(ctx context.Context, day time.Time) ([]string, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, `SELECT user_id FROM attendances WHERE date = $1`, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query attended users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attended users: %w", err)
	}

	return ids, nil
}
