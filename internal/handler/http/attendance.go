package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/handler/http/response"
	"github.com/attendly/attendance-backend-go/internal/pkg/device"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	PreCheckFraud(w http.ResponseWriter, r *http.Request)
	GetToday(w http.ResponseWriter, r *http.Request)
	GetMyHistory(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

type checkActionResponse struct {
	Attendance attendance.AttendanceResponse `json:"attendance"`
	Alert      *attendance.AlertPayload      `json:"alert,omitempty"`
	Fraud      *attendance.FraudPayload      `json:"fraud,omitempty"`
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest

	// Body is optional; fraud_reason is its only field.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	req.Device, req.IPAddress = device.FromRequest(r)

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check-in successful", checkActionResponse{
		Attendance: result.Attendance,
		Alert:      result.Alert,
		Fraud:      result.Fraud,
	})
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckOutRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	req.Device, req.IPAddress = device.FromRequest(r)

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check-out successful", checkActionResponse{
		Attendance: result.Attendance,
		Alert:      result.Alert,
		Fraud:      result.Fraud,
	})
}

// PreCheckFraud implements AttendanceHandler.
func (h *attendanceHandlerImpl) PreCheckFraud(w http.ResponseWriter, r *http.Request) {
	req := attendance.PreCheckRequest{
		Type: r.URL.Query().Get("type"),
	}
	if req.Type == "" {
		req.Type = attendance.PreCheckTypeCheckIn
	}
	req.Device, req.IPAddress = device.FromRequest(r)

	verdict, err := h.attendanceService.PreCheckFraud(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.FraudPayload{
		Detected:       verdict.IsFraud,
		HasDeviceAlert: verdict.HasDeviceAlert,
		HasIPAlert:     verdict.HasIPAlert,
		Message:        verdict.Message(),
		Alerts:         verdict.Alerts,
	})
}

// GetToday implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetToday(w http.ResponseWriter, r *http.Request) {
	record, err := h.attendanceService.GetToday(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// GetMyHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyHistory(w http.ResponseWriter, r *http.Request) {
	filter := attendance.HistoryFilter{
		Page:  1,
		Limit: 20,
	}

	q := r.URL.Query()
	if v := q.Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := q.Get("end_date"); v != "" {
		filter.EndDate = &v
	}
	if v := q.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}

	result, err := h.attendanceService.GetMyHistory(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Attendances, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}
