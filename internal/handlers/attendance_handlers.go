package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rhanierex/Gym-Management/internal/attendance"
	"github.com/rhanierex/Gym-Management/internal/membership"
	"github.com/rhanierex/Gym-Management/internal/reports"
	"github.com/rhanierex/Gym-Management/internal/services"
)

type AttendanceHandler struct {
	tracker  *attendance.Tracker
	registry *membership.Registry
}

func NewAttendanceHandler(tracker *attendance.Tracker, registry *membership.Registry) *AttendanceHandler {
	return &AttendanceHandler{tracker: tracker, registry: registry}
}

type scanRequest struct {
	// QRData is the raw scanner output, e.g. "GYM-MG123456"
	QRData string `json:"qr_data"`
}

// Scan toggles a member's attendance from a QR scanner payload. The first
// scan of a visit checks the member in, the next one checks them out.
func (h *AttendanceHandler) Scan(c echo.Context) error {
	var req scanRequest
	if err := c.Bind(&req); err != nil {
		return &membership.ValidationError{Field: "body", Reason: "malformed request body"}
	}

	memberID, err := services.ParseScanPayload(req.QRData)
	if err != nil {
		return err
	}

	result, err := h.tracker.Scan(c.Request().Context(), memberID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// ListAttendance lists attendance records, optionally filtered by
// ?date=YYYY-MM-DD and ?member= (identifier substring)
func (h *AttendanceHandler) ListAttendance(c echo.Context) error {
	var f attendance.Filter
	if raw := c.QueryParam("date"); raw != "" {
		day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return &membership.ValidationError{Field: "date", Reason: "must be formatted YYYY-MM-DD"}
		}
		f.Date = &day
	}
	f.MemberID = c.QueryParam("member")

	records, err := h.tracker.ListByFilter(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listPayload{Count: len(records), Items: records})
}

// TodaySummary returns the day counters shown above the attendance table
func (h *AttendanceHandler) TodaySummary(c echo.Context) error {
	summary, err := h.tracker.TodaySummary(c.Request().Context(), time.Now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// ExportAttendance streams the filtered attendance log as an xlsx workbook
func (h *AttendanceHandler) ExportAttendance(c echo.Context) error {
	ctx := c.Request().Context()

	var f attendance.Filter
	if raw := c.QueryParam("date"); raw != "" {
		day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return &membership.ValidationError{Field: "date", Reason: "must be formatted YYYY-MM-DD"}
		}
		f.Date = &day
	}
	f.MemberID = c.QueryParam("member")

	records, err := h.tracker.ListByFilter(ctx, f)
	if err != nil {
		return err
	}

	// Resolve display names once so the workbook builder stays offline
	names := make(map[string]string, len(records))
	for _, rec := range records {
		if _, seen := names[rec.MemberID]; seen {
			continue
		}
		member, ferr := h.registry.FindByID(ctx, rec.MemberID)
		if ferr != nil {
			names[rec.MemberID] = rec.MemberID
			continue
		}
		names[rec.MemberID] = member.Name
	}

	now := time.Now()
	buf, err := reports.BuildAttendanceWorkbook(records, func(memberID string) string {
		if name, ok := names[memberID]; ok {
			return name
		}
		return memberID
	}, now)
	if err != nil {
		return err
	}

	filename := "attendance_" + now.Format("20060102_150405") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
