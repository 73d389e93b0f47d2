package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// HoursPerDay is the fixed length of the activity series.
const HoursPerDay = 24

// InvalidHour marks a bucket whose hour could not be parsed.
const InvalidHour Hour = -1

// Hour is an hour-of-day as delivered by the stats backend. The backend
// emits either a JSON number or a zero-padded string such as "07".
type Hour int

// UnmarshalJSON accepts a number or a numeric string. Anything else decodes
// to InvalidHour so the bucket is dropped downstream instead of failing the
// whole payload.
func (h *Hour) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*h = InvalidHour
		return nil
	}
	if data[0] != '"' {
		// Numbers go through their value, so 1e1 is hour 10 and 7.9 is 7.
		f, ok := decodeNumber(data)
		if !ok || f < math.MinInt32 || f > math.MaxInt32 {
			*h = InvalidHour
			return nil
		}
		*h = Hour(math.Trunc(f))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*h = InvalidHour
		return nil
	}
	*h = parseHour(s)
	return nil
}

func decodeNumber(data []byte) (float64, bool) {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// decodeCount reads a count given as a JSON number or numeric string.
// Fractions are truncated toward zero. ok is false for anything else.
func decodeCount(data []byte) (int64, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0, false
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, false
		}
		data = []byte(strings.TrimSpace(s))
	}
	f, ok := decodeNumber(data)
	if !ok || f <= math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(math.Trunc(f)), true
}

// parseHour parses the leading integer prefix of a string ("07", "7.9",
// "12h" and "1e1" parse as 7, 7, 12 and 1); no digits yields InvalidHour.
func parseHour(raw string) Hour {
	raw = strings.TrimSpace(raw)
	end := 0
	if end < len(raw) && (raw[end] == '-' || raw[end] == '+') {
		end++
	}
	digits := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digits {
		return InvalidHour
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return InvalidHour
	}
	return Hour(n)
}

// Valid reports whether h indexes the activity series.
func (h Hour) Valid() bool {
	return h >= 0 && h < HoursPerDay
}

// HourlyBucket is one hour's aggregated count.
type HourlyBucket struct {
	Hour  Hour  `json:"hour"`
	Count int64 `json:"count"`
}

// UnmarshalJSON accepts the count as a number or numeric string; fractions
// are truncated and an unreadable count is zero, so one odd bucket never
// fails the whole payload.
func (b *HourlyBucket) UnmarshalJSON(data []byte) error {
	var raw struct {
		Hour  Hour            `json:"hour"`
		Count json.RawMessage `json:"count"`
	}
	raw.Hour = InvalidHour
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Hour = raw.Hour
	b.Count, _ = decodeCount(raw.Count)
	return nil
}

// DashboardStats is the payload served by GET /api/dashboard_stats.
// HourlyData is nil when the backend omitted the field; WebhookCount is nil
// when the backend did not report a count.
type DashboardStats struct {
	HourlyData   []HourlyBucket `json:"hourly_data"`
	WebhookCount *int64         `json:"webhook_count,omitempty"`
}

// UnmarshalJSON reads webhook_count leniently like bucket counts. An
// unreadable count is treated as not reported.
func (s *DashboardStats) UnmarshalJSON(data []byte) error {
	var raw struct {
		HourlyData   []HourlyBucket  `json:"hourly_data"`
		WebhookCount json.RawMessage `json:"webhook_count"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.HourlyData = raw.HourlyData
	s.WebhookCount = nil
	if n, ok := decodeCount(raw.WebhookCount); ok {
		s.WebhookCount = &n
	}
	return nil
}

// ActivitySeries holds one count per hour of day.
type ActivitySeries [HoursPerDay]int64

// DeviceShare is the categorical composition shown in the device chart.
// Labels[i] describes Values[i].
type DeviceShare struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// NotificationKind selects the alert style.
type NotificationKind string

const (
	NotificationInfo    NotificationKind = "info"
	NotificationSuccess NotificationKind = "success"
	NotificationWarning NotificationKind = "warning"
	NotificationError   NotificationKind = "error"
)

// ParseNotificationKind normalizes a caller-supplied kind, defaulting to info.
func ParseNotificationKind(s string) NotificationKind {
	switch NotificationKind(strings.ToLower(strings.TrimSpace(s))) {
	case NotificationSuccess:
		return NotificationSuccess
	case NotificationWarning:
		return NotificationWarning
	case NotificationError:
		return NotificationError
	default:
		return NotificationInfo
	}
}

// AlertClass returns the style class suffix for the kind. Errors render as
// "danger"; other kinds map to themselves.
func (k NotificationKind) AlertClass() string {
	if k == NotificationError {
		return "danger"
	}
	if k == "" {
		return string(NotificationInfo)
	}
	return string(k)
}

// Notification is a transient alert shown in the notification container.
type Notification struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"kind"`
	Class     string           `json:"class"`
	CreatedAt time.Time        `json:"created_at"`
}

// SchedulerState is the polling scheduler's state.
type SchedulerState int

const (
	SchedulerStopped SchedulerState = iota
	SchedulerRunning
)

func (s SchedulerState) String() string {
	if s == SchedulerRunning {
		return "running"
	}
	return "stopped"
}
