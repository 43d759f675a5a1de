package models

// Quota usage thresholds, as a percentage of total space
const (
	QuotaWarningPercent  = 80.0
	QuotaCriticalPercent = 95.0
)

// QuotaLevel categorizes how full the user's storage is
type QuotaLevel string

const (
	QuotaOK       QuotaLevel = "ok"
	QuotaWarning  QuotaLevel = "warning"
	QuotaCritical QuotaLevel = "critical"
)

// QuotaState holds the used and total storage for the current user, in MB.
// It is replaced wholesale on every successful fetch from the backend; the
// backend owns the authoritative values.
type QuotaState struct {
	UsedMB  float64 `json:"used"`
	TotalMB float64 `json:"total"`
}

// Percentage returns used space as a percentage of total
func (q QuotaState) Percentage() float64 {
	if q.TotalMB <= 0 {
		return 0
	}
	return q.UsedMB / q.TotalMB * 100
}

// AvailableMB returns the remaining space. It can go negative when the local
// state is stale; callers must tolerate that until the next refresh corrects it.
func (q QuotaState) AvailableMB() float64 {
	return q.TotalMB - q.UsedMB
}

// Level returns the usage category for UI warning states
func (q QuotaState) Level() QuotaLevel {
	switch p := q.Percentage(); {
	case p >= QuotaCriticalPercent:
		return QuotaCritical
	case p >= QuotaWarningPercent:
		return QuotaWarning
	default:
		return QuotaOK
	}
}

// QuotaExceededContext describes a rejected upload: the file that did not fit
// and the space that was available when admission was checked. It lives only
// until the exceeded dialog closes or a fresh quota refresh supersedes it.
type QuotaExceededContext struct {
	FileName    string  `json:"file_name"`
	FileSizeMB  float64 `json:"file_size_mb"`
	AvailableMB float64 `json:"available_mb"`
}
