package service

// Status lines shown in the status region. They are fixed zh-TW strings.
const (
	StatusLocating         = "正在取得位置..."
	StatusSearching        = "正在尋找附近餐廳..."
	StatusNoResults        = "附近找不到餐廳，請稍後再試。"
	StatusSearchFailed     = "發生錯誤，或定位權限未開啟。"
	StatusPermissionDenied = "定位權限未開啟，請允許存取位置。"
	StatusTimeout          = "取得位置逾時，請再試一次。"
	StatusUnsupported      = "此瀏覽器不支援定位功能。"
	StatusUnavailable      = "目前無法取得位置，請稍後再試。"
	StatusBusy             = "輪盤正在轉動中，請稍候。"
)

// Outcome is the terminal state of one pick.
type Outcome string

const (
	OutcomeWinner           Outcome = "winner"
	OutcomeBusy             Outcome = "busy"
	OutcomePermissionDenied Outcome = "permission_denied"
	OutcomeTimeout          Outcome = "timeout"
	OutcomeUnsupported      Outcome = "unsupported"
	OutcomeUnavailable      Outcome = "unavailable"
	OutcomeSearchFailed     Outcome = "search_failed"
	OutcomeNoResults        Outcome = "no_results"
	OutcomeCancelled        Outcome = "cancelled"
)

// Outcomes lists every outcome in a stable order, e.g. for stats output.
var Outcomes = []Outcome{
	OutcomeWinner,
	OutcomeBusy,
	OutcomePermissionDenied,
	OutcomeTimeout,
	OutcomeUnsupported,
	OutcomeUnavailable,
	OutcomeSearchFailed,
	OutcomeNoResults,
	OutcomeCancelled,
}

// Status returns the status line for a failed outcome, or "" for the
// outcomes that do not end with a message.
func (o Outcome) Status() string {
	switch o {
	case OutcomeBusy:
		return StatusBusy
	case OutcomePermissionDenied:
		return StatusPermissionDenied
	case OutcomeTimeout:
		return StatusTimeout
	case OutcomeUnsupported:
		return StatusUnsupported
	case OutcomeUnavailable:
		return StatusUnavailable
	case OutcomeSearchFailed:
		return StatusSearchFailed
	case OutcomeNoResults:
		return StatusNoResults
	default:
		return ""
	}
}
