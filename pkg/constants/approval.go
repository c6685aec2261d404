package constants

// --- СТАТУСЫ СОГЛАСОВАНИЯ (Совпадает с кодами в БД) ---
const (
	ApprovalStatusDraft    = "draft"
	ApprovalStatusWaiting  = "waiting"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

// Терминальные статусы: из них нет переходов.
var TerminalApprovalStatuses = []string{
	ApprovalStatusApproved,
	ApprovalStatusRejected,
}

func IsTerminalApprovalStatus(code string) bool {
	for _, s := range TerminalApprovalStatuses {
		if s == code {
			return true
		}
	}
	return false
}

// --- ДЕЙСТВИЯ В ИСТОРИИ СОГЛАСОВАНИЯ ---
const (
	HistoryActionRequested = "requested"
	HistoryActionApproved  = "approved"
	HistoryActionRejected  = "rejected"
)

// --- ТИПЫ ЭТАПОВ ---
const (
	ApprovalTypeMandatory = "mandatory"
	ApprovalTypeOptional  = "optional"
	ApprovalTypeParallel  = "parallel"
)

// --- ТИПЫ WEBSOCKET-СООБЩЕНИЙ ---
const (
	WSTypeApprovalNotification = "APPROVAL_NOTIFICATION"
)

// --- ТИПЫ ДОКУМЕНТОВ ---
const (
	DocumentTypePurchase = "purchase"
	DocumentTypeSale     = "sale"
)
