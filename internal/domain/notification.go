package domain

import "time"

// NotificationType задаёт визуальную семантику уведомления.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// Notification — in-app запись для конкретного получателя.
// Создаётся только диспетчером уведомлений; получатель меняет лишь флаг Read.
type Notification struct {
	ID          string
	RecipientID string
	Title       string
	Message     string
	Type        NotificationType
	Read        bool
	// Metadata — непрозрачный мешок со ссылками на заказ, суммой и т.п.
	Metadata  map[string]string
	CreatedAt time.Time
}

// Role — роль пользователя витрины.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
	RoleAdmin    Role = "admin"
)

// Audience описывает целевую аудиторию объявления.
type Audience string

const (
	AudienceAll       Audience = "all"
	AudienceCustomers Audience = "customers"
	AudienceAgents    Audience = "agents"
	AudienceAdmins    Audience = "admins"
)

// Announcement — системное объявление; показывается подходящей аудитории
// как виртуальное всегда-непрочитанное уведомление.
type Announcement struct {
	ID             string
	Title          string
	Message        string
	Type           NotificationType
	TargetAudience Audience
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// VisibleTo сообщает, должно ли объявление показываться роли.
func (a *Announcement) VisibleTo(role Role) bool {
	if !a.Active {
		return false
	}
	switch a.TargetAudience {
	case AudienceAll:
		return true
	case AudienceCustomers:
		return role == RoleCustomer
	case AudienceAgents:
		return role == RoleAgent
	case AudienceAdmins:
		return role == RoleAdmin
	}
	return false
}

// ActivityLogEntry — append-only запись аудита привилегированных
// разрушительных операций. Приложение её только пишет.
type ActivityLogEntry struct {
	ID          string
	Action      string
	PerformedBy string
	Details     string
	Timestamp   time.Time
}
