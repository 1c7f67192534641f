package models

import "time"

// NotificationState is the delivery state ("estado").
type NotificationState string

const (
	NotificationPending NotificationState = "pendiente"
	NotificationSent    NotificationState = "enviada"
	NotificationRead    NotificationState = "leida"
)

// Visibility decides who can still see a notification. HiddenGlobally
// dominates: once set, nothing moves the notification out of it.
type Visibility string

const (
	VisibilityVisible        Visibility = "visible"
	VisibilityHiddenByUser   Visibility = "hidden_by_user"
	VisibilityHiddenGlobally Visibility = "hidden_globally"
)

// MaxMessageLength bounds Notification.Message.
const MaxMessageLength = 150

type Notification struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	Message       string            `gorm:"size:150;not null" json:"message"`
	UsuarioID     uint              `gorm:"not null;index" json:"usuario_id"`
	Usuario       *User             `gorm:"foreignKey:UsuarioID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	SenderID      *uint             `gorm:"index" json:"sender_id"`
	Sender        *User             `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Estado        NotificationState `gorm:"size:20;not null" json:"estado"`
	Visibility    Visibility        `gorm:"size:20;not null;index" json:"-"`
	UserDeletedAt *time.Time        `json:"deleted_at"`
	CreatedAt     time.Time         `json:"created_at"`
}

// NewNotification builds a pending, visible notification.
func NewNotification(recipientID uint, senderID *uint, message string) Notification {
	return Notification{
		Message:    message,
		UsuarioID:  recipientID,
		SenderID:   senderID,
		Estado:     NotificationPending,
		Visibility: VisibilityVisible,
	}
}

func (n Notification) VisibleToRecipient() bool { return n.Visibility == VisibilityVisible }

func (n Notification) DeletedByUser() bool { return n.UserDeletedAt != nil }

func (n Notification) DeletedGlobally() bool { return n.Visibility == VisibilityHiddenGlobally }

// HideForRecipient applies a recipient delete. It reports whether anything
// changed; hidden notifications are left untouched.
func (n *Notification) HideForRecipient(now time.Time) bool {
	if n.Visibility != VisibilityVisible {
		return false
	}
	n.Visibility = VisibilityHiddenByUser
	if n.UserDeletedAt == nil {
		n.UserDeletedAt = &now
	}
	return true
}

// HideGlobally applies an admin delete.
func (n *Notification) HideGlobally() bool {
	if n.Visibility == VisibilityHiddenGlobally {
		return false
	}
	n.Visibility = VisibilityHiddenGlobally
	return true
}

// MarkRead moves the notification to the read state.
func (n *Notification) MarkRead() bool {
	if n.Estado == NotificationRead {
		return false
	}
	n.Estado = NotificationRead
	return true
}
