package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/blusmotif/storefront/internal/domain"
	"github.com/blusmotif/storefront/pkg/validator"
)

// NotificationHandler отдаёт in-app уведомления получателя и объявления.
type NotificationHandler struct {
	notifications domain.NotificationRepository
	announcements domain.AnnouncementRepository
}

func NewNotificationHandler(notifications domain.NotificationRepository, announcements domain.AnnouncementRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, announcements: announcements}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	recipientID := getActorID(c)
	limit := c.QueryInt("limit", 50)

	notifications, err := h.notifications.ListByRecipient(recipientID, limit)
	if err != nil {
		return respondError(c, err)
	}

	// Активные объявления для роли показываются рядом с личными
	// уведомлениями как всегда-непрочитанные.
	announcements, err := h.announcements.ListForRole(getActorRole(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"announcements": announcements,
	})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.notifications.MarkRead(c.Params("id"), getActorID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "notification marked as read"})
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	count, err := h.notifications.UnreadCount(getActorID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"unread": count})
}

type announcementRequest struct {
	Title          string `json:"title" validate:"required"`
	Message        string `json:"message" validate:"required"`
	Type           string `json:"type" validate:"required,oneof=info success warning error"`
	TargetAudience string `json:"target_audience" validate:"required,oneof=all customers agents admins"`
	Active         bool   `json:"active"`
}

func (h *NotificationHandler) CreateAnnouncement(c *fiber.Ctx) error {
	var req announcementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(req); len(errs) != 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "details": errs})
	}

	now := time.Now().UTC()
	announcement := domain.Announcement{
		ID:             uuid.NewString(),
		Title:          req.Title,
		Message:        req.Message,
		Type:           domain.NotificationType(req.Type),
		TargetAudience: domain.Audience(req.TargetAudience),
		Active:         req.Active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.announcements.Create(announcement); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"announcement": announcement})
}

func (h *NotificationHandler) ListAnnouncements(c *fiber.Ctx) error {
	announcements, err := h.announcements.ListAll()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"announcements": announcements})
}

func (h *NotificationHandler) UpdateAnnouncement(c *fiber.Ctx) error {
	existing, err := h.announcements.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	var req announcementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(req); len(errs) != 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "details": errs})
	}

	existing.Title = req.Title
	existing.Message = req.Message
	existing.Type = domain.NotificationType(req.Type)
	existing.TargetAudience = domain.Audience(req.TargetAudience)
	existing.Active = req.Active
	existing.UpdatedAt = time.Now().UTC()

	if err := h.announcements.Update(existing); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"announcement": existing})
}

func (h *NotificationHandler) DeleteAnnouncement(c *fiber.Ctx) error {
	if err := h.announcements.Delete(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "announcement deleted"})
}
