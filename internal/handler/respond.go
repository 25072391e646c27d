package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/blusmotif/storefront/internal/domain"
)

// getActorID достаёт идентификатор действующего пользователя из заголовка.
// Авторизация выполняется внешним слоем; ядро доверяет уже проверенному актору.
func getActorID(c *fiber.Ctx) string {
	if actor := c.Get("X-Actor-Id"); actor != "" {
		return actor
	}
	return "system"
}

func getActorRole(c *fiber.Ctx) domain.Role {
	switch domain.Role(c.Get("X-Actor-Role")) {
	case domain.RoleAdmin:
		return domain.RoleAdmin
	case domain.RoleAgent:
		return domain.RoleAgent
	default:
		return domain.RoleCustomer
	}
}

// respondError переводит доменные ошибки в HTTP-статусы.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case domain.IsNotFound(err):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrCategorySlugTaken):
		status = fiber.StatusConflict
	case domain.IsVersionConflict(err):
		status = fiber.StatusConflict
	case errors.Is(err, domain.ErrPaymentGateway):
		status = fiber.StatusBadGateway
	case isValidationError(err):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrCustomerRequired,
		domain.ErrItemsRequired,
		domain.ErrItemProductRequired,
		domain.ErrItemQtyInvalid,
		domain.ErrItemPriceInvalid,
		domain.ErrDeliveryAddressRequired,
		domain.ErrPickupLocationRequired,
		domain.ErrDeliveryMethodInvalid,
		domain.ErrPaymentMethodInvalid,
		domain.ErrSizeUnavailable,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
