package courseController

import (
	"lingo/authoring"
	"lingo/middleware"
	"lingo/services"
	"lingo/validators"

	"github.com/gofiber/fiber/v2"
)

func saveDiscount(c *fiber.Ctx, discountID uint) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	versionID, err := validators.ParamID(c, "versionId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	in, ok := c.Locals("validatedDiscount").(*authoring.DiscountInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}

	d, err := services.App.Discounts.CreateOrUpdate(c.UserContext(), actor, versionID, discountID, *in)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if discountID == 0 {
		return middleware.JsonResponse(c, fiber.StatusCreated, "Discount created successfully.", d)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Discount updated successfully.", d)
}

func CreateDiscount(c *fiber.Ctx) error {
	return saveDiscount(c, 0)
}

func UpdateDiscount(c *fiber.Ctx) error {
	discountID, err := validators.ParamID(c, "discountId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return saveDiscount(c, discountID)
}

func ListDiscounts(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	versionID, err := validators.ParamID(c, "versionId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := services.App.Versions.Authorize(c.UserContext(), actor, versionID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	discounts, err := services.App.Discounts.List(c.UserContext(), versionID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Discount list.", discounts)
}

func DeleteDiscount(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	discountID, err := validators.ParamID(c, "discountId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := services.App.Discounts.Delete(c.UserContext(), actor, discountID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Discount deleted successfully.", nil)
}
