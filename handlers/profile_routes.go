// handlers/profile_routes.go
package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"task-earn-system/middleware"
	"task-earn-system/services"
	"task-earn-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var allowedAvatarExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

func SetupProfileRoutes(app *fiber.App, profiles *services.ProfileService, referrals *services.ReferralService) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/user/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		prof, err := profiles.Get(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load profile",
				"cause": err.Error(),
			})
		}
		return c.JSON(prof)
	})

	secured.Patch("/user/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Username *string `json:"username"`
			Avatar   *string `json:"avatar"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		prof, err := profiles.UpdateDisplay(c.Context(), userID, services.DisplayFields{
			Username: req.Username,
			Avatar:   req.Avatar,
		})
		if err != nil {
			if errors.Is(err, services.ErrUsernameTooLong) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username must be 12 characters or fewer"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update profile",
				"cause": err.Error(),
			})
		}
		return c.JSON(prof)
	})

	secured.Post("/user/avatar", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		fileHeader, err := c.FormFile("avatar")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if !allowedAvatarExts[ext] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar must be png, jpg or webp"})
		}

		prof, err := profiles.Get(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load profile",
				"cause": err.Error(),
			})
		}

		frag := strings.Split(uuid.NewString(), "-")[0]
		key := fmt.Sprintf("avatars/%s-%s%s", slug.Make(prof.Username), frag, ext)

		url, err := utils.StoreAvatar(fileHeader, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to store avatar",
				"cause": err.Error(),
			})
		}

		updated, err := profiles.UpdateDisplay(c.Context(), userID, services.DisplayFields{Avatar: &url})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to save avatar reference",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"avatar": url, "profile": updated})
	})

	secured.Post("/user/withdraw", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Amount float64 `json:"amount"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		withdrawal, err := profiles.Withdraw(c.Context(), userID, req.Amount)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrBelowMinimum):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, services.ErrInsufficientBalance):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "insufficient balance"})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "withdrawal failed",
					"cause": err.Error(),
				})
			}
		}
		return c.Status(fiber.StatusCreated).JSON(withdrawal)
	})

	secured.Get("/user/referrals", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		stats, err := referrals.Stats(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load referral stats",
				"cause": err.Error(),
			})
		}
		return c.JSON(stats)
	})

	secured.Post("/user/referrals/attach", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Code string `json:"code"`
		}
		if err := c.BodyParser(&req); err != nil || req.Code == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "referral code is required"})
		}

		ref, err := referrals.Attach(c.Context(), userID, req.Code)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidReferralCode):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "referral code not found"})
			case errors.Is(err, services.ErrSelfReferral):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot use your own referral code"})
			case errors.Is(err, services.ErrAlreadyReferred):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "referral already attached"})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to attach referral",
					"cause": err.Error(),
				})
			}
		}
		return c.Status(fiber.StatusCreated).JSON(ref)
	})
}
