// handlers/task_routes.go
package handlers

import (
	"errors"

	"task-earn-system/middleware"
	"task-earn-system/models"
	"task-earn-system/services"
	"task-earn-system/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupTaskRoutes(app *fiber.App, verification *services.VerificationService) {
	// Public catalog — the task list is static and needs no user context.
	app.Get("/tasks", func(c *fiber.Ctx) error {
		return c.JSON(models.Catalog)
	})

	app.Get("/tasks/survey/questions", func(c *fiber.Ctx) error {
		return c.JSON(models.SurveyQuestions)
	})

	app.Get("/tasks/:id", func(c *fiber.Ctx) error {
		task, ok := models.TaskByID(c.Params("id"))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "task not found"})
		}
		return c.JSON(task)
	})

	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Post("/tasks/:id/visit", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		taskID := c.Params("id")

		if err := verification.MarkVisited(c.Context(), userID, taskID); err != nil {
			if errors.Is(err, services.ErrUnknownTask) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "task not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to record visit",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"task_id": taskID, "visited": true})
	})

	secured.Post("/tasks/survey/answers", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Answers []int `json:"answers"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		result, err := verification.SubmitSurvey(c.Context(), userID, req.Answers)
		if err != nil {
			if errors.Is(err, services.ErrSurveyIncomplete) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "answer all survey questions"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "survey submission failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(result)
	})

	secured.Post("/tasks/:id/submit", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		taskID := c.Params("id")

		task, ok := models.TaskByID(taskID)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "task not found"})
		}

		var proof services.Proof
		if err := c.BodyParser(&proof); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		// Malformed proof never reaches the decision rule.
		if proof.Screenshot != nil && *proof.Screenshot != "" && !utils.ValidProofRef(*proof.Screenshot) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "screenshot must be a valid URL"})
		}

		// Link tasks require the link to have been opened first.
		if task.Link != "" && !models.IsOnboarding(task.ID) {
			prog, err := verification.GetProgress(c.Context(), userID)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to load progress",
					"cause": err.Error(),
				})
			}
			if !prog.VisitedTasks[task.ID] {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "visit the task link before verifying"})
			}
		}

		result, err := verification.SubmitTask(c.Context(), userID, taskID, proof)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNoUser):
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "no authenticated user"})
			case errors.Is(err, services.ErrAlreadyFinalized):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "verification already finalized"})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "verification failed",
					"cause": err.Error(),
				})
			}
		}
		return c.JSON(result)
	})

	secured.Get("/tasks/submissions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		subs, err := verification.ListSubmissions(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch submissions",
				"cause": err.Error(),
			})
		}
		return c.JSON(subs)
	})

	secured.Get("/user/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		prog, err := verification.GetProgress(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load progress",
				"cause": err.Error(),
			})
		}
		return c.JSON(prog)
	})

	secured.Get("/events/verification", verification.StreamVerificationEvents)
}
