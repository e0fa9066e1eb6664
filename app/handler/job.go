package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type JobHandler struct {
	jr JobRetriever
	jl JobLauncher
}

func NewJobHandler(jr JobRetriever, jl JobLauncher) *JobHandler {
	return &JobHandler{
		jr: jr,
		jl: jl,
	}
}

func (h *JobHandler) InitRoute(app *fiber.App) {

	router := app.Group("/jobs")
	router.Get("/", h.Jobs)
	router.Post("/launch", h.LaunchJob)
}

func (h *JobHandler) Jobs(c *fiber.Ctx) error {

	jobs := h.jr.Jobs()

	jobResponse := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		jobResponse = append(jobResponse, JobResponse{
			Id:          j.Id,
			Name:        j.Name,
			Title:       j.Title,
			Description: j.Description,
		})
	}

	return c.Status(fiber.StatusOK).JSON(jobResponse)
}

func (h *JobHandler) LaunchJob(c *fiber.Ctx) error {

	var param JobLaunchRequest
	err := c.BodyParser(&param)
	if err != nil {
		return fmt.Errorf("파라미터 BodyParse 시 오류 발생. %w", err)
	}

	err = validCheck(&param)
	if err != nil {
		return fmt.Errorf("파라미터 유효성 검사 시 오류 발생. %w", err)
	}

	err = h.jl.LaunchJob(param.Name)
	if err != nil {
		return fmt.Errorf("job launch 시 오류 발생. %w", err)
	}

	return c.Status(fiber.StatusOK).SendString("job 실행 성공")
}
