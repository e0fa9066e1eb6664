package handler

import (
	"fmt"

	"swingbot/internal/util"

	"github.com/gofiber/fiber/v2"
)

type ScoreHandler struct {
	sr ScoreRetriever
	cr CandidateRetriever
}

func NewScoreHandler(sr ScoreRetriever, cr CandidateRetriever) *ScoreHandler {
	return &ScoreHandler{
		sr: sr,
		cr: cr,
	}
}

func (h *ScoreHandler) InitRoute(app *fiber.App) {

	router := app.Group("/scores")
	router.Get("/candidates/:date?", h.Candidates)
	router.Get("/:date?", h.Scores)
}

func (h *ScoreHandler) Scores(c *fiber.Ctx) error {

	date := c.Params("date", util.Today())
	if !dateCheck(date) {
		return fmt.Errorf("파라미터 유효성 검사 시 오류 발생. 올바르지 않은 date 포맷. %s", date)
	}

	cards, err := h.sr.RetrieveScoreCards(date)
	if err != nil {
		return fmt.Errorf("RetrieveScoreCards 오류 발생. %w", err)
	}

	resp := make([]ScoreResponse, 0, len(cards))
	for _, card := range cards {
		resp = append(resp, ScoreResponse{
			Code:       card.Code,
			Date:       card.Date,
			SheetScore: card.SheetScore,
			TrendScore: card.TrendScore,
			PriceScore: card.PriceScore,
			KpiScore:   card.KpiScore,
			BuyScore:   card.BuyScore,
			CapScore:   card.CapScore,
			PerScore:   card.PerScore,
			PbrScore:   card.PbrScore,
			TotalScore: card.TotalScore,
		})
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *ScoreHandler) Candidates(c *fiber.Ctx) error {

	date := c.Params("date", util.Today())
	if !dateCheck(date) {
		return fmt.Errorf("파라미터 유효성 검사 시 오류 발생. 올바르지 않은 date 포맷. %s", date)
	}

	infos, err := h.cr.RetrieveCandidates(date)
	if err != nil {
		return fmt.Errorf("RetrieveCandidates 오류 발생. %w", err)
	}

	resp := make([]CandidateResponse, 0, len(infos))
	for _, info := range infos {
		resp = append(resp, CandidateResponse{
			Code:      info.Code,
			Date:      info.Date,
			Strategy:  info.Strategy,
			Candidate: info.Candidate,
			Note:      info.Note,
			Pivot:     info.Pivot,
			S1:        info.S1,
			S2:        info.S2,
			S3:        info.S3,
			R1:        info.R1,
			StckPrpr:  info.StckPrpr,
		})
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
