package handler

import (
	"fmt"

	"swingbot/internal/util"

	"github.com/gofiber/fiber/v2"
)

type TradeHandler struct {
	tr TradeHistoryRetriever
	pm PriceMaintainer
}

func NewTradeHandler(tr TradeHistoryRetriever, pm PriceMaintainer) *TradeHandler {
	return &TradeHandler{
		tr: tr,
		pm: pm,
	}
}

func (h *TradeHandler) InitRoute(app *fiber.App) {

	router := app.Group("/trades")
	router.Get("/:date?", h.Trades)

	// 잘못 수집된 일봉 정리용. 삭제 후 수집 잡을 다시 돌리는 용도.
	app.Delete("/prices/:date", h.DeletePrices)
}

func (h *TradeHandler) Trades(c *fiber.Ctx) error {

	date := c.Params("date", util.Today())
	if !dateCheck(date) {
		return fmt.Errorf("파라미터 유효성 검사 시 오류 발생. 올바르지 않은 date 포맷. %s", date)
	}

	histories, err := h.tr.RetrieveTradeHistories(date)
	if err != nil {
		return fmt.Errorf("RetrieveTradeHistories 오류 발생. %w", err)
	}

	resp := make([]TradeHistoryResponse, 0, len(histories))
	for _, t := range histories {
		resp = append(resp, TradeHistoryResponse{
			Code:       t.Code,
			Date:       t.Date,
			Time:       t.Time,
			Type:       t.Type,
			Qty:        t.Qty,
			TradePrice: t.TradePrice,
			Note:       t.Note,
		})
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *TradeHandler) DeletePrices(c *fiber.Ctx) error {

	date := c.Params("date")
	if !dateCheck(date) {
		return fmt.Errorf("파라미터 유효성 검사 시 오류 발생. 올바르지 않은 date 포맷. %s", date)
	}

	deleted, err := h.pm.DeletePriceBars(date)
	if err != nil {
		return fmt.Errorf("DeletePriceBars 오류 발생. %w", err)
	}

	return c.Status(fiber.StatusOK).SendString(fmt.Sprintf("%d건 삭제", deleted))
}
