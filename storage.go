package swingbot

import (
	m "swingbot/internal/model"
)

type Storage interface {
	RetrieveTickers(market string) ([]m.Ticker, error)
	SaveNewTickers(tickers []m.Ticker) (int, error)

	HasPriceBar(code, date string) (bool, error)
	SavePriceBars(bars []m.PriceBar) error
	RetrievePriceBars(code string, limit int) ([]m.PriceBar, error)
	RetrieveLatestPriceBar(code string) (*m.PriceBar, error)
	HasBarsOn(date string) (bool, error)
	DeletePriceBars(date string) (int64, error)

	SaveEquitySnapshot(snap *m.EquitySnapshot) error
	SaveBalanceRows(rows []m.BalanceRow) error
	SaveIncomeRows(rows []m.IncomeRow) error
	SaveRatioRows(rows []m.RatioRow) error
	SaveProfitRows(rows []m.ProfitRow) error
	SaveOtherRows(rows []m.OtherRow) error
	RetrieveLatestIncome(code string) (*m.IncomeRow, error)

	RetrieveScoringRows(asOf string) ([]m.ScoringRow, error)
	SaveScoreCard(card *m.ScoreCard) error
	RetrieveScoreCards(date string) ([]m.ScoreCard, error)

	RetrieveTradeInfo(code, date string) (*m.TradeInfo, error)
	SaveTradeInfo(info *m.TradeInfo) error
	RetrieveCandidates(date string) ([]m.TradeInfo, error)

	RetrieveTradeStatus(code, date string) (*m.TradeStatus, error)
	RetrieveTradeStatuses(date string, dir m.TradeDirection) ([]m.TradeStatus, error)
	SaveTradeStatus(st *m.TradeStatus) error

	AppendTradeHistory(h *m.TradeHistory) error
	HasBuySubmission(code, date string) (bool, error)
	RetrieveTradeHistories(date string) ([]m.TradeHistory, error)
}
