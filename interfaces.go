package swingbot

import (
	"context"

	m "swingbot/internal/model"
	"swingbot/kis"
)

// Broker는 증권사 REST 어댑터 추상화. 구현체는 kis 패키지.
type Broker interface {
	SpotQuote(ctx context.Context, code string) (map[string]any, error)
	HistoryChart(ctx context.Context, code string, todayOnly bool) ([]*kis.IndexData, error)
	FinancialSheet(ctx context.Context, kind, code, cycle string) (*kis.SheetData, error)
	DailyPriceSeries(ctx context.Context, code string) (*kis.SheetData, error)
	AccountBalance(ctx context.Context) (*kis.TwoArrayData, error)
	PlaceOrder(ctx context.Context, side, code string, qty, price int) (string, error)
}

// Lister는 거래소 상장 종목 조회. 구현체는 krx 패키지.
type Lister interface {
	Listings(ctx context.Context, market string) ([]m.Ticker, error)
}
