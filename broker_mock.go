package swingbot

import (
	"context"

	m "swingbot/internal/model"
	"swingbot/kis"
)

// BrokerMock은 테스트용 증권사 어댑터. 주문은 기록만 하고 항상 접수 처리함.
type BrokerMock struct {
	quotes     map[string]map[string]any
	daily      map[string][]map[string]any
	charts     map[string][]*kis.IndexData
	sheets     map[string][]map[string]any // kind+cycle 키
	balance    *kis.TwoArrayData
	chartCalls []bool // HistoryChart 호출별 todayOnly 기록
	orderErr   error
	orders     []OrderCall
	err        error
}

type OrderCall struct {
	Side  string
	Code  string
	Qty   int
	Price int
}

func NewBrokerMock() *BrokerMock {
	return &BrokerMock{
		quotes: map[string]map[string]any{},
		daily:  map[string][]map[string]any{},
		charts: map[string][]*kis.IndexData{},
		sheets: map[string][]map[string]any{},
		balance: &kis.TwoArrayData{
			RtCd: "0",
		},
	}
}

func (b *BrokerMock) SpotQuote(ctx context.Context, code string) (map[string]any, error) {
	if b.err != nil {
		return nil, b.err
	}
	q, ok := b.quotes[code]
	if !ok {
		return map[string]any{}, nil
	}
	return q, nil
}

func (b *BrokerMock) HistoryChart(ctx context.Context, code string, todayOnly bool) ([]*kis.IndexData, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.chartCalls = append(b.chartCalls, todayOnly)
	return b.charts[code], nil
}

func (b *BrokerMock) FinancialSheet(ctx context.Context, kind, code, cycle string) (*kis.SheetData, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &kis.SheetData{RtCd: "0", Output: b.sheets[kind+cycle]}, nil
}

func (b *BrokerMock) DailyPriceSeries(ctx context.Context, code string) (*kis.SheetData, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &kis.SheetData{RtCd: "0", Output: b.daily[code]}, nil
}

func (b *BrokerMock) AccountBalance(ctx context.Context) (*kis.TwoArrayData, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.balance, nil
}

func (b *BrokerMock) PlaceOrder(ctx context.Context, side, code string, qty, price int) (string, error) {
	if b.orderErr != nil {
		return "", b.orderErr
	}
	b.orders = append(b.orders, OrderCall{Side: side, Code: code, Qty: qty, Price: price})
	return "0000117057", nil
}

// ListerMock은 거래소 상장 조회 목
type ListerMock struct {
	listings map[string][]m.Ticker
	err      error
}

func (l *ListerMock) Listings(ctx context.Context, market string) ([]m.Ticker, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.listings[market], nil
}
