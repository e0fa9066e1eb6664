package swingbot

import (
	"context"
	"testing"

	m "swingbot/internal/model"
	"swingbot/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 관문을 전부 통과하고 총점도 기준을 넘는 우량 종목 프로필
func strongRow(code string) m.ScoringRow {
	return m.ScoringRow{
		Code: code, Name: "테스트전자", Market: "KOSPI",
		Grs: 20, BsopPrfiInrt: 15, RsrvRate: 800, LbltRate: 60, // sheet 4 (+순이익 1 = 5)
		StckClpr:             10_000,
		DryyHgprVrssPrprRate: -35, DryyLwprVrssPrprRate: 5, // price 5
		Ma5: 9_000, Ma20: 9_500, Ma60: 9_800, // trend 5 (ma60>ma20, clpr>=ma20, clpr>=ma5)
		LstnStcn: 60_000_000, // cap = 6000억 → 5
		FrgnNtbyQty: 2_000_000, PgtrNtbyQty: 500_000, AcmlVol: 10_000_000, // volRate 20
		FrgnHldnQty: 12_000_000, // holdingRate 20 → buy 5
		Per:         4, Pbr: 0.8, // per 5, pbr 5
	}
}

// 채점은 전일 일봉 존재를 전제로 함
func withYesterdayBar(stg *StorageMock, code string) {
	stg.SavePriceBars([]m.PriceBar{{Code: code, Date: util.Yesterday(), StckClpr: 10_000}})
}

func withIncome(stg *StorageMock, code string, ntin int64) {
	stg.SaveIncomeRows([]m.IncomeRow{{
		SheetKey: m.SheetKey{Code: code, SheetCl: string(m.SheetAnnual), YearMonth: "202412"},
		ThtrNtin: decimal.NewFromInt(ntin),
	}})
}

func TestRunScoringJob_SelectsCandidate(t *testing.T) {

	stg := NewStorageMock()
	stg.scoringRows = []m.ScoringRow{strongRow("005930")}
	withYesterdayBar(stg, "005930")
	withIncome(stg, "005930", 1_000_000)
	bot, ch := newTestBot(stg, NewBrokerMock(), TradeConfig{})

	err := bot.RunScoringJob(context.Background())
	require.NoError(t, err)

	cards, _ := stg.RetrieveScoreCards(util.Today())
	require.Len(t, cards, 1)
	card := cards[0]
	assert.Equal(t, 5, card.SheetScore)
	assert.Equal(t, 5, card.PriceScore)
	assert.Equal(t, 5, card.TrendScore)
	assert.Equal(t, 5, card.CapScore)
	assert.Equal(t, 5, card.BuyScore)
	assert.Equal(t, 5, card.PerScore)
	assert.Equal(t, 5, card.PbrScore)
	assert.Equal(t, card.SheetScore+card.TrendScore+card.PriceScore+card.KpiScore+
		card.BuyScore+card.CapScore+card.PerScore+card.PbrScore, card.TotalScore)

	info, _ := stg.RetrieveTradeInfo("005930", util.Today())
	require.NotNil(t, info)
	assert.Equal(t, m.Yes, info.Candidate)
	assert.Equal(t, m.StrategySwing, info.Strategy)
	assert.Equal(t, "swing target", info.Note)

	// 선정 알림 발송 확인
	assert.NotEmpty(t, ch)
}

func TestRunScoringJob_SheetGateRejects(t *testing.T) {

	stg := NewStorageMock()
	row := strongRow("005930")
	row.Grs, row.BsopPrfiInrt, row.RsrvRate = 0, 0, 0 // sheet 2 (lblt + 순이익)
	stg.scoringRows = []m.ScoringRow{row}
	withYesterdayBar(stg, "005930")
	withIncome(stg, "005930", 1_000_000)
	bot, _ := newTestBot(stg, NewBrokerMock(), TradeConfig{})

	require.NoError(t, bot.RunScoringJob(context.Background()))

	cards, _ := stg.RetrieveScoreCards(util.Today())
	assert.Empty(t, cards)
}

func TestRunScoringJob_TrendGateRejects(t *testing.T) {

	stg := NewStorageMock()
	row := strongRow("005930")
	row.Ma60 = 0 // MA 미산출 종목은 추세 0점으로 탈락
	stg.scoringRows = []m.ScoringRow{row}
	withYesterdayBar(stg, "005930")
	withIncome(stg, "005930", 1_000_000)
	bot, _ := newTestBot(stg, NewBrokerMock(), TradeConfig{})

	require.NoError(t, bot.RunScoringJob(context.Background()))

	cards, _ := stg.RetrieveScoreCards(util.Today())
	assert.Empty(t, cards)
}

func TestRunScoringJob_NoPriceData(t *testing.T) {

	// 전일 일봉이 없으면 조인 이전에 차단하고 알림
	stg := NewStorageMock()
	stg.scoringRows = []m.ScoringRow{strongRow("005930")}
	bot, ch := newTestBot(stg, NewBrokerMock(), TradeConfig{})

	err := bot.RunScoringJob(context.Background())
	assert.Error(t, err)
	assert.Contains(t, <-ch, "전일 시세 데이터가 없어")

	cards, _ := stg.RetrieveScoreCards(util.Today())
	assert.Empty(t, cards)
}

func TestPriceScore(t *testing.T) {

	tests := []struct {
		name     string
		hgprRate float64
		lwprRate float64
		want     int
	}{
		{"깊은 낙폭", -35, 0, 5},
		{"중간 낙폭", -15, 0, 3},
		{"낙폭과 급등 상쇄", -35, 35, 2},
		{"급등만 있으면 0으로 고정", 5, 35, 0},
		{"고점 경신", 5, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := m.ScoringRow{DryyHgprVrssPrprRate: tt.hgprRate, DryyLwprVrssPrprRate: tt.lwprRate}
			assert.Equal(t, tt.want, priceScore(&row))
		})
	}
}

func TestPerPbrScore(t *testing.T) {

	assert.Equal(t, 1, perScore(0))
	assert.Equal(t, 1, perScore(-3))
	assert.Equal(t, 5, perScore(4.9))
	assert.Equal(t, 4, perScore(9))
	assert.Equal(t, 3, perScore(14))
	assert.Equal(t, 2, perScore(19))
	assert.Equal(t, 1, perScore(25))

	assert.Equal(t, 1, pbrScore(0))
	assert.Equal(t, 5, pbrScore(0.9))
	assert.Equal(t, 4, pbrScore(1.5))
	assert.Equal(t, 3, pbrScore(2.5))
	assert.Equal(t, 2, pbrScore(3.5))
	assert.Equal(t, 1, pbrScore(4.5))
}

func TestBuyScore_ZeroDenominator(t *testing.T) {

	// 거래량/상장주수 0이면 비율 0으로 계산되어 최하점
	row := m.ScoringRow{FrgnNtbyQty: 100, PgtrNtbyQty: 100, AcmlVol: 0, FrgnHldnQty: 100, LstnStcn: 0}
	assert.Equal(t, 1, buyScore(&row))
}

func TestCapScore(t *testing.T) {

	// 상장주수 x 종가 밴드별 점수
	assert.Equal(t, 1, capScore(&m.ScoringRow{LstnStcn: 1_000_000, StckClpr: 5_000}))    // 50억
	assert.Equal(t, 2, capScore(&m.ScoringRow{LstnStcn: 1_000_000, StckClpr: 20_000}))   // 200억
	assert.Equal(t, 3, capScore(&m.ScoringRow{LstnStcn: 1_000_000, StckClpr: 70_000}))   // 700억
	assert.Equal(t, 4, capScore(&m.ScoringRow{LstnStcn: 10_000_000, StckClpr: 20_000}))  // 2000억
	assert.Equal(t, 5, capScore(&m.ScoringRow{LstnStcn: 10_000_000, StckClpr: 100_000})) // 1조
}

func TestRsiScore(t *testing.T) {

	// 14일 연속 하락 후 횡보 → 과매도 시그널
	down := make([]m.PriceBar, 0, 30)
	price := 10_000
	for i := 0; i < 30; i++ {
		down = append(down, m.PriceBar{StckClpr: price})
		price -= 100
	}
	assert.Equal(t, 2, rsiScore(down, kpiPeriod))

	// 연속 상승 → 과매수 시그널
	up := make([]m.PriceBar, 0, 30)
	price = 10_000
	for i := 0; i < 30; i++ {
		up = append(up, m.PriceBar{StckClpr: price})
		price += 100
	}
	assert.Equal(t, -2, rsiScore(up, kpiPeriod))

	// 데이터 부족이면 중립
	assert.Equal(t, 0, rsiScore(up[:10], kpiPeriod))
}

func TestObvScore(t *testing.T) {

	up := make([]m.PriceBar, 0, 20)
	price := 10_000
	for i := 0; i < 20; i++ {
		up = append(up, m.PriceBar{StckClpr: price, AcmlVol: 1_000})
		price += 100
	}
	assert.Equal(t, 2, obvScore(up, kpiPeriod))

	down := make([]m.PriceBar, 0, 20)
	price = 10_000
	for i := 0; i < 20; i++ {
		down = append(down, m.PriceBar{StckClpr: price, AcmlVol: 1_000})
		price -= 100
	}
	assert.Equal(t, -2, obvScore(down, kpiPeriod))

	flat := []m.PriceBar{{StckClpr: 100}, {StckClpr: 100}}
	assert.Equal(t, 0, obvScore(flat, kpiPeriod))
}
