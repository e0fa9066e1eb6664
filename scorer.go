package swingbot

import (
	"context"
	"fmt"

	m "swingbot/internal/model"
	"swingbot/internal/util"
)

// 선별 기준값
const (
	minSheetScore       = 3
	minPriceScore       = 0
	minTrendScore       = 3
	minCapScore         = 3
	totalScoreThreshold = 30

	kpiPeriod = 14
)

const billion = 100_000_000

// RunScoringJob은 재무/시세 조인 결과 전 종목을 채점하고, 총점이 기준을 넘는
// 종목을 당일 매수 후보로 등록함. 전일 시세가 비어 있으면 채점하지 않음.
func (b *SwingBot) RunScoringJob(ctx context.Context) error {
	b.lg.Info().Msg("scoring start")
	today := util.Today()

	// 수집이 선행되지 않았으면 채점 불가
	ok, err := b.stg.HasBarsOn(util.Yesterday())
	if err != nil {
		return err
	}
	if !ok {
		b.notify("[스코어링] 전일 시세 데이터가 없어 채점을 건너뜁니다.")
		return fmt.Errorf("scoring: no price bars on %s", util.Yesterday())
	}

	rows, err := b.stg.RetrieveScoringRows(util.Yesterday())
	if err != nil {
		return err
	}

	found := 0
	for i := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if b.scoreRow(&rows[i], today) {
			found++
		}
	}

	b.lg.Info().Int("scanned", len(rows)).Int("found", found).Msg("scoring done")
	b.notify(fmt.Sprintf("[스코어링] %d종목 중 %d종목이 스윙 후보로 선정되었습니다.", len(rows), found))
	return nil
}

// scoreRow는 단일 종목 채점. 중간 관문에서 미달하면 바로 탈락시킴.
func (b *SwingBot) scoreRow(row *m.ScoringRow, date string) bool {

	sheetScore := b.sheetScore(row)
	if sheetScore < minSheetScore {
		return false
	}

	priceScore := priceScore(row)
	if priceScore < minPriceScore {
		return false
	}

	trendScore := trendScore(row)
	if trendScore < minTrendScore {
		return false
	}

	capScore := capScore(row)
	if capScore < minCapScore {
		return false
	}

	buyScore := buyScore(row)
	perScore := perScore(row.Per)
	pbrScore := pbrScore(row.Pbr)
	kpiScore := b.kpiScore(row.Code)

	total := sheetScore + trendScore + priceScore + buyScore + kpiScore + capScore + perScore + pbrScore
	if total <= totalScoreThreshold {
		return false
	}

	b.lg.Info().Str("code", row.Code).Str("name", row.Name).Int("score", total).Msg("swing item found")

	if err := b.stg.SaveScoreCard(&m.ScoreCard{
		Code:       row.Code,
		Date:       date,
		SheetScore: sheetScore,
		TrendScore: trendScore,
		PriceScore: priceScore,
		KpiScore:   kpiScore,
		BuyScore:   buyScore,
		CapScore:   capScore,
		PerScore:   perScore,
		PbrScore:   pbrScore,
		TotalScore: total,
	}); err != nil {
		b.lg.Error().Err(err).Str("code", row.Code).Msg("score card save failed")
		return false
	}

	if err := b.markTradeInfo(row.Code, date, m.Yes, m.StrategySwing, "swing target"); err != nil {
		b.lg.Error().Err(err).Str("code", row.Code).Msg("trade info mark failed")
		return false
	}
	return true
}

// sheetScore는 성장성/수익성/안정성 지표당 1점씩
func (b *SwingBot) sheetScore(row *m.ScoringRow) int {
	score := 0
	if row.Grs > 10 {
		score++
	}
	if row.BsopPrfiInrt > 10 {
		score++
	}
	if row.RsrvRate > 500 {
		score++
	}
	if row.LbltRate > 50 {
		score++
	}
	if b.latestNetIncome(row.Code) > 0 {
		score++
	}
	return score
}

func (b *SwingBot) latestNetIncome(code string) float64 {
	income, err := b.stg.RetrieveLatestIncome(code)
	if err != nil || income == nil {
		return 0
	}
	return income.ThtrNtin.InexactFloat64()
}

// priceScore는 연중 고점 대비 낙폭 가점에서 저점 대비 급등 감점을 뺀 값. 음수는 0으로.
func priceScore(row *m.ScoringRow) int {
	score := highPriceScore(row.DryyHgprVrssPrprRate) - lowPricePenalty(row.DryyLwprVrssPrprRate)
	if score < 0 {
		return 0
	}
	return score
}

func highPriceScore(rate float64) int {
	switch {
	case rate < -30:
		return 5
	case rate < -20:
		return 4
	case rate < -10:
		return 3
	case rate < -5:
		return 2
	case rate < 0:
		return 1
	}
	return 0
}

func lowPricePenalty(rate float64) int {
	switch {
	case rate > 30:
		return 3
	case rate > 20:
		return 2
	case rate > 10:
		return 1
	}
	return 0
}

// trendScore는 이동평균 배열 상태 평가. MA가 비어 있으면 0.
func trendScore(row *m.ScoringRow) int {
	if row.Ma5 == 0 || row.Ma20 == 0 || row.Ma60 == 0 {
		return 0
	}

	clpr := float64(row.StckClpr)
	score := 0
	if row.Ma60 > row.Ma20 {
		score += 2
	}
	if clpr >= row.Ma20 {
		score += 2
	}
	if clpr >= row.Ma5 {
		score++
	}
	return score
}

// buyScore는 외국인/프로그램 수급 평가
func buyScore(row *m.ScoringRow) int {
	volRate := max(
		rateOf(row.FrgnNtbyQty, float64(row.AcmlVol)),
		rateOf(row.PgtrNtbyQty, float64(row.AcmlVol)),
	)
	holdingRate := rateOf(row.FrgnHldnQty, row.LstnStcn)

	switch {
	case volRate > 10 && holdingRate > 10:
		return 5
	case volRate > 10 || holdingRate > 10:
		return 4
	case volRate > 5 && holdingRate > 5:
		return 3
	case volRate > 5 || holdingRate > 5:
		return 2
	}
	return 1
}

// capScore는 시가총액 규모 점수. 소형주 배제 목적.
func capScore(row *m.ScoringRow) int {
	mktCap := row.LstnStcn * float64(row.StckClpr)
	switch {
	case mktCap < 100*billion:
		return 1
	case mktCap < 500*billion:
		return 2
	case mktCap < 1000*billion:
		return 3
	case mktCap < 5000*billion:
		return 4
	}
	return 5
}

func perScore(per float64) int {
	switch {
	case per <= 0:
		return 1
	case per < 5:
		return 5
	case per < 10:
		return 4
	case per < 15:
		return 3
	case per < 20:
		return 2
	}
	return 1
}

func pbrScore(pbr float64) int {
	switch {
	case pbr <= 0:
		return 1
	case pbr < 1:
		return 5
	case pbr < 2:
		return 4
	case pbr < 3:
		return 3
	case pbr < 4:
		return 2
	}
	return 1
}

// kpiScore는 RSI/OBV 기술 지표 점수. 둘 다 시그널이면 1점 가산.
func (b *SwingBot) kpiScore(code string) int {

	bars, err := b.stg.RetrievePriceBars(code, 0)
	if err != nil {
		b.lg.Error().Err(err).Str("code", code).Msg("price bars load failed")
		return 0
	}

	// 지표 계산은 과거→최신 순서를 전제로 함
	asc := make([]m.PriceBar, len(bars))
	for i, bar := range bars {
		asc[len(bars)-1-i] = bar
	}

	rsi := rsiScore(asc, kpiPeriod)
	obv := obvScore(asc, kpiPeriod)

	score := rsi + obv
	if rsi != 0 && obv != 0 {
		score++
	}
	return score
}

// rsiScore는 Wilder 평활 RSI 기반 시그널. 과매도 +2 / 과매수 -2.
func rsiScore(bars []m.PriceBar, period int) int {
	if len(bars) < period {
		return 0
	}

	gains := make([]float64, len(bars))
	losses := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		change := float64(bars[i].StckClpr - bars[i-1].StckClpr)
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	rsi := 0.0
	for i := period; i < len(bars); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i]) / float64(period)
		if avgLoss == 0 {
			rsi = 100
		} else {
			rs := avgGain / avgLoss
			rsi = 100 - (100 / (1 + rs))
		}
	}

	if rsi > 70 {
		return -2
	}
	if rsi < 30 {
		return 2
	}
	return 0
}

// obvScore는 거래량 균형 지표의 기간 내 방향성. 상승 +2 / 하락 -2.
func obvScore(bars []m.PriceBar, period int) int {
	if len(bars) < 2 {
		return 0
	}

	obv := make([]float64, 0, len(bars))
	acc := 0.0
	obv = append(obv, acc)
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].StckClpr > bars[i-1].StckClpr:
			acc += float64(bars[i].AcmlVol)
		case bars[i].StckClpr < bars[i-1].StckClpr:
			acc -= float64(bars[i].AcmlVol)
		}
		obv = append(obv, acc)
	}

	if len(obv) < period {
		return 0
	}

	start := obv[len(obv)-period]
	end := obv[len(obv)-1]
	if end > start {
		return 2
	}
	if end < start {
		return -2
	}
	return 0
}

func rateOf(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b * 100
}
