package swingbot

import (
	"context"
	"math"

	m "swingbot/internal/model"
	"swingbot/internal/util"
)

// RunSellJob은 보유 종목의 익절/손절 조건을 점검하는 장중 루프 1회분
func (b *SwingBot) RunSellJob(ctx context.Context) error {

	held, err := b.stg.RetrieveTradeStatuses(util.Today(), m.DirectionBought)
	if err != nil {
		return err
	}
	if len(held) == 0 {
		b.lg.Debug().Msg("no sell items found")
		return nil
	}

	for i := range held {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.processSellItem(ctx, &held[i]); err != nil {
			b.lg.Error().Err(err).Str("code", held[i].Code).Msg("sell item failed")
		}
	}
	return nil
}

func (b *SwingBot) processSellItem(ctx context.Context, st *m.TradeStatus) error {

	code := st.Code
	today := util.Today()

	price := b.currentPrice(ctx, code)
	if price.prpr == 0 {
		return nil
	}

	profit := profitRate(st.TradePrice, price.prpr)
	if err := b.updateTradeInfoPrice(code, today, price.prpr, price.oprc); err != nil {
		return err
	}

	b.lg.Info().Str("code", code).
		Int("bought", st.TradePrice).Int("qty", st.Qty).
		Int("current", price.prpr).Float64("profit", profit).
		Msg("sell check")

	if b.conf.TestForceSell != m.Yes {
		// 매집 구간: 보유 평가액이 목표 매수 규모에 못 미치면 매도를 보류함
		if float64(st.Qty)*float64(st.TradePrice) < float64(b.conf.LimitPrice)*b.conf.SellHoldRate {
			return nil
		}

		sell, err := b.shouldSell(code, profit, price.prpr)
		if err != nil {
			return err
		}
		if !sell {
			return nil
		}
	} else {
		b.lg.Warn().Str("code", code).Msg("[TEST MODE] force sell, validation skipped")
	}

	b.lg.Info().Str("code", code).Float64("profit", profit).Msg("executing sell order")
	return b.submitOrder(ctx, code, st.Qty, price.prpr, m.SideSell)
}

// shouldSell은 익절(트레일링 스탑)과 손절 조건을 판단함
func (b *SwingBot) shouldSell(code string, profit float64, current int) (bool, error) {

	info, err := b.stg.RetrieveTradeInfo(code, util.Today())
	if err != nil {
		return false, err
	}
	if info == nil {
		return false, nil
	}

	stopLine := stopLinePrice(info.S1, info.S2, info.S3)

	// 설정값 부호가 뒤집힌 경우 오동작 방지
	if (profit < 0 && b.conf.DownRate > 0) || (profit > 0 && b.conf.UpRate < 0) {
		return false, nil
	}

	// 익절: 목표 수익률 도달 후 지지선 이탈 시점에 실현함. 지지선 정보가 없으면 즉시 실현.
	if profit >= b.conf.UpRate {
		if stopLine == 0 {
			return true, nil
		}
		if current < stopLine {
			b.lg.Info().Str("code", code).Float64("profit", profit).
				Int("current", current).Int("stopLine", stopLine).
				Msg("trailing stop triggered")
			return true, nil
		}
		return false, nil
	}

	// 손절: 기능이 켜져 있을 때만
	if b.conf.UseLossCut == m.Yes && profit <= b.conf.DownRate {
		b.lg.Info().Str("code", code).Float64("profit", profit).
			Float64("limit", b.conf.DownRate).Msg("loss cut triggered")
		return true, nil
	}

	return false, nil
}

// profitRate는 수익률(%)을 소수점 둘째 자리로 반올림함
func profitRate(bought, current int) float64 {
	if bought == 0 {
		return 0
	}
	profit := (float64(current) - float64(bought)) / float64(bought) * 100
	return math.Round(profit*100) / 100
}
