package swingbot

import (
	"context"
	"fmt"

	m "swingbot/internal/model"
	"swingbot/internal/util"
)

// RunBuyJob은 장중 매수 루프 1회분. 예수금 확인 → 보유 현행화 → 후보 순회 순서로 진행함.
func (b *SwingBot) RunBuyJob(ctx context.Context) error {

	cash, err := b.accountCash(ctx)
	if err != nil {
		return err
	}
	if cash == 0 {
		b.lg.Warn().Msg("no available cash to trade")
		return nil
	}

	if err := b.reconcileHoldings(ctx, util.Today()); err != nil {
		return err
	}

	if b.conf.BuyUseYn != m.Yes {
		b.lg.Info().Msg("buy task disabled via configuration")
		return nil
	}

	candidates, err := b.stg.RetrieveCandidates(util.Today())
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		b.lg.Debug().Msg("no buy targets found for today")
		return nil
	}

	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		// 종목 단위 실패는 나머지 후보 처리에 영향을 주지 않음
		if err := b.processBuyItem(ctx, &candidates[i], cash); err != nil {
			b.lg.Error().Err(err).Str("code", candidates[i].Code).Msg("buy item failed")
		}
	}
	return nil
}

// accountCash는 주문 가능 현금. 가수금 정산액이 있으면 우선 사용함.
func (b *SwingBot) accountCash(ctx context.Context) (int, error) {

	data, err := b.brk.AccountBalance(ctx)
	if err != nil {
		return 0, err
	}
	if len(data.Output2) == 0 {
		return 0, nil
	}

	summary := data.Output2[0]
	if prvs := util.ToInt(summary["prvs_rcdl_excc_amt"]); prvs > 0 {
		return prvs, nil
	}
	return util.ToInt(summary["dnca_tot_amt"]), nil
}

// reconcileHoldings는 증권사 잔고의 보유 종목을 로컬 매매 상태와 동기화함.
// 당일 이미 매도 처리된 종목은 잔고에 잠시 남아 있어도 건너뜀.
func (b *SwingBot) reconcileHoldings(ctx context.Context, date string) error {

	data, err := b.brk.AccountBalance(ctx)
	if err != nil {
		return err
	}

	for _, row := range data.Output1 {
		code := fmt.Sprintf("%v", row["pdno"])
		pchsAmt := util.ToFloat(row["pchs_amt"])
		boughtPrice := util.ToInt(row["pchs_avg_pric"])
		qty := util.ToInt(row["hldg_qty"])

		current, err := b.stg.RetrieveTradeStatus(code, date)
		if err != nil {
			return err
		}
		if current != nil && current.Direction == m.DirectionSold {
			b.lg.Debug().Str("code", code).Msg("already sold today, skip reconcile")
			continue
		}

		if pchsAmt > 0 {
			if err := b.stg.SaveTradeStatus(&m.TradeStatus{
				Code:       code,
				Date:       date,
				Direction:  m.DirectionBought,
				Qty:        qty,
				TradePrice: boughtPrice,
			}); err != nil {
				return err
			}

			// 평가 금액이 종목당 한도를 넘으면 추가 매수를 막음
			possibility, note := m.Yes, "swing bought item"
			if int64(qty)*int64(boughtPrice) > b.conf.LimitPrice {
				possibility, note = m.No, "swing bought item(buy-stop)"
			}
			if err := b.markTradeInfo(code, date, possibility, m.StrategySwing, note); err != nil {
				return err
			}
			b.lg.Info().Str("code", code).Msg("holding reconciled")
		} else {
			if err := b.stg.SaveTradeStatus(&m.TradeStatus{
				Code:       code,
				Date:       date,
				Direction:  m.DirectionSold,
				Qty:        qty,
				TradePrice: boughtPrice,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *SwingBot) processBuyItem(ctx context.Context, info *m.TradeInfo, cash int) error {

	code := info.Code
	cdType := info.Strategy
	if cdType == "" {
		cdType = m.StrategySwing
	}

	ok, err := b.canBuyMore(code)
	if err != nil {
		return err
	}
	if !ok {
		b.lg.Info().Str("code", code).Int("limit", b.conf.LimitCnt).Msg("holding limit reached, skip")
		return nil
	}

	price := b.currentPrice(ctx, code)
	if price.prpr == 0 {
		return nil
	}

	today := util.Today()
	if err := b.updateTradeInfoPrice(code, today, price.prpr, price.oprc); err != nil {
		return err
	}
	// 장중 고가/저가 변동을 반영해 피벗 라인을 재계산함
	if err := b.updateTradeInfoLevels(code, today, price.oprc, price.hgpr, price.lwpr, cdType); err != nil {
		return err
	}

	// 당일 매수 접수 이력이 있으면 중복 주문하지 않음
	submitted, err := b.stg.HasBuySubmission(code, today)
	if err != nil {
		return err
	}
	if submitted {
		return nil
	}

	if b.conf.TestForceBuy != m.Yes {
		refreshed, err := b.stg.RetrieveTradeInfo(code, today)
		if err != nil {
			return err
		}
		if refreshed == nil || !worthBuying(price.prpr, refreshed) {
			return nil
		}
	} else {
		b.lg.Warn().Str("code", code).Msg("[TEST MODE] force buy, validation skipped")
	}

	return b.placeBuyOrder(ctx, code, cash, price.prpr)
}

// canBuyMore는 보유 종목 수 한도 점검. 한도가 차도 이미 보유 중인 종목의 추가 매수는 허용함.
func (b *SwingBot) canBuyMore(code string) (bool, error) {

	held, err := b.stg.RetrieveTradeStatuses(util.Today(), m.DirectionBought)
	if err != nil {
		return false, err
	}
	if len(held) < b.conf.LimitCnt {
		return true, nil
	}
	for _, st := range held {
		if st.Code == code {
			return true, nil
		}
	}
	return false, nil
}

// worthBuying은 눌림목 판단. 현재가가 지지선 평균 아래일 때만 매수함.
func worthBuying(current int, info *m.TradeInfo) bool {
	target := meanPositive(info.S1, info.S2, info.S3)
	if target <= 0 {
		return false
	}
	return current < target
}

// placeBuyOrder는 예수금 할당 비율로 수량을 정해 지정가 매수 주문을 냄.
// 할당액이 1주 값에 못 미치면 전체 예수금으로 1주를 시도함.
func (b *SwingBot) placeBuyOrder(ctx context.Context, code string, cash, price int) error {

	if price == 0 {
		return nil
	}

	alloc := int(float64(cash) * b.conf.ContractRate)
	qty := alloc / price
	if qty == 0 {
		if cash < price {
			return nil
		}
		qty = 1
	}

	return b.submitOrder(ctx, code, qty, price, m.SideBuy)
}

// submitOrder는 주문 접수와 후속 상태 반영을 담당함. 매수/매도 공용.
func (b *SwingBot) submitOrder(ctx context.Context, code string, qty, price int, side m.OrderSide) error {

	unlock := b.lockItem(code)
	defer unlock()

	odno, err := b.brk.PlaceOrder(ctx, string(side), code, qty, price)
	if err != nil {
		b.lg.Warn().Err(err).Str("code", code).Str("side", string(side)).Msg("order rejected")
		return nil
	}

	direction, action := m.DirectionBought, "매수"
	if side == m.SideSell {
		direction, action = m.DirectionSold, "매도"
	}

	today := util.Today()
	if err := b.stg.SaveTradeStatus(&m.TradeStatus{
		Code:       code,
		Date:       today,
		Direction:  direction,
		Odno:       odno,
		Qty:        qty,
		TradePrice: price,
		TradeTime:  util.NowTime(),
	}); err != nil {
		return err
	}

	msg := fmt.Sprintf("[스윙%s] %s %s 했습니다. 수량은 %d 이고, 단가는 %d원 입니다.",
		action, code, action, qty, price)
	if err := b.stg.AppendTradeHistory(&m.TradeHistory{
		Code:       code,
		Date:       today,
		Time:       util.NowTime(),
		Type:       string(side),
		Qty:        qty,
		TradePrice: price,
		Note:       msg,
	}); err != nil {
		return err
	}

	b.notify(msg)
	return nil
}
