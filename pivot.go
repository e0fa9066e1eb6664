package swingbot

import (
	m "swingbot/internal/model"
)

/*
memo. 피벗 라인의 0은 "미산출" 표식임. 금일 시가가 잡히기 전(동시호가 등)에는
R2/R3/S2/S3를 계산할 수 없어 0으로 남고, 평균/기준선 계산에서 양수만 취함.
*/

// pivotLevels는 전일 고/저/종가 기반 피벗과 1차 지지/저항
type pivotLevels struct {
	pivot int
	r1    int
	s1    int
}

func computePivot(prdyHgpr, prdyLwpr, prdyClpr int) pivotLevels {
	pivot := (prdyHgpr + prdyLwpr + prdyClpr) / 3
	return pivotLevels{
		pivot: pivot,
		r1:    pivot*2 - prdyLwpr,
		s1:    pivot*2 - prdyHgpr,
	}
}

// updateTradeInfoLevels는 전일 일봉과 금일 시가/고가/저가로 피벗 라인을 재계산해 저장함.
// 기존 행의 후보 플래그와 비고는 건드리지 않음. 전일 일봉이 없으면 아무것도 하지 않음.
func (b *SwingBot) updateTradeInfoLevels(code, date string, oprc, hgpr, lwpr int, cdType string) error {

	prev, err := b.stg.RetrieveLatestPriceBar(code)
	if err != nil {
		return err
	}
	if prev == nil {
		return nil
	}

	lv := computePivot(prev.StckHgpr, prev.StckLwpr, prev.StckClpr)

	info, err := b.stg.RetrieveTradeInfo(code, date)
	if err != nil {
		return err
	}
	if info == nil {
		info = &m.TradeInfo{Code: code, Date: date}
	}

	info.Pivot = lv.pivot
	info.R1 = lv.r1
	info.S1 = lv.s1
	info.StckPrdyClpr = prev.StckClpr
	if oprc > 0 {
		priceRange := hgpr - lwpr
		info.R2 = lv.pivot + priceRange
		info.R3 = lv.r1 + priceRange
		info.S2 = lv.pivot - priceRange
		info.S3 = lv.s1 - priceRange
		info.StckOprc = oprc
	} else {
		// 시가 미확정이면 2~3차 라인은 미산출(0)로 되돌림
		info.R2, info.R3, info.S2, info.S3 = 0, 0, 0, 0
	}
	info.Strategy = cdType

	return b.stg.SaveTradeInfo(info)
}

// updateTradeInfoPrice는 기존 행의 현재가/시가만 갱신함. 행이 없으면 무시.
func (b *SwingBot) updateTradeInfoPrice(code, date string, prpr, oprc int) error {

	info, err := b.stg.RetrieveTradeInfo(code, date)
	if err != nil {
		return err
	}
	if info == nil {
		return nil
	}

	info.StckPrpr = prpr
	info.StckOprc = oprc
	return b.stg.SaveTradeInfo(info)
}

// markTradeInfo는 후보 플래그/비고/전략을 upsert함. 피벗 라인은 보존됨.
func (b *SwingBot) markTradeInfo(code, date, yn, cdType, note string) error {

	info, err := b.stg.RetrieveTradeInfo(code, date)
	if err != nil {
		return err
	}
	if info == nil {
		info = &m.TradeInfo{Code: code, Date: date, Strategy: cdType}
	}

	info.Candidate = yn
	info.Note = note
	return b.stg.SaveTradeInfo(info)
}

// meanPositive는 양수 값들의 평균. 유효 값이 없으면 0.
func meanPositive(values ...int) int {
	sum, count := 0, 0
	for _, v := range values {
		if v > 0 {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / count
}

// stopLinePrice는 매도 기준선. S1 우선, 없으면 나머지 지지선 평균.
func stopLinePrice(s1, s2, s3 int) int {
	if s1 > 0 {
		return s1
	}
	return meanPositive(s2, s3)
}
