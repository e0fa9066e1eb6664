package swingbot

import (
	"fmt"
	"testing"

	m "swingbot/internal/model"

	"github.com/stretchr/testify/assert"
)

func barsWithCloses(closes ...int) []m.PriceBar {
	bars := make([]m.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = m.PriceBar{Code: "005930", Date: fmt.Sprintf("202508%02d", 25-i), StckClpr: c}
	}
	return bars
}

func TestApplyMovingAverages(t *testing.T) {

	// 최신일 우선: 100, 110, 120, 130, 140, 150
	bars := barsWithCloses(100, 110, 120, 130, 140, 150)
	applyMovingAverages(bars)

	// 최신일의 5일 평균 = (100+110+120+130+140)/5
	assert.InDelta(t, 120.0, bars[0].Ma5, 1e-9)
	// 두 번째 행의 5일 평균 = (110+...+150)/5
	assert.InDelta(t, 130.0, bars[1].Ma5, 1e-9)
}

func TestApplyMovingAverages_PartialWindow(t *testing.T) {

	bars := barsWithCloses(100, 200)
	applyMovingAverages(bars)

	// 데이터가 윈도우보다 짧으면 남은 구간 평균으로 대체됨
	assert.InDelta(t, 150.0, bars[0].Ma5, 1e-9)
	assert.InDelta(t, 150.0, bars[0].Ma240, 1e-9)
	assert.InDelta(t, 200.0, bars[1].Ma5, 1e-9)
}

func TestApplyMovingAverages_ZeroCloseExcluded(t *testing.T) {

	// 거래정지 등으로 종가 0이 섞이면 분모에서 제외됨
	bars := barsWithCloses(100, 0, 200)
	applyMovingAverages(bars)

	assert.InDelta(t, 150.0, bars[0].Ma5, 1e-9)
}

func TestApplyMovingAverages_AllZero(t *testing.T) {

	bars := barsWithCloses(0, 0)
	applyMovingAverages(bars)

	assert.Zero(t, bars[0].Ma5)
	assert.Zero(t, bars[0].Ma240)
}

func TestMovingAverage_WindowBoundary(t *testing.T) {

	closes := []float64{10, 20, 30, 40, 50, 60, 70}

	// index 2에서 5일 윈도우: 30..70
	assert.InDelta(t, 50.0, movingAverage(closes, 2, 5), 1e-9)
	// index 5에서 5일 윈도우는 2개만 남음
	assert.InDelta(t, 65.0, movingAverage(closes, 5, 5), 1e-9)
}
