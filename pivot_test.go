package swingbot

import (
	"testing"

	m "swingbot/internal/model"
	"swingbot/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBot(stg Storage, brk Broker, conf TradeConfig) (*SwingBot, chan string) {
	ch := make(chan string, 16)
	return NewSwingBot(SwingBotConfig{
		Storage: stg,
		Broker:  brk,
		Lister:  &ListerMock{},
		Channel: ch,
		Trade:   conf,
	}), ch
}

func TestComputePivot(t *testing.T) {

	// 전일 고가 300, 저가 100, 종가 200 → P=200, R1=300, S1=100
	lv := computePivot(300, 100, 200)
	assert.Equal(t, 200, lv.pivot)
	assert.Equal(t, 300, lv.r1)
	assert.Equal(t, 100, lv.s1)
}

func TestUpdateTradeInfoLevels(t *testing.T) {

	stg := NewStorageMock()
	stg.SavePriceBars([]m.PriceBar{
		{Code: "005930", Date: util.Yesterday(), StckHgpr: 300, StckLwpr: 100, StckClpr: 200},
	})
	bot, _ := newTestBot(stg, NewBrokerMock(), TradeConfig{})

	err := bot.updateTradeInfoLevels("005930", util.Today(), 210, 260, 190, m.StrategySwing)
	require.NoError(t, err)

	info, err := stg.RetrieveTradeInfo("005930", util.Today())
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.Equal(t, 200, info.Pivot)
	assert.Equal(t, 300, info.R1)
	assert.Equal(t, 100, info.S1)
	// range = 260-190 = 70
	assert.Equal(t, 270, info.R2)
	assert.Equal(t, 370, info.R3)
	assert.Equal(t, 130, info.S2)
	assert.Equal(t, 30, info.S3)
	assert.Equal(t, 210, info.StckOprc)
	assert.Equal(t, 200, info.StckPrdyClpr)
}

func TestUpdateTradeInfoLevels_NoOpenPrice(t *testing.T) {

	stg := NewStorageMock()
	stg.SavePriceBars([]m.PriceBar{
		{Code: "005930", Date: util.Yesterday(), StckHgpr: 300, StckLwpr: 100, StckClpr: 200},
	})
	bot, _ := newTestBot(stg, NewBrokerMock(), TradeConfig{})

	// 동시호가 전: 시가 0이면 2~3차 라인은 산출하지 않음
	err := bot.updateTradeInfoLevels("005930", util.Today(), 0, 0, 0, m.StrategySwing)
	require.NoError(t, err)

	info, _ := stg.RetrieveTradeInfo("005930", util.Today())
	require.NotNil(t, info)
	assert.Equal(t, 200, info.Pivot)
	assert.Zero(t, info.R2)
	assert.Zero(t, info.S2)
	assert.Zero(t, info.StckOprc)
}

func TestUpdateTradeInfoLevels_NoOpenPriceResetsStaleLevels(t *testing.T) {

	stg := NewStorageMock()
	stg.SavePriceBars([]m.PriceBar{
		{Code: "005930", Date: util.Yesterday(), StckHgpr: 300, StckLwpr: 100, StckClpr: 200},
	})
	stg.SaveTradeInfo(&m.TradeInfo{
		Code: "005930", Date: util.Today(),
		R2: 270, R3: 370, S2: 130, S3: 30,
	})
	bot, _ := newTestBot(stg, NewBrokerMock(), TradeConfig{})

	// 이전 틱에서 산출된 2~3차 라인도 시가가 없어지면 미산출로 돌아감
	err := bot.updateTradeInfoLevels("005930", util.Today(), 0, 0, 0, m.StrategySwing)
	require.NoError(t, err)

	info, _ := stg.RetrieveTradeInfo("005930", util.Today())
	require.NotNil(t, info)
	assert.Zero(t, info.R2)
	assert.Zero(t, info.R3)
	assert.Zero(t, info.S2)
	assert.Zero(t, info.S3)
	assert.Equal(t, 200, info.Pivot)
}

func TestUpdateTradeInfoLevels_PreservesCandidate(t *testing.T) {

	stg := NewStorageMock()
	stg.SavePriceBars([]m.PriceBar{
		{Code: "005930", Date: util.Yesterday(), StckHgpr: 300, StckLwpr: 100, StckClpr: 200},
	})
	stg.SaveTradeInfo(&m.TradeInfo{
		Code: "005930", Date: util.Today(),
		Candidate: m.Yes, Note: "swing target", Strategy: m.StrategySwing,
	})
	bot, _ := newTestBot(stg, NewBrokerMock(), TradeConfig{})

	err := bot.updateTradeInfoLevels("005930", util.Today(), 210, 260, 190, m.StrategySwing)
	require.NoError(t, err)

	info, _ := stg.RetrieveTradeInfo("005930", util.Today())
	assert.Equal(t, m.Yes, info.Candidate)
	assert.Equal(t, "swing target", info.Note)
	assert.Equal(t, 200, info.Pivot)
}

func TestUpdateTradeInfoLevels_NoPriorBar(t *testing.T) {

	stg := NewStorageMock()
	bot, _ := newTestBot(stg, NewBrokerMock(), TradeConfig{})

	err := bot.updateTradeInfoLevels("005930", util.Today(), 210, 260, 190, m.StrategySwing)
	require.NoError(t, err)

	info, _ := stg.RetrieveTradeInfo("005930", util.Today())
	assert.Nil(t, info)
}

func TestMeanPositive(t *testing.T) {

	assert.Equal(t, 200, meanPositive(100, 200, 300))
	assert.Equal(t, 150, meanPositive(100, 200, 0))
	assert.Equal(t, 0, meanPositive(0, 0, 0))
	assert.Equal(t, 100, meanPositive(100, -50))
}

func TestStopLinePrice(t *testing.T) {

	assert.Equal(t, 100, stopLinePrice(100, 130, 30))
	// S1 미산출이면 나머지 평균
	assert.Equal(t, 80, stopLinePrice(0, 130, 30))
	assert.Equal(t, 0, stopLinePrice(0, 0, 0))
}
