package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCredentials(t *testing.T) {
	t.Setenv("KIS_APPKEY", "test-appkey")
	t.Setenv("KIS_APPSECRET", "test-appsecret")
	t.Setenv("KIS_ACCOUNT", "12345678")
	t.Setenv("KRX_KEY", "test-krx-key")
}

func TestConfigInit(t *testing.T) {

	setCredentials(t)

	conf, err := NewConfig()
	require.NoError(t, err)

	t.Logf("%+v", conf)

	assert.Equal(t, "mock", conf.Broker.Mode)
	assert.Equal(t, "test-appkey", conf.Broker.AppKey)
	assert.Equal(t, []string{"KOSPI", "KOSDAQ"}, conf.Trading.Markets)
}

func TestConfigInit_MissingCredentials(t *testing.T) {

	t.Setenv("KIS_APPKEY", "")
	t.Setenv("KIS_APPSECRET", "")
	t.Setenv("KIS_ACCOUNT", "")

	_, err := NewConfig()
	assert.Error(t, err)
}

func TestLogLevel(t *testing.T) {

	setCredentials(t)

	conf, err := NewConfig()
	require.NoError(t, err)

	level, err := conf.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)
}

func TestKisConfig(t *testing.T) {

	setCredentials(t)

	conf, err := NewConfig()
	require.NoError(t, err)

	kc := conf.KisConfig()
	assert.True(t, kc.IsMock)
	assert.Equal(t, "12345678", kc.Account)
	assert.Equal(t, "01", kc.Product)
}

func TestKrxConfig(t *testing.T) {

	setCredentials(t)

	conf, err := NewConfig()
	require.NoError(t, err)

	// 시장별 엔드포인트가 따로 전달됨
	kc := conf.KrxConfig()
	assert.Equal(t, "https://data-dbg.krx.co.kr/svc/apis/sto/stk_isu_base_info", kc.KospiURL)
	assert.Equal(t, "https://data-dbg.krx.co.kr/svc/apis/sto/ksq_isu_base_info", kc.KosdaqURL)
	assert.Equal(t, "test-krx-key", kc.AuthKey)
}

func TestTradeConfig(t *testing.T) {

	setCredentials(t)

	conf, err := NewConfig()
	require.NoError(t, err)

	tc := conf.TradeConfig()
	assert.InDelta(t, 0.1, tc.ContractRate, 1e-9)
	assert.Equal(t, int64(1_000_000), tc.LimitPrice)
	assert.Equal(t, "Y", tc.BuyUseYn)
}

func TestDsn(t *testing.T) {

	setCredentials(t)
	t.Setenv("DB_USER", "swing")
	t.Setenv("DB_PASSWORD", "pw")

	conf, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "swing:pw@tcp(127.0.0.1:3306)/swingbot?charset=utf8mb4&parseTime=True&loc=Local", conf.Dsn())
}
