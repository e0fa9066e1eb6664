package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateFormats(t *testing.T) {

	assert.Len(t, Today(), 8)
	assert.Len(t, NowTime(), 6)
	assert.Equal(t, Today(), DayAgo(0))
	assert.Equal(t, Yesterday(), DayAgo(1))
}

func TestDayAgo(t *testing.T) {

	// 100일 전 문자열 역파싱 검증
	parsed, err := time.ParseInLocation("20060102", DayAgo(100), MarketLocation())
	require.NoError(t, err)

	want := time.Now().In(MarketLocation()).AddDate(0, 0, -100)
	assert.Equal(t, want.Format("20060102"), parsed.Format("20060102"))
}

func TestMarketLocation(t *testing.T) {

	_, offset := time.Now().In(MarketLocation()).Zone()
	assert.Equal(t, 9*60*60, offset)
}
