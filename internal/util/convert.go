package util

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
)

// 시세 응답 필드는 콤마/통화기호가 섞인 문자열로 내려오는 경우가 있어
// 숫자 관련 문자만 남기고 파싱함. 실패 시 0.
var (
	nonNumeric = regexp.MustCompile(`[^0-9.-]`)
	validNum   = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

func scrub(v any) string {
	return nonNumeric.ReplaceAllString(fmt.Sprintf("%v", v), "")
}

func ToInt(v any) int {
	s := scrub(v)
	if !validNum.MatchString(s) {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func ToFloat(v any) float64 {
	s := scrub(v)
	if !validNum.MatchString(s) {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func ToDecimal(v any) decimal.Decimal {
	s := scrub(v)
	if !validNum.MatchString(s) {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
