package util

import "time"

// 장 기준 시간대. 모든 날짜/시각 문자열은 서울 기준으로 생성함.
var seoul = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}()

const (
	dateLayout = "20060102"
	timeLayout = "150405"
)

func Today() string {
	return time.Now().In(seoul).Format(dateLayout)
}

func Yesterday() string {
	return DayAgo(1)
}

// DayAgo는 오늘 기준 n일 전 날짜를 yyyyMMdd 문자열로 반환함
func DayAgo(n int) string {
	return time.Now().In(seoul).AddDate(0, 0, -n).Format(dateLayout)
}

// NowTime은 현재 시각을 HHmmss 문자열로 반환함
func NowTime() string {
	return time.Now().In(seoul).Format(timeLayout)
}

func MarketLocation() *time.Location {
	return seoul
}
