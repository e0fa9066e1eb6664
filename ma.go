package swingbot

import m "swingbot/internal/model"

// 이동평균 윈도우. 일봉 리스트는 최신일 우선이므로 인덱스 전방이 과거 방향.
var maWindows = [...]int{5, 10, 20, 30, 60, 120, 200, 240}

// applyMovingAverages는 최신일 우선 정렬된 일봉 리스트의 모든 행에 MA를 채움.
// 윈도우 끝이 리스트를 벗어나면 남은 구간만으로 평균을 내고,
// 종가 0(거래정지 등)은 분모에서 제외함. 유효 종가가 없으면 0.
func applyMovingAverages(bars []m.PriceBar) {

	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = float64(bar.StckClpr)
	}

	for i := range bars {
		for _, w := range maWindows {
			v := movingAverage(closes, i, w)
			switch w {
			case 5:
				bars[i].Ma5 = v
			case 10:
				bars[i].Ma10 = v
			case 20:
				bars[i].Ma20 = v
			case 30:
				bars[i].Ma30 = v
			case 60:
				bars[i].Ma60 = v
			case 120:
				bars[i].Ma120 = v
			case 200:
				bars[i].Ma200 = v
			case 240:
				bars[i].Ma240 = v
			}
		}
	}
}

func movingAverage(closes []float64, index, window int) float64 {
	sum := 0.0
	count := 0
	for j := 0; j < window && index+j < len(closes); j++ {
		if closes[index+j] == 0 {
			continue
		}
		sum += closes[index+j]
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
