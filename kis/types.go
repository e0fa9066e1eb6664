package kis

/*
memo. KIS 응답 전문은 최상위에 rt_cd / msg1 이 공통이고 output 계열 필드 형태만 다름.
필드 값 타입이 응답마다 문자열/숫자로 오락가락해서 map[string]any로 받고
util의 형변환 헬퍼로 소비처에서 정리함.
*/

// Body는 단건 output 응답 (현재가 시세, 주문)
type Body struct {
	RtCd   string         `json:"rt_cd"`
	Msg1   string         `json:"msg1"`
	Output map[string]any `json:"output"`
}

// TwoArrayData는 output1/output2 배열 응답 (계좌 잔고)
type TwoArrayData struct {
	RtCd    string           `json:"rt_cd"`
	Msg1    string           `json:"msg1"`
	Output1 []map[string]any `json:"output1"`
	Output2 []map[string]any `json:"output2"`
}

// SheetData는 output 배열 응답 (재무제표, 일자별 시세)
type SheetData struct {
	RtCd   string           `json:"rt_cd"`
	Msg1   string           `json:"msg1"`
	Output []map[string]any `json:"output"`
}

// IndexData는 기간별 시세 응답. output1 종목 요약 + output2 일봉 배열.
type IndexData struct {
	RtCd    string           `json:"rt_cd"`
	Msg1    string           `json:"msg1"`
	Output1 map[string]any   `json:"output1"`
	Output2 []map[string]any `json:"output2"`
}
