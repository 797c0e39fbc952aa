package catalog

// Item is one dataset listing from the public data portal
type Item struct {
	DatasetNm   string `json:"datasetNm"`
	CategoryNm  string `json:"categoryNm"`
	ProviderNm  string `json:"providerNm"`
	UpdateCycle string `json:"updateCycle"`
	DataFormat  string `json:"dataFormat"`
	DownloadCnt int64  `json:"downloadCnt"`
	InquiryCnt  int64  `json:"inquiryCnt"`
	RegistDt    string `json:"registDt"`
	ServiceStts string `json:"serviceStts"`
	DatasetID   string `json:"datasetId"`
}

// Page is one page of the listing as the portal returns it
type Page struct {
	Data         []Item `json:"data"`
	CurrentCount int    `json:"currentCount"`
	TotalCount   int    `json:"totalCount"`
}

// Fallback is the fixed listing served when the portal cannot answer
func Fallback() Page {
	items := []Item{
		{"국토교통부_도로명주소 전체 분류별 주소", "주택/토지", ministry, "월 1회", "JSON", 15423, 89234, "2025-01-15 09:30:00", inService, "road-address-2025-001"},
		{"국토교통부_건축물대장 표제부", "주택/토지", ministry, "월 1회", "JSON", 12890, 67521, "2025-01-12 14:20:00", inService, "building-register-2025-002"},
		{"국토교통부_부동산 실거래가 정보", "주택/토지", ministry, "월 1회", "JSON", 28945, 156789, "2025-01-10 11:45:00", inService, "real-estate-transaction-2025-003"},
		{"국토교통부_교통카드 통계정보", "교통", ministry, "주 1회", "JSON", 9876, 45632, "2025-01-08 16:15:00", inService, "traffic-card-stats-2025-004"},
		{"국토교통부_철도역 정보", "교통", ministry, "분기 1회", "JSON", 5432, 23456, "2025-01-05 10:30:00", inService, "railway-station-info-2025-005"},
		{"국토교통부_항공운항통계", "교통", ministry, "월 1회", "JSON", 7654, 34567, "2025-01-03 13:20:00", inService, "aviation-stats-2025-006"},
		{"국토교통부_도시계획시설 정보", "주택/토지", ministry, "분기 1회", "JSON", 4321, 19876, "2024-12-28 15:45:00", inService, "urban-planning-facilities-2024-007"},
		{"국토교통부_공동주택 관리정보", "주택/토지", ministry, "월 1회", "JSON", 11234, 56789, "2024-12-25 09:10:00", inService, "apartment-management-2024-008"},
	}
	return Page{Data: items, CurrentCount: len(items), TotalCount: len(items)}
}

const (
	ministry  = "국토교통부"
	inService = "서비스"
)
