package woocommerce

// Product 원격 상품의 식별 정보입니다. 나머지 필드는 읽지 않습니다.
type Product struct {
	ID   int64
	SKU  string
	Name string
}

// Variation 원격 변형 상품의 식별 정보입니다.
type Variation struct {
	ID       int64
	SKU      string
	ParentID int64
}

// Category 원격 상품 카테고리입니다. 이름이 자연 키입니다.
type Category struct {
	ID   int64
	Name string
}

// BatchResult 일괄 처리 요청의 결과 건수입니다.
type BatchResult struct {
	Created int
	Updated int
	Deleted int

	// Failed 응답 항목 중 error 필드를 가진 항목의 수
	Failed int
}
