package reconcile

import (
	"golang.org/x/text/cases"
)

// normalizeSKU SKU를 대소문자 구분 없이 비교하기 위해 케이스 폴딩합니다.
// cases.Caser는 상태를 가지므로 호출마다 새로 생성합니다.
func normalizeSKU(sku string) string {
	return cases.Fold().String(sku)
}

// sameSKU 두 SKU가 대소문자를 무시하고 정확히 일치하는지 확인합니다. 빈 SKU는 어떤 것과도 일치하지 않습니다.
func sameSKU(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return normalizeSKU(a) == normalizeSKU(b)
}
