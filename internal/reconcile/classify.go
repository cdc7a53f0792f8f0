package reconcile

import (
	"unicode/utf8"
)

// ClassificationKind SKU 분류 결과의 종류입니다.
type ClassificationKind int

const (
	// Mapped SKU의 분류 코드에 대응하는 원격 id가 있음
	Mapped ClassificationKind = iota + 1

	// Unmapped 분류 코드는 있지만 매핑에 없음
	Unmapped

	// NoCode SKU가 비어있어 분류 코드를 얻을 수 없음
	NoCode
)

func (k ClassificationKind) String() string {
	switch k {
	case Mapped:
		return "mapped"
	case Unmapped:
		return "unmapped"
	case NoCode:
		return "no_code"
	default:
		return "unknown"
	}
}

// Classification SKU 분류 결과입니다. Kind가 Mapped일 때만 TargetID가 유효합니다.
type Classification struct {
	Kind     ClassificationKind
	Code     string
	TargetID int64
}

// Classifier SKU의 첫 글자를 분류 코드로 사용하여 원격 id(브랜드 등)를 결정합니다.
type Classifier struct {
	mapping map[string]int64
}

// NewClassifier 분류 코드 -> 원격 id 매핑으로 Classifier를 생성합니다.
func NewClassifier(mapping map[string]int64) Classifier {
	m := make(map[string]int64, len(mapping))
	for k, v := range mapping {
		m[k] = v
	}
	return Classifier{mapping: m}
}

// Classify SKU를 분류합니다. 분류 코드는 대소문자를 구분합니다.
func (c Classifier) Classify(sku string) Classification {
	if sku == "" {
		return Classification{Kind: NoCode}
	}

	r, size := utf8.DecodeRuneInString(sku)
	if r == utf8.RuneError && size <= 1 {
		return Classification{Kind: NoCode}
	}
	code := sku[:size]

	if id, ok := c.mapping[code]; ok {
		return Classification{Kind: Mapped, Code: code, TargetID: id}
	}
	return Classification{Kind: Unmapped, Code: code}
}
