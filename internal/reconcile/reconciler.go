// Package reconcile 로컬 카탈로그를 원격 WooCommerce 상점에 반영합니다.
//
// 상품과 변형 상품은 SKU(대소문자 무시), 카테고리는 이름(대소문자 구분)으로 원격 리소스와 대응시키며,
// 대응하는 리소스가 없으면 생성하고 있으면 수정합니다. 같은 카탈로그로 여러 번 실행해도 결과가 같습니다.
//
// 여러 API 호출에 걸친 트랜잭션은 없습니다. 상품 하나가 실패하면 실행이 중단되며
// 그 전에 반영된 상품은 그대로 남습니다. 변형 상품의 실패는 기록만 하고 다음 변형 상품을 계속 처리합니다.
package reconcile

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/woocommerce"
	"github.com/patrickmn/go-cache"
)

const component = "reconcile"

// variationCacheTTL 실행 하나가 이보다 오래 걸리면 변형 상품 목록을 다시 조회합니다.
const variationCacheTTL = 30 * time.Minute

// AttributeTermsSource 전역 속성에 일괄 등록할 용어 파일입니다.
type AttributeTermsSource struct {
	Name        string
	AttributeID int64
	File        string
}

// DerivedFieldOptions SKU 분류에 따라 상품 필드(브랜드 등)를 지정하는 설정입니다.
type DerivedFieldOptions struct {
	Enabled bool

	// Field 수정할 상품 필드 이름 (기본값: "brands")
	Field string

	// Mapping 분류 코드(SKU 첫 글자) -> 원격 id
	Mapping map[string]int64
}

// Options Reconciler 동작 설정입니다.
type Options struct {
	// ImageBaseURL 이미지 파일명 앞에 붙일 URL 접두사
	ImageBaseURL string

	// CreateCategories true이면 상품 동기화 전에 원격에 없는 카테고리를 생성합니다.
	CreateCategories bool

	// FailOnMissingCategory true이면 원격에 없는 카테고리를 참조하는 상품을 NotFound로 실패시킵니다.
	// false이면 해당 카테고리를 {"id": null}로 전송합니다.
	FailOnMissingCategory bool

	AttributeTerms []AttributeTermsSource

	DerivedField DerivedFieldOptions

	// Progress 진행 상황을 출력할 대상 (nil이면 출력하지 않음)
	Progress io.Writer
}

// Reconciler 카탈로그 동기화를 수행합니다. 실행(Run)마다 새로 생성하여 사용합니다.
type Reconciler struct {
	remote Remote
	opts   Options

	index *Index

	// variations 상품 id -> []woocommerce.Variation
	variations *cache.Cache

	classifier Classifier
}

// New 새로운 Reconciler를 생성합니다.
func New(remote Remote, opts Options) *Reconciler {
	if opts.DerivedField.Field == "" {
		opts.DerivedField.Field = "brands"
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}

	return &Reconciler{
		remote: remote,
		opts:   opts,

		// 정리 주기를 0으로 지정하여 janitor 고루틴을 만들지 않습니다. 만료된 항목은 조회 시 무시됩니다.
		variations: cache.New(variationCacheTTL, 0),

		classifier: NewClassifier(opts.DerivedField.Mapping),
	}
}

// Index 현재 사용 중인 원격 인덱스를 반환합니다. 아직 생성되지 않았으면 nil입니다.
func (r *Reconciler) Index() *Index {
	return r.index
}

// SetIndex 미리 생성한 원격 인덱스를 사용하도록 지정합니다.
func (r *Reconciler) SetIndex(ix *Index) {
	r.index = ix
}

func (r *Reconciler) ensureIndex(ctx context.Context) (*Index, error) {
	if r.index != nil {
		return r.index, nil
	}

	ix, err := BuildIndex(ctx, r.remote)
	if err != nil {
		return nil, err
	}
	r.index = ix

	return ix, nil
}

func variationCacheKey(productID int64) string {
	return strconv.FormatInt(productID, 10)
}

// cachedVariations 상품의 원격 변형 상품 목록을 반환합니다. 캐시에 없으면 조회합니다.
func (r *Reconciler) cachedVariations(ctx context.Context, productID int64) ([]woocommerce.Variation, error) {
	key := variationCacheKey(productID)
	if v, ok := r.variations.Get(key); ok {
		return v.([]woocommerce.Variation), nil
	}

	variations, err := r.remote.ListVariations(ctx, productID)
	if err != nil {
		return nil, err
	}
	r.variations.SetDefault(key, variations)

	return variations, nil
}

// rememberVariation 새로 생성한 변형 상품을 캐시된 목록에 추가합니다.
func (r *Reconciler) rememberVariation(v woocommerce.Variation) {
	key := variationCacheKey(v.ParentID)
	if cached, ok := r.variations.Get(key); ok {
		list := append([]woocommerce.Variation(nil), cached.([]woocommerce.Variation)...)
		r.variations.SetDefault(key, append(list, v))
	}
}

// invalidateVariations 원격 상태를 알 수 없게 된 상품의 캐시를 제거합니다.
func (r *Reconciler) invalidateVariations(productID int64) {
	r.variations.Delete(variationCacheKey(productID))
}
