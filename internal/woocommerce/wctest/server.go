// Package wctest 테스트용 WooCommerce REST API(wc/v3) 모의 서버를 제공합니다.
//
// 상품, 변형 상품, 카테고리, 속성 용어 일괄 등록을 메모리에 저장하며, 모든 요청을 기록하여
// 테스트에서 "생성 1회, 수정 0회" 같은 호출 횟수를 검증할 수 있도록 합니다.
package wctest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/tidwall/gjson"
)

const (
	ConsumerKey    = "ck_test_key"
	ConsumerSecret = "cs_test_secret"

	// APIPrefix 모든 엔드포인트의 경로 접두사
	APIPrefix = "/wp-json/wc/v3"
)

// Resource 모의 서버에 저장된 원격 리소스입니다.
type Resource struct {
	ID       int64
	SKU      string
	Name     string
	ParentID int64

	// Payload 마지막으로 수신한 생성/수정 요청 본문
	Payload json.RawMessage
}

// Call 모의 서버가 수신한 요청입니다.
type Call struct {
	Method string

	// Route APIPrefix를 제외한 라우트 패턴 (예: "products/:id/variations")
	Route string

	Path string
	Body json.RawMessage
}

// Server WooCommerce 모의 서버입니다.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	nextID      int64
	products    []*Resource
	variations  map[int64][]*Resource
	categories  []*Resource
	termBatches map[int64][]json.RawMessage
	calls       []Call

	failSKUs map[string]bool
}

// NewServer 모의 서버를 시작합니다. 서버는 테스트 종료 시 자동으로 닫힙니다.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		nextID:      1000,
		variations:  make(map[int64][]*Resource),
		termBatches: make(map[int64][]json.RawMessage),
		failSKUs:    make(map[string]bool),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(s.record, s.authenticate)

	g := e.Group(APIPrefix)
	g.GET("/products", s.listProducts)
	g.POST("/products", s.createProduct)
	g.PUT("/products/:id", s.updateProduct)
	g.GET("/products/categories", s.listCategories)
	g.POST("/products/categories", s.createCategory)
	g.GET("/products/:id/variations", s.listVariations)
	g.POST("/products/:id/variations", s.createVariation)
	g.PUT("/products/:id/variations/:vid", s.updateVariation)
	g.POST("/products/attributes/:id/terms/batch", s.batchTerms)

	s.Server = httptest.NewServer(e)
	t.Cleanup(s.Close)

	return s
}

// SeedProduct 원격에 이미 존재하는 상품을 추가합니다.
func (s *Server) SeedProduct(sku, name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := &Resource{ID: s.allocID(), SKU: sku, Name: name}
	s.products = append(s.products, r)
	return r.ID
}

// SeedVariation 원격에 이미 존재하는 변형 상품을 추가합니다.
func (s *Server) SeedVariation(productID int64, sku string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := &Resource{ID: s.allocID(), SKU: sku, ParentID: productID}
	s.variations[productID] = append(s.variations[productID], r)
	return r.ID
}

// SeedCategory 원격에 이미 존재하는 카테고리를 추가합니다.
func (s *Server) SeedCategory(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := &Resource{ID: s.allocID(), Name: termName(name)}
	s.categories = append(s.categories, r)
	return r.ID
}

// FailSKU 지정한 SKU의 생성/수정 요청이 400으로 실패하도록 합니다.
func (s *Server) FailSKU(sku string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failSKUs[strings.ToLower(sku)] = true
}

// Products 저장된 상품 목록의 복사본을 반환합니다.
func (s *Server) Products() []Resource {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyResources(s.products)
}

// Variations 상품에 속한 변형 상품 목록의 복사본을 반환합니다.
func (s *Server) Variations(productID int64) []Resource {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyResources(s.variations[productID])
}

// Categories 저장된 카테고리 목록의 복사본을 반환합니다.
func (s *Server) Categories() []Resource {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyResources(s.categories)
}

// TermBatches 속성별로 수신한 일괄 등록 요청 본문을 반환합니다.
func (s *Server) TermBatches(attributeID int64) []json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]json.RawMessage(nil), s.termBatches[attributeID]...)
}

// Calls 수신한 요청 목록의 복사본을 반환합니다.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Call(nil), s.calls...)
}

// Count 지정한 메서드와 라우트 패턴으로 수신한 요청의 수를 반환합니다.
//
//	s.Count(http.MethodPut, "products/:id")
func (s *Server) Count(method, route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, c := range s.calls {
		if c.Method == method && c.Route == route {
			n++
		}
	}
	return n
}

// ResetCalls 기록된 요청 목록을 비웁니다.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = nil
}

func (s *Server) allocID() int64 {
	s.nextID++
	return s.nextID
}

func copyResources(src []*Resource) []Resource {
	out := make([]Resource, 0, len(src))
	for _, r := range src {
		out = append(out, *r)
	}
	return out
}

//
// 미들웨어
//

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body []byte
		if c.Request().Body != nil {
			body, _ = io.ReadAll(c.Request().Body)
			c.Request().Body = io.NopCloser(bytes.NewReader(body))
		}

		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method: c.Request().Method,
			Route:  strings.TrimPrefix(strings.TrimPrefix(c.Path(), APIPrefix), "/"),
			Path:   c.Request().URL.Path,
			Body:   body,
		})
		s.mu.Unlock()

		return next(c)
	}
}

func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.QueryParam("consumer_key") != ConsumerKey || c.QueryParam("consumer_secret") != ConsumerSecret {
			return restError(c, http.StatusUnauthorized, "woocommerce_rest_cannot_view", "Sorry, you cannot list resources.")
		}
		return next(c)
	}
}

func restError(c echo.Context, status int, code, message string) error {
	return c.JSON(status, map[string]any{
		"code":    code,
		"message": message,
		"data":    map[string]int{"status": status},
	})
}

//
// 핸들러
//

func (s *Server) listProducts(c echo.Context) error {
	s.mu.Lock()
	items := make([]map[string]any, 0, len(s.products))
	for _, p := range s.products {
		items = append(items, map[string]any{"id": p.ID, "sku": p.SKU, "name": p.Name, "type": "variable"})
	}
	s.mu.Unlock()

	return paginate(c, items)
}

func (s *Server) createProduct(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	sku := gjson.GetBytes(body, "sku").String()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSKUs[strings.ToLower(sku)] {
		return restError(c, http.StatusBadRequest, "woocommerce_rest_product_invalid", "Simulated failure.")
	}
	for _, p := range s.products {
		if sku != "" && strings.EqualFold(p.SKU, sku) {
			return restError(c, http.StatusBadRequest, "product_invalid_sku", "Invalid or duplicated SKU.")
		}
	}

	p := &Resource{ID: s.allocID(), SKU: sku, Name: gjson.GetBytes(body, "name").String(), Payload: body}
	s.products = append(s.products, p)

	return c.JSON(http.StatusCreated, map[string]any{"id": p.ID, "sku": p.SKU, "name": p.Name})
}

func (s *Server) updateProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return restError(c, http.StatusNotFound, "rest_no_route", "No route was found matching the URL and request method.")
	}
	body, err := readBody(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := findByID(s.products, id)
	if p == nil {
		return restError(c, http.StatusBadRequest, "woocommerce_rest_product_invalid_id", "Invalid ID.")
	}
	if s.failSKUs[strings.ToLower(p.SKU)] {
		return restError(c, http.StatusBadRequest, "woocommerce_rest_product_invalid", "Simulated failure.")
	}

	if sku := gjson.GetBytes(body, "sku"); sku.Exists() {
		p.SKU = sku.String()
	}
	if name := gjson.GetBytes(body, "name"); name.Exists() {
		p.Name = name.String()
	}
	p.Payload = body

	return c.JSON(http.StatusOK, map[string]any{"id": p.ID, "sku": p.SKU, "name": p.Name})
}

func (s *Server) listCategories(c echo.Context) error {
	s.mu.Lock()
	items := make([]map[string]any, 0, len(s.categories))
	for _, cat := range s.categories {
		items = append(items, map[string]any{"id": cat.ID, "name": cat.Name, "slug": strings.ToLower(cat.Name)})
	}
	s.mu.Unlock()

	return paginate(c, items)
}

func (s *Server) createCategory(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	name := termName(gjson.GetBytes(body, "name").String())

	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return restError(c, http.StatusBadRequest, "rest_missing_callback_param", "Missing parameter(s): name")
	}
	for _, cat := range s.categories {
		if cat.Name == name {
			return restError(c, http.StatusBadRequest, "term_exists", "A term with the name provided already exists.")
		}
	}

	cat := &Resource{ID: s.allocID(), Name: name, Payload: body}
	s.categories = append(s.categories, cat)

	return c.JSON(http.StatusCreated, map[string]any{"id": cat.ID, "name": cat.Name})
}

// termName 워드프레스처럼 용어 이름의 '&'를 HTML 엔티티로 저장합니다. 이미 엔티티인 것은 다시 변환하지 않습니다.
func termName(name string) string {
	return strings.ReplaceAll(html.UnescapeString(name), "&", "&amp;")
}

func (s *Server) listVariations(c echo.Context) error {
	productID, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	s.mu.Lock()
	if findByID(s.products, productID) == nil {
		s.mu.Unlock()
		return restError(c, http.StatusNotFound, "woocommerce_rest_product_invalid_id", "Invalid ID.")
	}
	items := make([]map[string]any, 0, len(s.variations[productID]))
	for _, v := range s.variations[productID] {
		items = append(items, map[string]any{"id": v.ID, "sku": v.SKU, "parent_id": v.ParentID})
	}
	s.mu.Unlock()

	return paginate(c, items)
}

func (s *Server) createVariation(c echo.Context) error {
	productID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	body, err := readBody(c)
	if err != nil {
		return err
	}
	sku := gjson.GetBytes(body, "sku").String()

	s.mu.Lock()
	defer s.mu.Unlock()

	if findByID(s.products, productID) == nil {
		return restError(c, http.StatusNotFound, "woocommerce_rest_product_invalid_id", "Invalid ID.")
	}
	if s.failSKUs[strings.ToLower(sku)] {
		return restError(c, http.StatusBadRequest, "woocommerce_rest_product_variation_invalid", "Simulated failure.")
	}

	v := &Resource{ID: s.allocID(), SKU: sku, ParentID: productID, Payload: body}
	s.variations[productID] = append(s.variations[productID], v)

	return c.JSON(http.StatusCreated, map[string]any{"id": v.ID, "sku": v.SKU, "parent_id": productID})
}

func (s *Server) updateVariation(c echo.Context) error {
	productID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	variationID, _ := strconv.ParseInt(c.Param("vid"), 10, 64)
	body, err := readBody(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v := findByID(s.variations[productID], variationID)
	if v == nil {
		return restError(c, http.StatusBadRequest, "woocommerce_rest_product_variation_invalid_id", "Invalid ID.")
	}
	if s.failSKUs[strings.ToLower(v.SKU)] {
		return restError(c, http.StatusBadRequest, "woocommerce_rest_product_variation_invalid", "Simulated failure.")
	}

	if sku := gjson.GetBytes(body, "sku"); sku.Exists() {
		v.SKU = sku.String()
	}
	v.Payload = body

	return c.JSON(http.StatusOK, map[string]any{"id": v.ID, "sku": v.SKU, "parent_id": productID})
}

func (s *Server) batchTerms(c echo.Context) error {
	attributeID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	body, err := readBody(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.termBatches[attributeID] = append(s.termBatches[attributeID], body)
	created := make([]map[string]any, 0)
	gjson.GetBytes(body, "create").ForEach(func(_, term gjson.Result) bool {
		created = append(created, map[string]any{"id": s.allocID(), "name": term.Get("name").String()})
		return true
	})
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{"create": created})
}

func readBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(body) > 0 && !gjson.ValidBytes(body) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body passed.")
	}
	return body, nil
}

func findByID(resources []*Resource, id int64) *Resource {
	for _, r := range resources {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// paginate per_page/page 쿼리에 따라 목록을 잘라 응답하고 X-WP-Total, X-WP-TotalPages 헤더를 설정합니다.
func paginate(c echo.Context, items []map[string]any) error {
	perPage := queryInt(c.QueryParams(), "per_page", 10)
	page := queryInt(c.QueryParams(), "page", 1)

	total := len(items)
	totalPages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	c.Response().Header().Set("X-WP-Total", strconv.Itoa(total))
	c.Response().Header().Set("X-WP-TotalPages", strconv.Itoa(totalPages))

	return c.JSON(http.StatusOK, items[start:end])
}

func queryInt(q url.Values, key string, def int) int {
	v, err := strconv.Atoi(q.Get(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// String 디버깅용 요약입니다.
func (c Call) String() string {
	return fmt.Sprintf("%s %s", c.Method, c.Path)
}
