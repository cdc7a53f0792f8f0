// Package woocommerce WooCommerce REST API(wc/v3) 클라이언트입니다.
//
// 동기화에 필요한 리소스(상품, 변형 상품, 카테고리, 속성 용어)의 조회/생성/수정만 지원하며,
// 응답에서는 식별 필드(id, sku, name, parent_id)만 읽습니다.
package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/darkkaiser/catalog-sync/internal/fetcher"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/tidwall/gjson"
)

const (
	component = "woocommerce.client"

	defaultAPIVersion = "wc/v3"
	defaultPerPage    = 100
	maxPerPage        = 100

	// maxPages 페이지네이션 헤더가 잘못된 경우 무한 루프를 막기 위한 상한
	maxPages = 10000
)

// Config Client 생성 설정입니다.
type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string

	// APIVersion 빈 값이면 "wc/v3"
	APIVersion string

	// PerPage 목록 조회 시 페이지 크기 (1~100, 0이면 100)
	PerPage int
}

// Client WooCommerce REST API 클라이언트입니다.
// 인증 정보는 쿼리 문자열(consumer_key, consumer_secret)로 전달합니다.
type Client struct {
	fetcher fetcher.Fetcher

	endpoint       string
	consumerKey    string
	consumerSecret string
	perPage        int
}

// New 새로운 Client를 생성합니다.
func New(cfg Config, f fetcher.Fetcher) (*Client, error) {
	if f == nil {
		return nil, apperrors.New(apperrors.Internal, "Fetcher가 nil입니다")
	}
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "consumer_key와 consumer_secret은 필수입니다")
	}

	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, apperrors.Newf(apperrors.InvalidInput, "WooCommerce 주소가 올바르지 않습니다: '%s'", cfg.BaseURL)
	}

	apiVersion := strings.Trim(cfg.APIVersion, "/")
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}

	perPage := cfg.PerPage
	if perPage <= 0 || perPage > maxPerPage {
		perPage = defaultPerPage
	}

	endpoint, err := url.JoinPath(base.String(), "wp-json", apiVersion)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "WooCommerce API 주소를 구성할 수 없습니다")
	}

	return &Client{
		fetcher:        f,
		endpoint:       endpoint,
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		perPage:        perPage,
	}, nil
}

// Close 내부 Fetcher의 리소스를 정리합니다.
func (c *Client) Close() error {
	return c.fetcher.Close()
}

// do 요청을 전송하고 응답 본문과 헤더를 반환합니다.
// payload가 nil이 아니면 JSON으로 인코딩하여 본문으로 전송합니다. json.RawMessage는 그대로 전송됩니다.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, http.Header, error) {
	reqURL, err := c.buildURL(path, query)
	if err != nil {
		return nil, nil, err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, apperrors.Wrap(err, apperrors.Internal, "요청 본문을 JSON으로 인코딩할 수 없습니다")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.Internal, "HTTP 요청을 생성할 수 없습니다")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.fetcher.Do(req)
	if err != nil {
		return nil, nil, classifyError(ctx, err, method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, classifyError(ctx, err, method, path)
	}

	return data, resp.Header, nil
}

func (c *Client) buildURL(path string, query url.Values) (string, error) {
	u, err := url.Parse(c.endpoint + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", apperrors.Wrapf(err, apperrors.Internal, "요청 URL을 구성할 수 없습니다: '%s'", path)
	}

	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("consumer_key", c.consumerKey)
	q.Set("consumer_secret", c.consumerSecret)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// classifyError 전송 계층의 에러에 요청 정보와 원격 에러 메시지를 덧붙입니다.
//
// WooCommerce는 실패 시 {"code": "...", "message": "...", "data": {"status": N}} 형태로 응답하므로,
// HTTPStatusError의 본문에서 message를 꺼내 에러 메시지에 포함시킵니다.
func classifyError(ctx context.Context, err error, method, path string) error {
	var statusErr *fetcher.HTTPStatusError
	if errors.As(err, &statusErr) {
		code := gjson.Get(statusErr.BodySnippet, "code").String()
		msg := gjson.Get(statusErr.BodySnippet, "message").String()
		if msg != "" {
			return apperrors.Wrapf(err, apperrors.UnderlyingType(err), "%s %s 요청이 실패했습니다 (%s: %s)", method, path, code, msg)
		}
		return apperrors.Wrapf(err, apperrors.UnderlyingType(err), "%s %s 요청이 실패했습니다", method, path)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.Wrapf(err, apperrors.Timeout, "%s %s 요청 시간이 초과되었습니다", method, path)
	}

	if t := apperrors.UnderlyingType(err); t != apperrors.Unknown {
		return apperrors.Wrapf(err, t, "%s %s 요청이 실패했습니다", method, path)
	}

	return apperrors.Wrapf(err, apperrors.Unavailable, "%s %s 요청을 전송할 수 없습니다", method, path)
}

// listAll 페이지네이션된 목록을 모두 조회하여 각 항목을 fn으로 전달합니다.
//
// X-WP-TotalPages 헤더가 있으면 그 값까지, 없으면 한 페이지의 항목 수가 per_page보다 작아질 때까지 조회합니다.
func (c *Client) listAll(ctx context.Context, path string, fn func(item gjson.Result)) error {
	for page := 1; page <= maxPages; page++ {
		query := url.Values{}
		query.Set("per_page", strconv.Itoa(c.perPage))
		query.Set("page", strconv.Itoa(page))

		data, header, err := c.do(ctx, http.MethodGet, path, query, nil)
		if err != nil {
			return err
		}

		if !gjson.ValidBytes(data) {
			return apperrors.Newf(apperrors.ParsingFailed, "GET %s 응답이 올바른 JSON이 아닙니다 (page=%d)", path, page)
		}
		result := gjson.ParseBytes(data)
		if !result.IsArray() {
			return apperrors.Newf(apperrors.ParsingFailed, "GET %s 응답이 배열이 아닙니다 (page=%d)", path, page)
		}

		items := result.Array()
		for _, item := range items {
			fn(item)
		}

		applog.WithComponentAndFields(component, applog.Fields{
			"path":  path,
			"page":  page,
			"count": len(items),
		}).Debug("목록 페이지 조회 완료")

		if totalPages, err := strconv.Atoi(header.Get("X-WP-TotalPages")); err == nil {
			if page >= totalPages {
				return nil
			}
			continue
		}

		if len(items) < c.perPage {
			return nil
		}
	}

	return apperrors.Newf(apperrors.ExecutionFailed, "GET %s 목록의 페이지 수가 상한(%d)을 초과했습니다", path, maxPages)
}

// createdID 생성 요청 응답에서 새로 부여된 id를 꺼냅니다.
func createdID(data []byte, what string) (int64, error) {
	id := gjson.GetBytes(data, "id")
	if !id.Exists() || id.Int() <= 0 {
		return 0, apperrors.Newf(apperrors.ParsingFailed, "%s 생성 응답에 id가 없습니다", what)
	}
	return id.Int(), nil
}
