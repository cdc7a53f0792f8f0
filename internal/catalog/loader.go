package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonTagName)
	return v
}

// Load 카탈로그 파일을 읽어 상품 목록을 반환합니다.
//
// 파일을 읽을 수 없으면 System, JSON 형식이 잘못되었으면 ParsingFailed,
// sku가 비어있는 상품이나 변형 상품이 있으면 InvalidInput 에러를 반환합니다.
func Load(path string) ([]Product, error) {
	data, err := readFile(path, "카탈로그")
	if err != nil {
		return nil, err
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, parseError(err, path)
	}

	for i := range products {
		if err := validate.Struct(&products[i]); err != nil {
			return nil, apperrors.Wrapf(err, apperrors.InvalidInput, "카탈로그의 %d번째 상품('%s')이 올바르지 않습니다", i+1, products[i].Name)
		}
	}

	return products, nil
}

// LoadAttributeTerms 속성 용어 파일을 읽어 일괄 처리 요청 본문을 만듭니다.
//
// 파일이 용어 객체의 배열이면 전체를 create 항목으로 감싸고,
// 이미 create/update/delete 키를 가진 객체이면 그대로 사용합니다.
func LoadAttributeTerms(path string) (TermBatch, error) {
	data, err := readFile(path, "속성 용어")
	if err != nil {
		return TermBatch{}, err
	}

	if !gjson.ValidBytes(data) {
		return TermBatch{}, apperrors.Newf(apperrors.ParsingFailed, "속성 용어 파일이 올바른 JSON이 아닙니다: '%s'", path)
	}

	var batch TermBatch

	switch parsed := gjson.ParseBytes(data); {
	case parsed.IsArray():
		for _, term := range parsed.Array() {
			if !term.IsObject() {
				return TermBatch{}, apperrors.Newf(apperrors.ParsingFailed, "속성 용어 파일의 항목이 객체가 아닙니다: '%s' (%s)", path, term.Raw)
			}
			batch.Create = append(batch.Create, json.RawMessage(term.Raw))
		}

	case parsed.IsObject():
		if err := json.Unmarshal(data, &batch); err != nil {
			return TermBatch{}, parseError(err, path)
		}

	default:
		return TermBatch{}, apperrors.Newf(apperrors.ParsingFailed, "속성 용어 파일은 배열 또는 객체여야 합니다: '%s'", path)
	}

	return batch, nil
}

func readFile(path, what string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Wrapf(err, apperrors.System, "%s 파일을 찾을 수 없습니다: '%s'", what, path)
		}
		return nil, apperrors.Wrapf(err, apperrors.System, "%s 파일을 읽을 수 없습니다: '%s'", what, path)
	}
	return data, nil
}

func parseError(err error, path string) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) && syntaxErr.Offset > 0 {
		return apperrors.Wrapf(err, apperrors.ParsingFailed, "JSON 파싱에 실패했습니다: '%s' (offset %d)", path, syntaxErr.Offset)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.Wrapf(err, apperrors.ParsingFailed, "JSON 필드 타입이 올바르지 않습니다: '%s' (%s)", path, fieldPath(typeErr))
	}

	return apperrors.Wrapf(err, apperrors.ParsingFailed, "JSON 파싱에 실패했습니다: '%s'", path)
}

func fieldPath(e *json.UnmarshalTypeError) string {
	if e.Field == "" {
		return fmt.Sprintf("%s 값은 %s 타입이어야 합니다", e.Value, e.Type)
	}
	return fmt.Sprintf("%s: %s 값은 %s 타입이어야 합니다", e.Field, e.Value, e.Type)
}
