package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/pkg/validation"
	"github.com/go-playground/validator/v10"
)

var telegramBotTokenRegex = regexp.MustCompile(`^\d{3,20}:[a-zA-Z0-9_-]{30,50}$`)

// validate 설정 구조체 검증에 사용하는 전역 Validator입니다.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// 에러 메시지에 Go 필드명 대신 설정 파일의 키 이름(json 태그)이 나오도록 합니다.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("telegram_bot_token", validateTelegramBotToken); err != nil {
		panic(fmt.Sprintf("초기화 치명적 오류: 'telegram_bot_token' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", err))
	}

	if err := v.RegisterValidation("cors_origin", validateCORSOrigin); err != nil {
		panic(fmt.Sprintf("초기화 치명적 오류: 'cors_origin' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", err))
	}

	return v
}

func validateCORSOrigin(fl validator.FieldLevel) bool {
	return validation.ValidateCORSOrigin(fl.Field().String()) == nil
}

func validateTelegramBotToken(fl validator.FieldLevel) bool {
	return telegramBotTokenRegex.MatchString(fl.Field().String())
}

// validateStruct 구조체를 검증하고, 실패 시 첫 번째 위반 항목을 설정 키 경로로 설명하는 에러를 반환합니다.
func validateStruct(s any, rootName string) error {
	if err := validate.Struct(s); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
			fieldErr := validationErrors[0]
			key := strings.TrimPrefix(fieldErr.Namespace(), rootName+".")

			switch fieldErr.Tag() {
			case "required", "required_if":
				return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("필수 설정 값이 누락되었습니다: %s", key))
			case "telegram_bot_token":
				return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("텔레그램 봇 토큰 형식이 올바르지 않습니다: %s", key))
			case "cors_origin":
				return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("CORS Origin 형식이 올바르지 않습니다: %s='%v'", key, fieldErr.Value()))
			}

			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("설정 값이 올바르지 않습니다: %s (조건: %s=%s)", key, fieldErr.Tag(), fieldErr.Param()))
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "설정 유효성 검증에 실패했습니다")
	}
	return nil
}
