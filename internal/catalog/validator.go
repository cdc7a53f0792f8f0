package catalog

import (
	"reflect"
	"strings"
)

// jsonTagName 검증 에러 메시지에 Go 필드명 대신 JSON 키를 사용합니다.
func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
