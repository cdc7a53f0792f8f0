package log

import (
	"github.com/sirupsen/logrus"
)

// Level logrus.Level의 별칭입니다.
type Level = logrus.Level

const (
	PanicLevel Level = logrus.PanicLevel
	FatalLevel Level = logrus.FatalLevel

	// ErrorLevel 실행을 계속할 수 없거나 관리자 확인이 필요한 실패 (상품 동기화 실패 등)
	ErrorLevel Level = logrus.ErrorLevel

	// WarnLevel 실행은 계속되지만 주의가 필요한 상황 (변형 상품 하나의 실패, 매핑되지 않은 브랜드 등)
	WarnLevel Level = logrus.WarnLevel

	InfoLevel  Level = logrus.InfoLevel
	DebugLevel Level = logrus.DebugLevel
	TraceLevel Level = logrus.TraceLevel
)

// AllLevels logrus.AllLevels의 별칭입니다.
var AllLevels = logrus.AllLevels

// Fields logrus.Fields의 별칭입니다.
type Fields = logrus.Fields

// Entry logrus.Entry의 별칭입니다.
type Entry = logrus.Entry

// Logger logrus.Logger의 별칭입니다.
type Logger = logrus.Logger

// Formatter logrus.Formatter의 별칭입니다.
type Formatter = logrus.Formatter
