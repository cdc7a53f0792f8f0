// Package errors 동기화 도구 전용 에러 처리 패키지입니다.
//
// 모든 에러는 ErrorType으로 분류되며, Wrap 계열 함수로 컨텍스트를 누적할 수 있습니다.
// 카탈로그 동기화 과정에서 발생하는 에러는 다음과 같이 분류합니다:
//
//   - 파일/설정을 읽을 수 없음: System
//   - JSON 형식 오류: ParsingFailed
//   - 참조한 카테고리 등을 찾을 수 없음: NotFound
//   - 원격 API 실패: ExecutionFailed, Unavailable, InvalidInput 등 (HTTP 상태 코드에 따름)
//
// 사용 예:
//
//	if err != nil {
//	    return errors.Wrap(err, errors.System, "카탈로그 파일을 읽을 수 없습니다")
//	}
//
//	if errors.Is(err, errors.NotFound) {
//	    // ...
//	}
package errors

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
)

// AppError ErrorType과 메시지, 원인 에러, 생성 지점의 스택을 담는 에러입니다.
type AppError struct {
	errType ErrorType
	message string
	cause   error
	stack   []StackFrame
}

// newAppError New/Wrap 계열 함수의 공통 생성자입니다. 스택은 공개 함수를 호출한 지점부터 기록됩니다.
func newAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		errType: errType,
		message: message,
		cause:   cause,
		stack:   captureStack(defaultCallerSkip),
	}
}

func (e *AppError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("[%s] %s", e.errType, e.message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.errType, e.message, e.cause)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Format %+v는 체인 전체와 스택을 여러 줄로 출력하고, 나머지 동사는 Error()와 같습니다.
func (e *AppError) Format(s fmt.State, verb rune) {
	switch {
	case verb == 'v' && s.Flag('+'):
		e.writeDetail(s, verb)
	case verb == 'q':
		fmt.Fprintf(s, "%q", e.Error())
	default:
		io.WriteString(s, e.Error())
	}
}

func (e *AppError) writeDetail(s fmt.State, verb rune) {
	fmt.Fprintf(s, "[%s] %s", e.errType, e.message)

	// 원인이 AppError이면 그쪽에서 스택을 출력하므로 여기서는 생략합니다.
	var inner *AppError
	if !errors.As(e.cause, &inner) && len(e.stack) > 0 {
		io.WriteString(s, "\nStack trace:")
		for _, f := range e.stack {
			fn := f.Function[strings.LastIndex(f.Function, "/")+1:]
			fmt.Fprintf(s, "\n\t%s:%d %s", f.File, f.Line, fn)
		}
	}

	if e.cause == nil {
		return
	}

	io.WriteString(s, "\nCaused by:\n")
	if f, ok := e.cause.(fmt.Formatter); ok {
		f.Format(s, verb)
		return
	}
	fmt.Fprintf(s, "\t%v", e.cause)
}

// New 새로운 에러를 생성합니다.
func New(errType ErrorType, message string) error {
	return newAppError(errType, message, nil)
}

// Newf 포맷 문자열을 사용하여 새로운 에러를 생성합니다.
func Newf(errType ErrorType, format string, args ...any) error {
	return newAppError(errType, fmt.Sprintf(format, args...), nil)
}

// Wrap 기존 에러를 감싸서 새로운 에러를 생성합니다. err가 nil이면 nil을 반환합니다.
func Wrap(err error, errType ErrorType, message string) error {
	if err == nil {
		return nil
	}
	return newAppError(errType, message, err)
}

// Wrapf 포맷 문자열을 사용하여 기존 에러를 감쌉니다. err가 nil이면 nil을 반환합니다.
func Wrapf(err error, errType ErrorType, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return newAppError(errType, fmt.Sprintf(format, args...), err)
}

// chain 에러 체인의 AppError를 바깥쪽부터 순서대로 반환합니다.
func chain(err error) iter.Seq[*AppError] {
	return func(yield func(*AppError) bool) {
		for ; err != nil; err = errors.Unwrap(err) {
			if appErr, ok := err.(*AppError); ok && !yield(appErr) {
				return
			}
		}
	}
}

// Is 에러 체인에 특정 ErrorType이 포함되어 있는지 확인합니다.
func Is(err error, errType ErrorType) bool {
	for appErr := range chain(err) {
		if appErr.errType == errType {
			return true
		}
	}
	return false
}

// As 표준 errors.As의 별칭입니다.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// UnderlyingType 에러 체인에서 가장 안쪽에 있는 AppError의 ErrorType을 반환합니다.
// 체인에 AppError가 없으면 Unknown을 반환합니다.
//
//	err := Wrap(New(NotFound, "카테고리 없음"), ExecutionFailed, "상품 동기화 실패")
//	UnderlyingType(err) // NotFound
func UnderlyingType(err error) ErrorType {
	errType := Unknown
	for appErr := range chain(err) {
		errType = appErr.errType
	}
	return errType
}
