package log

import "github.com/sirupsen/logrus"

// silentFormatter 아무 것도 출력하지 않는 포맷터입니다.
// 실제 포맷팅은 hook에서 한 번만 수행하므로, Logger 자체의 포맷팅 비용을 없애기 위해 사용합니다.
type silentFormatter struct{}

func (f *silentFormatter) Format(_ *logrus.Entry) ([]byte, error) {
	return nil, nil
}
