package notification

import (
	"context"
	"net/http"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/config"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/darkkaiser/catalog-sync/pkg/strutil"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

const (
	// defaultHTTPClientTimeout 텔레그램 API 요청 하나의 최대 대기 시간
	defaultHTTPClientTimeout = 30 * time.Second

	defaultRetryDelay = 3 * time.Second
	maxAttempts       = 3

	// 텔레그램은 같은 채팅방에 초당 1건 정도를 권장합니다.
	defaultRateLimit = 1
	defaultRateBurst = 5
)

// botClient 알림 전송에 필요한 텔레그램 봇 API입니다.
type botClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram 텔레그램 채팅방으로 알림을 전송하는 Sender입니다.
type Telegram struct {
	chatID int64
	bot    botClient

	limiter    *rate.Limiter
	retryDelay time.Duration
}

// NewTelegram 봇 토큰으로 텔레그램 API 클라이언트를 초기화합니다. 초기화 과정에서 getMe 요청으로 토큰을 검증합니다.
func NewTelegram(cfg config.TelegramConfig, debug bool) (*Telegram, error) {
	applog.WithComponentAndFields(component, applog.Fields{
		"bot_token": strutil.Mask(cfg.BotToken),
		"chat_id":   cfg.ChatID,
	}).Debug("텔레그램 봇 API 클라이언트 초기화")

	client := &http.Client{Timeout: defaultHTTPClientTimeout}

	botAPI, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "텔레그램 봇 API 클라이언트 초기화에 실패했습니다. bot_token이 올바른지 확인해주세요")
	}
	botAPI.Debug = debug

	return newTelegramWithBot(cfg.ChatID, botAPI), nil
}

func newTelegramWithBot(chatID int64, bot botClient) *Telegram {
	return &Telegram{
		chatID: chatID,
		bot:    bot,

		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), defaultRateBurst),
		retryDelay: defaultRetryDelay,
	}
}

// Notify 메시지를 HTML 형식으로 조립하여 전송합니다. 긴 메시지는 여러 개로 나누어 순서대로 전송합니다.
func (t *Telegram) Notify(ctx context.Context, title, message string, errorOccurred bool) error {
	for _, chunk := range splitMessage(buildMessage(title, message, errorOccurred), messageMaxLength) {
		if err := t.send(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

// send 메시지 하나를 전송합니다. 429와 5xx 응답은 retryDelay 간격으로 재시도하고,
// 그 외의 API 에러는 즉시 실패로 처리합니다.
func (t *Telegram) send(ctx context.Context, text string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.Timeout, "텔레그램 메시지 전송 대기 중 취소되었습니다")
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return apperrors.Wrap(err, apperrors.Timeout, "텔레그램 메시지 전송이 취소되었습니다")
		}

		_, err := t.bot.Send(msg)
		if err == nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"chat_id":        t.chatID,
				"attempt":        attempt,
				"message_length": len(text),
			}).Debug("텔레그램 메시지 전송 완료")

			return nil
		}
		lastErr = err

		delay, retryable := retryPolicy(lastErr, t.retryDelay)

		applog.WithComponentAndFields(component, applog.Fields{
			"chat_id":   t.chatID,
			"attempt":   attempt,
			"retryable": retryable,
			"error":     lastErr,
		}).Warn("텔레그램 메시지 전송 실패")

		if !retryable || attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return apperrors.Wrap(ctx.Err(), apperrors.Timeout, "텔레그램 메시지 재전송 대기 중 취소되었습니다")
		case <-time.After(delay):
		}
	}

	return apperrors.Wrap(lastErr, apperrors.Unavailable, "텔레그램 메시지를 전송할 수 없습니다")
}

// retryPolicy 에러의 재시도 여부와 대기 시간을 결정합니다.
// 429 응답에 retry_after가 있으면 그 시간만큼 대기합니다.
func retryPolicy(err error, defaultDelay time.Duration) (time.Duration, bool) {
	var apiErr *tgbotapi.Error
	if !apperrors.As(err, &apiErr) {
		// 네트워크 오류 등
		return defaultDelay, true
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		if apiErr.RetryAfter > 0 {
			return time.Duration(apiErr.RetryAfter) * time.Second, true
		}
		return defaultDelay, true
	case apiErr.Code >= http.StatusInternalServerError:
		return defaultDelay, true
	default:
		return 0, false
	}
}
