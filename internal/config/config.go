package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/pkg/cronx"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션 이름
	AppName string = "catalog-sync"

	// DefaultFilename 기본 설정 파일 이름
	DefaultFilename = AppName + ".json"

	// DefaultEnvFilename 비밀 값(consumer_key, bot_token 등)을 담는 dotenv 파일 이름
	DefaultEnvFilename = ".env"

	// EnvPrefix 설정을 덮어쓰는 환경 변수의 접두사입니다.
	// 중첩 키는 "__"로 구분합니다. 예: CATSYNC_WOOCOMMERCE__CONSUMER_SECRET
	EnvPrefix = "CATSYNC_"
)

// AppConfig 애플리케이션 전체 설정입니다.
type AppConfig struct {
	Debug       bool              `json:"debug"`
	WooCommerce WooCommerceConfig `json:"woocommerce"`
	Catalog     CatalogConfig     `json:"catalog"`
	Sync        SyncConfig        `json:"sync"`
	Report      ReportConfig      `json:"report"`
	Schedule    ScheduleConfig    `json:"schedule"`
	Notifier    NotifierConfig    `json:"notifier"`
	StatusAPI   StatusAPIConfig   `json:"status_api"`
}

// Daemon 스케줄러 또는 상태 API가 활성화되어 상주 실행이 필요한지 여부를 반환합니다.
func (c *AppConfig) Daemon() bool {
	return c.Schedule.Enabled || c.StatusAPI.Enabled
}

func (c *AppConfig) validate() error {
	if err := validateStruct(c, "AppConfig"); err != nil {
		return err
	}

	if _, err := c.WooCommerce.RequestTimeout(); err != nil {
		return err
	}

	if c.Sync.Brand.Enabled && len(c.Sync.Brand.Mapping) == 0 {
		return apperrors.New(apperrors.InvalidInput, "브랜드 지정 기능이 활성화되었지만 매핑(sync.brand.mapping)이 비어있습니다")
	}

	if c.Schedule.Enabled {
		if err := cronx.Validate(c.Schedule.TimeSpec); err != nil {
			return apperrors.Wrap(err, apperrors.InvalidInput, "스케줄(schedule.time_spec) 설정이 유효하지 않습니다")
		}
	}

	return nil
}

// WooCommerceConfig 원격 WooCommerce REST API 접속 설정입니다.
type WooCommerceConfig struct {
	BaseURL          string `json:"base_url" validate:"required,http_url"`
	ConsumerKey      string `json:"consumer_key" validate:"required"`
	ConsumerSecret   string `json:"consumer_secret" validate:"required"`
	APIVersion       string `json:"api_version" validate:"required"`
	Timeout          string `json:"timeout"`
	PerPage          int    `json:"per_page" validate:"min=1,max=100"`
	MaxResponseBytes int64  `json:"max_response_bytes" validate:"min=-1"`
}

// RequestTimeout Timeout 문자열을 time.Duration으로 변환합니다.
func (c WooCommerceConfig) RequestTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 0, apperrors.Newf(apperrors.InvalidInput, "요청 타임아웃(woocommerce.timeout) 설정이 올바르지 않습니다: '%s' (예: 30s, 1m)", c.Timeout)
	}
	return d, nil
}

// CatalogConfig 로컬 카탈로그 입력 설정입니다.
type CatalogConfig struct {
	File string `json:"file" validate:"required"`

	// ImageBaseURL 카탈로그의 이미지 파일명 앞에 붙일 URL 접두사
	ImageBaseURL string `json:"image_base_url" validate:"required"`
}

// SyncConfig 동기화 동작 설정입니다.
type SyncConfig struct {
	// CreateCategories 상품 동기화 전에 카탈로그가 참조하는 카테고리 중 원격에 없는 것을 생성합니다.
	CreateCategories bool `json:"create_categories"`

	// FailOnMissingCategory true이면 원격에 없는 카테고리를 참조하는 상품의 동기화를 실패로 처리합니다.
	// false이면 해당 카테고리를 {"id": null}로 전송합니다.
	FailOnMissingCategory bool `json:"fail_on_missing_category"`

	AttributeTerms []AttributeTermsConfig `json:"attribute_terms" validate:"dive"`

	Brand BrandConfig `json:"brand"`
}

// AttributeTermsConfig 전역 속성(Attribute)에 일괄 등록할 용어(Term) 파일 설정입니다.
type AttributeTermsConfig struct {
	Name        string `json:"name"`
	AttributeID int64  `json:"attribute_id" validate:"required,gt=0"`
	File        string `json:"file" validate:"required"`
}

// BrandConfig SKU 첫 글자로 브랜드를 결정하여 상품에 지정하는 설정입니다.
type BrandConfig struct {
	Enabled bool   `json:"enabled"`
	Field   string `json:"field" validate:"required_if=Enabled true"`

	// Mapping SKU 첫 글자 -> 원격 브랜드 ID
	Mapping map[string]int64 `json:"mapping" validate:"dive,keys,len=1,endkeys,gt=0"`
}

// ReportConfig 실행 결과 리포트 저장 설정입니다.
type ReportConfig struct {
	Dir string `json:"dir" validate:"required"`
}

// ScheduleConfig 주기 실행 설정입니다.
type ScheduleConfig struct {
	Enabled  bool   `json:"enabled"`
	TimeSpec string `json:"time_spec"`
}

// NotifierConfig 알림 설정입니다.
type NotifierConfig struct {
	Telegram TelegramConfig `json:"telegram"`
}

// TelegramConfig 텔레그램 알림 설정입니다.
type TelegramConfig struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"bot_token" validate:"required_if=Enabled true,omitempty,telegram_bot_token"`
	ChatID   int64  `json:"chat_id" validate:"required_if=Enabled true"`
}

// StatusAPIConfig 상태 조회/실행 요청 API 서버 설정입니다.
type StatusAPIConfig struct {
	Enabled      bool     `json:"enabled"`
	ListenPort   int      `json:"listen_port" validate:"required_if=Enabled true,omitempty,min=1,max=65535"`
	AllowOrigins []string `json:"allow_origins" validate:"dive,cors_origin"`
}

// defaultConfig 설정 파일과 환경 변수보다 먼저 적용되는 기본값입니다.
func defaultConfig() AppConfig {
	return AppConfig{
		WooCommerce: WooCommerceConfig{
			APIVersion: "wc/v3",
			Timeout:    "30s",
			PerPage:    100,
		},
		Catalog: CatalogConfig{
			File: "prodotti.json",
		},
		Sync: SyncConfig{
			Brand: BrandConfig{
				Field: "brands",
			},
		},
		Report: ReportConfig{
			Dir: "reports",
		},
		Schedule: ScheduleConfig{
			TimeSpec: "0 0 3 * * *",
		},
		StatusAPI: StatusAPIConfig{
			ListenPort:   2443,
			AllowOrigins: []string{"*"},
		},
	}
}

// Load 기본 설정 파일(catalog-sync.json)과 .env 파일, 환경 변수를 읽어 설정을 구성합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename, DefaultEnvFilename)
}

// LoadWithFile 지정된 설정 파일과 dotenv 파일로 설정을 구성합니다.
//
// 적용 순서 (뒤에 오는 값이 우선):
//  1. 기본값 (defaultConfig)
//  2. JSON 설정 파일
//  3. dotenv 파일 (이미 설정된 환경 변수는 덮어쓰지 않음)
//  4. CATSYNC_ 접두사 환경 변수
func LoadWithFile(filename, envFilename string) (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "json"), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	if err := loadDotEnv(envFilename); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true, // 구조체에 없는 키가 설정 파일에 있으면 오타로 간주
			WeaklyTypedInput: true, // 환경 변수의 문자열 값을 bool/int로 변환
		},
	}

	var appConfig AppConfig
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	if err := appConfig.validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}

// loadDotEnv dotenv 파일이 존재하면 환경 변수로 로드합니다. 파일이 없으면 무시합니다.
func loadDotEnv(filename string) error {
	if filename == "" {
		return nil
	}

	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err := godotenv.Load(filename); err != nil {
		return apperrors.Wrap(err, apperrors.System, fmt.Sprintf("dotenv 파일 로드에 실패했습니다: '%s'", filename))
	}

	return nil
}
