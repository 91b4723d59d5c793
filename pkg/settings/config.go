package settings

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// consts
const (
	Name = "Chatbot"
)

// Config ...
type Config struct {
	Name    string `ignored:"true"`
	Version string `ignored:"true"`
	Develop bool   `envconfig:"DEVELOP"`

	ChatEndpoint string        `envconfig:"CHAT_ENDPOINT" default:"http://localhost:5001/api/chat"`
	ChatTimeout  time.Duration `envconfig:"CHAT_TIMEOUT" default:"0s"` // 0: wait forever
	LogFile      string        `envconfig:"LOG_FILE"`
	PresetFile   string        `envconfig:"preset_file"`

	HTTPListen   string `envconfig:"HTTP_LISTEN" default:":5001"`
	HistoryLimit int    `envconfig:"HISTORY_LIMIT" default:"10"`
	RateLimit    string `envconfig:"RATE_LIMIT"` // like 20-M, empty to disable

	OpenAIAPIKey  string        `envconfig:"openAi_Api_Key"`
	OpenAIBaseURL string        `envconfig:"openAi_Base_URL"`
	OpenAITimeout time.Duration `envconfig:"openAi_Timeout" default:"30s"`
	ChatModel     string        `envconfig:"chat_model" default:"gpt-4o-mini"`
}

var (
	// Current 当前配置
	Current = new(Config)
)

func init() {
	if err := envconfig.Process(Name, Current); err != nil {
		log.Printf("envconfig process fail: %s", err)
	}

	Current.Name = Name
	Current.Version = version
}

// Usage 打印配置帮助
func Usage() error {
	log.Printf("ver: %s", Current.Version)
	return envconfig.Usage(Current.Name, Current)
}

// InDevelop ...
func InDevelop() bool {
	return Current.Develop
}
