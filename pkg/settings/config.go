package settings

import (
	"log"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// consts
const (
	Name = "tutorbot"
)

var version = "dev"

// Config ...
type Config struct {
	Name    string `ignored:"true"`
	Version string `ignored:"true"`

	HTTPListen   string   `envconfig:"HTTP_LISTEN" default:":5000"`
	RedisURI     string   `envconfig:"redis_uri" default:"redis://localhost:6379/1"`
	AllowOrigins []string `envconfig:"allow_origins" default:"*"` // CORS origins
	CookieName   string   `envconfig:"Cookie_Name" default:"tbsid"`
	CookiePath   string   `envconfig:"Cookie_Path" default:"/"`
	CookieMaxAge int      `envconfig:"Cookie_MaxAge" default:"86400"`

	// Users lists registered accounts as email:bcrypthash
	Users []string `envconfig:"users"`

	AskRate     string `envconfig:"ask_rate" default:"30-M"`
	HistoryMax  string `envconfig:"history_max" default:"100"`
	HistoryDays int    `envconfig:"history_days" default:"90"`

	OpenAIAPIKey  string `envconfig:"openAi_Api_Key"`
	OpenAIBaseURL string `envconfig:"openAi_Base_URL"`
	ChatModel     string `envconfig:"chat_model" default:"mistral-small-latest"`
	PresetFile    string `envconfig:"preset_file"`

	BackendURL string `envconfig:"backend_url" default:"http://localhost:5000"`
}

var (
	// Current the active config
	Current = new(Config)
)

func init() {
	if err := envconfig.Process(Name, Current); err != nil {
		log.Printf("envconfig process fail: %s", err)
	}

	Current.Name = Name
	Current.Version = version
}

// Usage prints config help
func Usage() error {
	log.Printf("ver: %s", Current.Version)
	return envconfig.Usage(Current.Name, Current)
}

// InDevelop reports whether TUTORBOT_DEVELOP is set
func InDevelop() bool {
	v := strings.ToLower(os.Getenv("TUTORBOT_DEVELOP"))
	return v == "1" || v == "true" || v == "yes"
}

// AllowAllOrigins ...
func AllowAllOrigins() bool {
	return 0 == len(Current.AllowOrigins) ||
		1 == len(Current.AllowOrigins) && Current.AllowOrigins[0] == "*"
}
