package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAIKeyVars is the lookup order for the generative-text API key.
var DefaultAIKeyVars = []string{"GEMINI_API_KEY", "API_KEY"}

type Config struct {
	AppName          string
	Env              string // DEV (local; default), TEST, QA, PROD
	Build            string
	Debug            bool
	TestMode         bool
	WorkDir          string
	RollbarToken     string
	SendgridApiKey   string
	DefaultFromEmail mail.Address
	ReportRecipients []string

	Server struct {
		Host            string
		Addr            string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	Sheets struct {
		URL           string
		FireAndForget bool
		ReadMode      bool
	}

	AI struct {
		Model   string
		KeyVars []string
		APIKey  string
		KeyVar  string // name of the variable APIKey was read from
	}
}

// lookupEnv is swapped in tests.
var lookupEnv = os.LookupEnv

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Ascend BIM Gradebook")
	v.SetDefault("build", "dev")
	v.SetDefault("defaultFromEmail", "Ascend BIM <noreply@localhost>")
	v.SetDefault("reportRecipients", []string{})
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("sheets.url", "")
	v.SetDefault("sheets.fireAndForget", false)
	v.SetDefault("sheets.readMode", false)
	v.SetDefault("ai.model", "gemini-3-pro-preview")
	v.SetDefault("ai.keyVars", DefaultAIKeyVars)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	from, err := mail.ParseAddress(v.GetString("defaultFromEmail"))
	if err != nil {
		log.Fatalf("config.defaultFromEmail: %v", err)
	}

	conf := &Config{
		AppName:          v.GetString("appName"),
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		WorkDir:          wd,
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		DefaultFromEmail: *from,
		ReportRecipients: stringList(v, "reportRecipients"),
	}

	conf.Server.Host, _ = os.Hostname()
	conf.Server.Addr = v.GetString("server.addr")
	conf.Server.DebugHost = v.GetString("server.debugHost")
	conf.Server.ShutdownTimeout = v.GetDuration("server.shutdownTimeout")
	conf.Server.DisableReqLogs = v.GetBool("server.disableReqLogs")

	conf.Sheets.URL = strings.TrimSpace(v.GetString("sheets.url"))
	conf.Sheets.FireAndForget = v.GetBool("sheets.fireAndForget")
	conf.Sheets.ReadMode = v.GetBool("sheets.readMode")

	conf.AI.Model = v.GetString("ai.model")
	conf.AI.KeyVars = stringList(v, "ai.keyVars")
	if len(conf.AI.KeyVars) == 0 {
		conf.AI.KeyVars = DefaultAIKeyVars
	}
	conf.AI.APIKey, conf.AI.KeyVar = ResolveKey(conf.AI.KeyVars, lookupEnv)

	return conf
}

// stringList reads a list setting. Env values are comma separated (viper alone splits them on spaces).
func stringList(v *viper.Viper, key string) []string {
	var list []string
	for _, item := range v.GetStringSlice(key) {
		for _, s := range strings.Split(item, ",") {
			if s = strings.TrimSpace(s); s != "" {
				list = append(list, s)
			}
		}
	}
	return list
}

// ResolveKey returns the value and name of the first variable in `names` that is set to a non-blank value.
func ResolveKey(names []string, lookup func(string) (string, bool)) (value, name string) {
	for _, n := range names {
		if val, ok := lookup(n); ok {
			if val = strings.TrimSpace(val); val != "" {
				return val, n
			}
		}
	}
	return "", ""
}
