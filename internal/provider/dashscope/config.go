package dashscope

// Config contains DashScope provider configuration. Both API key variables
// are honoured; AI_DASHSCOPE_API_KEY takes precedence when set.
type Config struct {
	APIKey    string `env:"DASHSCOPE_API_KEY"`
	AltAPIKey string `env:"AI_DASHSCOPE_API_KEY"`
	BaseURL   string `env:"DASHSCOPE_BASE_URL" envDefault:"https://dashscope.aliyuncs.com/compatible-mode/v1"`
	Timeout   int    `env:"DASHSCOPE_TIMEOUT"  envDefault:"300"`
}

func (c Config) apiKey() string {
	if c.AltAPIKey != "" {
		return c.AltAPIKey
	}
	return c.APIKey
}
