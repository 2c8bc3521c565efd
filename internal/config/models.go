package config

import "github.com/qiyuey/bookagent/internal/domain"

// ModelsConfig holds the static model catalogue exposed to clients. The
// catalogue can be overridden wholesale with a JSON array in APP_MODELS_JSON;
// otherwise the built-in default list is used.
type ModelsConfig struct {
	JSON         string `env:"APP_MODELS_JSON"`
	DefaultModel string `env:"APP_DEFAULT_MODEL" envDefault:"qwen-max"`

	Available []domain.ModelDescriptor `env:"-"`
}

func defaultCatalogue() []domain.ModelDescriptor {
	return []domain.ModelDescriptor{
		{ID: "qwen-max", Name: "Qwen Max", Description: "Most capable Qwen model, best for deep interpretation"},
		{ID: "qwen-plus", Name: "Qwen Plus", Description: "Balanced capability and cost"},
		{ID: "qwen-turbo", Name: "Qwen Turbo", Description: "Fast and inexpensive for simple questions"},
		{ID: "deepseek-v3", Name: "DeepSeek V3", Description: "Strong open-weight reasoning model"},
		{ID: "gpt-4o", Name: "GPT-4o", Description: "OpenAI flagship multimodal model"},
		{ID: "gpt-4o-mini", Name: "GPT-4o mini", Description: "Small, fast OpenAI model"},
	}
}
