package config

const (
	DefaultServerURL = "https://crayond.onrender.com"
	DefaultGreeting  = "Hello there! Who would you like to analyze today?"
)

var DefaultSuggestions = []string{
	"Analyze Competitor X",
	"Market Trends",
	"SWOT Analysis",
	"Pricing Strategy",
}

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: GetDefaultDataDir(),
	}
}

func DefaultUserConfig() *UserConfig {
	suggestions := make([]string, len(DefaultSuggestions))
	copy(suggestions, DefaultSuggestions)
	return &UserConfig{
		Server: ServerConfig{
			URL:            DefaultServerURL,
			TimeoutSeconds: 120,
		},
		Theme:       ThemeDark,
		Greeting:    DefaultGreeting,
		Suggestions: suggestions,
	}
}

func GenerateSystemConfigTemplate() string {
	return `# cichat System Configuration
# Location: ~/.config/cichat/settings.toml
# This file uses TOML format: https://toml.io

# Directory where user config, keybindings and debug.log are stored
data_directory = "~/.local/share/cichat"
`
}

func GenerateUserConfigTemplate() string {
	return `# cichat User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

# Color theme: "dark" or "light"
theme = "dark"

# Suggestion chips shown above the input box
suggestions = ["Analyze Competitor X", "Market Trends", "SWOT Analysis", "Pricing Strategy"]

[server]
# Competitive Intelligence chatbot service
url = "https://crayond.onrender.com"

# Per-request timeout
timeout_seconds = 120
`
}
