package settings

// set by -ldflags "-X github.com/liut/chatbot/pkg/settings.version=..."
var version = "dev"
