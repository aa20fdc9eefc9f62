package config

import (
	"os"
	"path/filepath"
)

const configTemplate = `# trade-journal configuration

[storage]
# JSON ledger document. Read at startup, rewritten on every mutation.
# data_file = "~/.config/trade-journal/trading_data.json"

[bot]
# Telegram bot token. Overridden by TELEGRAM_BOT_TOKEN.
token = ""
# Chat account ids allowed to run the global reset.
admin_ids = []

[health]
enabled = true
addr = ":8080"

[logging]
level = "info"
console = true
file = true
`

// createTemplateConfig writes a starter config.toml so a first run leaves
// something to edit. The defaults stay in effect for this run.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(configTemplate), 0o644)
}
