package presets

import (
	"os"

	"github.com/cupogo/andvari/utils/zlog"
	"gopkg.in/yaml.v3"

	"github.com/liut/chatbot/pkg/models/chat"
)

func logger() zlog.Logger {
	return zlog.Get()
}

// Load decode preset from a yaml file, empty name returns a zero preset.
func Load(name string) (doc chat.Preset, err error) {
	if len(name) == 0 {
		return
	}
	var yf *os.File
	yf, err = os.Open(name)
	if err != nil {
		logger().Infow("load preset fail", "file", name, "err", err)
		return
	}
	defer yf.Close()
	err = yaml.NewDecoder(yf).Decode(&doc)
	if err != nil {
		logger().Infow("decode preset fail", "file", name, "err", err)
		return
	}
	logger().Debugw("loaded preset", "file", name, "welcome", doc.Welcome != nil)

	return
}
