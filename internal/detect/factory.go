package detect

import (
	"fmt"
	"strings"
	"time"

	"github.com/enerlytics/roomscan/internal/config"
)

func NewEngine(cfg config.DetectorConfig) (Engine, error) {
	engine := strings.ToLower(cfg.Engine)

	switch engine {
	case "", "opencv":
		timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
		if cfg.TimeoutSeconds <= 0 {
			timeout = 0
		}
		return NewOpenCVEngine(cfg.Interpreter, cfg.Script, timeout), nil

	default:
		return nil, fmt.Errorf("unsupported detection engine: %s", cfg.Engine)
	}
}
