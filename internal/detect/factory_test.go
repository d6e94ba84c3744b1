package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enerlytics/roomscan/internal/config"
)

func TestNewEngine_OpenCV(t *testing.T) {
	eng, err := NewEngine(config.DetectorConfig{
		Engine:         "opencv",
		Interpreter:    "python3",
		Script:         "scripts/detect_rooms.py",
		TimeoutSeconds: 30,
	})
	require.NoError(t, err)

	ocv, ok := eng.(*OpenCVEngine)
	require.True(t, ok)
	assert.Equal(t, "python3", ocv.Interpreter)
	assert.Equal(t, "scripts/detect_rooms.py", ocv.Script)
	assert.Equal(t, 30*time.Second, ocv.Timeout)
}

func TestNewEngine_DefaultsToOpenCV(t *testing.T) {
	eng, err := NewEngine(config.DetectorConfig{Interpreter: "python3", Script: "s.py"})
	require.NoError(t, err)
	assert.IsType(t, &OpenCVEngine{}, eng)
}

func TestNewEngine_CaseInsensitive(t *testing.T) {
	eng, err := NewEngine(config.DetectorConfig{Engine: "OpenCV"})
	require.NoError(t, err)
	assert.IsType(t, &OpenCVEngine{}, eng)
}

func TestNewEngine_NoTimeoutWhenUnset(t *testing.T) {
	eng, err := NewEngine(config.DetectorConfig{Engine: "opencv", TimeoutSeconds: -5})
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), eng.(*OpenCVEngine).Timeout)
}

func TestNewEngine_Unsupported(t *testing.T) {
	_, err := NewEngine(config.DetectorConfig{Engine: "yolo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported detection engine")
}
