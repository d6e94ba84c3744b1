package model

import "time"

// DetectionRequest is the payload of an on-demand room-detection call.
// ImagePath is resolved against the workspace root; Width and Height describe
// the viewport the caller will render the floor plan into.
type DetectionRequest struct {
	ImagePath string  `json:"imagePath"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// Document is a parsed detection artifact. The external detector owns its
// structure; nothing here validates it beyond being a JSON object.
type Document map[string]interface{}

// Keys merged into a Document before it is returned to the caller.
const (
	KeyContainerWidth  = "containerWidth"
	KeyContainerHeight = "containerHeight"
	KeyOrientation     = "orientation"
	KeyConfidenceScore = "confidenceScore"
)

// FloorInfo describes one stored detection artifact.
type FloorInfo struct {
	Floor     string    `json:"floor"`
	File      string    `json:"file"`
	SizeBytes int64     `json:"sizeBytes"`
	UpdatedAt time.Time `json:"updatedAt"`
}
