package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/enerlytics/roomscan/internal/config"
	"github.com/enerlytics/roomscan/internal/core/model"
	"github.com/enerlytics/roomscan/internal/detect"
	"github.com/enerlytics/roomscan/internal/store"
)

// Detector ties the pieces of one detection flow together: resolve the
// image inside the workspace, run the external engine, read back the
// artifact it wrote, and merge in the caller's viewport metadata.
type Detector struct {
	Engine    detect.Engine
	Workspace *store.Workspace
	Artifacts *store.ArtifactStore

	// Merged into every detection response. These are presentation defaults
	// for the floor-plan viewer, not outputs of the detection algorithm.
	Orientation     string
	ConfidenceScore float64

	// RunID labels log lines for one detection run. Injectable in tests.
	RunID func() string

	inflight keyedMutex
}

func NewDetector(engine detect.Engine, ws *store.Workspace, artifacts *store.ArtifactStore, results config.ResultsConfig) *Detector {
	return &Detector{
		Engine:          engine,
		Workspace:       ws,
		Artifacts:       artifacts,
		Orientation:     results.Orientation,
		ConfidenceScore: results.ConfidenceScore,
		RunID:           func() string { return uuid.New().String() },
	}
}

// DetectRooms runs the external detector against the requested image and
// returns the artifact it produced, augmented with container dimensions,
// orientation and confidence defaults.
func (d *Detector) DetectRooms(ctx context.Context, req model.DetectionRequest) (model.Document, error) {
	if strings.TrimSpace(req.ImagePath) == "" {
		return nil, &ValidationError{Msg: "imagePath is required"}
	}

	abs, err := d.Workspace.ResolveImage(req.ImagePath)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, &NotFoundError{Msg: fmt.Sprintf("image not found: %s", req.ImagePath)}
		case errors.Is(err, store.ErrOutsideRoot), errors.Is(err, store.ErrNotFile):
			return nil, &ValidationError{Msg: fmt.Sprintf("invalid image path: %s", req.ImagePath)}
		default:
			return nil, err
		}
	}

	// One external process per image at a time. Requests for other images
	// still run in parallel, unbounded.
	unlock := d.inflight.lock(abs)
	defer unlock()

	runID := d.RunID()
	log.Printf("detection run %s: image=%s", runID, abs)

	run, err := d.Engine.Detect(ctx, abs)
	if err != nil {
		var exitErr *detect.ExitError
		if errors.As(err, &exitErr) {
			log.Printf("detection run %s: exit code %d", runID, exitErr.Code)
			return nil, &ProcessingError{
				Msg:     "room detection failed",
				Details: string(exitErr.Stderr),
				Err:     err,
			}
		}
		log.Printf("detection run %s: %v", runID, err)
		return nil, &ProcessingError{
			Msg:     "failed to run room detection",
			Details: err.Error(),
			Err:     err,
		}
	}

	doc, err := d.Artifacts.LoadArtifact(abs)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// The process reported success but wrote nothing; its stdout is
			// the only diagnostic there is.
			log.Printf("detection run %s: no artifact at %s", runID, d.Artifacts.ArtifactPath(abs))
			return nil, &ProcessingError{
				Msg:     "detection completed but produced no output",
				Details: string(run.Stdout),
				Err:     err,
			}
		case errors.Is(err, store.ErrNotObject):
			return nil, &ProcessingError{
				Msg:     "detection output is not a JSON object",
				Details: string(run.Stdout),
				Err:     err,
			}
		default:
			return nil, err
		}
	}

	log.Printf("detection run %s: ok, artifact=%s", runID, store.ArtifactName(abs))
	return d.augment(doc, req), nil
}

// augment copies the artifact document and merges the caller-facing fields.
// The input map may be shared with the artifact cache, so it is never
// written in place.
func (d *Detector) augment(doc model.Document, req model.DetectionRequest) model.Document {
	merged := make(model.Document, len(doc)+4)
	for k, v := range doc {
		merged[k] = v
	}
	merged[model.KeyContainerWidth] = req.Width
	merged[model.KeyContainerHeight] = req.Height
	merged[model.KeyOrientation] = d.Orientation
	merged[model.KeyConfidenceScore] = d.ConfidenceScore
	return merged
}

// FloorResult returns the stored detection document whose artifact file name
// contains floorID, exactly as the detector wrote it.
func (d *Detector) FloorResult(floorID string) (interface{}, error) {
	if strings.TrimSpace(floorID) == "" {
		return nil, &ValidationError{Msg: "floor id is required"}
	}
	doc, file, err := d.Artifacts.FindFloor(floorID)
	if err != nil {
		if errors.Is(err, store.ErrNoArtifact) {
			return nil, &NotFoundError{Msg: fmt.Sprintf("no detection results for floor %s", floorID)}
		}
		return nil, err
	}
	log.Printf("floor %s: serving %s", floorID, file)
	return doc, nil
}

// Floors lists every stored detection artifact.
func (d *Detector) Floors() ([]model.FloorInfo, error) {
	return d.Artifacts.ListFloors()
}
