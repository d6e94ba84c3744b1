package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/enerlytics/roomscan/internal/core/model"
)

// ArtifactSuffix is the file-naming convention shared with the external
// detector: for an input image <base>.<ext> it writes
// <dataDir>/<base>_enhanced_rooms.json. This convention is the entire
// coupling contract between the two processes.
const ArtifactSuffix = "_enhanced_rooms.json"

var (
	// ErrNoArtifact is returned when no stored artifact matches a floor id.
	ErrNoArtifact = errors.New("store: no matching detection artifact")

	// ErrNotObject is returned when an artifact parses as JSON but its top
	// level is not an object, so viewport metadata cannot be merged into it.
	ErrNotObject = errors.New("store: artifact is not a JSON object")
)

// ArtifactStore reads detection artifacts from the shared data directory.
// Artifacts are written there by the external detector, never by this
// process, so reads revalidate cached entries against file modification
// time and size rather than relying on write-through invalidation.
type ArtifactStore struct {
	dataDir string
	cache   *lru.Cache[string, cachedDoc]
}

type cachedDoc struct {
	value   interface{}
	modTime time.Time
	size    int64
}

func NewArtifactStore(dataDir string, cacheEntries int) (*ArtifactStore, error) {
	if strings.TrimSpace(dataDir) == "" {
		return nil, errors.New("store: data directory is required")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}
	if cacheEntries <= 0 {
		cacheEntries = 256
	}
	cache, err := lru.New[string, cachedDoc](cacheEntries)
	if err != nil {
		return nil, err
	}
	return &ArtifactStore{dataDir: dataDir, cache: cache}, nil
}

func (s *ArtifactStore) DataDir() string {
	return s.dataDir
}

// ArtifactName derives the conventional artifact file name for an image:
// the image file name without its extension plus ArtifactSuffix.
func ArtifactName(imagePath string) string {
	base := filepath.Base(imagePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ArtifactSuffix
}

// ArtifactPath returns where the external detector is expected to have
// written the artifact for the given image.
func (s *ArtifactStore) ArtifactPath(imagePath string) string {
	return filepath.Join(s.dataDir, ArtifactName(imagePath))
}

// LoadArtifact reads and parses the artifact expected for imagePath. The
// artifact must be a JSON object; a missing file surfaces fs.ErrNotExist.
func (s *ArtifactStore) LoadArtifact(imagePath string) (model.Document, error) {
	value, err := s.readDoc(s.ArtifactPath(imagePath))
	if err != nil {
		return nil, err
	}
	obj, ok := value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: %w", ArtifactName(imagePath), ErrNotObject)
	}
	return model.Document(obj), nil
}

// FindFloor scans the data directory for artifacts whose file name contains
// floorID and returns the parsed content of the first match in lexical
// order, along with the matched file name. Lexical ordering makes the
// multi-match case deterministic; directory order never leaks through.
func (s *ArtifactStore) FindFloor(floorID string) (interface{}, string, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("floor %q: %w", floorID, ErrNoArtifact)
		}
		return nil, "", err
	}

	var matches []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.Contains(name, floorID) && strings.HasSuffix(name, ArtifactSuffix) {
			matches = append(matches, name)
		}
	}
	if len(matches) == 0 {
		return nil, "", fmt.Errorf("floor %q: %w", floorID, ErrNoArtifact)
	}
	sort.Strings(matches)

	value, err := s.readDoc(filepath.Join(s.dataDir, matches[0]))
	if err != nil {
		return nil, "", err
	}
	return value, matches[0], nil
}

// ListFloors enumerates every stored artifact, sorted by floor id.
func (s *ArtifactStore) ListFloors() ([]model.FloorInfo, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.FloorInfo{}, nil
		}
		return nil, err
	}

	floors := make([]model.FloorInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ArtifactSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			if os.IsNotExist(err) {
				continue // removed between list and stat
			}
			return nil, err
		}
		floors = append(floors, model.FloorInfo{
			Floor:     strings.TrimSuffix(e.Name(), ArtifactSuffix),
			File:      e.Name(),
			SizeBytes: info.Size(),
			UpdatedAt: info.ModTime(),
		})
	}
	sort.Slice(floors, func(i, j int) bool { return floors[i].Floor < floors[j].Floor })
	return floors, nil
}

// readDoc parses the JSON file at path, serving from the cache when the
// file on disk still has the same modification time and size. Each
// detection run may overwrite artifacts at any moment, so a plain
// key-by-path cache would serve stale results.
func (s *ArtifactStore) readDoc(path string) (interface{}, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if c, ok := s.cache.Get(path); ok && c.modTime.Equal(info.ModTime()) && c.size == info.Size() {
		return c.value, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("store: parse artifact %s: %w", filepath.Base(path), err)
	}
	s.cache.Add(path, cachedDoc{value: value, modTime: info.ModTime(), size: info.Size()})
	return value, nil
}
