package ml

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bibhealth/diabetes-risk/internal/domain/port"
)

// ErrModelLoad is returned when a classifier artifact cannot be loaded.
var ErrModelLoad = errors.New("failed to load classifier artifact")

// ModelInfo describes a loaded classifier artifact.
type ModelInfo struct {
	Type string
	Path string
	// Fingerprint is the hex SHA-256 of the artifact bytes read at load time,
	// or of the weights for models built in memory.
	Fingerprint string
	Classes     []int
	Accuracy    float64
}

// CacheNamespace identifies the scores of this model in a shared cache.
func (i ModelInfo) CacheNamespace() string {
	fp := i.Fingerprint
	if len(fp) > 16 {
		fp = fp[:16]
	}
	return i.Type + ":" + fp
}

// Model is a loaded classifier artifact.
type Model interface {
	port.Classifier

	Info() ModelInfo
	Close() error
}

// Options configures artifact loading.
type Options struct {
	// ONNXSharedLibrary is the onnxruntime shared library path. Empty uses the
	// platform default.
	ONNXSharedLibrary string
	ONNXInputName     string
	ONNXOutputName    string
}

// Load reads the classifier artifact at path, choosing the format by file
// extension.
func Load(path string, opts Options) (Model, error) {
	var (
		m   Model
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		m, err = LoadLogisticModel(path)
	case ".onnx":
		m, err = LoadONNXModel(path, opts)
	default:
		err = fmt.Errorf("%w: unsupported artifact extension %q", ErrModelLoad, ext)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
