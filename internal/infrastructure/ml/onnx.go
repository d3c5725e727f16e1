package ml

import (
	"context"
	"fmt"
	"sync"

	onnxruntime "github.com/yalue/onnxruntime_go"

	"github.com/bibhealth/diabetes-risk/internal/domain/valueobject"
)

const onnxModelType = "onnx"

var (
	onnxInitOnce sync.Once
	onnxInitErr  error
)

// initONNXEnvironment initializes the ONNX Runtime environment once per process.
func initONNXEnvironment(sharedLibrary string) error {
	onnxInitOnce.Do(func() {
		if sharedLibrary != "" {
			onnxruntime.SetSharedLibraryPath(sharedLibrary)
		}
		onnxInitErr = onnxruntime.InitializeEnvironment()
	})
	return onnxInitErr
}

// ONNXModel wraps an ONNX Runtime session exported from a binary classifier.
// The graph must take a float32 [N, 8] input and produce float32 [N, 2]
// class probabilities.
type ONNXModel struct {
	session    *onnxruntime.DynamicAdvancedSession
	info       ModelInfo
	inputName  string
	outputName string
}

// LoadONNXModel loads an ONNX model from file.
func LoadONNXModel(path string, opts Options) (*ONNXModel, error) {
	if err := initONNXEnvironment(opts.ONNXSharedLibrary); err != nil {
		return nil, fmt.Errorf("%w: failed to initialize ONNX runtime: %w", ErrModelLoad, err)
	}

	digest, err := fileDigest(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelLoad, err)
	}

	inputName := opts.ONNXInputName
	if inputName == "" {
		inputName = "float_input"
	}
	outputName := opts.ONNXOutputName
	if outputName == "" {
		outputName = "probabilities"
	}

	options, err := onnxruntime.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create session options: %w", ErrModelLoad, err)
	}
	defer options.Destroy()

	session, err := onnxruntime.NewDynamicAdvancedSession(path,
		[]string{inputName}, []string{outputName}, options)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelLoad, err)
	}

	return &ONNXModel{
		session:    session,
		inputName:  inputName,
		outputName: outputName,
		info: ModelInfo{
			Type:        onnxModelType,
			Path:        path,
			Fingerprint: digest,
			Classes:     []int{0, 1},
		},
	}, nil
}

// PredictProba runs inference on the rows as one batch.
func (m *ONNXModel) PredictProba(_ context.Context, rows [][]float64) ([][]float64, error) {
	if m.session == nil {
		return nil, fmt.Errorf("model session is closed")
	}
	if len(rows) == 0 {
		return [][]float64{}, nil
	}

	n := int64(len(rows))
	input := make([]float32, 0, len(rows)*valueobject.FeatureCount)
	for i, row := range rows {
		if len(row) != valueobject.FeatureCount {
			return nil, fmt.Errorf("row %d has %d features, model expects %d", i, len(row), valueobject.FeatureCount)
		}
		for _, v := range row {
			input = append(input, float32(v))
		}
	}

	inputTensor, err := onnxruntime.NewTensor(onnxruntime.NewShape(n, valueobject.FeatureCount), input)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	probs := make([]float32, len(rows)*2)
	outputTensor, err := onnxruntime.NewTensor(onnxruntime.NewShape(n, 2), probs)
	if err != nil {
		return nil, fmt.Errorf("failed to create probabilities tensor: %w", err)
	}
	defer outputTensor.Destroy()

	if err := m.session.Run([]onnxruntime.Value{inputTensor}, []onnxruntime.Value{outputTensor}); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	out := make([][]float64, len(rows))
	for i := range out {
		out[i] = []float64{float64(probs[2*i]), float64(probs[2*i+1])}
	}
	return out, nil
}

// Info describes the loaded artifact.
func (m *ONNXModel) Info() ModelInfo {
	info := m.info
	info.Classes = append([]int(nil), m.info.Classes...)
	return info
}

// Close destroys the ONNX session.
func (m *ONNXModel) Close() error {
	if m.session == nil {
		return nil
	}
	err := m.session.Destroy()
	m.session = nil
	return err
}
