package modelworker

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/osse101/CommentGarden_Go/internal/modelrpc"
)

// The ONNX Runtime environment is process-wide
var ortEnv struct {
	once sync.Once
	err  error
}

func initRuntime(libPath string) error {
	ortEnv.once.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// ONNXConfig locates the model files
type ONNXConfig struct {
	ModelPath   string
	VocabPath   string
	LabelsPath  string
	LibraryPath string
	Threads     int
}

// ONNXModel runs a BERT-style sequence classifier exported to ONNX. The
// model must take input_ids and attention_mask (token_type_ids optional) and
// produce logits shaped [batch, labels].
type ONNXModel struct {
	mu         sync.Mutex
	session    *ort.DynamicAdvancedSession
	inputNames []string
	outputName string
	tokenizer  *tokenizer
	labels     []string
}

// NewONNXModel loads the runtime, vocabulary, labels and session
func NewONNXModel(cfg ONNXConfig) (*ONNXModel, error) {
	if err := initRuntime(cfg.LibraryPath); err != nil {
		return nil, fmt.Errorf("onnx: init runtime: %w", err)
	}

	v, err := loadVocab(cfg.VocabPath)
	if err != nil {
		return nil, err
	}
	labels, err := loadLabels(cfg.LabelsPath)
	if err != nil {
		return nil, err
	}

	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: read model info: %w", err)
	}
	inputNames, err := classifierInputs(inputs)
	if err != nil {
		return nil, err
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("onnx: model has no outputs")
	}
	if dims := outputs[0].Dimensions; len(dims) != 2 {
		return nil, fmt.Errorf("onnx: expected [batch, labels] logits, got %v", dims)
	} else if dims[1] > 0 && int(dims[1]) != len(labels) {
		return nil, fmt.Errorf("onnx: model has %d labels, labels file has %d", dims[1], len(labels))
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: session options: %w", err)
	}
	defer opts.Destroy()
	if cfg.Threads > 0 {
		_ = opts.SetIntraOpNumThreads(cfg.Threads)
	}
	_ = opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, inputNames, []string{outputs[0].Name}, opts)
	if err != nil {
		return nil, fmt.Errorf("onnx: create session: %w", err)
	}

	slog.Default().Info(LogMsgModelLoaded, "model", cfg.ModelPath, "labels", len(labels))
	return &ONNXModel{
		session:    session,
		inputNames: inputNames,
		outputName: outputs[0].Name,
		tokenizer:  newTokenizer(v),
		labels:     labels,
	}, nil
}

// Classify implements Model
func (m *ONNXModel) Classify(ctx context.Context, text string) (modelrpc.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return modelrpc.Prediction{}, err
	}

	logits, err := m.run(m.tokenizer.encode(text))
	if err != nil {
		return modelrpc.Prediction{}, err
	}

	probs := softmax(logits)
	best := argmax(probs)
	if best < 0 || best >= len(m.labels) {
		return modelrpc.Prediction{}, fmt.Errorf("onnx: no label for output %d", best)
	}
	return modelrpc.Prediction{Category: m.labels[best], Score: probs[best]}, nil
}

// Warmup implements Warmer
func (m *ONNXModel) Warmup(ctx context.Context) error {
	_, err := m.Classify(ctx, "warmup")
	return err
}

// Close implements Model
func (m *ONNXModel) Close() error {
	return m.session.Destroy()
}

func (m *ONNXModel) run(enc encoding) ([]float32, error) {
	shape := ort.NewShape(1, int64(len(enc.inputIDs)))

	byName := map[string][]int64{
		"input_ids":      enc.inputIDs,
		"attention_mask": enc.attentionMask,
		"token_type_ids": enc.tokenTypeIDs,
	}
	inputs := make([]ort.Value, 0, len(m.inputNames))
	for _, name := range m.inputNames {
		t, err := ort.NewTensor(shape, byName[name])
		if err != nil {
			return nil, fmt.Errorf("onnx: %s tensor: %w", name, err)
		}
		defer t.Destroy()
		inputs = append(inputs, t)
	}

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(m.labels))))
	if err != nil {
		return nil, fmt.Errorf("onnx: output tensor: %w", err)
	}
	defer out.Destroy()

	// Sessions are not safe for concurrent Run calls
	m.mu.Lock()
	err = m.session.Run(inputs, []ort.Value{out})
	m.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("onnx: inference: %w", err)
	}

	return append([]float32(nil), out.GetData()...), nil
}

// classifierInputs orders the model's inputs, requiring ids and mask
func classifierInputs(inputs []ort.InputOutputInfo) ([]string, error) {
	present := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		present[in.Name] = true
	}
	for _, name := range []string{"input_ids", "attention_mask"} {
		if !present[name] {
			return nil, fmt.Errorf("onnx: model missing input %q", name)
		}
	}
	names := []string{"input_ids", "attention_mask"}
	if present["token_type_ids"] {
		names = append(names, "token_type_ids")
	}
	return names, nil
}

// loadLabels reads one label per line, skipping blanks
func loadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()

	var labels []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if l := strings.TrimSpace(sc.Text()); l != "" {
			labels = append(labels, l)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("labels file is empty: %s", path)
	}
	return labels, nil
}
