package outlier

import (
	"errors"
	"math"
	"testing"
)

var errSentinel = errors.New("sentinel")

type fakeClassifier struct{}

func (fakeClassifier) Predict(rows [][]float64) []float64 {
	return make([]float64, len(rows))
}

// recordingScorer captures the rows it is invoked with.
type recordingScorer struct {
	called  bool
	inputs  [][]float64
	targets []float64
	result  map[string]float64
	err     error
}

func (s *recordingScorer) ScoreModel(model Classifier, inputs [][]float64, targets []float64) (map[string]float64, error) {
	s.called = true
	s.inputs = inputs
	s.targets = targets
	return s.result, s.err
}

// scoreTestDatasets builds a training split whose inputs mix a tight
// cluster near the origin with points spread over [-3, 3), and a
// validation split drawn from the cluster. The spread keeps the forest's
// baseline IQR wide, so in-distribution validation rows sit far below the
// outlier threshold.
func scoreTestDatasets() Datasets {
	training := Dataset{}
	for i := 0; i < 20; i++ {
		training.Inputs = append(training.Inputs,
			[]float64{0.01 * float64(i), 0.01 * float64((i*3)%20)})
		training.Targets = append(training.Targets, float64(i%2))
	}
	for k := 0; k < 20; k++ {
		training.Inputs = append(training.Inputs,
			[]float64{-3 + 0.3*float64(k), -3 + 0.3*float64((k*7)%20)})
		training.Targets = append(training.Targets, float64(k%2))
	}

	validation := Dataset{}
	for i := 0; i < 10; i++ {
		validation.Inputs = append(validation.Inputs,
			[]float64{0.01 * float64(i), 0.01 * float64((i*3)%20)})
		validation.Targets = append(validation.Targets, float64(i%2))
	}
	return Datasets{Training: training, Validation: validation}
}

func TestScoreZeroOutliers(t *testing.T) {
	scorer := &recordingScorer{result: map[string]float64{"accuracy": 1}}

	scores, err := Score(fakeClassifier{}, scorer, scoreTestDatasets(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scorer.called {
		t.Error("scorer must not be invoked when no outliers are found")
	}
	if scores == nil {
		t.Fatal("expected an empty map, got nil")
	}
	if len(scores) != 0 {
		t.Errorf("expected an empty map, got %v", scores)
	}
}

func TestScoreOutlierSubset(t *testing.T) {
	data := scoreTestDatasets()
	// One validation row far outside the training distribution.
	data.Validation.Inputs = append(data.Validation.Inputs, []float64{100, 100})
	data.Validation.Targets = append(data.Validation.Targets, 1)

	scorer := &recordingScorer{result: map[string]float64{"accuracy": 0.5, "recall": 0.25}}
	scores, err := Score(fakeClassifier{}, scorer, data, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !scorer.called {
		t.Fatal("scorer should be invoked on the outlier subset")
	}
	if len(scorer.inputs) != 1 || len(scorer.targets) != 1 {
		t.Fatalf("scorer should receive 1 row, got %d inputs and %d targets",
			len(scorer.inputs), len(scorer.targets))
	}
	if scorer.inputs[0][0] != 100 || scorer.inputs[0][1] != 100 {
		t.Errorf("scorer received wrong row: %v", scorer.inputs[0])
	}
	if scorer.targets[0] != 1 {
		t.Errorf("scorer received wrong target: %g", scorer.targets[0])
	}

	want := map[string]float64{"accuracy": 0.5, "recall": 0.25, "outliers": 1}
	if len(scores) != len(want) {
		t.Fatalf("got %d metrics, want %d: %v", len(scores), len(want), scores)
	}
	for name, v := range want {
		if got, ok := scores[name]; !ok || math.Abs(got-v) > 1e-15 {
			t.Errorf("metric %q: got %g, want %g", name, scores[name], v)
		}
	}
}

func TestScoreScorerErrorPropagates(t *testing.T) {
	data := scoreTestDatasets()
	data.Validation.Inputs = append(data.Validation.Inputs, []float64{100, 100})
	data.Validation.Targets = append(data.Validation.Targets, 1)

	scorer := &recordingScorer{err: errSentinel}
	if _, err := Score(fakeClassifier{}, scorer, data, 0); err != errSentinel {
		t.Errorf("expected scorer error to propagate, got %v", err)
	}
}

func TestScoreMisalignedSplits(t *testing.T) {
	aligned := scoreTestDatasets()

	misalignedTraining := scoreTestDatasets()
	misalignedTraining.Training.Targets = misalignedTraining.Training.Targets[:5]

	misalignedValidation := scoreTestDatasets()
	misalignedValidation.Validation.Targets = append(misalignedValidation.Validation.Targets, 0)

	tests := []struct {
		name    string
		data    Datasets
		wantErr bool
	}{
		{"aligned", aligned, false},
		{"training targets short", misalignedTraining, true},
		{"validation targets long", misalignedValidation, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Score(fakeClassifier{}, &recordingScorer{}, tt.data, 0)
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestClassifierFunc(t *testing.T) {
	var got [][]float64
	c := ClassifierFunc(func(rows [][]float64) []float64 {
		got = rows
		return []float64{7}
	})

	labels := c.Predict([][]float64{{1, 2}})
	if len(got) != 1 || labels[0] != 7 {
		t.Error("ClassifierFunc should delegate to the wrapped function")
	}
}

func TestScorerFunc(t *testing.T) {
	s := ScorerFunc(func(model Classifier, inputs [][]float64, targets []float64) (map[string]float64, error) {
		return map[string]float64{"n": float64(len(inputs))}, nil
	})

	scores, err := s.ScoreModel(fakeClassifier{}, [][]float64{{1}, {2}}, []float64{0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scores["n"] != 2 {
		t.Errorf("got %g, want 2", scores["n"])
	}
}
