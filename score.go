package outlier

import (
	log "github.com/sirupsen/logrus"
)

// Classifier is the single capability Score needs from a trained model:
// predicting labels for a batch of rows.
type Classifier interface {
	Predict(rows [][]float64) []float64
}

// ClassifierFunc adapts a plain function into a Classifier.
type ClassifierFunc func(rows [][]float64) []float64

func (f ClassifierFunc) Predict(rows [][]float64) []float64 { return f(rows) }

// ModelScorer computes quality metrics (accuracy, precision, recall, ...)
// for a model on the given rows. Score invokes it only on the outlier
// subset of the validation split.
type ModelScorer interface {
	ScoreModel(model Classifier, inputs [][]float64, targets []float64) (map[string]float64, error)
}

// ScorerFunc adapts a plain function into a ModelScorer.
type ScorerFunc func(model Classifier, inputs [][]float64, targets []float64) (map[string]float64, error)

func (f ScorerFunc) ScoreModel(model Classifier, inputs [][]float64, targets []float64) (map[string]float64, error) {
	return f(model, inputs, targets)
}

// Dataset is one split of a dataset: a 2-D input matrix aligned
// row-for-row with a target vector.
type Dataset struct {
	Inputs  [][]float64
	Targets []float64
}

// Datasets bundles the training and validation splits of a dataset.
type Datasets struct {
	Training   Dataset
	Validation Dataset
}

// Score computes model quality metrics on only the outlier rows of the
// validation split. Each split's targets are stacked onto its inputs as a
// final column before locating outliers, so a row whose label is
// implausible for its features can be flagged too. The flagged validation
// rows are then handed to scorer, and the returned metrics gain an
// "outliers" entry holding the flagged row count. The count is a float64
// like every other metric so callers can format the map uniformly.
//
// When no validation row is flagged, Score logs a warning and returns an
// empty map without invoking scorer; computing metrics on an empty subset
// would divide by zero.
func Score(model Classifier, scorer ModelScorer, data Datasets, seed int64) (map[string]float64, error) {
	train, err := columnStack(data.Training.Inputs, data.Training.Targets, "training")
	if err != nil {
		return nil, err
	}
	test, err := columnStack(data.Validation.Inputs, data.Validation.Targets, "validation")
	if err != nil {
		return nil, err
	}

	outliers, err := Locate(train, test, seed)
	if err != nil {
		return nil, err
	}
	count := 0
	for _, flagged := range outliers {
		if flagged {
			count++
		}
	}
	if count == 0 {
		log.Warn("no outliers found in validation set")
		return map[string]float64{}, nil
	}

	scores, err := scorer.ScoreModel(model,
		selectRows(data.Validation.Inputs, outliers),
		selectValues(data.Validation.Targets, outliers))
	if err != nil {
		return nil, err
	}
	if scores == nil {
		scores = make(map[string]float64, 1)
	}
	scores["outliers"] = float64(count)
	return scores, nil
}
