package nn

import (
	"fmt"

	"github.com/born-ml/micrograd/internal/autodiff"
)

// MSELoss computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²)
//
// MSE is commonly used for regression tasks where the goal is to predict
// continuous values.
//
// Example:
//
//	preds := []autodiff.Value{model.Forward(x1)[0], model.Forward(x2)[0]}
//	loss := nn.MSELoss(preds, []float64{1, -1})
//	loss.Backward()
//
// Panics with ErrShapeMismatch when the lengths differ or are zero.
func MSELoss(predictions []autodiff.Value, targets []float64) autodiff.Value {
	checkLengths(len(predictions), len(targets))

	terms := make([]autodiff.Value, len(predictions))
	for i, p := range predictions {
		terms[i] = p.SubScalar(targets[i]).Pow(2)
	}
	return autodiff.Sum(terms...).DivScalar(float64(len(terms)))
}

// HingeLoss computes the mean SVM max-margin loss.
//
// Loss = mean(max(0, 1 - label·score))
//
// Labels are expected to be +1 or -1.
//
// Panics with ErrShapeMismatch when the lengths differ or are zero.
func HingeLoss(scores []autodiff.Value, labels []float64) autodiff.Value {
	checkLengths(len(scores), len(labels))

	terms := make([]autodiff.Value, len(scores))
	for i, s := range scores {
		terms[i] = s.MulScalar(-labels[i]).AddScalar(1).ReLU()
	}
	return autodiff.Sum(terms...).DivScalar(float64(len(terms)))
}

// Accuracy returns the fraction of scores whose sign matches the label.
func Accuracy(scores []autodiff.Value, labels []float64) float64 {
	checkLengths(len(scores), len(labels))

	correct := 0
	for i, s := range scores {
		if (s.Data() > 0) == (labels[i] > 0) {
			correct++
		}
	}
	return float64(correct) / float64(len(scores))
}

func checkLengths(got, want int) {
	if got != want || got == 0 {
		panic(fmt.Errorf("%w: %d predictions for %d targets", ErrShapeMismatch, got, want))
	}
}
