package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrInsufficientData - для парного t-теста нужно минимум две пары
	ErrInsufficientData = errors.New("paired t-test needs at least 2 pairs")
	// ErrZeroVariance - все разности одинаковы, t-статистика не определена
	ErrZeroVariance = errors.New("paired differences have zero variance")
	// ErrLengthMismatch - выборки разной длины
	ErrLengthMismatch = errors.New("paired samples differ in length")
)

// PairedResult - итог парного t-теста (post - pre)
type PairedResult struct {
	N          int     `json:"n"`
	MeanPre    float64 `json:"mean_pre"`
	MeanPost   float64 `json:"mean_post"`
	MeanDiff   float64 `json:"mean_difference"`
	T          float64 `json:"t"`
	DF         int     `json:"df"`
	PValue     float64 `json:"p_value"`
	StdDevDiff float64 `json:"sd_difference"`
}

// PairedTTest считает парный t-тест с двусторонним p-значением.
// Средние возвращаются и при ошибке ErrZeroVariance.
func PairedTTest(pre, post []float64) (PairedResult, error) {
	if len(pre) != len(post) {
		return PairedResult{}, ErrLengthMismatch
	}
	n := len(pre)
	if n < 2 {
		return PairedResult{N: n}, ErrInsufficientData
	}

	res := PairedResult{N: n, DF: n - 1}
	var sumDiff float64
	for i := range pre {
		res.MeanPre += pre[i]
		res.MeanPost += post[i]
		sumDiff += post[i] - pre[i]
	}
	res.MeanPre /= float64(n)
	res.MeanPost /= float64(n)
	res.MeanDiff = sumDiff / float64(n)

	var ss float64
	for i := range pre {
		d := post[i] - pre[i] - res.MeanDiff
		ss += d * d
	}
	res.StdDevDiff = math.Sqrt(ss / float64(n-1))
	if res.StdDevDiff == 0 {
		return res, ErrZeroVariance
	}

	res.T = res.MeanDiff / (res.StdDevDiff / math.Sqrt(float64(n)))
	res.PValue = StudentTwoSidedP(res.T, float64(res.DF))
	return res, nil
}

// StudentTwoSidedP - двустороннее p-значение t-распределения Стьюдента
func StudentTwoSidedP(t, df float64) float64 {
	if math.IsNaN(t) || df <= 0 {
		return math.NaN()
	}
	if math.IsInf(t, 0) {
		return 0
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return math.Min(1, 2*dist.Survival(math.Abs(t)))
}
