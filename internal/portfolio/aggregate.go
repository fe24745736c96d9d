package portfolio

import (
	"gonum.org/v1/gonum/mat"

	"github.com/jaudi/Portfolio-analysis/internal/contracts"
)

// Aggregate reduces a return table to the portfolio return series.
// Each period is the dot product of the return row with the weights,
// computed as one matrix-vector product R·w.
func Aggregate(returns *contracts.ReturnTable, weights contracts.WeightVector) (*contracts.PortfolioReturnSeries, error) {
	if err := ValidateWeightsFor(weights, returns.Symbols); err != nil {
		return nil, err
	}

	rows, cols := returns.Rows(), returns.Cols()
	if rows == 0 {
		return nil, &InsufficientDataError{Rows: 1, Required: MinPriceRows}
	}

	data := make([]float64, 0, rows*cols)
	for _, r := range returns.Returns {
		data = append(data, r...)
	}

	r := mat.NewDense(rows, cols, data)
	w := mat.NewVecDense(cols, weights.Clone())

	var out mat.VecDense
	out.MulVec(r, w)

	series := make([]float64, rows)
	for i := range series {
		series[i] = out.AtVec(i)
	}

	return &contracts.PortfolioReturnSeries{
		Dates:   append(returns.Dates[:0:0], returns.Dates...),
		Returns: series,
	}, nil
}
