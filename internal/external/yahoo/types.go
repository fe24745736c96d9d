package yahoo

// chartResponse is the v8 chart API payload
// Missing bars are JSON null, hence the pointer slices
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta       chartMeta `json:"meta"`
	Timestamp  []int64   `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

type chartMeta struct {
	Symbol       string `json:"symbol"`
	Currency     string `json:"currency"`
	ShortName    string `json:"shortName"`
	LongName     string `json:"longName"`
	GMTOffset    int    `json:"gmtoffset"`
	ExchangeName string `json:"exchangeName"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
