package domain

// PricePoint is one observation of a token's historical price series.
type PricePoint struct {
	TimestampMs int64   // Unix timestamp in milliseconds
	Value       float64 // price at this point
}

// VolumePoint is one observation of a token's historical volume series.
type VolumePoint struct {
	TimestampMs int64   // Unix timestamp in milliseconds
	Value       float64 // volume at this point
}

// History holds a token's historical price and volume series. Both series
// come from the same upstream response and are ordered strictly increasing
// in time; no gap requirements.
type History struct {
	Prices  []PricePoint
	Volumes []VolumePoint
}

// PriceValues extracts the raw price series in order.
func (h *History) PriceValues() []float64 {
	if h == nil {
		return nil
	}
	out := make([]float64, len(h.Prices))
	for i, p := range h.Prices {
		out[i] = p.Value
	}
	return out
}

// VolumeValues extracts the raw volume series in order.
func (h *History) VolumeValues() []float64 {
	if h == nil {
		return nil
	}
	out := make([]float64, len(h.Volumes))
	for i, v := range h.Volumes {
		out[i] = v.Value
	}
	return out
}
