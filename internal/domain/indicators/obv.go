package indicators

// OBVConfig holds the SMA window used to judge OBV positioning (spec
// §4.1 table row 10).
type OBVConfig struct {
	SMAWindow int
	Weight    float64
	MaxScore  int
}

// DefaultOBVConfig matches the spec default: SMA window 20.
func DefaultOBVConfig() OBVConfig {
	return OBVConfig{SMAWindow: 20, Weight: 36, MaxScore: 36}
}

// OBV scores price/volume directional confirmation above a
// price/OBV divergence.
func OBV(closes, volumes []float64, cfg OBVConfig) Result {
	name := "OBV"
	if len(closes) < cfg.SMAWindow+2 || len(closes) != len(volumes) {
		return neutral(name)
	}
	obv := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			obv[i] = obv[i-1] + volumes[i]
		case closes[i] < closes[i-1]:
			obv[i] = obv[i-1] - volumes[i]
		default:
			obv[i] = obv[i-1]
		}
	}
	n := len(obv)
	obvSMA := sma(obv[n-cfg.SMAWindow:], cfg.SMAWindow)

	priceDir := signOf(closes[n-1] - closes[n-2])
	obvDir := signOf(obv[n-1] - obv[n-2])

	res := Result{Name: name, Value: obv[n-1], Aux: map[string]float64{"sma": obvSMA}}

	correctSide := (priceDir > 0 && obv[n-1] > obvSMA) || (priceDir < 0 && obv[n-1] < obvSMA)
	confirmed := priceDir != 0 && priceDir == obvDir && correctSide
	diverging := priceDir != 0 && obvDir != 0 && priceDir != obvDir

	switch {
	case confirmed:
		res.Score = clampScore(cfg.Weight*float64(priceDir), cfg.MaxScore)
	case diverging:
		res.Score = clampScore(cfg.Weight*0.56*float64(obvDir), cfg.MaxScore)
	default:
		res.Score = 0
	}
	res.Signal = signalOf(res.Score)
	return res
}
