package sensor

// Status is the coarse health classification shown on the dashboard.
type Status string

const (
	StatusNormal  Status = "normal"
	StatusWarning Status = "warning"
	StatusDanger  Status = "danger"
	StatusUnknown Status = "unknown"
)

// Safe ranges. Values outside the warning band but inside the danger band are warnings.
const (
	TempDangerLow      = 2.0
	TempWarningLow     = 3.0
	TempWarningHigh    = 6.0
	TempDangerHigh     = 7.0
	HumidityDangerLow  = 30.0
	HumidityWarningLow = 40.0
	HumidityWarnHigh   = 70.0
	HumidityDangerHigh = 80.0
	GasWarning         = 200.0
	GasDanger          = 300.0
)

func ClassifyTemperature(temp *float64) Status {
	if temp == nil {
		return StatusUnknown
	}
	t := *temp
	switch {
	case t < TempDangerLow || t > TempDangerHigh:
		return StatusDanger
	case t < TempWarningLow || t > TempWarningHigh:
		return StatusWarning
	default:
		return StatusNormal
	}
}

func ClassifyHumidity(humidity *float64) Status {
	if humidity == nil {
		return StatusUnknown
	}
	h := *humidity
	switch {
	case h < HumidityDangerLow || h > HumidityDangerHigh:
		return StatusDanger
	case h < HumidityWarningLow || h > HumidityWarnHigh:
		return StatusWarning
	default:
		return StatusNormal
	}
}

func ClassifyGas(gas *float64) Status {
	if gas == nil {
		return StatusUnknown
	}
	switch g := *gas; {
	case g > GasDanger:
		return StatusDanger
	case g > GasWarning:
		return StatusWarning
	default:
		return StatusNormal
	}
}

// Statuses bundles the three classifications for one snapshot.
type Statuses struct {
	Temperature Status `json:"temperature_status"`
	Humidity    Status `json:"humidity_status"`
	Gas         Status `json:"gas_status"`
}

func Classify(s *Snapshot) Statuses {
	if s == nil {
		return Statuses{Temperature: StatusUnknown, Humidity: StatusUnknown, Gas: StatusUnknown}
	}
	return Statuses{
		Temperature: ClassifyTemperature(s.Temp),
		Humidity:    ClassifyHumidity(s.Humidity),
		Gas:         ClassifyGas(s.Gas),
	}
}
