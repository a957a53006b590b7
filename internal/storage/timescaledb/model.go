package timescaledb

import (
	"time"

	"github.com/google/uuid"
)

// ScadaReading is one turbine SCADA sample. Wind speed in m/s, power in kW,
// direction in degrees, temperature in Kelvin, pressure in Pascals.
type ScadaReading struct {
	Time        time.Time `gorm:"column:time"`
	StationName string    `gorm:"column:stationname"`
	WindSpeed   float64   `gorm:"column:windspeed"`
	WindSpeedSD float64   `gorm:"column:windspeedsd"`
	WindDir     float64   `gorm:"column:winddir"`
	Power       float64   `gorm:"column:power"`
	Temperature float64   `gorm:"column:temperature"`
	Pressure    float64   `gorm:"column:pressure"`
}

// TableName implements the Tabler interface for ScadaReading
func (ScadaReading) TableName() string {
	return "scada"
}

// AnalysisRun records one fitted power curve: which strategy produced it,
// the serialized curve blob, and its goodness-of-fit scores.
type AnalysisRun struct {
	ID          uuid.UUID `gorm:"column:id;primaryKey"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	StationName string    `gorm:"column:stationname"`
	CurveKind   string    `gorm:"column:curve_kind"`
	Curve       []byte    `gorm:"column:curve"`
	RSquared    float64   `gorm:"column:r_squared"`
	RMSE        float64   `gorm:"column:rmse"`
	SampleCount int       `gorm:"column:sample_count"`
}

// TableName implements the Tabler interface for AnalysisRun
func (AnalysisRun) TableName() string {
	return "analysis_runs"
}

// ObservationSet holds index-aligned numeric columns pulled from storage,
// ready to hand to the fitting strategies.
type ObservationSet struct {
	Times       []time.Time
	WindSpeed   []float64
	WindSpeedSD []float64
	WindDir     []float64
	Power       []float64
	Temperature []float64
	Pressure    []float64
}
