package dto

import "github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"

// TrendQuery holds the parsed query parameters for the trends endpoint
type TrendQuery struct {
	Granularity models.TrendGranularity `form:"granularity,default=day"`
	From        string                  `form:"from"` // YYYY-MM-DD, optional
	To          string                  `form:"to"`   // YYYY-MM-DD, optional
}

// DemandQuery holds the parsed query parameters for the demand endpoint
type DemandQuery struct {
	ThresholdPct float64 `form:"threshold,default=75"`
}
