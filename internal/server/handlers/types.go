package handlers

// PredictRequest is the body of POST /api/predict. Coordinates are not
// range-checked here; the engine owns that.
type PredictRequest struct {
	Lat         *float64 `json:"lat" binding:"required"`
	Lon         *float64 `json:"lon" binding:"required"`
	TargetDate  string   `json:"target_date"`
	HorizonDays *int     `json:"horizon_days"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp,omitempty"`
	Engine    string `json:"engine,omitempty"`
}

// StatusResponse is served at GET /.
type StatusResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Version     string `json:"version"`
	Engine      string `json:"engine"`
	EngineReady bool   `json:"engine_ready"`
}
