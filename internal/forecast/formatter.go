package forecast

import (
	"github.com/vzahanych/forecast-gateway/internal/engine"
)

// Response is the success body: a single key holding the daily list.
type Response map[string][]engine.DailyForecast

type ResponseFormatter struct {
	field string
}

func NewResponseFormatter(field string) *ResponseFormatter {
	return &ResponseFormatter{field: field}
}

func (f *ResponseFormatter) Field() string {
	return f.field
}

func (f *ResponseFormatter) Format(daily []engine.DailyForecast) Response {
	return Response{f.field: daily}
}
