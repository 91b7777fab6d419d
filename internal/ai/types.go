package ai

import "encoding/json"

type ItineraryInput struct {
	From string
	To   string
	Days int
}

type BudgetBreakdown struct {
	Accommodation string `json:"accommodation" validate:"required"`
	Food          string `json:"food" validate:"required"`
	Transport     string `json:"transport" validate:"required"`
	Activities    string `json:"activities" validate:"required"`
}

type Rental struct {
	Type string `json:"type" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// LocationInfo используется только для проверки формы ответа модели.
type LocationInfo struct {
	Currency        string           `json:"currency"`
	TotalBudget     string           `json:"total_budget" validate:"required"`
	BudgetBreakdown *BudgetBreakdown `json:"budget_breakdown" validate:"required"`
	WeatherNote     string           `json:"weather_note" validate:"required"`
	Language        string           `json:"language" validate:"required"`
	Rentals         []Rental         `json:"rentals" validate:"required,min=1,dive"`
}

type itineraryEnvelope struct {
	LocationInfo  json.RawMessage `json:"location_info"`
	ItineraryText *string         `json:"itinerary_text"`
}

// ItineraryResponse хранит текст маршрута и исходный объект location_info.
type ItineraryResponse struct {
	ItineraryText string
	LocationInfo  json.RawMessage
}
