package dto

type AvailabilityResponse struct {
	Date      string   `json:"date"`
	Available []string `json:"available"`
	Occupied  []string `json:"occupied"`
}
