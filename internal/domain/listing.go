package domain

// Listing is one catalog entry. The pipeline only ever reads listings;
// indexing and mutation happen offline, outside this service.
type Listing struct {
	ID           string   `json:"id"`
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Year         int      `json:"year"`
	Location     string   `json:"location"`
	Color        string   `json:"color"`
	EngineType   string   `json:"engine_type"`
	Transmission string   `json:"transmission"`
	Mileage      int      `json:"mileage"`
	BodyType     string   `json:"body_type"`
	Features     []string `json:"features"`
	Price        float64  `json:"price"`
	Description  string   `json:"description"`
}
