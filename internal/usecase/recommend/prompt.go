package recommend

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/cardex/internal/domain"
)

// Sentinel is the exact token the ranker must emit, alone, when zero
// candidates are relevant. Substring detection of a fixed improbable token is
// the only machine-checkable signal available in a free-text response; a
// structured has_matches field would be sturdier but is not what the ranker
// contract speaks today.
const Sentinel = "NOTHING"

// BuildPrompt serializes the query and candidate set into one instruction for
// the generative re-ranker. Pure and deterministic: identical input yields
// byte-identical output. Every metadata field of every candidate is embedded;
// omissions make the ranker hallucinate or under-justify.
func BuildPrompt(query string, cands []domain.Candidate) string {
	var b strings.Builder

	b.WriteString(`Analyze the user's query:
Parse the query to extract all essential details such as:
    Car Make/Model/Year (e.g., "Honda Civic 2012")
    Location (e.g., "Lahore, Punjab")
    Color Requirements (e.g., "white")
    Engine Type (e.g., "Petrol")
    Transmission (e.g., "Manual" or "Automatic")
    Mileage (e.g., "around 33,000 km")
    Body Type (e.g., "Sedan")
    Features (e.g., "AM/FM Radio, Alloy Rims, Air Bags, Power Steering")
    Price Range/Conditions (e.g., "Negotiable" or specific amount)

Evaluate the provided content:
Review each car record from the provided content and compare its details
with the user's query:
    Exact and Partial Matches: Identify which records meet or closely align with the specifications.
    Relevance Ranking: Rank the records based on how well they match the user's criteria.
    Top `)
	b.WriteString(strconv.Itoa(domain.MaxRecommendations))
	b.WriteString(` Selection: Choose at most the top `)
	b.WriteString(strconv.Itoa(domain.MaxRecommendations))
	b.WriteString(` records that best satisfy the user's requirements.

Generate the final response:
If at least one matching record is found, return a formatted list of the best
car recommendations. Each recommendation must include all relevant details:
Car Make/Model, Year, Location, Color, Engine Type, Transmission, Mileage,
Body Type, Features, and Price, plus a one-line summary of why the car is
recommended relative to the query.
Use markdown formatting including headers, bold text, and lists.
Important: If no records in the provided content match the user's query, then return only the message:
"`)
	b.WriteString(Sentinel)
	b.WriteString(`"

RETURN ONLY RECOMMENDED CARS WITH PROPER FORMATTING, NOTHING ELSE

User's query:
`)
	b.WriteString(query)
	b.WriteString("\n\nContent:\n")
	for i, c := range cands {
		writeCandidate(&b, i+1, c)
	}

	return b.String()
}

func writeCandidate(b *strings.Builder, n int, c domain.Candidate) {
	b.WriteString("Record ")
	b.WriteString(strconv.Itoa(n))
	b.WriteString(" (id ")
	b.WriteString(c.ID)
	b.WriteString(", score ")
	b.WriteString(strconv.FormatFloat(c.Score, 'f', 4, 64))
	b.WriteString("):\n")

	l := c.Listing
	writeField(b, "Make", l.Make)
	writeField(b, "Model", l.Model)
	writeField(b, "Year", strconv.Itoa(l.Year))
	writeField(b, "Location", l.Location)
	writeField(b, "Color", l.Color)
	writeField(b, "Engine Type", l.EngineType)
	writeField(b, "Transmission", l.Transmission)
	writeField(b, "Mileage", strconv.Itoa(l.Mileage)+" km")
	writeField(b, "Body Type", l.BodyType)
	writeField(b, "Features", strings.Join(l.Features, ", "))
	writeField(b, "Price", strconv.FormatFloat(l.Price, 'f', -1, 64))
	writeField(b, "Description", l.Description)
	b.WriteString("\n")
}

func writeField(b *strings.Builder, name, value string) {
	b.WriteString("  ")
	b.WriteString(name)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}
