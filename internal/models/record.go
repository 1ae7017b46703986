package models

type Variant string

const (
	VariantPlanes Variant = "planes"
	VariantLegs   Variant = "legs"
)

const DefaultStatus = "Unknown"

// Record is one stored row. *PlaneRecord and *FlightLeg are the only implementations.
type Record interface {
	PlaneID() int
	Variant() Variant
}

type PlaneRecord struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Model       string   `json:"model"`
	Capacity    int      `json:"capacity"`
	FlightDates []string `json:"flight_dates"`

	// RawID is set when the stored id cell did not parse. The cell is written
	// back unchanged and the row never matches any id.
	RawID *string `json:"-"`
}

func (p *PlaneRecord) PlaneID() int     { return p.ID }
func (p *PlaneRecord) Variant() Variant { return VariantPlanes }

type FlightLeg struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Model    string `json:"model"`
	Capacity int    `json:"capacity"`
	Date     string `json:"date"`
	From     string `json:"from"`
	To       string `json:"to"`
	Status   string `json:"status"`

	RawID *string `json:"-"`
}

func (l *FlightLeg) PlaneID() int     { return l.ID }
func (l *FlightLeg) Variant() Variant { return VariantLegs }

func (l *FlightLeg) Route() Route {
	return Route{Date: l.Date, From: l.From, To: l.To, Status: l.Status}
}

type Route struct {
	Date   string `json:"date"`
	From   string `json:"from"`
	To     string `json:"to"`
	Status string `json:"status"`
}

// PlaneRoutes is the grouped read view of flight legs sharing plane identity.
type PlaneRoutes struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Model    string  `json:"model"`
	Capacity int     `json:"capacity"`
	Routes   []Route `json:"routes"`
}

// Listing is the result of a list operation. Groups is only set for the legs variant.
type Listing struct {
	Variant Variant
	Records []Record
	Groups  []PlaneRoutes
}

// View returns what list endpoints render: grouped routes for legs, plain records otherwise.
func (l Listing) View() any {
	if l.Variant == VariantLegs {
		if l.Groups == nil {
			return []PlaneRoutes{}
		}
		return l.Groups
	}
	if l.Records == nil {
		return []Record{}
	}
	return l.Records
}

// Planes returns the records that are plane rows.
func (l Listing) Planes() []*PlaneRecord {
	out := make([]*PlaneRecord, 0, len(l.Records))
	for _, r := range l.Records {
		if p, ok := r.(*PlaneRecord); ok {
			out = append(out, p)
		}
	}
	return out
}

// Legs returns the records that are flight legs.
func (l Listing) Legs() []*FlightLeg {
	out := make([]*FlightLeg, 0, len(l.Records))
	for _, r := range l.Records {
		if leg, ok := r.(*FlightLeg); ok {
			out = append(out, leg)
		}
	}
	return out
}
