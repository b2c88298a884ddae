package models

// Destination is one catalog entry. Prices are stored in the reference
// currency (INR).
type Destination struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Location string   `json:"location"`
	Image    string   `json:"image"`
	Alt      string   `json:"alt,omitempty"`
	Price    int64    `json:"price"`
	Duration string   `json:"duration,omitempty"`
	Tags     []string `json:"tags"`
	Badge    string   `json:"badge,omitempty"`
}

// HasTag reports whether the destination carries the given theme tag.
func (d *Destination) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
