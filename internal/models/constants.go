package models

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const (
	TravelStyleLuxury    = "luxury"
	TravelStyleAdventure = "adventure"
	TravelStyleCulture   = "culture"
	TravelStyleWellness  = "wellness"
)

const (
	GroupSizeSolo  = "1"
	GroupSizeDuo   = "2"
	GroupSizeSmall = "3-5"
	GroupSizeLarge = "6+"
)

const (
	// BookedDateLayout renders BookedAt for humans ("January 2, 2006").
	BookedDateLayout = "January 2, 2006"

	// TravelMonthLayout is the year-month format submitted by the booking form.
	TravelMonthLayout = "2006-01"
)

// ValidGroupSize reports whether the submitted group size is one of the
// enumerated form values.
func ValidGroupSize(size string) bool {
	switch size {
	case GroupSizeSolo, GroupSizeDuo, GroupSizeSmall, GroupSizeLarge:
		return true
	}
	return false
}
