package models

// FixtureLocations is the development data set written by cmd/seed.
var FixtureLocations = []Location{
	{
		ID: "local-point", Name: "Local Point", Type: TypeDiningHall, CampusArea: "west",
		SchoolID: "uw", SchoolName: "University of Washington",
		AvgRating: 4.2, ReviewCount: 187, Badges: []string{"Late Night Friendly", "Good Value"},
		Description: "All-you-care-to-eat dining hall in Lander Hall with diverse food stations.",
		Status:      StatusApproved,
	},
	{
		ID: "center-table", Name: "Center Table", Type: TypeDiningHall, CampusArea: "north",
		SchoolID: "uw", SchoolName: "University of Washington",
		AvgRating: 3.9, ReviewCount: 145, Badges: []string{"Good Value"},
		Description: "Resident dining in Maple Hall featuring comfort food and rotating menus.",
		Status:      StatusApproved,
	},
	{
		ID: "mcmahon-hall", Name: "McMahon Hall Dining", Type: TypeDiningHall, CampusArea: "north",
		SchoolID: "uw", SchoolName: "University of Washington",
		AvgRating: 3.6, ReviewCount: 203, Badges: []string{"Late Night Friendly"},
		Description: "North campus dining hall known for late-night hours and variety.",
		Status:      StatusApproved,
	},
	{
		ID: "district-market", Name: "District Market", Type: TypeMarket, CampusArea: "west",
		SchoolID: "uw", SchoolName: "University of Washington",
		AvgRating: 4.4, ReviewCount: 89, Badges: []string{"Fast Lines"},
		Description: "Convenience store in the District with grab-and-go meals and snacks.",
		Status:      StatusApproved,
	},
	{
		ID: "the-8", Name: "The 8", Type: TypeDiningHall, CampusArea: "west",
		SchoolID: "uw", SchoolName: "University of Washington",
		AvgRating: 4.1, ReviewCount: 156, Badges: []string{"Good Value", "Fast Lines"},
		Description: "Modern dining hall on 8th floor of Alder Hall with stunning views.",
		Status:      StatusApproved,
	},
	{
		ID: "suzzallo-cafe", Name: "Suzzallo Café", Type: TypeCafe, CampusArea: "central",
		SchoolID: "uw", SchoolName: "University of Washington",
		AvgRating: 4.3, ReviewCount: 234, Badges: []string{"Fast Lines"},
		Description: "Coffee and quick bites in Suzzallo Library, perfect for study breaks.",
		Status:      StatusApproved,
	},
	{
		ID: "by-george", Name: "By George", Type: TypeCafe, CampusArea: "central",
		SchoolID: "uw", SchoolName: "University of Washington",
		AvgRating: 4.0, ReviewCount: 178, Badges: []string{"Fast Lines"},
		Description: "Popular café in the HUB with sandwiches, salads, and espresso.",
		Status:      StatusApproved,
	},
	{
		ID: "hub-underground", Name: "Husky Den (HUB)", Type: TypeMarket, CampusArea: "central",
		SchoolID: "uw", SchoolName: "University of Washington",
		AvgRating: 3.8, ReviewCount: 267, Badges: []string{"Late Night Friendly", "Fast Lines"},
		Description: "Food court in the HUB with multiple vendors including Panda Express and Subway.",
		Status:      StatusApproved,
	},
}
