package models

type School struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	ImageURL  string `json:"image_url"`
}

// Schools is the hardcoded set shown on the landing page.
var Schools = []School{
	{ID: "uw", Name: "University of Washington", ShortName: "UW", ImageURL: "https://images.unsplash.com/photo-1580587771525-78b9dba3b914?w=400&h=250&fit=crop"},
	{ID: "wsu", Name: "Washington State University", ShortName: "WSU", ImageURL: "https://images.unsplash.com/photo-1562774053-701939374585?w=400&h=250&fit=crop"},
	{ID: "ucla", Name: "UCLA", ShortName: "UCLA", ImageURL: "https://images.unsplash.com/photo-1498243691581-b145c3f54a5a?w=400&h=250&fit=crop"},
	{ID: "usc", Name: "University of Southern California", ShortName: "USC", ImageURL: "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=400&h=250&fit=crop"},
	{ID: "stanford", Name: "Stanford University", ShortName: "Stanford", ImageURL: "https://images.unsplash.com/photo-1564981797816-1043664bf78d?w=400&h=250&fit=crop"},
	{ID: "berkeley", Name: "UC Berkeley", ShortName: "Berkeley", ImageURL: "https://images.unsplash.com/photo-1592066575517-58df903152f2?w=400&h=250&fit=crop"},
	{ID: "mit", Name: "MIT", ShortName: "MIT", ImageURL: "https://images.unsplash.com/photo-1559135197-8a45ea74d367?w=400&h=250&fit=crop"},
	{ID: "harvard", Name: "Harvard University", ShortName: "Harvard", ImageURL: "https://images.unsplash.com/photo-1576495199011-eb94736d05d6?w=400&h=250&fit=crop"},
}

func SchoolByID(id string) (School, bool) {
	for _, s := range Schools {
		if s.ID == id {
			return s, true
		}
	}
	return School{}, false
}
