package classification

// DefaultRules returns the built-in keyword rules in evaluation order.
// Earlier rules win, so a description naming both Swiggy and Uber lands in Food.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "food", Keywords: []string{"swiggy", "zomato", "restaurant"}, Category: "Food"},
		{Name: "transport", Keywords: []string{"uber", "ola", "fuel"}, Category: "Transport"},
		{Name: "shopping", Keywords: []string{"amazon", "flipkart", "shopping"}, Category: "Shopping"},
		{Name: "income", Keywords: []string{"salary", "credit"}, Category: "Income"},
		{Name: "rent", Keywords: []string{"rent"}, Category: "Rent"},
		{Name: "entertainment", Keywords: []string{"netflix", "spotify"}, Category: "Entertainment"},
		{Name: "home", Keywords: []string{"home"}, Category: "Home"},
	}
}
