package categorize

// DefaultAllowList returns the built-in category allow-list.
func DefaultAllowList() []string {
	return []string{
		"Food",
		"Housing",
		"Transport",
		"Entertainment",
		"Shopping",
		"Health",
		"Utilities",
		"Subscriptions",
		"Income",
		Other,
	}
}

// DefaultRules returns the built-in keyword rules, most specific first.
func DefaultRules() []Rule {
	return []Rule{
		{Keyword: "netflix", Category: "Subscriptions"},
		{Keyword: "spotify", Category: "Subscriptions"},
		{Keyword: "hulu", Category: "Subscriptions"},
		{Keyword: "disney+", Category: "Subscriptions"},
		{Keyword: "membership", Category: "Subscriptions"},
		{Keyword: "subscription", Category: "Subscriptions"},

		{Keyword: "payroll", Category: "Income"},
		{Keyword: "salary", Category: "Income"},
		{Keyword: "direct deposit", Category: "Income"},

		{Keyword: "rent", Category: "Housing"},
		{Keyword: "mortgage", Category: "Housing"},
		{Keyword: "hoa", Category: "Housing"},

		{Keyword: "electric", Category: "Utilities"},
		{Keyword: "water", Category: "Utilities"},
		{Keyword: "gas co", Category: "Utilities"},
		{Keyword: "internet", Category: "Utilities"},
		{Keyword: "comcast", Category: "Utilities"},
		{Keyword: "verizon", Category: "Utilities"},

		{Keyword: "grocery", Category: "Food"},
		{Keyword: "restaurant", Category: "Food"},
		{Keyword: "doordash", Category: "Food"},
		{Keyword: "starbucks", Category: "Food"},
		{Keyword: "cafe", Category: "Food"},
		{Keyword: "market", Category: "Food"},

		{Keyword: "uber", Category: "Transport"},
		{Keyword: "lyft", Category: "Transport"},
		{Keyword: "shell", Category: "Transport"},
		{Keyword: "chevron", Category: "Transport"},
		{Keyword: "parking", Category: "Transport"},
		{Keyword: "transit", Category: "Transport"},

		{Keyword: "pharmacy", Category: "Health"},
		{Keyword: "cvs", Category: "Health"},
		{Keyword: "walgreens", Category: "Health"},
		{Keyword: "clinic", Category: "Health"},
		{Keyword: "dental", Category: "Health"},

		{Keyword: "cinema", Category: "Entertainment"},
		{Keyword: "theater", Category: "Entertainment"},
		{Keyword: "steam", Category: "Entertainment"},
		{Keyword: "ticket", Category: "Entertainment"},

		{Keyword: "amazon", Category: "Shopping"},
		{Keyword: "target", Category: "Shopping"},
		{Keyword: "walmart", Category: "Shopping"},
		{Keyword: "ebay", Category: "Shopping"},
	}
}
