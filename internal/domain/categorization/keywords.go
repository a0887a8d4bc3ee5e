// Package categorization assigns a direction (income or expense) and a
// category label with a confidence score to candidate transactions.
//
// All vocabularies are immutable package-level tables; the classifier
// never mutates them, so any number of imports can run concurrently.
package categorization

// Direction indicator vocabularies. The two sets are disjoint: a term
// may signal money in or money out, never both.
var (
	incomeIndicators = []string{
		"received", "credited", "deposit", "salary", "wages", "refund",
		"cashback", "interest", "dividend", "commission", "bonus",
		"reversal", "transfer in", "upi credit", "scholarship",
	}
	expenseIndicators = []string{
		"paid", "debited", "withdrawal", "payment", "purchase", "buy",
		"spent", "charge", "fee", "tax", "fine", "emi", "recharge",
		"upi debit",
	}
)

// categoryEntry pairs a category label with its keyword list. The
// declaration order of entries is a contract: score ties keep the
// earliest entry so repeated runs give identical output.
type categoryEntry struct {
	name     string
	keywords []string
}

var expenseCategories = []categoryEntry{
	{"food", []string{
		"restaurant", "cafe", "food", "meal", "dining", "swiggy",
		"zomato", "dominos", "mcdonalds", "kfc", "starbucks", "coffee",
		"tea", "lunch", "dinner", "breakfast", "grocery", "vegetables",
		"fruits", "supermarket",
	}},
	{"transport", []string{
		"fuel", "petrol", "diesel", "car", "bike", "ola", "uber",
		"taxi", "bus", "train", "flight", "airline", "airport",
		"railway", "metro", "parking", "toll", "auto", "cab",
	}},
	{"housing", []string{
		"rent", "emi", "mortgage", "house", "home", "electricity",
		"water", "gas", "internet", "wifi", "broadband", "maintenance",
		"repair", "furniture", "appliance",
	}},
	{"healthcare", []string{
		"hospital", "doctor", "medicine", "pharmacy", "clinic",
		"dentist", "optician", "insurance", "medical", "health",
		"fitness", "gym", "yoga",
	}},
	{"education", []string{
		"school", "college", "university", "tuition", "books",
		"stationery", "course", "training", "certification", "exam",
		"fees",
	}},
	{"shopping", []string{
		"amazon", "flipkart", "myntra", "ajio", "clothing", "fashion",
		"electronics", "mobile", "laptop", "shopping", "purchase",
		"buy", "retail", "store", "mall", "brand",
	}},
	{"entertainment", []string{
		"movie", "cinema", "netflix", "amazon prime", "disney",
		"spotify", "music", "concert", "theatre", "game",
		"playstation", "xbox", "streaming", "subscription",
	}},
	{"travel", []string{
		"hotel", "resort", "vacation", "holiday", "tour", "trip",
		"booking", "oyo", "makemytrip", "goibibo", "airbnb",
	}},
	{"personal_care", []string{
		"salon", "spa", "beauty", "cosmetics", "haircut", "massage",
		"skincare", "makeup", "perfume", "fragrance",
	}},
	{"utilities", []string{
		"phone", "mobile", "recharge", "bill", "dth", "cable",
		"subscription", "membership", "fee",
	}},
	{"other", nil},
}

var incomeCategories = []categoryEntry{
	{"salary", []string{
		"salary", "wages", "payroll", "compensation", "earnings",
		"take home", "net pay",
	}},
	{"freelance", []string{
		"freelance", "consulting", "contract", "service fee",
		"professional services",
	}},
	{"investment", []string{
		"dividend", "interest", "capital gains", "mutual fund",
		"fixed deposit", "fd", "sip", "roi",
	}},
	{"business", []string{
		"revenue", "sales", "profit", "business income", "commission",
		"royalty",
	}},
	{"rental", []string{
		"rent received", "rental", "lease", "tenant",
	}},
	{"gift", []string{
		"gift", "present", "donation", "award", "prize", "scholarship",
	}},
	{"refund", []string{
		"refund", "reimbursement", "rebate", "cashback",
	}},
	{"other", nil},
}
