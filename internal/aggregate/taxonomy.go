package aggregate

// Expense category groups, in taxonomy order.
const (
	GroupEssentialLiving = "Essential Living"
	GroupTransportation  = "Transportation"
	GroupHealthWellbeing = "Health & Wellbeing"
	GroupLifestyle       = "Lifestyle"
	GroupFinancial       = "Financial"
	GroupOther           = "Other"
)

// Group is a named, fixed set of expense categories.
type Group struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// ExpenseGroups partitions the expense categories. The sets must not overlap.
var ExpenseGroups = []Group{
	{Name: GroupEssentialLiving, Categories: []string{"Rent", "Mortgage", "Utilities", "Groceries", "Home Maintenance"}},
	{Name: GroupTransportation, Categories: []string{"Fuel", "Public Transport", "Car Maintenance", "Parking", "Ride Share"}},
	{Name: GroupHealthWellbeing, Categories: []string{"Healthcare", "Pharmacy", "Fitness", "Personal Care"}},
	{Name: GroupLifestyle, Categories: []string{"Dining Out", "Entertainment", "Shopping", "Travel", "Subscriptions", "Hobbies"}},
	{Name: GroupFinancial, Categories: []string{"Insurance", "Loan Payment", "Credit Card", "Savings", "Investments", "Taxes", "Bank Fees"}},
	{Name: GroupOther, Categories: []string{"Education", "Gifts", "Donations", "Childcare", "Pets", "Miscellaneous"}},
}

// IncomeCategories is the fixed set offered for income transactions.
var IncomeCategories = []string{
	"Salary", "Freelance", "Business", "Investment Returns", "Rental Income", "Gifts Received", "Refunds", "Other Income",
}

var (
	categoryToGroup = make(map[string]string)
	incomeSet       = make(map[string]struct{})
)

func init() {
	for _, g := range ExpenseGroups {
		for _, c := range g.Categories {
			categoryToGroup[c] = g.Name
		}
	}
	for _, c := range IncomeCategories {
		incomeSet[c] = struct{}{}
	}
}

// GroupOf returns the group an expense category belongs to.
func GroupOf(category string) (string, bool) {
	g, ok := categoryToGroup[category]
	return g, ok
}

// GroupNames returns the six group names in taxonomy order.
func GroupNames() []string {
	names := make([]string, len(ExpenseGroups))
	for i, g := range ExpenseGroups {
		names[i] = g.Name
	}
	return names
}

// IsIncomeCategory reports whether category is one of the income categories.
func IsIncomeCategory(category string) bool {
	_, ok := incomeSet[category]
	return ok
}
