package models

// DashboardStats is the owner dashboard summary.
type DashboardStats struct {
	Revenue      float64 `json:"revenue"`
	Orders       int     `json:"orders"`
	ActiveGuests int     `json:"active_guests"`
}

// DailyTrend is one day of aggregated order data.
type DailyTrend struct {
	Day          string  `json:"day"` // YYYY-MM-DD
	DailyRevenue float64 `json:"daily_revenue"`
	OrderCount   int     `json:"order_count"`
}

// StatusCount is the number of orders currently in one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// ReportResponse bundles the detailed report endpoint payload.
type ReportResponse struct {
	Trends             []DailyTrend  `json:"trends"`
	StatusDistribution []StatusCount `json:"status_distribution"`
}

// AdminStats is the platform-wide view for the admin dashboard.
type AdminStats struct {
	TotalUsers        int     `json:"total_users"`
	ActiveRestaurants int     `json:"active_restaurants"`
	TotalRevenue      float64 `json:"total_revenue"`
}
