package model

// DashboardStats summarises the day for the staff dashboard.
type DashboardStats struct {
	TodayOrders    int            `json:"todayOrders"`
	TodayRevenue   float64        `json:"todayRevenue"`
	ActiveByStatus map[string]int `json:"activeByStatus"`
}
