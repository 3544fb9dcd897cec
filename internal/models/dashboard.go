package models

import (
	"time"
)

// DashboardStats is the headline widget data on the dashboard page
type DashboardStats struct {
	TodayOrders         int     `json:"today_orders"`
	TodayRevenue        float64 `json:"today_revenue"`
	ActiveOrders        int     `json:"active_orders"`
	OrdersInProgress    int     `json:"orders_in_progress"`
	OrdersReady         int     `json:"orders_ready"`
	ActiveConversations int     `json:"active_conversations"`
}

// RevenuePoint is one bucket of the revenue chart
type RevenuePoint struct {
	Date    time.Time `db:"date" json:"date"`
	Revenue float64   `db:"revenue" json:"revenue"`
}

// FinancialSummary aggregates revenue over a reporting period
type FinancialSummary struct {
	Period       string         `json:"period"`
	StartDate    time.Time      `json:"start_date"`
	EndDate      time.Time      `json:"end_date"`
	TotalOrders  int            `json:"total_orders"`
	TotalRevenue float64        `json:"total_revenue"`
	AverageOrder float64        `json:"average_order"`
	Revenue      []RevenuePoint `json:"revenue"`
}
