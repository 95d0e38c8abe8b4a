package models

// ReportSummary aggregates paid-order figures for the dashboard.
type ReportSummary struct {
	TotalOrders    int     `json:"total_orders"`
	PaidOrders     int     `json:"paid_orders"`
	CancelledCount int     `json:"cancelled_count"`
	TotalRevenue   float64 `json:"total_revenue"`
	TotalTips      float64 `json:"total_tips"`
	AverageTicket  float64 `json:"average_ticket"`
}
