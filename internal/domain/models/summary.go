package models

import "time"

// DailySummary aggregates the dashboard figures for one calendar day. It is
// what the reporting snapshot job persists to MongoDB.
type DailySummary struct {
	Date               time.Time `bson:"date" json:"date"`
	TodayTotal         float64   `bson:"today_total" json:"todayTotal"`
	TodayProfit        float64   `bson:"today_profit" json:"todayProfit"`
	TotalProducts      int       `bson:"total_products" json:"totalProducts"`
	PendingCredits     int       `bson:"pending_credits" json:"pendingCredits"`
	PendingCreditTotal float64   `bson:"pending_credit_total" json:"pendingCreditTotal"`
	PaidCreditTotal    float64   `bson:"paid_credit_total" json:"paidCreditTotal"`
	TotalProfit        float64   `bson:"total_profit" json:"totalProfit"`
	LowStockProducts   int       `bson:"low_stock_products" json:"lowStockProducts"`
	CreatedAt          time.Time `bson:"created_at" json:"createdAt"`
}
