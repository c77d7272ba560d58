package dto

// AlertsResponse salida de GET /api/alerts.
type AlertsResponse struct {
	AlmostExpiring []ProductResponse      `json:"almostExpiring"`
	LowStock       []ProductStockResponse `json:"lowStock"`
}
