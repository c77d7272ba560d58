package dto

import "time"

// WithdrawRequest entrada para POST /api/retiradas. StockID solo lo puede indicar un ADMIN.
type WithdrawRequest struct {
	ProductID   FlexInt `json:"productId" form:"productId"`
	Quantity    FlexInt `json:"quantity" form:"quantity"`
	Destination string  `json:"destination" form:"destination"`
	StockID     FlexInt `json:"stockId" form:"stockId"`
}

// WithdrawResponse salida de una retirada registrada.
type WithdrawResponse struct {
	Success            bool      `json:"success"`
	RetiradaID         int64     `json:"retiradaId"`
	QuantidadeRestante int       `json:"quantidadeRestante"`
	Destination        string    `json:"destination"`
	Data               time.Time `json:"data"`
}

// WithdrawalResponse ítem del historial de retiradas.
type WithdrawalResponse struct {
	ID          int64     `json:"id"`
	ProdutoNome string    `json:"produtoNome"`
	Quantidade  int       `json:"quantidade"`
	UsuarioNome string    `json:"usuarioNome,omitempty"`
	Destination string    `json:"destination"`
	StockID     int64     `json:"stockId"`
	Data        time.Time `json:"data"`
}

// WithdrawalQuery filtros de fecha del historial (start/end en query string).
type WithdrawalQuery struct {
	Start string `query:"start"`
	End   string `query:"end"`
}
