package dto

// UpsertProductRequest entrada para crear o actualizar un producto (POST/PUT /api/products).
type UpsertProductRequest struct {
	Nome       string  `json:"nome" form:"nome"`
	Validade   string  `json:"validade" form:"validade"`
	Quantidade FlexInt `json:"quantidade" form:"quantidade"`
	StockID    FlexInt `json:"stockId" form:"stockId"`
}

// AddStockRequest entrada para POST /api/add-product-stock.
type AddStockRequest struct {
	ProductID FlexInt `json:"productId" form:"productId"`
	StockID   FlexInt `json:"stockId" form:"stockId"`
	Quantity  FlexInt `json:"quantity" form:"quantity"`
}

// ProductResponse salida de un producto del catálogo.
type ProductResponse struct {
	ID       int64  `json:"id"`
	Nome     string `json:"nome"`
	Validade string `json:"validade"`
}

// ProductStockResponse producto con la cantidad en un local (listados, backup).
type ProductStockResponse struct {
	ID         int64  `json:"id"`
	Nome       string `json:"nome"`
	Validade   string `json:"validade"`
	Quantidade int    `json:"quantidade"`
	StockID    int64  `json:"stockId"`
}

// StockEntryResponse salida de una fila de stock tras un ajuste.
type StockEntryResponse struct {
	ID         int64  `json:"id"`
	ProdutoID  int64  `json:"produtoId"`
	StockID    int64  `json:"stockId"`
	Quantidade int    `json:"quantidade"`
	UpdatedAt  string `json:"updatedAt"`
}

// LocationResponse salida de un local (GET /api/stocks).
type LocationResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
