package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/pdf"
)

func TestGenerateWithdrawalReport(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	report := &usecase.WithdrawalReport{
		From:        &from,
		GeneratedAt: time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC),
		Items: []repository.WithdrawalItem{
			{ID: 1, ProductName: "Cerveja", Username: "funcionario", Quantity: 4, Destination: "BAR_PUB", CreatedAt: from.Add(time.Hour)},
			{ID: 2, ProductName: "Água", Username: "admin", Quantity: 2, Destination: "LOJA_PARK", CreatedAt: from.Add(2 * time.Hour)},
		},
		Total: 6,
	}

	out, err := pdf.NewWithdrawalReportGenerator("Relatório de retiradas", nil).GenerateWithdrawalReport(context.Background(), report)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateWithdrawalReport_Vacio(t *testing.T) {
	out, err := pdf.NewWithdrawalReportGenerator("Relatório de retiradas", nil).
		GenerateWithdrawalReport(context.Background(), &usecase.WithdrawalReport{GeneratedAt: time.Now()})

	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
