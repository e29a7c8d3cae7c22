package infra

// pdf.go — geração do cupom não fiscal com go-pdf/fpdf.
// Formato de bobina térmica (74mm de largura): cabeçalho da loja, data,
// tabela de itens, desconto, total em negrito e o rateio de pagamentos.

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/model"
)

// GerarCupomPDF renderiza o cupom de uma venda concluída e devolve os bytes
// do PDF, prontos para o handler servir inline.
func GerarCupomPDF(venda *model.Venda) ([]byte, error) {
	// 74mm × 105mm — próximo do papel térmico de bobina
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Cabeçalho ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "PDV Conveniência", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Cupom não fiscal", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Venda %s", venda.ID), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venda.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if venda.Cliente != nil && *venda.Cliente != "" {
		pdf.CellFormat(contentW, 4, fmt.Sprintf("Cliente: %s", *venda.Cliente), "", 1, "L", false, 0, "")
	}
	if venda.CPF != nil && *venda.CPF != "" {
		pdf.CellFormat(contentW, 4, fmt.Sprintf("CPF: %s", *venda.CPF), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	// ── Itens ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(contentW*0.55, 4, "Produto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.15, 4, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(contentW*0.30, 4, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range venda.Itens {
		nome := fmt.Sprintf("Item %s", item.ProdutoID)
		if item.Produto != nil {
			nome = item.Produto.Nome
		}
		pdf.CellFormat(contentW*0.55, 4, nome, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.15, 4, fmt.Sprintf("%d", item.Quantidade), "", 0, "C", false, 0, "")
		pdf.CellFormat(contentW*0.30, 4, "R$ "+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(1)

	// ── Totais ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW*0.60, 4, "Subtotal", "T", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.40, 4, "R$ "+venda.Subtotal.StringFixed(2), "T", 1, "R", false, 0, "")
	if !venda.Desconto.IsZero() {
		pdf.CellFormat(contentW*0.60, 4, "Desconto", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.40, 4, "-R$ "+venda.Desconto.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW*0.60, 6, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.40, 6, "R$ "+venda.Total.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.Ln(1)

	// ── Pagamentos ────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	for _, p := range venda.Pagamentos {
		rotulo := p.Tipo
		if p.Parcelas != nil && *p.Parcelas > 1 {
			rotulo = fmt.Sprintf("%s %dx", p.Tipo, *p.Parcelas)
		}
		pdf.CellFormat(contentW*0.60, 4, rotulo, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.40, 4, "R$ "+p.Valor.StringFixed(2), "", 1, "R", false, 0, "")
		if !p.Troco.IsZero() {
			pdf.CellFormat(contentW*0.60, 4, "Troco", "", 0, "L", false, 0, "")
			pdf.CellFormat(contentW*0.40, 4, "R$ "+p.Troco.StringFixed(2), "", 1, "R", false, 0, "")
		}
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 6)
	pdf.CellFormat(contentW, 4, "Obrigado pela preferência!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	return buf.Bytes(), nil
}
