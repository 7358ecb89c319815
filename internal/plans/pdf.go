package plans

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/StartupBuilder-io/startupbuilder/internal/models"
	"github.com/jung-kurt/gofpdf"
)

// RenderPDF produces the exported plan document. It is a pure function of
// (result, idea); a failure yields no partial output.
func RenderPDF(result models.PlanResult, idea string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(result.CompanyName), false)
	pdf.AddPage()

	// Header: identity.
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(30, 30, 80)
	pdf.CellFormat(0, 12, tr(result.CompanyName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "I", 12)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 8, tr(result.Slogan), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetTextColor(0, 0, 0)
	writeParagraph(pdf, tr, "Ideia Original", idea)

	writeParagraph(pdf, tr, "Público-Alvo", result.TargetAudience.Description)
	writeParagraph(pdf, tr, "Demografia", result.TargetAudience.Demographics)
	writeList(pdf, tr, "Dores do Público", result.TargetAudience.PainPoints)

	writeParagraph(pdf, tr, "Estratégia de Marketing", result.MarketingStrategy.Approach)
	writeList(pdf, tr, "Canais", result.MarketingStrategy.Channels)
	writeList(pdf, tr, "Táticas", result.MarketingStrategy.Tactics)

	writeSectionTitle(pdf, tr, "Plano Financeiro")
	writeKeyValue(pdf, tr, "Investimento inicial", result.FinancialPlan.InitialInvestment)
	writeKeyValue(pdf, tr, "Receita mensal estimada", result.FinancialPlan.MonthlyRevenue)
	writeKeyValue(pdf, tr, "Ponto de equilíbrio", result.FinancialPlan.BreakEven)
	writeList(pdf, tr, "Fontes de Receita", result.FinancialPlan.RevenueStreams)
	writeList(pdf, tr, "Principais Custos", result.FinancialPlan.MainCosts)

	writeParagraph(pdf, tr, "Diferencial Competitivo", result.CompetitiveDifferential.Main)
	writeList(pdf, tr, "Pontos de Diferenciação", result.CompetitiveDifferential.Points)

	writeSectionTitle(pdf, tr, "Análise SWOT")
	writeList(pdf, tr, "Forças", result.SWOT.Strengths)
	writeList(pdf, tr, "Fraquezas", result.SWOT.Weaknesses)
	writeList(pdf, tr, "Oportunidades", result.SWOT.Opportunities)
	writeList(pdf, tr, "Ameaças", result.SWOT.Threats)

	writeSectionTitle(pdf, tr, "Avaliação para Investidores")
	writeKeyValue(pdf, tr, "Nota geral", fmt.Sprintf("%.1f / 10", result.InvestorScore.OverallScore))
	writeKeyValue(pdf, tr, "Potencial de mercado", fmt.Sprintf("%.1f", result.InvestorScore.MarketPotential))
	writeKeyValue(pdf, tr, "Viabilidade", fmt.Sprintf("%.1f", result.InvestorScore.Feasibility))
	writeKeyValue(pdf, tr, "Escalabilidade", fmt.Sprintf("%.1f", result.InvestorScore.Scalability))
	writeKeyValue(pdf, tr, "Risco", fmt.Sprintf("%.1f", result.InvestorScore.Risk))
	writeParagraph(pdf, tr, "Avaliação", result.InvestorScore.Evaluation)
	writeParagraph(pdf, tr, "Recomendação", result.InvestorScore.Recommendation)

	writeList(pdf, tr, "Próximos Passos", result.NextSteps)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportFilename derives the download filename from the company name.
func ExportFilename(result models.PlanResult) string {
	name := strings.TrimSpace(result.CompanyName)
	if name == "" {
		name = "plano"
	}
	name = strings.Join(strings.Fields(name), "-")
	return fmt.Sprintf("startup-plan-%s.pdf", name)
}

func writeSectionTitle(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(30, 30, 80)
	pdf.CellFormat(0, 9, tr(title), "B", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(1)
}

func writeParagraph(pdf *gofpdf.Fpdf, tr func(string) string, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	writeSectionTitle(pdf, tr, title)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, tr(body), "", "L", false)
}

func writeList(pdf *gofpdf.Fpdf, tr func(string) string, title string, items []string) {
	if len(items) == 0 {
		return
	}
	writeSectionTitle(pdf, tr, title)
	pdf.SetFont("Helvetica", "", 11)
	for _, item := range items {
		pdf.MultiCell(0, 6, tr("• "+item), "", "L", false)
	}
}

func writeKeyValue(pdf *gofpdf.Fpdf, tr func(string) string, key, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 6, tr(key+":"), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, tr(value), "", "L", false)
}
