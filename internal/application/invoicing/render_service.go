package invoicing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/invoicegen/backend/internal/domain/invoice"
	"github.com/invoicegen/backend/internal/domain/shared"
	"github.com/invoicegen/backend/internal/domain/shared/valueobject"
	"github.com/invoicegen/backend/internal/infrastructure/layout"
)

func moneyOf(d decimal.Decimal) valueobject.Money {
	return valueobject.NewMoneyINR(d)
}

// RenderedDocument is the output of a single invoice render
type RenderedDocument struct {
	FileName  string
	Data      []byte
	PageCount int
}

// RenderService turns validated invoice records into finished documents
type RenderService struct {
	engine DocumentEngine
	style  layout.StyleConfig
	logger *zap.Logger
}

// RenderServiceOption is a functional option for RenderService
type RenderServiceOption func(*RenderService)

// WithStyle overrides the default document style
func WithStyle(style layout.StyleConfig) RenderServiceOption {
	return func(s *RenderService) {
		s.style = style
	}
}

// WithRenderLogger sets the service logger
func WithRenderLogger(logger *zap.Logger) RenderServiceOption {
	return func(s *RenderService) {
		s.logger = logger
	}
}

// NewRenderService creates a new RenderService
func NewRenderService(engine DocumentEngine, opts ...RenderServiceOption) *RenderService {
	s := &RenderService{
		engine: engine,
		style:  layout.DefaultStyle(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render computes the financials for one record and lays out the document.
// A logo that cannot be decoded is degraded to a warning: the invoice still
// renders, with the image cell left empty so the layout does not shift.
func (s *RenderService) Render(ctx context.Context, record *invoice.InvoiceRecord, logo []byte) (*RenderedDocument, error) {
	if record == nil {
		return nil, shared.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	totals, err := invoice.ComputeTotals(record.Items, record.Meta.Tax)
	if err != nil {
		return nil, err
	}

	words, err := invoice.AmountInWords(totals.GrandTotal.Units())
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeConversionError, err.Error())
	}

	logoBlock := s.decodeLogo(record.Meta.Number, logo)
	blocks := s.buildBlocks(record, totals, words, logoBlock)

	doc, err := s.engine.Layout(blocks, s.style)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeRenderError,
			fmt.Sprintf("failed to render invoice %s: %v", record.Meta.Number, err))
	}

	s.logger.Debug("Rendered invoice",
		zap.String("invoice_number", record.Meta.Number),
		zap.String("variant", record.Variant.String()),
		zap.Int("pages", doc.PageCount),
	)

	return &RenderedDocument{
		FileName:  record.FileName(),
		Data:      doc.Data,
		PageCount: doc.PageCount,
	}, nil
}

// decodeLogo sniffs the logo format. Undecodable logos are dropped with a
// warning rather than failing the render.
func (s *RenderService) decodeLogo(invoiceNumber string, logo []byte) *layout.ImageBlock {
	if len(logo) == 0 {
		return nil
	}

	format, err := layout.DetectImageFormat(logo)
	if err != nil {
		s.logger.Warn("Dropping undecodable logo",
			zap.String("invoice_number", invoiceNumber),
			zap.Error(err),
		)
		return nil
	}

	return &layout.ImageBlock{
		Data:   logo,
		Format: format,
		Width:  32,
		Height: 16,
	}
}

func (s *RenderService) buildBlocks(record *invoice.InvoiceRecord, totals invoice.Totals, words string, logo *layout.ImageBlock) []layout.Block {
	var blocks []layout.Block

	blocks = append(blocks, s.headerBlocks(record, logo)...)
	blocks = append(blocks, s.partiesBlock(record))
	blocks = append(blocks, s.itemTable(record, totals, words))

	if footer := s.footerBlock(record); footer != nil {
		blocks = append(blocks, footer)
	}

	return blocks
}

// headerBlocks draws the fixed title, then a brand row: logo slot on the
// left, invoice identity on the right. The logo cell is reserved even
// when empty so the identity column never shifts.
func (s *RenderService) headerBlocks(record *invoice.InvoiceRecord, logo *layout.ImageBlock) []layout.Block {
	title := &layout.TextBlock{
		Lines: []layout.Line{
			{layout.Span{Text: "INVOICE", Bold: true, Size: s.style.TitleFontSize}},
		},
		SpaceAfter: 2,
	}

	meta := &layout.TextBlock{
		Lines: []layout.Line{
			{layout.Span{Text: "Invoice #: ", Bold: true}, layout.Span{Text: record.Meta.Number}},
			{layout.Span{Text: "Date: ", Bold: true}, layout.Span{Text: FormatDate(record.Meta.IssueDate)}},
			{layout.Span{Text: "Due Date: ", Bold: true}, layout.Span{Text: FormatDate(record.Meta.DueDate)}},
		},
		Align: layout.AlignRight,
	}

	return []layout.Block{
		title,
		layout.TwoColumnBlock{
			Left:       layout.Cell{Image: logo, VAlign: layout.VAlignMiddle},
			Right:      layout.Cell{Text: meta},
			LeftWidth:  1,
			RightWidth: 1,
			SpaceAfter: 6,
		},
	}
}

// partiesBlock draws the From and Bill To columns side by side
func (s *RenderService) partiesBlock(record *invoice.InvoiceRecord) layout.Block {
	return layout.TwoColumnBlock{
		Left:       layout.Cell{Text: s.partyText("From:", record.From, record.Variant)},
		Right:      layout.Cell{Text: s.partyText("Bill To:", record.BillTo, record.Variant)},
		LeftWidth:  1,
		RightWidth: 1,
		SpaceAfter: 6,
	}
}

func (s *RenderService) partyText(heading string, party invoice.PartyInfo, variant invoice.TemplateVariant) *layout.TextBlock {
	lines := []layout.Line{
		{layout.Span{Text: heading, Bold: true}},
		{layout.Span{Text: party.Name, Bold: true}},
	}

	appendLine := func(text string) {
		lines = append(lines, layout.Line{layout.Span{Text: text}})
	}

	if party.Address != "" {
		appendLine(party.Address)
	}
	if party.Email != "" {
		appendLine(party.Email)
	}
	if party.Phone != "" {
		appendLine("Phone: " + party.Phone)
	}
	if party.PAN != "" {
		appendLine("PAN: " + party.PAN)
	}
	if variant == invoice.VariantGST && party.GSTIN != "" {
		appendLine("GSTIN: " + party.GSTIN)
	}

	return &layout.TextBlock{Lines: lines}
}

// itemTable draws the line items with the totals summary beneath. The
// column set follows the variant: GST invoices carry the HSN/SAC column,
// bulk invoices drop the quantity/rate breakdown.
func (s *RenderService) itemTable(record *invoice.InvoiceRecord, totals invoice.Totals, words string) layout.Block {
	symbol := s.style.CurrencySymbol

	var columns []layout.Column
	switch record.Variant {
	case invoice.VariantGST:
		columns = []layout.Column{
			{Header: "#", Width: 0.8, Align: layout.AlignCenter},
			{Header: "Description", Width: 4.2, Align: layout.AlignLeft},
			{Header: "HSN/SAC", Width: 1.4, Align: layout.AlignCenter},
			{Header: "Qty", Width: 1.2, Align: layout.AlignCenter},
			{Header: "Rate", Width: 2, Align: layout.AlignRight},
			{Header: "Amount", Width: 2.2, Align: layout.AlignRight},
		}
	case invoice.VariantBulk:
		columns = []layout.Column{
			{Header: "#", Width: 0.8, Align: layout.AlignCenter},
			{Header: "Description", Width: 7, Align: layout.AlignLeft},
			{Header: "Amount", Width: 2.4, Align: layout.AlignRight},
		}
	default:
		columns = []layout.Column{
			{Header: "#", Width: 0.8, Align: layout.AlignCenter},
			{Header: "Description", Width: 5.2, Align: layout.AlignLeft},
			{Header: "Qty", Width: 1.2, Align: layout.AlignCenter},
			{Header: "Rate", Width: 2, Align: layout.AlignRight},
			{Header: "Amount", Width: 2.2, Align: layout.AlignRight},
		}
	}

	rows := make([][]string, len(record.Items))
	for i, item := range record.Items {
		amount := moneyOf(item.ComputeAmount())

		switch record.Variant {
		case invoice.VariantGST:
			rows[i] = []string{
				fmt.Sprintf("%d", i+1),
				item.Description,
				item.HSN,
				item.EffectiveQuantity().String(),
				FormatAmount(moneyOf(item.UnitPrice)),
				FormatAmount(amount),
			}
		case invoice.VariantBulk:
			rows[i] = []string{
				fmt.Sprintf("%d", i+1),
				item.Description,
				FormatAmount(amount),
			}
		default:
			rows[i] = []string{
				fmt.Sprintf("%d", i+1),
				item.Description,
				item.EffectiveQuantity().String(),
				FormatAmount(moneyOf(item.UnitPrice)),
				FormatAmount(amount),
			}
		}
	}

	summary := []layout.SummaryRow{
		{Label: "Subtotal", Value: FormatMoney(totals.Subtotal, symbol)},
	}
	for _, tax := range totals.Taxes {
		label := fmt.Sprintf("%s (%s%%)", tax.Label, tax.Rate.String())
		summary = append(summary, layout.SummaryRow{Label: label, Value: FormatMoney(tax.Amount, symbol)})
	}
	summary = append(summary,
		layout.SummaryRow{
			Label:     "Amount Payable",
			Value:     FormatMoney(totals.GrandTotal, symbol),
			Bold:      true,
			RuleAbove: true,
		},
		layout.SummaryRow{Label: "Amount in Words: " + words, Small: true},
	)

	return layout.ItemTable{
		Columns:    columns,
		Rows:       rows,
		Summary:    summary,
		SpaceAfter: 8,
	}
}

// footerBlock draws bank details, notes and payment terms when present
func (s *RenderService) footerBlock(record *invoice.InvoiceRecord) layout.Block {
	var lines []layout.Line

	if record.From.HasBank() {
		bank := record.From.Bank
		lines = append(lines,
			layout.Line{layout.Span{Text: "Payment Details", Bold: true}},
			layout.Line{layout.Span{Text: "Account Holder: " + bank.AccountHolder}},
			layout.Line{layout.Span{Text: "Account Number: " + bank.AccountNumber}},
			layout.Line{layout.Span{Text: "IFSC: " + bank.IFSC}},
		)
		if bank.BankName != "" {
			bankLine := bank.BankName
			if bank.Branch != "" {
				bankLine += ", " + bank.Branch
			}
			lines = append(lines, layout.Line{layout.Span{Text: "Bank: " + bankLine}})
		}
	}

	if record.Meta.PaymentTerms != "" {
		lines = append(lines, layout.Line{layout.Span{Text: "Terms: " + record.Meta.PaymentTerms}})
	}
	if record.Meta.Notes != "" {
		lines = append(lines, layout.Line{layout.Span{Text: record.Meta.Notes, Size: s.style.SmallFontSize}})
	}

	if len(lines) == 0 {
		return nil
	}

	return &layout.TextBlock{Lines: lines}
}
