package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hisaab-cloud/hisaab/internal/billing/calc"
	"github.com/hisaab-cloud/hisaab/internal/masterdata/clients"
	"github.com/hisaab-cloud/hisaab/internal/masterdata/companies"
	"github.com/hisaab-cloud/hisaab/internal/masterdata/items"
	"github.com/hisaab-cloud/hisaab/internal/platform/db"
	"github.com/hisaab-cloud/hisaab/internal/platform/httpx"
	"github.com/hisaab-cloud/hisaab/internal/shared"
)

// Sequence kinds for server-side document numbering.
const (
	seqQuotation  = "quotation"
	seqInvoice    = "invoice"
	seqTaxInvoice = "tax_invoice"
)

// Service owns the quotation and invoice workflows.
type Service struct {
	repo      Repository
	clients   clients.Repository
	items     items.Repository
	companies companies.Repository
	now       func() time.Time
}

// NewService builds a Service.
func NewService(repo Repository, cl clients.Repository, it items.Repository, co companies.Repository) *Service {
	return &Service{repo: repo, clients: cl, items: it, companies: co, now: time.Now}
}

// today returns the current date truncated to midnight UTC.
func (s *Service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDateField(value *string, field string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, ok := parseDate(strings.TrimSpace(*value))
	if !ok {
		return nil, httpx.BadRequest("INVALID_"+shared.FieldCode(field), field+" must be YYYY-MM-DD")
	}
	return &t, nil
}

// buildLines resolves line inputs against the catalog and company defaults
// and computes the stored money fields. Sort order follows input order.
func (s *Service) buildLines(ctx context.Context, tc shared.TenantContext, company *companies.Company, inputs []LineInput) ([]DocumentLine, error) {
	lines := make([]DocumentLine, 0, len(inputs))
	for i, in := range inputs {
		line := DocumentLine{
			ItemID:      in.ItemID,
			Description: strings.TrimSpace(in.Description),
			Quantity:    in.Quantity,
			SortOrder:   i,
		}

		var item *items.Item
		if in.ItemID != nil {
			var err error
			item, err = s.items.Get(ctx, tc.CompanyID, *in.ItemID)
			if err != nil {
				if err == items.ErrNotFound {
					return nil, httpx.NotFound("ITEM_NOT_FOUND", fmt.Sprintf("item %d not found", *in.ItemID))
				}
				return nil, err
			}
		}

		switch {
		case in.UnitPrice != nil:
			line.UnitPrice = *in.UnitPrice
		case item != nil:
			line.UnitPrice = item.UnitPrice
		default:
			return nil, httpx.BadRequest("MISSING_UNIT_PRICE", "line without an item needs a unit price")
		}

		switch {
		case in.TaxRate != nil:
			line.TaxRate = *in.TaxRate
		case item != nil:
			line.TaxRate = item.TaxRate
		default:
			line.TaxRate = company.DefaultTaxRate
		}

		switch {
		case in.Unit != nil && strings.TrimSpace(*in.Unit) != "":
			line.Unit = strings.TrimSpace(*in.Unit)
		case item != nil:
			line.Unit = item.Unit
		default:
			line.Unit = "pcs"
		}

		if line.Description == "" {
			if item == nil {
				return nil, httpx.BadRequest("MISSING_DESCRIPTION", "line without an item needs a description")
			}
			line.Description = item.Name
		}

		amounts := calc.Line(line.Quantity, line.UnitPrice, line.TaxRate)
		line.Subtotal = amounts.Subtotal
		line.TaxAmount = amounts.TaxAmount
		line.LineTotal = amounts.LineTotal
		lines = append(lines, line)
	}
	return lines, nil
}

func lineAmounts(lines []DocumentLine) []calc.LineAmounts {
	out := make([]calc.LineAmounts, len(lines))
	for i, l := range lines {
		out[i] = calc.LineAmounts{Subtotal: l.Subtotal, TaxAmount: l.TaxAmount, LineTotal: l.LineTotal}
	}
	return out
}

func (s *Service) verifyClient(ctx context.Context, tc shared.TenantContext, clientID int64) error {
	if _, err := s.clients.Get(ctx, tc.CompanyID, clientID); err != nil {
		if err == clients.ErrNotFound {
			return httpx.NotFound("CLIENT_NOT_FOUND", "client not found")
		}
		return err
	}
	return nil
}

// CreateQuotation validates, prices and stores a quotation with its lines.
func (s *Service) CreateQuotation(ctx context.Context, tc shared.TenantContext, req CreateQuotationRequest) (*Quotation, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}
	issueDate, err := parseDateField(req.IssueDate, "issueDate")
	if err != nil {
		return nil, err
	}
	validUntil, err := parseDateField(req.ValidUntil, "validUntil")
	if err != nil {
		return nil, err
	}
	if err := s.verifyClient(ctx, tc, req.ClientID); err != nil {
		return nil, err
	}
	company, err := s.companies.Get(ctx, tc.CompanyID)
	if err != nil {
		return nil, err
	}

	lines, err := s.buildLines(ctx, tc, company, req.Lines)
	if err != nil {
		return nil, err
	}
	totals := calc.Document(lineAmounts(lines), req.DiscountAmount)

	q := &Quotation{
		CompanyID:      tc.CompanyID,
		ClientID:       req.ClientID,
		Status:         QuotationDraft,
		IssueDate:      s.today(),
		ValidUntil:     validUntil,
		Currency:       company.DefaultCurrency,
		Subtotal:       totals.Subtotal,
		TaxAmount:      totals.TaxAmount,
		DiscountAmount: calc.Round2(req.DiscountAmount),
		Total:          totals.Total,
		Notes:          shared.TrimOptional(req.Notes),
		Terms:          shared.TrimOptional(req.Terms),
	}
	if issueDate != nil {
		q.IssueDate = *issueDate
	}
	if req.Currency != nil {
		q.Currency = strings.ToUpper(*req.Currency)
	}
	if req.Number != nil && strings.TrimSpace(*req.Number) != "" {
		q.Number = strings.TrimSpace(*req.Number)
	}

	err = s.repo.WithTx(ctx, func(tx Repository) error {
		if q.Number == "" {
			year := q.IssueDate.Year()
			seq, err := tx.NextSequence(ctx, tc.CompanyID, seqQuotation, year)
			if err != nil {
				return err
			}
			q.Number = fmt.Sprintf("QT-%d-%03d", year, seq)
		}
		if err := tx.InsertQuotation(ctx, q); err != nil {
			return err
		}
		return tx.InsertQuotationLines(ctx, q.ID, lines)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, httpx.Conflict("DUPLICATE_NUMBER", "quotation number already in use")
		}
		return nil, err
	}

	q.Lines = lines
	return q, nil
}

// GetQuotation returns a quotation with its lines.
func (s *Service) GetQuotation(ctx context.Context, tc shared.TenantContext, id int64) (*Quotation, error) {
	q, err := s.repo.GetQuotation(ctx, tc.CompanyID, id)
	if err != nil {
		return nil, err
	}
	q.Lines, err = s.repo.GetQuotationLines(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListQuotations returns a filtered page of quotation headers.
func (s *Service) ListQuotations(ctx context.Context, tc shared.TenantContext, filter ListFilter) ([]Quotation, int, error) {
	if filter.Status != "" {
		switch QuotationStatus(filter.Status) {
		case QuotationDraft, QuotationSent, QuotationAccepted, QuotationRejected, QuotationConverted:
		default:
			return nil, 0, httpx.BadRequest("INVALID_STATUS", "unknown quotation status")
		}
	}
	return s.repo.ListQuotations(ctx, tc.CompanyID, filter)
}

// UpdateQuotation applies a partial update. A non-nil line set replaces all
// lines and recomputes the totals in the same transaction. Converted
// quotations are frozen; rejected ones refuse line edits.
func (s *Service) UpdateQuotation(ctx context.Context, tc shared.TenantContext, id int64, req UpdateQuotationRequest) (*Quotation, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}
	validUntil, err := parseDateField(req.ValidUntil, "validUntil")
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetQuotation(ctx, tc.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == QuotationConverted {
		return nil, httpx.Conflict("DOCUMENT_LOCKED", "converted quotations cannot be modified")
	}
	if req.Lines != nil && existing.Status == QuotationRejected {
		return nil, httpx.Conflict("DOCUMENT_LOCKED", "rejected quotations cannot change lines")
	}

	updates := make(map[string]interface{})
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.ValidUntil != nil {
		// An explicit empty string clears the column.
		if validUntil != nil {
			updates["valid_until"] = *validUntil
		} else {
			updates["valid_until"] = nil
		}
	}
	if req.Notes != nil {
		updates["notes"] = shared.TrimOptional(req.Notes)
	}
	if req.Terms != nil {
		updates["terms"] = shared.TrimOptional(req.Terms)
	}

	discount := existing.DiscountAmount
	if req.DiscountAmount != nil {
		discount = calc.Round2(*req.DiscountAmount)
		updates["discount_amount"] = discount
	}

	var newLines []DocumentLine
	if req.Lines != nil {
		company, err := s.companies.Get(ctx, tc.CompanyID)
		if err != nil {
			return nil, err
		}
		newLines, err = s.buildLines(ctx, tc, company, *req.Lines)
		if err != nil {
			return nil, err
		}
		totals := calc.Document(lineAmounts(newLines), discount)
		updates["subtotal"] = totals.Subtotal
		updates["tax_amount"] = totals.TaxAmount
		updates["total"] = totals.Total
	} else if req.DiscountAmount != nil {
		totals := calc.Document([]calc.LineAmounts{{Subtotal: existing.Subtotal, TaxAmount: existing.TaxAmount}}, discount)
		updates["total"] = totals.Total
	}

	err = s.repo.WithTx(ctx, func(tx Repository) error {
		if req.Lines != nil {
			if err := tx.DeleteQuotationLines(ctx, id); err != nil {
				return err
			}
			if err := tx.InsertQuotationLines(ctx, id, newLines); err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			return tx.UpdateQuotation(ctx, tc.CompanyID, id, updates)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetQuotation(ctx, tc, id)
}

// DeleteQuotation removes a quotation with its lines and returns the
// deleted header.
func (s *Service) DeleteQuotation(ctx context.Context, tc shared.TenantContext, id int64) (*Quotation, error) {
	var deleted *Quotation
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		if err := tx.DeleteQuotationLines(ctx, id); err != nil {
			return err
		}
		var err error
		deleted, err = tx.DeleteQuotation(ctx, tc.CompanyID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// ConvertQuotation turns a quotation into a draft invoice in one
// transaction: the invoice is created with the quotation's totals, every
// line is copied in order, the quotation is frozen as converted, and the
// client's running balance grows by the invoice total. A quotation converts
// at most once.
func (s *Service) ConvertQuotation(ctx context.Context, tc shared.TenantContext, id int64) (*Invoice, error) {
	q, err := s.repo.GetQuotation(ctx, tc.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if q.Status == QuotationConverted || q.ConvertedInvoiceID != nil {
		return nil, httpx.Conflict("ALREADY_CONVERTED", "quotation has already been converted")
	}
	qLines, err := s.repo.GetQuotationLines(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	company, err := s.companies.Get(ctx, tc.CompanyID)
	if err != nil {
		return nil, err
	}

	issueDate := s.today()
	inv := &Invoice{
		CompanyID:      tc.CompanyID,
		ClientID:       q.ClientID,
		QuotationID:    &q.ID,
		Status:         InvoiceDraft,
		IssueDate:      issueDate,
		DueDate:        issueDate.AddDate(0, 0, company.DefaultPaymentTermDays),
		Currency:       q.Currency,
		Subtotal:       q.Subtotal,
		TaxAmount:      q.TaxAmount,
		DiscountAmount: q.DiscountAmount,
		Total:          q.Total,
		Notes:          q.Notes,
		Terms:          q.Terms,
	}

	lines := make([]DocumentLine, len(qLines))
	for i, l := range qLines {
		lines[i] = l
		lines[i].ID = 0
		lines[i].DocumentID = 0
	}

	err = s.repo.WithTx(ctx, func(tx Repository) error {
		year := issueDate.Year()
		seq, err := tx.NextSequence(ctx, tc.CompanyID, seqInvoice, year)
		if err != nil {
			return err
		}
		inv.Number = fmt.Sprintf("INV-%d-%03d", year, seq)

		if err := tx.InsertInvoice(ctx, inv); err != nil {
			return err
		}
		if err := tx.InsertInvoiceLines(ctx, inv.ID, lines); err != nil {
			return err
		}
		// The guarded stamp decides the race: a competing convert that
		// committed first makes this fail and roll everything back.
		if err := tx.MarkQuotationConverted(ctx, tc.CompanyID, q.ID, inv.ID); err != nil {
			return err
		}
		return tx.AdjustClientBalance(ctx, tc.CompanyID, q.ClientID, inv.Total)
	})
	if err != nil {
		if errors.Is(err, ErrQuotationConverted) {
			return nil, httpx.Conflict("ALREADY_CONVERTED", "quotation has already been converted")
		}
		return nil, err
	}

	inv.Lines = lines
	return inv, nil
}

// CreateInvoice validates, prices and stores an invoice with its lines.
// The client's running balance grows by the invoice total.
func (s *Service) CreateInvoice(ctx context.Context, tc shared.TenantContext, req CreateInvoiceRequest) (*Invoice, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}
	issueDate, err := parseDateField(req.IssueDate, "issueDate")
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDateField(req.DueDate, "dueDate")
	if err != nil {
		return nil, err
	}
	if err := s.verifyClient(ctx, tc, req.ClientID); err != nil {
		return nil, err
	}
	company, err := s.companies.Get(ctx, tc.CompanyID)
	if err != nil {
		return nil, err
	}

	lines, err := s.buildLines(ctx, tc, company, req.Lines)
	if err != nil {
		return nil, err
	}
	totals := calc.Document(lineAmounts(lines), req.DiscountAmount)

	inv := &Invoice{
		CompanyID:      tc.CompanyID,
		ClientID:       req.ClientID,
		Status:         InvoiceDraft,
		IssueDate:      s.today(),
		Currency:       company.DefaultCurrency,
		Subtotal:       totals.Subtotal,
		TaxAmount:      totals.TaxAmount,
		DiscountAmount: calc.Round2(req.DiscountAmount),
		Total:          totals.Total,
		Notes:          shared.TrimOptional(req.Notes),
		Terms:          shared.TrimOptional(req.Terms),
	}
	if issueDate != nil {
		inv.IssueDate = *issueDate
	}
	if dueDate != nil {
		inv.DueDate = *dueDate
	} else {
		inv.DueDate = inv.IssueDate.AddDate(0, 0, company.DefaultPaymentTermDays)
	}
	if req.Currency != nil {
		inv.Currency = strings.ToUpper(*req.Currency)
	}
	if req.Number != nil && strings.TrimSpace(*req.Number) != "" {
		inv.Number = strings.TrimSpace(*req.Number)
	}

	err = s.repo.WithTx(ctx, func(tx Repository) error {
		if inv.Number == "" {
			year := inv.IssueDate.Year()
			seq, err := tx.NextSequence(ctx, tc.CompanyID, seqInvoice, year)
			if err != nil {
				return err
			}
			inv.Number = fmt.Sprintf("INV-%d-%03d", year, seq)
		}
		if err := tx.InsertInvoice(ctx, inv); err != nil {
			return err
		}
		if err := tx.InsertInvoiceLines(ctx, inv.ID, lines); err != nil {
			return err
		}
		return tx.AdjustClientBalance(ctx, tc.CompanyID, inv.ClientID, inv.Total)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, httpx.Conflict("DUPLICATE_NUMBER", "invoice number already in use")
		}
		return nil, err
	}

	inv.Lines = lines
	return inv, nil
}

// GetInvoice returns an invoice with its lines.
func (s *Service) GetInvoice(ctx context.Context, tc shared.TenantContext, id int64) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, tc.CompanyID, id)
	if err != nil {
		return nil, err
	}
	inv.Lines, err = s.repo.GetInvoiceLines(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// ListInvoices returns a filtered page of invoice headers.
func (s *Service) ListInvoices(ctx context.Context, tc shared.TenantContext, filter ListFilter) ([]Invoice, int, error) {
	if filter.Status != "" {
		switch InvoiceStatus(filter.Status) {
		case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		default:
			return nil, 0, httpx.BadRequest("INVALID_STATUS", "unknown invoice status")
		}
	}
	return s.repo.ListInvoices(ctx, tc.CompanyID, filter)
}

// UpdateInvoice applies a partial update. A non-nil line set replaces all
// lines and recomputes the totals; paid and cancelled invoices refuse line
// edits. Total changes flow into the client's running balance.
func (s *Service) UpdateInvoice(ctx context.Context, tc shared.TenantContext, id int64, req UpdateInvoiceRequest) (*Invoice, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}
	dueDate, err := parseDateField(req.DueDate, "dueDate")
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetInvoice(ctx, tc.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if req.Lines != nil && (existing.Status == InvoicePaid || existing.Status == InvoiceCancelled) {
		return nil, httpx.Conflict("DOCUMENT_LOCKED", "paid or cancelled invoices cannot change lines")
	}

	updates := make(map[string]interface{})
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if dueDate != nil {
		updates["due_date"] = *dueDate
	}
	if req.Notes != nil {
		updates["notes"] = shared.TrimOptional(req.Notes)
	}
	if req.Terms != nil {
		updates["terms"] = shared.TrimOptional(req.Terms)
	}

	discount := existing.DiscountAmount
	if req.DiscountAmount != nil {
		discount = calc.Round2(*req.DiscountAmount)
		updates["discount_amount"] = discount
	}

	newTotal := existing.Total
	var newLines []DocumentLine
	if req.Lines != nil {
		company, err := s.companies.Get(ctx, tc.CompanyID)
		if err != nil {
			return nil, err
		}
		newLines, err = s.buildLines(ctx, tc, company, *req.Lines)
		if err != nil {
			return nil, err
		}
		totals := calc.Document(lineAmounts(newLines), discount)
		updates["subtotal"] = totals.Subtotal
		updates["tax_amount"] = totals.TaxAmount
		updates["total"] = totals.Total
		newTotal = totals.Total
	} else if req.DiscountAmount != nil {
		totals := calc.Document([]calc.LineAmounts{{Subtotal: existing.Subtotal, TaxAmount: existing.TaxAmount}}, discount)
		updates["total"] = totals.Total
		newTotal = totals.Total
	}

	err = s.repo.WithTx(ctx, func(tx Repository) error {
		if req.Lines != nil {
			if err := tx.DeleteInvoiceLines(ctx, id); err != nil {
				return err
			}
			if err := tx.InsertInvoiceLines(ctx, id, newLines); err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.UpdateInvoice(ctx, tc.CompanyID, id, updates); err != nil {
				return err
			}
		}
		if delta := calc.Round2(newTotal - existing.Total); delta != 0 {
			return tx.AdjustClientBalance(ctx, tc.CompanyID, existing.ClientID, delta)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetInvoice(ctx, tc, id)
}

// DeleteInvoice removes an invoice with its lines, returns the deleted
// header, and releases the unpaid remainder from the client's balance.
func (s *Service) DeleteInvoice(ctx context.Context, tc shared.TenantContext, id int64) (*Invoice, error) {
	var deleted *Invoice
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		if err := tx.DeleteInvoiceLines(ctx, id); err != nil {
			return err
		}
		var err error
		deleted, err = tx.DeleteInvoice(ctx, tc.CompanyID, id)
		if err != nil {
			return err
		}
		outstanding := calc.Round2(deleted.Total - deleted.AmountPaid)
		if outstanding != 0 {
			return tx.AdjustClientBalance(ctx, tc.CompanyID, deleted.ClientID, -outstanding)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// AssignTaxInvoiceNumber stamps an FBR sales tax invoice number on an
// invoice, drawing one from the STI sequence when none is supplied.
func (s *Service) AssignTaxInvoiceNumber(ctx context.Context, tc shared.TenantContext, id int64, req TaxInvoiceRequest) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, tc.CompanyID, id)
	if err != nil {
		return nil, err
	}

	number := ""
	if req.TaxInvoiceNumber != nil {
		number = strings.TrimSpace(*req.TaxInvoiceNumber)
	}

	err = s.repo.WithTx(ctx, func(tx Repository) error {
		if number == "" {
			year := inv.IssueDate.Year()
			seq, err := tx.NextSequence(ctx, tc.CompanyID, seqTaxInvoice, year)
			if err != nil {
				return err
			}
			number = fmt.Sprintf("STI-%d-%04d", year, seq)
		}
		return tx.UpdateInvoice(ctx, tc.CompanyID, id, map[string]interface{}{
			"tax_invoice_number": number,
		})
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, httpx.Conflict("DUPLICATE_NUMBER", "tax invoice number already in use")
		}
		return nil, err
	}
	return s.GetInvoice(ctx, tc, id)
}

// GetBundle returns the invoice print view: document, lines and both
// parties in one payload.
func (s *Service) GetBundle(ctx context.Context, tc shared.TenantContext, id int64) (*Bundle, error) {
	inv, err := s.GetInvoice(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.Get(ctx, tc.CompanyID, inv.ClientID)
	if err != nil && err != clients.ErrNotFound {
		return nil, err
	}
	company, err := s.companies.Get(ctx, tc.CompanyID)
	if err != nil {
		return nil, err
	}
	return &Bundle{Invoice: inv, Client: client, Company: company}, nil
}
