// Package invoice renders an order snapshot as a PDF or an HTML email body.
package invoice

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/Vidhyalakshmi16/svm-mobiles/models"
	"github.com/go-pdf/fpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Line is one printed row: the unit price is the final price paid.
type Line struct {
	Position  int
	Name      string
	Quantity  int
	UnitPrice float64
}

// Lines returns one row per order item, in order. The unit price is the
// snapshot's FinalPrice as stored, so a fully discounted item prints 0.
func Lines(o *models.Order) []Line {
	lines := make([]Line, 0, len(o.Items))
	for i, it := range o.Items {
		lines = append(lines, Line{Position: i + 1, Name: it.Name, Quantity: it.Quantity, UnitPrice: it.FinalPrice})
	}
	return lines
}

type Renderer struct {
	StoreName string
	printer   *message.Printer
	html      *template.Template
}

func NewRenderer(storeName string) *Renderer {
	r := &Renderer{
		StoreName: storeName,
		printer:   message.NewPrinter(language.MustParse("en-IN")),
	}
	r.html = template.Must(template.New("invoice").Funcs(template.FuncMap{
		"amount": r.Amount,
		"fee":    r.fee,
	}).Parse(htmlTemplate))
	return r
}

// Amount formats a rupee value. The core PDF fonts have no rupee glyph.
func (r *Renderer) Amount(v float64) string {
	return r.printer.Sprintf("Rs. %.2f", v)
}

func (r *Renderer) fee(v float64) string {
	if v == 0 {
		return "Free"
	}
	return r.Amount(v)
}

// PDF writes the fixed-layout invoice. The total printed is the stored order
// total, never a recomputed sum.
func (r *Renderer) PDF(w io.Writer, o *models.Order) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+o.ID, true)
	pdf.SetCreator(r.StoreName, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, tr(r.StoreName), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 12)
	for _, row := range [][2]string{
		{"Order ID", o.ID},
		{"Status", string(o.Status)},
		{"Payment", o.PaymentMethod},
	} {
		pdf.CellFormat(0, 7, tr(row[0]+": "+row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Items", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	for _, l := range Lines(o) {
		text := fmt.Sprintf("%d. %s x %d - %s", l.Position, l.Name, l.Quantity, r.Amount(l.UnitPrice))
		pdf.MultiCell(0, 7, tr(text), "", "L", false)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Total Amount: "+r.Amount(o.Total), "", 1, "R", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render invoice: %w", err)
	}
	return pdf.Output(w)
}

// PDFBytes is PDF into memory.
func (r *Renderer) PDFBytes(o *models.Order) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.PDF(&buf, o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type htmlView struct {
	*models.Order
	Store string
	Ref   string
	Date  string
	Lines []Line
}

// HTML renders the email variant: shipping block plus itemized table.
func (r *Renderer) HTML(o *models.Order) (string, error) {
	view := htmlView{
		Order: o,
		Store: r.StoreName,
		Ref:   o.ShortRef(),
		Date:  o.CreatedAt.Format("02 Jan 2006, 03:04 PM"),
		Lines: Lines(o),
	}
	var buf bytes.Buffer
	if err := r.html.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render invoice html: %w", err)
	}
	return buf.String(), nil
}

const htmlTemplate = `<div style="font-family:Arial;">
  <h2>{{.Store}} - Invoice</h2>
  <p><strong>Order ID:</strong> #{{.Ref}}</p>
  <p><strong>Date:</strong> {{.Date}}</p>

  <h3>Shipping Details</h3>
  <p>
    {{.Customer.Name}}<br/>
    {{.Customer.Address}}<br/>
    {{.Customer.City}} - {{.Customer.Pincode}}<br/>
    Phone: {{.Customer.Phone}}
  </p>

  <table border="1" cellspacing="0" cellpadding="6" width="100%">
    <thead>
      <tr><th>#</th><th>Item</th><th>Qty</th><th>Price</th></tr>
    </thead>
    <tbody>
{{- range .Lines}}
      <tr class="item"><td>{{.Position}}</td><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{amount .UnitPrice}}</td></tr>
{{- end}}
    </tbody>
  </table>

  <p>Subtotal: {{amount .Subtotal}}</p>
  <p>Delivery: {{fee .DeliveryFee}}</p>
  <p>Platform Fee: {{fee .PlatformFee}}</p>
  <h3>Total: {{amount .Total}}</h3>

  <p>Payment Method: {{.PaymentMethod}}</p>
  <p>Thank you for shopping with us.</p>
</div>
`
