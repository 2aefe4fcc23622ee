// AngelaMos | 2026
// entity.go

package entry

import (
	"time"
)

const (
	CategoryTimeline       = "TIMELINE"
	CategoryAgreement      = "AGREEMENT"
	CategoryPaymentInvoice = "PAYMENT_INVOICE"
	CategoryHandover       = "HANDOVER"
	CategoryCertificate    = "CERTIFICATE"
)

var categories = map[string]struct{}{
	CategoryTimeline:       {},
	CategoryAgreement:      {},
	CategoryPaymentInvoice: {},
	CategoryHandover:       {},
	CategoryCertificate:    {},
}

// Entry is one uploaded file on a project. A batch upload of n files
// produces n entries sharing description and category.
type Entry struct {
	ID          string    `db:"id"`
	ProjectID   string    `db:"project_id"`
	Description string    `db:"description"`
	Category    string    `db:"category"`
	FileURL     string    `db:"file_url"`
	FileType    string    `db:"file_type"`
	CreatedAt   time.Time `db:"created_at"`
}

func ValidCategory(c string) bool {
	_, ok := categories[c]
	return ok
}
