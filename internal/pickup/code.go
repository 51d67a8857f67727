// Package pickup generates the codes presented at fulfillment to close
// out an order, and renders them as QR images.
package pickup

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const codePrefix = "BREW"

// NewCode builds a pickup code for an order: a fixed prefix, the first
// segment of the order ID, and a base-36 timestamp suffix. The ID
// fragment is what makes the code resolve to a single order; the suffix
// keeps codes visually distinct across reprints.
func NewCode(orderID uuid.UUID) string {
	fragment := strings.SplitN(orderID.String(), "-", 2)[0]
	suffix := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	return fmt.Sprintf("%s-%s-%s", codePrefix, fragment, suffix)
}

// QRImage renders a pickup code as a PNG of the given size in pixels.
func QRImage(code string, size int) ([]byte, error) {
	png, err := qrcode.Encode(code, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pickup QR: %w", err)
	}
	return png, nil
}
